//go:build windows

package core

import "os/exec"

// configureProcessGroup keeps exec's default cancel, which kills only the
// direct child on Windows.
func configureProcessGroup(_ *exec.Cmd) {}
