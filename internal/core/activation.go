package core

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

var errFound = errors.New("found")

// skipDirs are never descended into by recursive activation patterns.
var skipDirs = map[string]bool{".git": true, "node_modules": true}

// IsActive reports whether a rule group applies to cwd. "*" always applies.
// Any other pattern is a case-sensitive glob matched against the entries of
// cwd, dotfiles included; patterns containing "/" or "**" match relative
// paths of the whole tree. Errors resolve to false.
func IsActive(pattern, cwd string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return false
	}

	if !strings.Contains(pattern, "/") && !strings.Contains(pattern, "**") {
		entries, err := os.ReadDir(cwd)
		if err != nil {
			return false
		}
		for _, e := range entries {
			if g.Match(e.Name()) {
				return true
			}
		}
		return false
	}

	root, err := filepath.Abs(cwd)
	if err != nil {
		return false
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return false
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if path == root {
			return nil
		}
		if d.IsDir() && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if g.Match(filepath.ToSlash(rel)) {
			return errFound
		}
		return nil
	})
	return errors.Is(err, errFound)
}
