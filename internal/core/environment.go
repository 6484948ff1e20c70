package core

// CommandEnv returns the environment variables added for automation commands
// on top of the process environment.
func CommandEnv(ec *EvaluationContext) []string {
	env := []string{
		"RAILGUARD_EVENT=" + string(ec.Event),
		"RAILGUARD_TOOL=" + ec.ToolName,
		"RAILGUARD_FILE=" + ec.FilePath(),
		"RAILGUARD_CWD=" + ec.Cwd,
		"RAILGUARD_EVALUATION_ID=" + ec.ID,
	}
	if ec.SessionID != "" {
		env = append(env, "RAILGUARD_SESSION_ID="+ec.SessionID)
	}
	return env
}
