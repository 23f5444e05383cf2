package cli

// CommandError signals a command failure with a specific exit code.
// Commands return it after printing their own diagnostics; main turns it
// into the process exit status.
type CommandError struct {
	exitCode int
}

func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	return "command failed"
}

func (e *CommandError) ExitCode() int {
	return e.exitCode
}
