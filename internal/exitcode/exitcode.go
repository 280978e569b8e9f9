// Package exitcode defines the process exit codes of taskboard.
package exitcode

const (
	Success = 0

	// UserError covers bad arguments, invalid flags and unknown users.
	UserError = 1

	// AuthError covers a missing or ended session and unusable config.
	AuthError = 2

	// BackendError covers failed requests, whatever the server said.
	BackendError = 3

	// Interrupted is returned after SIGINT or SIGTERM, following the
	// shell's 128+signal convention for SIGINT.
	Interrupted = 130
)
