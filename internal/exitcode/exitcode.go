// Package exitcode defines exit codes for the CLI.
package exitcode

// Process exit codes.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, invalid config).
	UserError = 1

	// AuthError indicates an auth/backend setup error.
	AuthError = 2

	// BackendError indicates a failed round trip to the backend.
	BackendError = 3
)
