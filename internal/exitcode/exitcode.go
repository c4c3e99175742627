// Package exitcode defines the process exit codes of showmetasks.
package exitcode

const (
	Success = 0

	// UserError covers bad arguments, unknown lists or tasks, ambiguous
	// names and requests the API rejected with 400 or 404.
	UserError = 1

	// AuthError covers a missing or expired token and 401/403 responses.
	AuthError = 2

	// BackendError covers transport failures and any other API error.
	BackendError = 3
)
