// Package exitcode provides standardized exit codes for lockaudit
package exitcode

// Exit codes for the lockaudit CLI. The audit contract is coarse: anything
// that prevents a positive verdict (usage error, unreadable manifest,
// unrecognized repository, failed policy) exits non-zero.
const (
	Success      = 0
	GeneralError = 1
	ConfigError  = 2
	NetworkError = 3
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case NetworkError:
		return "Network error"
	default:
		return "Unknown error"
	}
}
