// Package exitcode provides standardized exit codes for tklport
package exitcode

// Exit codes for the tklport CLI
const (
	Success          = 0
	GeneralError     = 1
	ConfigError      = 2
	ValidationError  = 3 // duplicate symbol, malformed snapshot
	FileSystemError  = 4 // adapter or scaffold write failure
	Canceled         = 5
	PlatformNotFound = 10
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
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case Canceled:
		return "Canceled"
	case PlatformNotFound:
		return "Platform not found"
	default:
		return "Unknown error"
	}
}

// Worst returns the code that should win when several failures occurred.
// Filesystem failures outrank validation failures, which outrank a missing
// platform; any unknown non-zero code is treated as a general error.
func Worst(codes ...int) int {
	rank := map[int]int{
		Success:          0,
		PlatformNotFound: 1,
		ValidationError:  2,
		FileSystemError:  3,
		ConfigError:      4,
		Canceled:         5,
		GeneralError:     6,
	}
	worst := Success
	for _, c := range codes {
		if _, ok := rank[c]; !ok {
			c = GeneralError
		}
		if rank[c] > rank[worst] {
			worst = c
		}
	}
	return worst
}
