// Package cmd provides CLI command implementations.
package cmd

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitLoadFailed indicates one or more modules failed to load.
	ExitLoadFailed = 2

	// ExitVetFailed indicates the manifest did not pass vetting.
	ExitVetFailed = 3
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitLoadFailed:
		return "Load Failed"
	case ExitVetFailed:
		return "Vet Failed"
	default:
		return "Unknown"
	}
}
