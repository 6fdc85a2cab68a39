package cmd

// Exit codes beyond plain failure. CodeUsage follows the BSD sysexits
// convention for command line misuse.
const (
	CodeUsage = 64
)

// ExitError tells main which process exit code a command chose. An empty
// Message means everything worth printing has been printed already.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "assertions failed"
}
