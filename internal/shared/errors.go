package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Transport errors, classified by where the failure occurred
	ErrServerError  = fmt.Errorf("server returned an error response")
	ErrNoResponse   = fmt.Errorf("no response from server")
	ErrRequestSetup = fmt.Errorf("request could not be constructed")

	// Session errors
	ErrSessionTerminal    = fmt.Errorf("session already in a terminal state")
	ErrStaleUpdate        = fmt.Errorf("stale progress update rejected")
	ErrResultNotFound     = fmt.Errorf("research result not found")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrEmptyTopic      = fmt.Errorf("topic is required")
	ErrInvalidDepth    = fmt.Errorf("invalid research depth")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
