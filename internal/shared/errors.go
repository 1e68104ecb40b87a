package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrFileNotFound       = fmt.Errorf("file not found")

	// Upload validation errors
	ErrInvalidFileType = fmt.Errorf("unsupported file type")
	ErrFileTooLarge    = fmt.Errorf("file exceeds size limit")
	ErrInvalidFilename = fmt.Errorf("invalid filename")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// Realtime channel errors
	ErrNotConnected    = fmt.Errorf("channel not connected")
	ErrChannelClosed   = fmt.Errorf("channel closed")
	ErrReconnectFailed = fmt.Errorf("reconnection attempts exhausted")

	// Session errors
	ErrNoDocument    = fmt.Errorf("no document open")
	ErrRowOutOfRange = fmt.Errorf("row index out of range")
)
