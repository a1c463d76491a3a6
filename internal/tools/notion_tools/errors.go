package notion_tools

import (
	"fmt"
)

// ErrorKind classifies a failed tool call.
type ErrorKind string

const (
	// KindConfiguration means a required setting is missing. No request was sent.
	KindConfiguration ErrorKind = "configuration"
	// KindInvalidArgument means a required argument is missing or has the wrong type.
	KindInvalidArgument ErrorKind = "invalid_argument"
	// KindExternal means the Notion API call failed.
	KindExternal ErrorKind = "external"
)

// ToolError is the structured error behind every failed tool call. It is
// rendered to text only when the MCP result is built.
type ToolError struct {
	Kind ErrorKind
	// Subject is what the tool creates, e.g. "calendar event".
	Subject string
	// Setting names the missing environment variable for configuration errors.
	Setting string
	// Argument names the offending argument for invalid argument errors.
	Argument string
	// Err is the underlying failure for external errors.
	Err error
}

func (e *ToolError) Error() string {
	switch e.Kind {
	case KindConfiguration:
		return fmt.Sprintf("%s environment variable is not set", e.Setting)
	case KindInvalidArgument:
		return fmt.Sprintf("%s is required", e.Argument)
	default:
		if e.Err == nil {
			return "unknown error"
		}
		return e.Err.Error()
	}
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Message renders the error as the text returned to the MCP caller.
func (e *ToolError) Message() string {
	if e.Kind == KindExternal {
		return fmt.Sprintf("❌ Failed to create %s: %s", e.Subject, e.Error())
	}
	return "Error: " + e.Error()
}

func configurationError(subject, setting string) *ToolError {
	return &ToolError{Kind: KindConfiguration, Subject: subject, Setting: setting}
}

func invalidArgumentError(subject, argument string) *ToolError {
	return &ToolError{Kind: KindInvalidArgument, Subject: subject, Argument: argument}
}

func externalError(subject string, err error) *ToolError {
	return &ToolError{Kind: KindExternal, Subject: subject, Err: err}
}
