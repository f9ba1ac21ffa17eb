package core

import (
	"fmt"
	"strings"
)

// errors.go maps technical errors to user-friendly messages with stable
// codes for support reference. Patterns are matched case-insensitively
// with strings.Contains; the first match wins, so specific patterns come
// before general ones.

// UserMessage provides user-friendly error information with actionable
// guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "unknown uploader",
		msg: UserMessage{
			Message: "Unknown uploader",
			Action:  "Pick an uploader from the list of registered uploaders",
			Code:    "UPL001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "This file type is not supported by the selected uploader",
			Action:  "Upload a .csv or .xlsx file accepted by this uploader",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no header row",
		msg: UserMessage{
			Message: "The file has no header row",
			Action:  "Ensure the first row contains the column names",
			Code:    "FILE003",
		},
	},
	{
		pattern: "failed to parse",
		msg: UserMessage{
			Message: "The file could not be read in the declared format",
			Action:  "Re-export the file as CSV or Excel and try again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "missing file data",
		msg: UserMessage{
			Message: "No file was provided",
			Action:  "Select a file before uploading",
			Code:    "FILE004",
		},
	},
	{
		pattern: "request timed out",
		msg: UserMessage{
			Message: "The data platform did not respond in time",
			Action:  "Retry the upload; the webhook may be slow right now",
			Code:    "WH001",
		},
	},
	{
		pattern: "webhook returned",
		msg: UserMessage{
			Message: "The data platform rejected the upload",
			Action:  "Retry later or contact the data platform team",
			Code:    "WH002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ002",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message,
// falling back to a generic ERR000 message when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a display string: "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
