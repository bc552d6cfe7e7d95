package core

// error_messages.go maps technical errors to user-facing messages with codes
// that users can quote to support.
//
// # Storage Errors (IO001-IO099)
//
//	IO001 - Storage unavailable: The destination could not be read or written
//	        Action: Check that the data directory exists and is writable
//	        Matches: entity.ErrIO
//
//	IO002 - Nothing saved: No data has been saved in this format yet
//	        Action: Save some entities first
//	        Matches: fs.ErrNotExist
//
// # Data Errors (PARSE001-PARSE099)
//
//	PARSE001 - Unreadable data: Stored data could not be decoded
//	           Action: Save the entities again to rewrite the file
//	           Matches: entity.ErrParse
//
// # Request Errors (FMT, BUSY, REQ)
//
//	FMT001  - Unknown format: No handler is registered for this format
//	BUSY001 - Store busy: Another operation on this format is running
//	REQ001  - Request cancelled
//	REQ002  - Request timed out
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB002 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application logs for the original
// technical error.
//
// Typed errors are matched first with errors.Is, in table order. Remaining
// errors are matched case-insensitively against the pattern table.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/JonMunkholm/entities/internal/entity"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorTarget struct {
	target error
	msg    UserMessage
}

// errorTargets is checked before errorPatterns. Order matters: a missing file
// is also an I/O error, so IO002 precedes IO001.
var errorTargets = []errorTarget{
	{
		target: ErrUnknownFormat,
		msg: UserMessage{
			Message: "No handler is registered for this format",
			Action:  "Use one of the formats listed by /api/formats",
			Code:    "FMT001",
		},
	},
	{
		target: fs.ErrNotExist,
		msg: UserMessage{
			Message: "No data has been saved in this format yet",
			Action:  "Save some entities first",
			Code:    "IO002",
		},
	},
	{
		target: entity.ErrParse,
		msg: UserMessage{
			Message: "Stored data could not be decoded",
			Action:  "Save the entities again to rewrite the file",
			Code:    "PARSE001",
		},
	},
	{
		target: ErrBusy,
		msg: UserMessage{
			Message: "Another operation on this format is running",
			Action:  "Please wait a moment and try again",
			Code:    "BUSY001",
		},
	},
	{
		target: context.Canceled,
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		target: context.DeadlineExceeded,
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		target: entity.ErrIO,
		msg: UserMessage{
			Message: "The destination could not be read or written",
			Action:  "Check that the data directory exists and is writable",
			Code:    "IO001",
		},
	},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	msg := MapError(err)
//	// msg.Code == "IO002" when the file has never been written
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, et := range errorTargets {
		if errors.Is(err, et.target) {
			return et.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
