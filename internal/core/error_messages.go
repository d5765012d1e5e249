package core

// error_messages.go maps technical errors to user-facing messages.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Rule violations are data, not errors, and never pass through here; these codes
// cover the I/O around the engine.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	          Action: Split the sheet into smaller files
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - Invalid CSV: File is not a valid CSV
//	          Action: Ensure the file is comma-separated with a header row
//	          Patterns: "invalid csv"
//
//	FILE003 - Invalid header: Header row has blank or repeated column names
//	          Action: Give every column a unique name
//	          Patterns: "invalid header"
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a CSV, XLSX or JSON file
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Action: Please upload a sheet with a header row
//	          Patterns: "empty file"
//
//	FILE006 - Unsupported format: File type is not supported
//	          Action: Upload a .csv, .xlsx or .json file
//	          Patterns: "unsupported format"
//
//	FILE007 - Invalid workbook: File is not a readable XLSX workbook
//	          Action: Re-save the workbook from Excel as .xlsx
//	          Patterns: "invalid xlsx"
//
//	FILE008 - Invalid JSON: File is not a JSON array of objects
//	          Action: Export rows as a JSON array of objects
//	          Patterns: "invalid json"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - System busy: Too many validations in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent validations"
//
//	VAL002 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	VAL003 - Request timeout: Request timed out
//	         Action: Try a smaller file or check your connection
//	         Patterns: "context deadline exceeded"
//
// # Run and Profile Errors (RUN001, PRF001)
//
//	RUN001 - Run not found: The validation run has expired or does not exist
//	         Action: Upload the file again
//	         Patterns: "run not found"
//
//	PRF001 - Profile not found: The selected rule profile does not exist
//	         Action: Choose one of the listed profiles
//	         Patterns: "profile not found"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively using strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: more specific patterns come first.
var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the sheet into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the sheet into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with a header row",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid header",
		msg: UserMessage{
			Message: "Header row has blank or repeated column names",
			Action:  "Give every column a unique name",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV, XLSX or JSON file",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a sheet with a header row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "unsupported format",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Upload a .csv, .xlsx or .json file",
			Code:    "FILE006",
		},
	},
	{
		pattern: "invalid xlsx",
		msg: UserMessage{
			Message: "File is not a readable XLSX workbook",
			Action:  "Re-save the workbook from Excel as .xlsx",
			Code:    "FILE007",
		},
	},
	{
		pattern: "invalid json",
		msg: UserMessage{
			Message: "File is not a JSON array of objects",
			Action:  "Export rows as a JSON array of objects",
			Code:    "FILE008",
		},
	},

	// Validation processing
	{
		pattern: "too many concurrent validations",
		msg: UserMessage{
			Message: "Too many validations in progress",
			Action:  "Please wait a moment and try again",
			Code:    "VAL001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "VAL002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "VAL003",
		},
	},

	// Runs and profiles
	{
		pattern: "run not found",
		msg: UserMessage{
			Message: "The validation run has expired or does not exist",
			Action:  "Upload the file again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "profile not found",
		msg: UserMessage{
			Message: "The selected rule profile does not exist",
			Action:  "Choose one of the listed profiles",
			Code:    "PRF001",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// Returns an empty UserMessage for a nil error.
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

// FormatUserError returns a single-line user message including code and action.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific (non-default) message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError wraps err with its mapped user message. Returns nil for nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
