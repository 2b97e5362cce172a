package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/vango-dev/routekit/pkg/router"
)

// Category represents the type of error.
type Category string

const (
	CategoryRoutes Category = "routes"
	CategoryConfig Category = "config"
	CategoryBuild  Category = "build"
	CategoryDev    Category = "dev"
	CategoryCLI    Category = "cli"
)

// Location is a file, and optionally a line, an error points at.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	switch {
	case l.Line == 0:
		return l.File
	case l.Column > 0:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	default:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
}

// Error is a structured error with a code, the files involved and a hint.
type Error struct {
	// Code is a unique error identifier (e.g., "E212").
	Code string

	// Category is the error type (routes, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the primary file the error is about.
	Location *Location

	// Related lists other files involved, such as the second file of a
	// duplicate pair.
	Related []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithLocation sets the file the error points at.
func (e *Error) WithLocation(file string) *Error {
	e.Location = &Location{File: file}
	return e
}

// WithRelated adds other files involved in the error.
func (e *Error) WithRelated(files ...string) *Error {
	e.Related = append(e.Related, files...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// WithMessage replaces the registered message.
func (e *Error) WithMessage(m string) *Error {
	e.Message = m
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error. Route compile errors get
// their own code; anything else gets code.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	if ce := FromCompile(err); ce != nil {
		return ce
	}
	return New(code).Wrap(err)
}

// FromCompile converts a route compile error. It returns nil if err is not
// one.
func FromCompile(err error) *Error {
	var rerr *router.Error
	if !stderrors.As(err, &rerr) {
		return nil
	}

	code, ok := kindCodes[rerr.Kind]
	if !ok {
		code = "E299"
	}
	e := New(code).Wrap(err)
	if rerr.Message != "" {
		e.Message = rerr.Message
	}
	if rerr.Details != "" {
		e.Detail = rerr.Details
	}
	if len(rerr.Files) > 0 {
		e.WithLocation(rerr.Files[0]).WithRelated(rerr.Files[1:]...)
	}
	if rerr.Suggestion != "" {
		e.Suggestion = fmt.Sprintf("Did you mean %q?", rerr.Suggestion)
	}
	return e
}

// Code returns the registered code of err, or "" if it has none.
func Code(err error) string {
	if e := FromError(err, ""); e != nil {
		return e.Code
	}
	return ""
}
