package router

import (
	"fmt"
	"strings"
)

// =============================================================================
// Compile Errors
// =============================================================================

// ErrorKind categorizes compile errors. It implements error so callers can
// test an *Error with errors.Is(err, router.DuplicateRole).
type ErrorKind string

func (k ErrorKind) Error() string { return string(k) }

// Grammar errors.
const (
	// UnbalancedBrackets: "[id" or "id]".
	UnbalancedBrackets ErrorKind = "UNBALANCED_BRACKETS"

	// UnseparatedParams: "[a][b]" has no literal between the parameters.
	UnseparatedParams ErrorKind = "UNSEPARATED_PARAMS"

	// InvalidParamName: parameter or matcher name outside [A-Za-z0-9_$].
	InvalidParamName ErrorKind = "INVALID_PARAM_NAME"

	// InvalidEscapeSequence: "[x+2]", "[x+2F]", "[u+12]" and similar.
	InvalidEscapeSequence ErrorKind = "INVALID_ESCAPE_SEQUENCE"

	// ReservedCharacter: an unescaped "#" in a segment.
	ReservedCharacter ErrorKind = "RESERVED_CHARACTER"

	// InvalidRestPlacement: a rest parameter sharing its segment with other
	// parts, a second rest parameter in one route, or an optional segment
	// following a rest segment.
	InvalidRestPlacement ErrorKind = "INVALID_REST_PLACEMENT"
)

// Structural errors.
const (
	// ReservedFile: a "+" file with a known extension but no known role.
	ReservedFile ErrorKind = "RESERVED_FILE"

	// ReservedName: a "__" entry that is not one of the special names.
	ReservedName ErrorKind = "RESERVED_NAME"

	// DuplicateRole: two files in one directory claim the same role.
	DuplicateRole ErrorKind = "DUPLICATE_ROLE"

	// UnresolvedLayoutReference: "@name" does not name an ancestor directory.
	UnresolvedLayoutReference ErrorKind = "UNRESOLVED_LAYOUT_REFERENCE"

	// InvalidMatcher: a matcher file with an unusable name, or two files
	// defining the same matcher.
	InvalidMatcher ErrorKind = "INVALID_MATCHER"

	// Filesystem: a directory could not be read.
	Filesystem ErrorKind = "FILESYSTEM"

	// NoRoutes: the routes directory declares no page or endpoint.
	NoRoutes ErrorKind = "NO_ROUTES"
)

// Global errors.
const (
	// ConflictingRoutes: two routes can match the same path.
	ConflictingRoutes ErrorKind = "CONFLICTING_ROUTES"

	// UnknownMatcher: a parameter references a matcher that does not exist.
	UnknownMatcher ErrorKind = "UNKNOWN_MATCHER"
)

// Error is a route compile error. Every error names the file or route id it
// was raised for; conflicts name both routes.
type Error struct {
	// Kind is the error category
	Kind ErrorKind

	// Message is the human-readable error message
	Message string

	// Files are the source files or directories involved
	Files []string

	// RouteID is the route the error was raised for
	RouteID string

	// OtherRouteID is the competing route for ConflictingRoutes
	OtherRouteID string

	// Details contains additional error-specific information
	Details string

	// Suggestion is an optional "did you mean" hint
	Suggestion string

	// Err is the underlying filesystem error, if any
	Err error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Details != "" {
		fmt.Fprintf(&sb, " (%s)", e.Details)
	}
	return sb.String()
}

// Unwrap returns both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) withFiles(files ...string) *Error {
	e.Files = append(e.Files, files...)
	return e
}

func (e *Error) withRoute(id string) *Error {
	e.RouteID = id
	return e
}

func (e *Error) withDetails(format string, args ...any) *Error {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

func (e *Error) withSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}
