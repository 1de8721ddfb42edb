package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // input text to Config
	PhaseValidate Phase = "validate" // field constraints
	PhaseEncode   Phase = "encode"   // capability and service packing
	PhaseLoad     Phase = "load"     // reading input files
	PhaseWrite    Phase = "write"    // writing the descriptor
)

// Kind categorizes the error
type Kind string

const (
	KindFieldMissing      Kind = "field_missing"
	KindTypeMismatch      Kind = "type_mismatch"
	KindOutOfRange        Kind = "out_of_range"
	KindTooManyEntries    Kind = "too_many_entries"
	KindMutuallyExclusive Kind = "mutually_exclusive"
	KindUnknownVariant    Kind = "unknown_variant"
	KindDuplicate         Kind = "duplicate"
	KindInvalidData       Kind = "invalid_data"
	KindInvalidInput      Kind = "invalid_input"
)

// Sentinel targets for errors.Is. They carry no Phase, so they match an
// error of the same Kind raised in any phase.
var (
	ErrFieldMissing      = &Error{Kind: KindFieldMissing}
	ErrTypeMismatch      = &Error{Kind: KindTypeMismatch}
	ErrOutOfRange        = &Error{Kind: KindOutOfRange}
	ErrTooManyEntries    = &Error{Kind: KindTooManyEntries}
	ErrMutuallyExclusive = &Error{Kind: KindMutuallyExclusive}
	ErrUnknownVariant    = &Error{Kind: KindUnknownVariant}
	ErrDuplicate         = &Error{Kind: KindDuplicate}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Want   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(FormatPath(e.Path))
	}

	if e.Want != "" {
		b.WriteString(": want ")
		b.WriteString(e.Want)
	}

	if e.Detail != "" {
		if e.Want != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. An empty Phase on the
// target matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// FormatPath joins path segments into a dotted path. Segments that start
// with '[' are list indices and attach to the previous segment.
func FormatPath(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// Index formats a list index as a path segment.
func Index(i int) string {
	return fmt.Sprintf("[%d]", i)
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Want sets the constraint the value failed to satisfy
func (b *Builder) Want(constraint string) *Builder {
	b.err.Want = constraint
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string) *Error {
	name := ""
	if len(path) > 0 {
		name = path[len(path)-1]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", name),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Want:   want,
		Detail: fmt.Sprintf("got %s", got),
	}
}

// OutOfRange creates an error for a value outside [lo, hi]
func OutOfRange(phase Phase, path []string, value, lo, hi uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Path:   path,
		Want:   fmt.Sprintf("%#x..%#x", lo, hi),
		Detail: fmt.Sprintf("value %#x", value),
		Value:  value,
	}
}

// Constraint creates an out of range error with a free-form constraint,
// used for lengths, counts and alignment
func Constraint(phase Phase, path []string, value any, constraint string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Path:   path,
		Want:   constraint,
		Detail: fmt.Sprintf("value %v", value),
		Value:  value,
	}
}

// TooManyEntries creates an error for a list longer than max
func TooManyEntries(phase Phase, path []string, count, max int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTooManyEntries,
		Path:   path,
		Detail: fmt.Sprintf("%d entries (max %d)", count, max),
		Value:  count,
	}
}

// MutuallyExclusive creates an error for flags that cannot be combined
func MutuallyExclusive(phase Phase, path []string, flags ...string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMutuallyExclusive,
		Path:   path,
		Detail: fmt.Sprintf("only one of %s can be set", strings.Join(flags, ", ")),
	}
}

// UnknownVariant creates an error for an unrecognised discriminator
func UnknownVariant(phase Phase, path []string, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownVariant,
		Path:   path,
		Detail: fmt.Sprintf("unknown %s %q", what, name),
		Value:  name,
	}
}

// Duplicate creates an error for a repeated value
func Duplicate(phase Phase, path []string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Path:   path,
		Detail: fmt.Sprintf("duplicate value %v", value),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates an input loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
