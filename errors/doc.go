// Package errors provides structured error types for npdmgen.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, violated constraint, offending
// value and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseValidate, errors.KindOutOfRange).
//		Path("kernel_capabilities", "[2]", "value", "size").
//		Want("0x0..0xfffff").
//		Value(size).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FieldMissing(errors.PhaseValidate, path)
//	err := errors.TooManyEntries(errors.PhaseValidate, path, 33, 32)
//
// All errors implement the standard error interface and support errors.Is/As.
// The exported Err* values match any error of their Kind regardless of Phase:
//
//	if errors.Is(err, errors.ErrTooManyEntries) { ... }
package errors
