package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseValidate,
				Kind:   KindOutOfRange,
				Path:   []string{"kernel_capabilities", "[3]", "value", "size"},
				Want:   "0x0..0xfffff",
				Detail: "value 0x100000",
			},
			contains: []string{"[validate]", "out_of_range", "kernel_capabilities[3].value.size", "want 0x0..0xfffff", "value 0x100000"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseEncode,
				Kind:  KindInvalidData,
			},
			contains: []string{"[encode]", "invalid_data"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Detail: "read input",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "invalid_data", "read input", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseValidate,
		Kind:  KindTooManyEntries,
		Path:  []string{"kernel_capabilities"},
	}

	if !err.Is(&Error{Phase: PhaseValidate, Kind: KindTooManyEntries}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindTooManyEntries}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseValidate, Kind: KindOutOfRange}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrTooManyEntries) {
		t.Error("errors.Is should match phase-less sentinel")
	}
	if errors.Is(err, ErrOutOfRange) {
		t.Error("errors.Is should not match sentinel of another kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseValidate, KindOutOfRange).
		Path("main_thread_priority").
		Want("0x0..0x3f").
		Value(uint64(64)).
		Cause(cause).
		Detail("got %#x", 64).
		Build()

	if err.Phase != PhaseValidate {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseValidate)
	}
	if err.Kind != KindOutOfRange {
		t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfRange)
	}
	if len(err.Path) != 1 || err.Path[0] != "main_thread_priority" {
		t.Errorf("Path = %v, want [main_thread_priority]", err.Path)
	}
	if err.Want != "0x0..0x3f" {
		t.Errorf("Want = %v, want '0x0..0x3f'", err.Want)
	}
	if err.Value != uint64(64) {
		t.Errorf("Value = %v, want 64", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "got 0x40" {
		t.Errorf("Detail = %v, want 'got 0x40'", err.Detail)
	}
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"name"}, "name"},
		{[]string{"filesystem_access", "permissions"}, "filesystem_access.permissions"},
		{[]string{"service_host", Index(2)}, "service_host[2]"},
		{[]string{"kernel_capabilities", Index(0), "value", Index(1)}, "kernel_capabilities[0].value[1]"},
	}
	for _, tt := range tests {
		if got := FormatPath(tt.path); got != tt.want {
			t.Errorf("FormatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestConvenienceConstructors(t *testing.T) {
	path := []string{"kernel_capabilities", "[0]"}

	tests := []struct {
		name string
		err  *Error
		kind Kind
		msg  string
	}{
		{"missing", FieldMissing(PhaseValidate, []string{"filesystem_access", "permissions"}), KindFieldMissing, `"permissions"`},
		{"mismatch", TypeMismatch(PhaseDecode, path, "mapping", "sequence"), KindTypeMismatch, "want mapping"},
		{"range", OutOfRange(PhaseValidate, path, 0x40, 0, 0x3f), KindOutOfRange, "0x0..0x3f"},
		{"constraint", Constraint(PhaseValidate, path, 9, "length 1..8"), KindOutOfRange, "length 1..8"},
		{"too many", TooManyEntries(PhaseValidate, path, 33, 32), KindTooManyEntries, "33 entries (max 32)"},
		{"exclusive", MutuallyExclusive(PhaseValidate, path, "allow_debug", "force_debug"), KindMutuallyExclusive, "allow_debug, force_debug"},
		{"unknown", UnknownVariant(PhaseDecode, path, "kernel capability type", "bogus"), KindUnknownVariant, `"bogus"`},
		{"duplicate", Duplicate(PhaseValidate, path, 0x23), KindDuplicate, "duplicate value 35"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.msg) {
				t.Errorf("message %q does not contain %q", tt.err.Error(), tt.msg)
			}
		})
	}
}
