package npdm

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/wippyai/npdmgen/errors"
)

// fieldPath addresses a field in the input by key and list index.
type fieldPath []string

func (p fieldPath) key(k string) fieldPath {
	return append(p[:len(p):len(p)], k)
}

func (p fieldPath) index(i int) fieldPath {
	return append(p[:len(p):len(p)], errors.Index(i))
}

// validator reads Config fields and checks their constraints. The first
// failure is kept and every later read returns a zero value, so a caller can
// read a whole section and check err once.
type validator struct {
	err error
}

func (v *validator) failed() bool {
	return v.err != nil
}

func (v *validator) fail(err *errors.Error) {
	if v.err == nil {
		v.err = err
	}
}

// number resolves x. Negative values and values too wide for 64 bits are
// reported against [lo, hi] like any other out of range value.
func (v *validator) number(p fieldPath, x Int, lo, hi uint64) (uint64, bool) {
	n, err := x.resolve()
	if err == nil {
		return n, true
	}
	if neg, ok := err.(errNegative); ok {
		v.fail(errors.Constraint(errors.PhaseValidate, p, int64(neg), fmt.Sprintf("%#x..%#x", lo, hi)))
		return 0, false
	}
	if stderrors.Is(err, strconv.ErrRange) {
		v.fail(errors.Constraint(errors.PhaseValidate, p, x.text, fmt.Sprintf("%#x..%#x", lo, hi)))
		return 0, false
	}
	e := errors.TypeMismatch(errors.PhaseValidate, p, "integer or hexadecimal string", strconv.Quote(x.text))
	e.Value = x.text
	e.Cause = err
	v.fail(e)
	return 0, false
}

// uint reads a required integer in [lo, hi].
func (v *validator) uint(p fieldPath, x Int, lo, hi uint64) uint64 {
	if v.failed() {
		return 0
	}
	if !x.IsSet() {
		v.fail(errors.FieldMissing(errors.PhaseValidate, p))
		return 0
	}
	n, ok := v.number(p, x, lo, hi)
	if !ok {
		return 0
	}
	if n < lo || n > hi {
		v.fail(errors.OutOfRange(errors.PhaseValidate, p, n, lo, hi))
		return 0
	}
	return n
}

// uintOr reads an optional integer in [lo, hi], returning def when unset.
func (v *validator) uintOr(p fieldPath, x Int, lo, hi, def uint64) uint64 {
	if !x.IsSet() {
		return def
	}
	return v.uint(p, x, lo, hi)
}

func (v *validator) u8(p fieldPath, x Int) uint8 {
	return uint8(v.uint(p, x, 0, 0xFF))
}

func (v *validator) u16(p fieldPath, x Int) uint16 {
	return uint16(v.uint(p, x, 0, 0xFFFF))
}

func (v *validator) u32(p fieldPath, x Int) uint32 {
	return uint32(v.uint(p, x, 0, 0xFFFFFFFF))
}

func (v *validator) u32Or(p fieldPath, x Int, def uint32) uint32 {
	return uint32(v.uintOr(p, x, 0, 0xFFFFFFFF, uint64(def)))
}

func (v *validator) u64(p fieldPath, x Int) uint64 {
	return v.uint(p, x, 0, ^uint64(0))
}

// field reads a required integer that must fit a capability bit field.
func (v *validator) field(p fieldPath, x Int, f bitField) uint64 {
	return v.uint(p, x, 0, f.max())
}

// flag reads a required boolean.
func (v *validator) flag(p fieldPath, b Bool) bool {
	if v.failed() {
		return false
	}
	if !b.IsSet() {
		v.fail(errors.FieldMissing(errors.PhaseValidate, p))
		return false
	}
	return b.value
}

// flagOr reads an optional boolean.
func (v *validator) flagOr(p fieldPath, b Bool, def bool) bool {
	if !b.IsSet() {
		return def
	}
	return b.value
}

// ascii reads a required string of printable ASCII no longer than maxLen.
func (v *validator) ascii(p fieldPath, t Text, maxLen int) string {
	if v.failed() {
		return ""
	}
	if !t.IsSet() {
		v.fail(errors.FieldMissing(errors.PhaseValidate, p))
		return ""
	}
	if len(t.value) > maxLen {
		v.fail(errors.Constraint(errors.PhaseValidate, p, strconv.Quote(t.value),
			fmt.Sprintf("at most %d characters", maxLen)))
		return ""
	}
	if !isASCII(t.value) {
		v.fail(errors.Constraint(errors.PhaseValidate, p, strconv.Quote(t.value), "ASCII text"))
		return ""
	}
	return t.value
}

// entries checks a list length against max.
func (v *validator) entries(p fieldPath, n, max int) bool {
	if v.failed() {
		return false
	}
	if n > max {
		v.fail(errors.TooManyEntries(errors.PhaseValidate, p, n, max))
		return false
	}
	return true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}
