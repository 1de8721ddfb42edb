package npdm

import (
	"fmt"
	"strconv"
	"strings"
)

type intKind uint8

const (
	intUnset intKind = iota
	intNumber
	intNegative
	intHex
	intDecimal
)

// Int is an integer field as it was supplied: a native number or
// hexadecimal text. Range checks happen when the field is read during
// Build, so an Int carries no bounds of its own. The zero value means the
// field was not supplied.
type Int struct {
	text string
	num  uint64
	neg  int64
	kind intKind
}

// Num returns an Int holding a native number.
func Num(v uint64) Int {
	return Int{kind: intNumber, num: v}
}

// Signed returns an Int holding a native signed number. Negative values are
// kept so that the range check can report them.
func Signed(v int64) Int {
	if v >= 0 {
		return Num(uint64(v))
	}
	return Int{kind: intNegative, neg: v}
}

// Hex returns an Int holding hexadecimal text, with or without a 0x prefix.
func Hex(s string) Int {
	return Int{kind: intHex, text: s}
}

// Decimal returns an Int holding decimal digits as written. Decoders use it
// for numbers too wide for a native integer so range checks can report them.
func Decimal(s string) Int {
	return Int{kind: intDecimal, text: s}
}

// IsSet reports whether the field was supplied.
func (v Int) IsSet() bool {
	return v.kind != intUnset
}

func (v Int) String() string {
	switch v.kind {
	case intNumber:
		return strconv.FormatUint(v.num, 10)
	case intNegative:
		return strconv.FormatInt(v.neg, 10)
	case intHex:
		return strconv.Quote(v.text)
	case intDecimal:
		return v.text
	default:
		return "<unset>"
	}
}

// errNegative marks a negative native number; it is always out of range.
type errNegative int64

func (e errNegative) Error() string {
	return fmt.Sprintf("negative value %d", int64(e))
}

// resolve converts the Int to an unsigned value without applying bounds.
func (v Int) resolve() (uint64, error) {
	switch v.kind {
	case intNumber:
		return v.num, nil
	case intNegative:
		return 0, errNegative(v.neg)
	case intHex:
		s := strings.TrimSpace(v.text)
		if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
			s = s[2:]
		}
		n, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return 0, err
		}
		return n, nil
	case intDecimal:
		if strings.HasPrefix(v.text, "-") {
			return 0, &strconv.NumError{Func: "ParseUint", Num: v.text, Err: strconv.ErrRange}
		}
		return strconv.ParseUint(v.text, 10, 64)
	default:
		return 0, fmt.Errorf("unset")
	}
}

// Bool is a boolean field that remembers whether it was supplied.
type Bool struct {
	value bool
	set   bool
}

// BoolOf returns a supplied Bool.
func BoolOf(v bool) Bool {
	return Bool{value: v, set: true}
}

var (
	True  = BoolOf(true)
	False = BoolOf(false)
)

// IsSet reports whether the field was supplied.
func (b Bool) IsSet() bool {
	return b.set
}

// Text is a string field that remembers whether it was supplied.
type Text struct {
	value string
	set   bool
}

// TextOf returns a supplied Text.
func TextOf(s string) Text {
	return Text{value: s, set: true}
}

// IsSet reports whether the field was supplied.
func (t Text) IsSet() bool {
	return t.set
}
