// Package types defines runtime value types for fawk.
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind represents the type of a runtime value.
type Kind uint8

const (
	KindUndefined Kind = iota // Uninitialized value
	KindNum                   // Numeric value
	KindStr                   // String value
	KindNumStr                // Numeric string (from input)
	KindArray                 // Associative array
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNum:
		return "num"
	case KindStr:
		return "str"
	case KindNumStr:
		return "numstr"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value represents a runtime value: a scalar (number, string, numeric
// string, or undefined) or an associative array. Scalars are passed by
// value; arrays share their underlying map, so copies of an array value
// alias the same storage.
type Value struct {
	kind Kind
	num  float64
	str  string
	arr  map[string]Value
}

// Undefined returns an uninitialized value.
func Undefined() Value {
	return Value{kind: KindUndefined}
}

// Num creates a numeric value.
func Num(n float64) Value {
	return Value{kind: KindNum, num: n}
}

// Str creates a string value.
func Str(s string) Value {
	return Value{kind: KindStr, str: s}
}

// NumStr creates a numeric string value. Input fields and values from
// the host environment get this kind: they compare numerically when the
// text looks like a number, and as strings otherwise. Numeric parsing is
// lazy, computed on first AsNum call.
func NumStr(s string) Value {
	return Value{kind: KindNumStr, str: s}
}

// Bool creates a numeric value from a boolean (1 for true, 0 for false).
func Bool(b bool) Value {
	if b {
		return Num(1)
	}
	return Num(0)
}

// NewArray creates an empty array value.
func NewArray() Value {
	return Value{kind: KindArray, arr: make(map[string]Value)}
}

// Kind returns the value's type.
func (v Value) Kind() Kind {
	return v.kind
}

// IsUndefined returns true if the value is uninitialized.
func (v Value) IsUndefined() bool {
	return v.kind == KindUndefined
}

// IsNum returns true if the value is a pure number.
func (v Value) IsNum() bool {
	return v.kind == KindNum
}

// IsStr returns true if the value is a pure string.
func (v Value) IsStr() bool {
	return v.kind == KindStr
}

// IsNumStr returns true if the value is a numeric string.
func (v Value) IsNumStr() bool {
	return v.kind == KindNumStr
}

// IsArray returns true if the value is an array.
func (v Value) IsArray() bool {
	return v.kind == KindArray
}

// AsNum returns the numeric representation of the value.
// Strings parse their longest numeric prefix ("3abc" is 3); arrays and
// undefined values are 0.
func (v Value) AsNum() float64 {
	switch v.kind {
	case KindNum:
		return v.num
	case KindNumStr, KindStr:
		return ParseNumPrefix(v.str)
	default:
		return 0
	}
}

// AsStr returns the string representation using the given format for
// non-integral numbers. Integral numbers render without a decimal point.
func (v Value) AsStr(format string) string {
	switch v.kind {
	case KindNum:
		return FormatNum(v.num, format)
	case KindArray:
		return ""
	default:
		return v.str
	}
}

// AsBool returns the truth value.
// Numbers: 0 is false. Strings: empty is false. Numeric strings follow
// their numeric value when the whole string parses as a number.
func (v Value) AsBool() bool {
	switch v.kind {
	case KindNum:
		return v.num != 0
	case KindStr:
		return v.str != ""
	case KindNumStr:
		n, err := ParseNum(v.str)
		if err != nil {
			return v.str != ""
		}
		return n != 0
	case KindArray:
		return len(v.arr) > 0
	default:
		return false
	}
}

// IsTrueStr reports whether the value must compare as a string
// (not fully numeric), and returns the numeric value otherwise.
func (v Value) IsTrueStr() (float64, bool) {
	switch v.kind {
	case KindStr:
		if v.str == "" {
			return 0, true
		}
		n, err := ParseNum(v.str)
		if err != nil {
			return 0, true
		}
		return n, false
	case KindNumStr:
		n, err := ParseNum(v.str)
		if err != nil {
			return 0, true
		}
		return n, false
	default:
		return v.num, false
	}
}

// String returns a debug representation of the value.
func (v Value) String() string {
	switch v.kind {
	case KindNum:
		return fmt.Sprintf("Num(%s)", FormatNum(v.num, "%.6g"))
	case KindStr:
		return fmt.Sprintf("Str(%q)", v.str)
	case KindNumStr:
		return fmt.Sprintf("NumStr(%q)", v.str)
	case KindArray:
		return fmt.Sprintf("Array(len=%d)", len(v.arr))
	default:
		return "Undefined()"
	}
}

// Array access. These panic if the value is not an array; callers
// promote or type-check before using them.

// ArrayGet returns the element for key and whether it was present.
func (v Value) ArrayGet(key string) (Value, bool) {
	e, ok := v.arr[key]
	return e, ok
}

// ArraySet stores an element under key.
func (v Value) ArraySet(key string, elem Value) {
	v.arr[key] = elem
}

// ArrayDelete removes the element under key.
func (v Value) ArrayDelete(key string) {
	delete(v.arr, key)
}

// ArrayClear removes all elements.
func (v Value) ArrayClear() {
	for k := range v.arr {
		delete(v.arr, k)
	}
}

// ArrayContains reports whether key is present.
func (v Value) ArrayContains(key string) bool {
	_, ok := v.arr[key]
	return ok
}

// ArrayLen returns the number of elements.
func (v Value) ArrayLen() int {
	return len(v.arr)
}

// ArrayKeys returns the keys in map iteration order.
func (v Value) ArrayKeys() []string {
	keys := make([]string, 0, len(v.arr))
	for k := range v.arr {
		keys = append(keys, k)
	}
	return keys
}

// Compare compares two scalar values.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
// When both operands are numeric (numbers, or strings that parse fully
// as numbers), the comparison is numeric; otherwise both convert to
// strings.
func Compare(a, b Value) int {
	aNum, aIsStr := a.IsTrueStr()
	bNum, bIsStr := b.IsTrueStr()

	if !aIsStr && !bIsStr {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		default:
			return 0
		}
	}

	aStr := a.AsStr("%.6g")
	bStr := b.AsStr("%.6g")
	return strings.Compare(aStr, bStr)
}

// ParseNum parses a string as a number, requiring the whole string
// (modulo surrounding whitespace) to be numeric.
func ParseNum(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if len(s) >= 3 {
		lower := strings.ToLower(s)
		if lower == "nan" || lower == "+nan" || lower == "-nan" {
			return math.NaN(), nil
		}
		if lower == "inf" || lower == "+inf" {
			return math.Inf(1), nil
		}
		if lower == "-inf" {
			return math.Inf(-1), nil
		}
	}

	// "0x1a" is valid input but ParseFloat wants "0x1ap0"
	if len(s) > 2 && (s[0] == '0' && (s[1] == 'x' || s[1] == 'X')) {
		if !strings.ContainsAny(s, "pP") {
			s += "p0"
		}
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	// Underscore separators are a Go extension, not valid here
	if strings.Contains(s, "_") {
		return 0, strconv.ErrSyntax
	}

	return n, nil
}

// ParseNumPrefix parses a number from the beginning of a string,
// ignoring trailing non-numeric characters: "123abc" is 123.
func ParseNumPrefix(s string) float64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	if i >= len(s) {
		return 0
	}

	start := i

	if s[i] == '+' || s[i] == '-' {
		i++
	}

	if i >= len(s) {
		return 0
	}

	if i+3 <= len(s) {
		rest := strings.ToLower(s[i : i+3])
		if rest == "nan" {
			return math.NaN()
		}
		if rest == "inf" {
			if start < i && s[start] == '-' {
				return math.Inf(-1)
			}
			return math.Inf(1)
		}
	}

	if i+2 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		return parseHexPrefix(s, start, i+2)
	}

	gotDigit := false
	for i < len(s) && isDigit(s[i]) {
		gotDigit = true
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			gotDigit = true
			i++
		}
	}
	if !gotDigit {
		return 0
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		for i < len(s) && isDigit(s[i]) {
			end = i + 1
			i++
		}
	}

	n, _ := strconv.ParseFloat(s[start:end], 64)
	return n
}

func parseHexPrefix(s string, start, i int) float64 {
	gotDigit := false
	for i < len(s) && isHexDigit(s[i]) {
		gotDigit = true
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isHexDigit(s[i]) {
			gotDigit = true
			i++
		}
	}
	if !gotDigit {
		return 0
	}

	end := i
	gotExponent := false
	if i < len(s) && (s[i] == 'p' || s[i] == 'P') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		for i < len(s) && isDigit(s[i]) {
			gotExponent = true
			end = i + 1
			i++
		}
	}

	numStr := s[start:end]
	if !gotExponent {
		numStr += "p0"
	}
	n, _ := strconv.ParseFloat(numStr, 64)
	return n
}

// FormatNum formats a number as a string using the given format for
// non-integral values.
func FormatNum(n float64, format string) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case n == float64(int64(n)):
		return strconv.FormatInt(int64(n), 10)
	case format == "%.6g":
		return strconv.FormatFloat(n, 'g', 6, 64)
	default:
		return fmt.Sprintf(format, n)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
