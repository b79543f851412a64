package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fastutils/fawk/internal/types"
)

// Built-in functions. Argument counts are validated here rather than at
// parse time, so a call with the wrong arity only fails if it runs.

func arityError(name string, want string, got int) error {
	return &InvalidFunctionCallError{
		Func:    name,
		Message: fmt.Sprintf("expected %s, got %d", want, got),
	}
}

func checkArity(name string, args []types.Value, want int) error {
	if len(args) != want {
		unit := "arguments"
		if want == 1 {
			unit = "argument"
		}
		return arityError(name, fmt.Sprintf("%d %s", want, unit), len(args))
	}
	return nil
}

// BuiltinMath evaluates the single-argument math builtins
// (cos, sin, exp, log, sqrt, int).
func (c *Context) BuiltinMath(name string, args []types.Value) (types.Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return types.Value{}, err
	}
	x := args[0].AsNum()
	switch name {
	case "cos":
		return types.Num(math.Cos(x)), nil
	case "sin":
		return types.Num(math.Sin(x)), nil
	case "exp":
		return types.Num(math.Exp(x)), nil
	case "log":
		if x <= 0 {
			return types.Value{}, Errorf("log: argument out of domain: %v", x)
		}
		return types.Num(math.Log(x)), nil
	case "sqrt":
		if x < 0 {
			return types.Value{}, Errorf("sqrt: argument out of domain: %v", x)
		}
		return types.Num(math.Sqrt(x)), nil
	case "int":
		return types.Num(math.Trunc(x)), nil
	default:
		return types.Value{}, &UndefinedFunctionError{Name: name}
	}
}

// BuiltinAtan2 implements atan2(y, x).
func (c *Context) BuiltinAtan2(args []types.Value) (types.Value, error) {
	if err := checkArity("atan2", args, 2); err != nil {
		return types.Value{}, err
	}
	return types.Num(math.Atan2(args[0].AsNum(), args[1].AsNum())), nil
}

// BuiltinRand returns a pseudo-random number in [0, 1).
func (c *Context) BuiltinRand(args []types.Value) (types.Value, error) {
	if err := checkArity("rand", args, 0); err != nil {
		return types.Value{}, err
	}
	return types.Num(c.rand.Float64()), nil
}

// BuiltinSrand reseeds the random generator and returns the previous
// seed. With no argument the seed is the current time.
func (c *Context) BuiltinSrand(args []types.Value, now func() int64) (types.Value, error) {
	if len(args) > 1 {
		return types.Value{}, arityError("srand", "at most 1 argument", len(args))
	}
	prev := c.randSeed
	var seed float64
	if len(args) == 1 {
		seed = args[0].AsNum()
	} else {
		seed = float64(now())
	}
	c.randSeed = seed
	c.rand.Seed(int64(seed))
	return types.Num(prev), nil
}

// BuiltinIndex implements index(haystack, needle), 1-based, 0 if absent.
func (c *Context) BuiltinIndex(args []types.Value) (types.Value, error) {
	if err := checkArity("index", args, 2); err != nil {
		return types.Value{}, err
	}
	s := c.ToStr(args[0])
	sub := c.ToStr(args[1])
	return types.Num(float64(strings.Index(s, sub) + 1)), nil
}

// BuiltinSubstr implements substr(s, start[, length]) with 1-based
// indexing; out-of-range positions clamp rather than error.
func (c *Context) BuiltinSubstr(args []types.Value) (types.Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return types.Value{}, arityError("substr", "2 or 3 arguments", len(args))
	}
	s := c.ToStr(args[0])
	start := int(args[1].AsNum())
	length := len(s)
	if len(args) == 3 {
		length = int(args[2].AsNum())
	}

	if start < 1 {
		start = 1
	}
	start--

	if start >= len(s) || length <= 0 {
		return types.Str(""), nil
	}

	end := start + length
	if end > len(s) {
		end = len(s)
	}
	return types.Str(s[start:end]), nil
}

// BuiltinToupper implements toupper with an ASCII fast path.
func (c *Context) BuiltinToupper(args []types.Value) (types.Value, error) {
	if err := checkArity("toupper", args, 1); err != nil {
		return types.Value{}, err
	}
	return types.Str(toUpperASCII(c.ToStr(args[0]))), nil
}

// BuiltinTolower implements tolower with an ASCII fast path.
func (c *Context) BuiltinTolower(args []types.Value) (types.Value, error) {
	if err := checkArity("tolower", args, 1); err != nil {
		return types.Value{}, err
	}
	return types.Str(toLowerASCII(c.ToStr(args[0]))), nil
}

// BuiltinSprintf formats args[1:] according to the format in args[0].
// Supported verbs: d i o x X f F e E g G c s and %%; anything else is
// an error. Width and precision accept * for argument-supplied values.
func (c *Context) BuiltinSprintf(args []types.Value) (types.Value, error) {
	if len(args) == 0 {
		return types.Value{}, arityError("sprintf", "at least 1 argument", 0)
	}
	s, err := c.sprintf(c.ToStr(args[0]), args[1:])
	if err != nil {
		return types.Value{}, err
	}
	return types.Str(s), nil
}

// Sprintf is the shared formatting engine behind sprintf and printf.
func (c *Context) Sprintf(format string, values []types.Value) (string, error) {
	return c.sprintf(format, values)
}

func (c *Context) sprintf(format string, values []types.Value) (string, error) {
	var result strings.Builder
	valueIdx := 0

	nextValue := func() types.Value {
		if valueIdx < len(values) {
			v := values[valueIdx]
			valueIdx++
			return v
		}
		return types.Undefined()
	}

	i := 0
	for i < len(format) {
		if format[i] != '%' {
			result.WriteByte(format[i])
			i++
			continue
		}

		i++
		if i >= len(format) {
			result.WriteByte('%')
			break
		}

		if format[i] == '%' {
			result.WriteByte('%')
			i++
			continue
		}

		// Flags: - + space # 0
		var flags strings.Builder
		for i < len(format) && strings.IndexByte("-+ #0", format[i]) >= 0 {
			flags.WriteByte(format[i])
			i++
		}

		// Width, possibly * for a dynamic value
		var width string
		if i < len(format) && format[i] == '*' {
			w := int(nextValue().AsNum())
			if w < 0 {
				flags.WriteByte('-')
				w = -w
			}
			width = strconv.Itoa(w)
			i++
		} else {
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				width += string(format[i])
				i++
			}
		}

		// Precision
		var precision string
		if i < len(format) && format[i] == '.' {
			precision = "."
			i++
			if i < len(format) && format[i] == '*' {
				p := int(nextValue().AsNum())
				if p < 0 {
					precision = "" // negative precision is ignored
				} else {
					precision += strconv.Itoa(p)
				}
				i++
			} else {
				for i < len(format) && format[i] >= '0' && format[i] <= '9' {
					precision += string(format[i])
					i++
				}
			}
		}

		if i >= len(format) {
			result.WriteString("%" + flags.String() + width + precision)
			break
		}

		specifier := format[i]
		i++

		value := nextValue()

		switch specifier {
		case 'd', 'i':
			goFmt := "%" + flags.String() + width + precision + "d"
			result.WriteString(fmt.Sprintf(goFmt, int64(value.AsNum())))
		case 'o':
			goFmt := "%" + flags.String() + width + precision + "o"
			result.WriteString(fmt.Sprintf(goFmt, uint64(value.AsNum())))
		case 'x':
			goFmt := "%" + flags.String() + width + precision + "x"
			result.WriteString(fmt.Sprintf(goFmt, uint64(value.AsNum())))
		case 'X':
			goFmt := "%" + flags.String() + width + precision + "X"
			result.WriteString(fmt.Sprintf(goFmt, uint64(value.AsNum())))
		case 'c':
			// Numeric values are byte codes, strings use their first char
			if value.IsNum() || value.IsUndefined() {
				n := int(value.AsNum())
				if n >= 0 && n <= 255 {
					result.WriteByte(byte(n))
				}
			} else {
				s := c.ToStr(value)
				if len(s) > 0 {
					result.WriteByte(s[0])
				}
			}
		case 's':
			goFmt := "%" + flags.String() + width + precision + "s"
			result.WriteString(fmt.Sprintf(goFmt, c.ToStr(value)))
		case 'e':
			goFmt := "%" + flags.String() + width + precision + "e"
			result.WriteString(fmt.Sprintf(goFmt, value.AsNum()))
		case 'E':
			goFmt := "%" + flags.String() + width + precision + "E"
			result.WriteString(fmt.Sprintf(goFmt, value.AsNum()))
		case 'f', 'F':
			goFmt := "%" + flags.String() + width + precision + "f"
			result.WriteString(fmt.Sprintf(goFmt, value.AsNum()))
		case 'g':
			goFmt := "%" + flags.String() + width + precision + "g"
			result.WriteString(fmt.Sprintf(goFmt, value.AsNum()))
		case 'G':
			goFmt := "%" + flags.String() + width + precision + "G"
			result.WriteString(fmt.Sprintf(goFmt, value.AsNum()))
		default:
			return "", &InvalidFormatSpecifierError{Spec: specifier}
		}
	}

	return result.String(), nil
}

// BuiltinSplit splits str into arr by sep and returns the element
// count. The array is cleared first. An empty separator splits into
// individual characters; " " splits on whitespace runs; a single
// character splits literally; longer separators are regexes.
func (c *Context) BuiltinSplit(str string, arr types.Value, sep string) (int, error) {
	arr.ArrayClear()

	if str == "" {
		return 0, nil
	}

	var parts []string
	switch {
	case sep == " ":
		parts = strings.Fields(str)
	case sep == "":
		parts = make([]string, 0, len(str))
		for _, r := range str {
			parts = append(parts, string(r))
		}
	case len(sep) == 1:
		parts = strings.Split(str, sep)
	default:
		re, err := c.regexCache.Get(sep)
		if err != nil {
			return 0, err
		}
		parts = re.Split(str, -1)
	}

	for i, part := range parts {
		arr.ArraySet(strconv.Itoa(i+1), types.NumStr(part))
	}
	return len(parts), nil
}

// BuiltinMatch finds the first match of pattern in str, updating
// RSTART and RLENGTH. Returns the 1-based match position or 0.
func (c *Context) BuiltinMatch(str, pattern string) (types.Value, error) {
	re, err := c.regexCache.Get(pattern)
	if err != nil {
		return types.Value{}, err
	}

	loc := re.FindStringIndex(str)
	if loc == nil {
		c.SetMatch(0, 0)
		return types.Num(0), nil
	}

	start := float64(loc[0] + 1)
	length := float64(loc[1] - loc[0])
	c.SetMatch(start, length)
	return types.Num(start), nil
}

// Replace substitutes matches of pattern in target with replacement.
// When global is false only the first match is replaced. Returns the
// new string and the substitution count. In the replacement, & stands
// for the matched text and \& for a literal ampersand.
func (c *Context) Replace(pattern, replacement, target string, global bool) (string, int, error) {
	re, err := c.regexCache.Get(pattern)
	if err != nil {
		return "", 0, err
	}

	if !global {
		loc := re.FindStringIndex(target)
		if loc == nil {
			return target, 0, nil
		}
		matched := target[loc[0]:loc[1]]
		repl := expandReplacement(replacement, matched)
		return target[:loc[0]] + repl + target[loc[1]:], 1, nil
	}

	count := 0
	result := re.ReplaceAllStringFunc(target, func(matched string) string {
		count++
		return expandReplacement(replacement, matched)
	})
	return result, count, nil
}

// expandReplacement substitutes & with the matched text, honoring the
// \& and \\ escapes.
func expandReplacement(replacement, matched string) string {
	var result strings.Builder
	i := 0
	for i < len(replacement) {
		if replacement[i] == '\\' && i+1 < len(replacement) {
			next := replacement[i+1]
			if next == '&' {
				result.WriteByte('&')
				i += 2
				continue
			}
			if next == '\\' {
				result.WriteByte('\\')
				i += 2
				continue
			}
		}
		if replacement[i] == '&' {
			result.WriteString(matched)
		} else {
			result.WriteByte(replacement[i])
		}
		i++
	}
	return result.String()
}

// toLowerASCII lowercases a string, falling back to strings.ToLower
// only when a non-ASCII byte appears.
func toLowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 0x80 {
			return strings.ToLower(s)
		}
		if ch >= 'A' && ch <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 0x80 {
					return strings.ToLower(s)
				}
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

// toUpperASCII uppercases a string, falling back to strings.ToUpper
// only when a non-ASCII byte appears.
func toUpperASCII(s string) string {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 0x80 {
			return strings.ToUpper(s)
		}
		if ch >= 'a' && ch <= 'z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 0x80 {
					return strings.ToUpper(s)
				}
				if b[j] >= 'a' && b[j] <= 'z' {
					b[j] -= 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
