package runtime

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/fastutils/fawk/internal/types"
)

// Default values for the record and field separators.
const (
	DefaultFS     = " "
	DefaultOFS    = " "
	DefaultRS     = "\n"
	DefaultORS    = "\n"
	DefaultSubsep = "\x1c"
)

// regexCacheSize bounds the number of live compiled patterns.
const regexCacheSize = 100

// Context holds all mutable evaluation state: the current record and
// its fields, global and local variables, the regex cache, output
// streams, and the random number generator.
type Context struct {
	// Current record split into fields; fields[0] is $0.
	fields []string
	nf     int

	nr       int
	filename string
	rstart   float64
	rlength  float64

	fs     string
	ofs    string
	rs     string
	ors    string
	subsep string

	globals map[string]types.Value
	frames  []frame

	regexCache *RegexCache
	ioManager  *IOManager
	output     io.Writer

	rand     *rand.Rand
	randSeed float64

	exited   bool
	exitCode int
}

// frame is one user-function call frame. Every parameter is present in
// vars, so a parameter shadows a global even before first assignment.
type frame struct {
	vars map[string]types.Value
}

// NewContext creates a Context writing program output to output.
func NewContext(output io.Writer) *Context {
	seed := 1.0
	return &Context{
		fields:     []string{""},
		fs:         DefaultFS,
		ofs:        DefaultOFS,
		rs:         DefaultRS,
		ors:        DefaultORS,
		subsep:     DefaultSubsep,
		globals:    make(map[string]types.Value),
		regexCache: NewRegexCache(regexCacheSize),
		ioManager:  NewIOManager(),
		output:     output,
		rand:       rand.New(rand.NewSource(int64(seed))),
		randSeed:   seed,
	}
}

// Output returns the main output stream.
func (c *Context) Output() io.Writer {
	return c.output
}

// IO returns the redirection manager for print destinations.
func (c *Context) IO() *IOManager {
	return c.ioManager
}

// Regex returns the compiled form of pattern, cached across calls.
func (c *Context) Regex(pattern string) (*Regex, error) {
	return c.regexCache.Get(pattern)
}

// Record and fields

// SetRecord installs a new input record as $0, splits it into fields,
// and advances NR.
func (c *Context) SetRecord(record string) {
	c.setRecordNoAdvance(record)
	c.nr++
}

func (c *Context) setRecordNoAdvance(record string) {
	parts := c.splitRecord(record)
	c.fields = append(c.fields[:0], record)
	c.fields = append(c.fields, parts...)
	c.nf = len(parts)
}

// splitRecord splits a record according to FS: the default " " splits
// on runs of whitespace with leading and trailing blanks ignored, a
// single character splits on that character literally, and anything
// longer is a regex.
func (c *Context) splitRecord(record string) []string {
	switch {
	case record == "":
		return nil
	case c.fs == " ":
		return strings.Fields(record)
	case len(c.fs) == 1:
		return strings.Split(record, c.fs)
	default:
		re, err := c.regexCache.Get(c.fs)
		if err != nil {
			// An unparsable FS falls back to literal splitting
			return strings.Split(record, c.fs)
		}
		return re.Split(record, -1)
	}
}

// NF returns the current field count.
func (c *Context) NF() int {
	return c.nf
}

// NR returns the current record number.
func (c *Context) NR() int {
	return c.nr
}

// SetFilename records the name of the current input source.
func (c *Context) SetFilename(name string) {
	c.filename = name
}

// Field returns $i. Out-of-range indexes yield the empty string.
// Fields carry numeric-string semantics: "10" compares numerically.
func (c *Context) Field(i int) types.Value {
	if i < 0 || i >= len(c.fields) {
		return types.NumStr("")
	}
	return types.NumStr(c.fields[i])
}

// SetField assigns $i. Assigning $0 replaces the record text without
// touching $1..$NF; assigning a field beyond NF extends the record
// with empty fields and rebuilds $0 joined by OFS.
func (c *Context) SetField(i int, s string) error {
	if i < 0 {
		return &InvalidArrayIndexError{Message: fmt.Sprintf("field index negative: %d", i)}
	}
	if i == 0 {
		if len(c.fields) == 0 {
			c.fields = append(c.fields, s)
		} else {
			c.fields[0] = s
		}
		return nil
	}
	for len(c.fields) <= i {
		c.fields = append(c.fields, "")
	}
	c.fields[i] = s
	if i > c.nf {
		c.nf = i
	}
	c.rebuildRecord()
	return nil
}

// rebuildRecord recomputes $0 by joining $1..$NF with OFS.
func (c *Context) rebuildRecord() {
	c.fields[0] = strings.Join(c.fields[1:c.nf+1], c.ofs)
}

// Separators

func (c *Context) FS() string     { return c.fs }
func (c *Context) OFS() string    { return c.ofs }
func (c *Context) ORS() string    { return c.ors }
func (c *Context) RS() string     { return c.rs }
func (c *Context) Subsep() string { return c.subsep }

// SetFS sets the input field separator. Takes effect on the next
// record; the current fields are not re-split.
func (c *Context) SetFS(fs string) { c.fs = fs }

// Variables

// specialVar returns the value of a built-in variable, or ok=false.
func (c *Context) specialVar(name string) (types.Value, bool) {
	switch name {
	case "NR":
		return types.Num(float64(c.nr)), true
	case "NF":
		return types.Num(float64(c.nf)), true
	case "FILENAME":
		return types.Str(c.filename), true
	case "RSTART":
		return types.Num(c.rstart), true
	case "RLENGTH":
		return types.Num(c.rlength), true
	case "FS":
		return types.Str(c.fs), true
	case "OFS":
		return types.Str(c.ofs), true
	case "RS":
		return types.Str(c.rs), true
	case "ORS":
		return types.Str(c.ors), true
	case "SUBSEP":
		return types.Str(c.subsep), true
	default:
		return types.Value{}, false
	}
}

// Var returns the value of name: a built-in variable first, else a
// function-local if a call frame is active and declares it, else a
// global. Unset variables are undefined, not an error.
func (c *Context) Var(name string) types.Value {
	if v, ok := c.specialVar(name); ok {
		return v
	}
	if n := len(c.frames); n > 0 {
		if v, ok := c.frames[n-1].vars[name]; ok {
			return v
		}
	}
	return c.globals[name]
}

// SetVar assigns to name, respecting locals and built-in variables.
// NR, NF, FILENAME, RSTART and RLENGTH are maintained by the engine;
// assignments to them are ignored.
func (c *Context) SetVar(name string, v types.Value) error {
	switch name {
	case "NR", "NF", "FILENAME", "RSTART", "RLENGTH":
		// Engine-maintained; the write is dropped
		return nil
	case "FS":
		c.fs = v.AsStr("%.6g")
		return nil
	case "OFS":
		c.ofs = v.AsStr("%.6g")
		return nil
	case "RS":
		c.rs = v.AsStr("%.6g")
		return nil
	case "ORS":
		c.ors = v.AsStr("%.6g")
		return nil
	case "SUBSEP":
		c.subsep = v.AsStr("%.6g")
		return nil
	}
	if n := len(c.frames); n > 0 {
		if _, ok := c.frames[n-1].vars[name]; ok {
			c.frames[n-1].vars[name] = v
			return nil
		}
	}
	c.globals[name] = v
	return nil
}

// Array returns the array stored under name, creating an empty one if
// the variable is unset. Using a scalar as an array is a type error.
func (c *Context) Array(name string) (types.Value, error) {
	if n := len(c.frames); n > 0 {
		if v, ok := c.frames[n-1].vars[name]; ok {
			switch {
			case v.IsArray():
				return v, nil
			case v.IsUndefined():
				arr := types.NewArray()
				c.frames[n-1].vars[name] = arr
				return arr, nil
			default:
				return types.Value{}, &TypeError{Message: "cannot use scalar " + name + " as array"}
			}
		}
	}
	if _, ok := c.specialVar(name); ok {
		return types.Value{}, &TypeError{Message: "cannot use scalar " + name + " as array"}
	}
	v := c.globals[name]
	switch {
	case v.IsArray():
		return v, nil
	case v.IsUndefined():
		arr := types.NewArray()
		c.globals[name] = arr
		return arr, nil
	default:
		return types.Value{}, &TypeError{Message: "cannot use scalar " + name + " as array"}
	}
}

// PushFrame enters a user function call. vars must contain an entry
// for every parameter, bound or undefined.
func (c *Context) PushFrame(vars map[string]types.Value) {
	c.frames = append(c.frames, frame{vars: vars})
}

// PopFrame leaves the current user function call.
func (c *Context) PopFrame() {
	c.frames = c.frames[:len(c.frames)-1]
}

// FrameDepth returns the current call nesting depth.
func (c *Context) FrameDepth() int {
	return len(c.frames)
}

// Match results

// SetMatch records the result of the match builtin in RSTART/RLENGTH.
func (c *Context) SetMatch(start, length float64) {
	c.rstart = start
	c.rlength = length
}

// Exit state

// SetExit records an exit request with the given code.
func (c *Context) SetExit(code int) {
	c.exited = true
	c.exitCode = code
}

// Exited reports whether an exit statement has run.
func (c *Context) Exited() bool {
	return c.exited
}

// ExitCode returns the recorded exit code.
func (c *Context) ExitCode() int {
	return c.exitCode
}

// ToStr renders a value using the default numeric output format.
func (c *Context) ToStr(v types.Value) string {
	return v.AsStr("%.6g")
}

// SubsepJoin joins multiple array subscripts into one key with SUBSEP.
func (c *Context) SubsepJoin(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts, c.subsep)
}

// FormatOutputNum formats a number the way print renders it: integral
// values without a decimal point.
func FormatOutputNum(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', 6, 64)
}
