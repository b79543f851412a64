// Package runtime provides the evaluation state for fawk scripts:
// variables, fields, regex caching, and output redirection.
package runtime

import "fmt"

// Error is a generic runtime error.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Errorf creates a generic runtime error with a formatted message.
func Errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// DivisionByZeroError is returned when dividing or taking a modulus by zero.
type DivisionByZeroError struct{}

func (e *DivisionByZeroError) Error() string {
	return "division by zero"
}

// TypeError is returned when a value is used as the wrong type,
// such as a scalar in array context.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string {
	return "type error: " + e.Message
}

// UndefinedFunctionError is returned when calling a function that
// does not exist.
type UndefinedFunctionError struct {
	Name string
}

func (e *UndefinedFunctionError) Error() string {
	return fmt.Sprintf("undefined function: %s", e.Name)
}

// InvalidFunctionCallError is returned when a builtin is called with
// an unsupported number of arguments.
type InvalidFunctionCallError struct {
	Func    string // Function name
	Message string // Description of the arity requirement
}

func (e *InvalidFunctionCallError) Error() string {
	return fmt.Sprintf("invalid call to %s: %s", e.Func, e.Message)
}

// InvalidArrayIndexError is returned for invalid array subscripts.
type InvalidArrayIndexError struct {
	Message string
}

func (e *InvalidArrayIndexError) Error() string {
	return "invalid array index: " + e.Message
}

// InvalidAssignmentError is returned when assigning to something that
// is not assignable.
type InvalidAssignmentError struct {
	Target string
}

func (e *InvalidAssignmentError) Error() string {
	return fmt.Sprintf("cannot assign to %s", e.Target)
}

// PatternError is returned when a regex pattern fails to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid regex %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// InvalidFormatSpecifierError is returned for unsupported printf verbs.
type InvalidFormatSpecifierError struct {
	Spec byte
}

func (e *InvalidFormatSpecifierError) Error() string {
	return fmt.Sprintf("invalid format specifier %%%c", e.Spec)
}
