package fawk

import (
	"errors"
	"fmt"
)

// ParseError is a syntax error in the program source, with a 1-based
// position.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// CompileError is a program-level error found after parsing, such as
// a duplicate function definition.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error: %s", e.Message)
}

// RuntimeError is an error raised while the program runs, such as
// division by zero or an invalid regex.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %s", e.Message)
}

// ExitError is returned by Run when the program calls exit with a
// non-zero status. It marks a deliberate exit, not a failure; output
// produced before the exit is still returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// IsExitError reports whether err came from an exit statement and
// returns its status code.
func IsExitError(err error) (int, bool) {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return 0, false
}
