package fawk

import (
	"bufio"
	"bytes"
	"io"

	"github.com/fastutils/fawk/internal/ast"
	"github.com/fastutils/fawk/internal/interp"
	"github.com/fastutils/fawk/internal/runtime"
	"github.com/fastutils/fawk/internal/types"
)

// maxRecordSize bounds the length of a single input record.
const maxRecordSize = 1 << 20

// Program represents a compiled AWK program ready for execution.
// It is safe for concurrent use; each call to Run creates an
// independent execution context.
type Program struct {
	prog   *ast.Program
	source string // Original source for debugging
}

// Run executes the program with the given input and configuration.
// Returns the output as a string, or an error if execution fails.
//
// If config is nil, default configuration is used.
// If config.Output is set, output is written there and the returned
// string will be empty.
func (p *Program) Run(input io.Reader, config *Config) (string, error) {
	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	// Set output capture if not provided
	var outputBuf *bytes.Buffer
	out := config.Output
	if out == nil {
		outputBuf = &bytes.Buffer{}
		out = outputBuf
	}

	ctx := runtime.NewContext(out)
	if err := configureContext(ctx, config); err != nil {
		return "", &RuntimeError{Message: err.Error()}
	}

	in, err := interp.New(p.prog, ctx)
	if err != nil {
		return "", &RuntimeError{Message: err.Error()}
	}

	capture := func() string {
		if outputBuf != nil {
			return outputBuf.String()
		}
		return ""
	}

	if err := in.Begin(); err != nil {
		return "", &RuntimeError{Message: err.Error()}
	}

	if input != nil && p.readsInput() && !in.Exited() {
		scanner := bufio.NewScanner(input)
		scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
		scanner.Split(recordSplitter(ctx.RS()))
		for scanner.Scan() {
			if err := in.Record(scanner.Text()); err != nil {
				return "", &RuntimeError{Message: err.Error()}
			}
			if in.Exited() {
				break
			}
		}
		if err := scanner.Err(); err != nil {
			return "", &RuntimeError{Message: err.Error()}
		}
	}

	if err := in.End(); err != nil {
		return "", &RuntimeError{Message: err.Error()}
	}

	if code := in.ExitCode(); code != 0 {
		return capture(), &ExitError{Code: code}
	}
	return capture(), nil
}

// Source returns the original AWK source code.
func (p *Program) Source() string {
	return p.source
}

// readsInput reports whether the program consumes input records.
// A program made up solely of BEGIN blocks never reads input.
func (p *Program) readsInput() bool {
	return len(p.prog.Rules) > 0 || len(p.prog.EndBlocks) > 0
}

// configureContext applies Config settings to a fresh context.
func configureContext(ctx *runtime.Context, config *Config) error {
	for _, s := range []struct{ name, value, def string }{
		{"FS", config.FS, runtime.DefaultFS},
		{"RS", config.RS, runtime.DefaultRS},
		{"OFS", config.OFS, runtime.DefaultOFS},
		{"ORS", config.ORS, runtime.DefaultORS},
	} {
		if s.value != s.def {
			if err := ctx.SetVar(s.name, types.Str(s.value)); err != nil {
				return err
			}
		}
	}

	// Pre-defined variables behave like input: numeric strings
	// compare numerically.
	for name, value := range config.Variables {
		if err := ctx.SetVar(name, types.NumStr(value)); err != nil {
			return err
		}
	}

	if len(config.Args) > 0 {
		argv, err := ctx.Array("ARGV")
		if err != nil {
			return err
		}
		for i, arg := range config.Args {
			argv.ArraySet(runtime.FormatOutputNum(float64(i)), types.NumStr(arg))
		}
		if err := ctx.SetVar("ARGC", types.Num(float64(len(config.Args)))); err != nil {
			return err
		}
	}
	return nil
}

// recordSplitter returns a bufio.SplitFunc that splits input into
// records on the given separator. Unlike bufio.ScanLines it does not
// strip carriage returns.
func recordSplitter(rs string) bufio.SplitFunc {
	sep := []byte(rs)
	return func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		if i := bytes.Index(data, sep); i >= 0 {
			return i + len(sep), data[:i], nil
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
}
