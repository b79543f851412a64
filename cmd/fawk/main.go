// fawk - an AWK interpreter
//
// Uses manual argument parsing for POSIX compatibility (supports -F: style flags).
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fastutils/fawk"
	"github.com/fastutils/fawk/internal/ast"
	"github.com/fastutils/fawk/internal/parser"
)

// version is set by GoReleaser at build time via -ldflags.
// For development builds, it will be "dev".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	shortUsage = "usage: fawk [-F fs] [-v var=value] [-f progfile | 'prog'] [file ...]"
	longUsage  = `Standard AWK arguments:
  -F separator      field separator (default " ")
  -f progfile       load AWK source from progfile (multiple allowed)
  -v var=value      variable assignment (multiple allowed)

Debugging arguments:
  -d                print parsed AST to stderr and exit

Other:
  -h, --help        show this help message
  -version          show fawk version and exit
`
)

func main() {
	// Parse command line arguments manually rather than using the
	// "flag" package, so we can support flags with no space between
	// flag and argument, like '-F:' (allowed by POSIX)
	var progFiles []string
	var vars []string
	fieldSep := " "
	debug := false

	var i int
	for i = 1; i < len(os.Args); i++ {
		// Stop on explicit end of args or first arg not prefixed with "-"
		arg := os.Args[i]
		if arg == "--" {
			i++
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "-F":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: -F")
			}
			i++
			fieldSep = os.Args[i]
		case "-f":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: -f")
			}
			i++
			progFiles = append(progFiles, os.Args[i])
		case "-v":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: -v")
			}
			i++
			vars = append(vars, os.Args[i])
		case "-d":
			debug = true
		case "-h", "--help":
			fmt.Printf("fawk %s\n\n%s\n\n%s", version, shortUsage, longUsage)
			os.Exit(0)
		case "-version", "--version":
			fmt.Printf("fawk version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
			fmt.Println("  regex:  coregex")
			os.Exit(0)
		default:
			// Handle flags with no space: -F:, -ffile, -vvar=val
			switch {
			case strings.HasPrefix(arg, "-F"):
				fieldSep = arg[2:]
			case strings.HasPrefix(arg, "-f"):
				progFiles = append(progFiles, arg[2:])
			case strings.HasPrefix(arg, "-v"):
				vars = append(vars, arg[2:])
			default:
				errorExitf("flag provided but not defined: %s", arg)
			}
		}
	}

	// Remaining args are program and input files
	args := os.Args[i:]

	// Determine program source
	var program string
	var inputFiles []string

	if len(progFiles) > 0 {
		// Read program from files
		var sb strings.Builder
		for _, f := range progFiles {
			content, err := os.ReadFile(f)
			if err != nil {
				errorExitf("cannot read program file %s: %v", f, err)
			}
			sb.Write(content)
			sb.WriteByte('\n')
		}
		program = sb.String()
		inputFiles = args
	} else if len(args) > 0 {
		// First arg is the program
		program = args[0]
		inputFiles = args[1:]
	} else {
		errorExitf(shortUsage)
	}

	// Compile program
	prog, err := fawk.Compile(program)
	if err != nil {
		errorExit(err)
	}

	if debug {
		// Compile has already validated the source
		astProg, _ := parser.Parse(program)
		fmt.Fprintln(os.Stderr, ast.String(astProg))
		os.Exit(0)
	}

	// Build configuration with buffered output for performance
	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	config := &fawk.Config{
		FS:     fieldSep,
		Output: stdout,
	}

	// Parse variable assignments
	if len(vars) > 0 {
		config.Variables = make(map[string]string)
		for _, v := range vars {
			parts := strings.SplitN(v, "=", 2)
			if len(parts) != 2 {
				errorExitf("invalid variable assignment: %s (expected var=value)", v)
			}
			config.Variables[parts[0]] = parts[1]
		}
	}

	// Set ARGV
	config.Args = append([]string{"fawk"}, inputFiles...)

	// Determine input source
	var input io.Reader
	if len(inputFiles) == 0 {
		// Read from stdin
		input = os.Stdin
	} else {
		// Concatenate all input files
		readers := make([]io.Reader, 0, len(inputFiles))
		for _, f := range inputFiles {
			if f == "-" {
				readers = append(readers, os.Stdin)
			} else {
				file, err := os.Open(f)
				if err != nil {
					errorExitf("cannot open file %s: %v", f, err)
				}
				defer file.Close()
				readers = append(readers, file)
			}
		}
		input = io.MultiReader(readers...)
	}

	// Execute program
	_, err = prog.Run(input, config)
	if err != nil {
		// Check if it's a normal exit with non-zero code
		if code, ok := fawk.IsExitError(err); ok {
			stdout.Flush()
			os.Exit(code)
		}
		errorExit(err)
	}
}

// errorExitf prints formatted error message and exits with code 1
func errorExitf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "fawk: "+format+"\n", args...)
	os.Exit(1)
}

// errorExit prints error and exits with code 1
func errorExit(err error) {
	fmt.Fprintf(os.Stderr, "fawk: %v\n", err)
	os.Exit(1)
}
