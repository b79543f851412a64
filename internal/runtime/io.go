package runtime

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"sync"
)

// IOManager manages output redirection targets for print statements.
// Files and pipes stay open across statements, so repeated prints to
// the same destination append to one stream.
type IOManager struct {
	mu sync.Mutex

	// Output files (> and >>)
	outFiles map[string]*outputFile

	// Output pipes (| cmd)
	outPipes map[string]*outputPipe
}

type outputFile struct {
	file   *os.File
	writer *bufio.Writer
}

type outputPipe struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	writer *bufio.Writer
}

// NewIOManager creates a new I/O manager.
func NewIOManager() *IOManager {
	return &IOManager{
		outFiles: make(map[string]*outputFile),
		outPipes: make(map[string]*outputPipe),
	}
}

// GetOutputFile returns a writer for the named file, opening it on
// first use. The first > truncates; >> and subsequent writes append.
func (m *IOManager) GetOutputFile(name string, appendMode bool) (*bufio.Writer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if of, ok := m.outFiles[name]; ok {
		return of.writer, nil
	}

	var flag int
	if appendMode {
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	} else {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	file, err := os.OpenFile(name, flag, 0644)
	if err != nil {
		return nil, err
	}

	of := &outputFile{
		file:   file,
		writer: bufio.NewWriter(file),
	}
	m.outFiles[name] = of

	return of.writer, nil
}

// GetOutputPipe returns a writer for the command's stdin, starting the
// command on first use.
func (m *IOManager) GetOutputPipe(cmdStr string) (*bufio.Writer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if op, ok := m.outPipes[cmdStr]; ok {
		return op.writer, nil
	}

	cmd := exec.Command(getShell(), getShellArg(), cmdStr)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, err
	}

	op := &outputPipe{
		cmd:    cmd,
		stdin:  stdin,
		writer: bufio.NewWriter(stdin),
	}
	m.outPipes[cmdStr] = op

	return op.writer, nil
}

// Flush flushes all open outputs.
func (m *IOManager) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, of := range m.outFiles {
		of.writer.Flush()
	}
	for _, op := range m.outPipes {
		op.writer.Flush()
	}
}

// CloseAll flushes and closes all files and pipes, waiting for piped
// commands to finish.
func (m *IOManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, of := range m.outFiles {
		of.writer.Flush()
		of.file.Close()
	}
	m.outFiles = make(map[string]*outputFile)

	for _, op := range m.outPipes {
		op.writer.Flush()
		op.stdin.Close()
		op.cmd.Wait()
	}
	m.outPipes = make(map[string]*outputPipe)
}

// getShell returns the shell used for piped commands.
func getShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	// Windows
	if comspec := os.Getenv("COMSPEC"); comspec != "" {
		return comspec
	}
	return "sh"
}

func getShellArg() string {
	shell := getShell()
	if shell == os.Getenv("COMSPEC") || shell == "cmd.exe" || shell == "cmd" {
		return "/c"
	}
	return "-c"
}
