package cmdexec

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// ErrTimeout reports that a command exceeded its own Timeout. Cancellation of
// the caller's context is reported with the context error instead.
var ErrTimeout = errors.New("command timed out")

const maxLineBytes = 1 << 20

// Command describes a single external process invocation.
type Command struct {
	Binary  string
	Args    []string
	Dir     string
	Timeout time.Duration
	// OnStdout and OnStderr receive each output line as it is produced.
	OnStdout func(string)
	OnStderr func(string)
}

// String renders the command as a shell-safe line for logs and dry runs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, Quote(c.Binary))
	for _, arg := range c.Args {
		parts = append(parts, Quote(arg))
	}
	return strings.Join(parts, " ")
}

// Result captures the outcome of a completed process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// StderrTail returns at most the last n lines of stderr, trimmed.
func (r Result) StderrTail(n int) string {
	return tailLines(string(r.Stderr), n)
}

// Executor runs external commands. A non-zero exit is reported through
// Result.ExitCode with a nil error; errors mean the process could not be
// started, timed out, or was cancelled.
type Executor interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Func adapts a function to the Executor interface.
type Func func(ctx context.Context, cmd Command) (Result, error)

// Run calls f(ctx, cmd).
func (f Func) Run(ctx context.Context, cmd Command) (Result, error) {
	return f(ctx, cmd)
}

// Default returns the executor backed by os/exec.
func Default() Executor {
	return processExecutor{}
}

type processExecutor struct{}

func (processExecutor) Run(ctx context.Context, command Command) (Result, error) {
	binary := strings.TrimSpace(command.Binary)
	if binary == "" {
		return Result{}, errors.New("command binary required")
	}

	runCtx := ctx
	if command.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, command.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, binary, command.Args...) //nolint:gosec
	cmd.Dir = command.Dir
	cmd.WaitDelay = 5 * time.Second
	// Children run in their own process group so a timeout also reaches
	// helpers they spawned, which would otherwise hold the output pipes open.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stderr pipe: %w", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start %s: %w", binary, err)
	}

	var (
		wg      sync.WaitGroup
		outBuf  bytes.Buffer
		errBuf  bytes.Buffer
		scanErr error
		once    sync.Once
	)
	scan := func(r io.Reader, buf *bytes.Buffer, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			line := scanner.Text()
			buf.WriteString(line)
			buf.WriteByte('\n')
			if forward != nil {
				forward(line)
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() { scanErr = err })
			_, _ = io.Copy(io.Discard, r)
		}
	}

	wg.Add(2)
	go scan(stdout, &outBuf, command.OnStdout)
	go scan(stderr, &errBuf, command.OnStderr)
	wg.Wait()

	waitErr := cmd.Wait()
	result := Result{
		Stdout:   outBuf.Bytes(),
		Stderr:   errBuf.Bytes(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s: %w", binary, ctxErr)
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return result, fmt.Errorf("%w: %s after %s", ErrTimeout, binary, command.Timeout)
	}
	if scanErr != nil {
		return result, fmt.Errorf("scan output: %w", scanErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return result, nil
		}
		return result, fmt.Errorf("wait %s: %w", binary, waitErr)
	}
	return result, nil
}

// Quote returns arg unchanged when it only contains characters that are
// inert in a POSIX shell; otherwise it is wrapped in single quotes with any
// embedded single quote rendered as '\''. Colons, brackets, and backslashes
// are quoted as well so the line survives ffmpeg option parsing when pasted.
func Quote(arg string) string {
	if arg == "" {
		return "''"
	}
	safe := true
	for _, r := range arg {
		if !isSafeRune(r) {
			safe = false
			break
		}
	}
	if safe {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

func isSafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '-', '_', '.', '/', '=', '+', ',', '@', '%':
		return true
	}
	return false
}

func tailLines(text string, n int) string {
	text = strings.TrimSpace(text)
	if n <= 0 || text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= n {
		return text
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
