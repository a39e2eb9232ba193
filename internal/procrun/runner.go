package procrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/vk/langbench/internal/ctxlog"
)

var (
	// ErrEmptyCommand is returned for a command without an executable.
	ErrEmptyCommand = errors.New("empty command")
	// ErrInvalidDeadline is returned for a non-positive deadline.
	ErrInvalidDeadline = errors.New("deadline must be positive")
)

// Status classifies the end of a process run.
type Status int

const (
	StatusUnknown Status = iota
	// StatusExited means the process exited on its own within the deadline.
	StatusExited
	// StatusTimedOut means the deadline elapsed and the process tree was killed.
	StatusTimedOut
	// StatusLaunchFailed means the process could not be started.
	StatusLaunchFailed
	// StatusCancelled means the parent context was cancelled first.
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusExited:
		return "exited"
	case StatusTimedOut:
		return "timed out"
	case StatusLaunchFailed:
		return "launch failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Command is an argument vector plus the directory it runs in. It is never
// interpreted by a shell.
type Command struct {
	Args []string
	Dir  string
}

func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// Result describes one finished run.
type Result struct {
	Status   Status
	ExitCode int
	// Elapsed is the wall-clock time from launch to exit. It is zero unless
	// Status is StatusExited.
	Elapsed time.Duration
	Stdout  []byte
	Stderr  []byte
	// Err holds the launch or cancellation diagnostic.
	Err error
	Pid int
}

// Success reports whether the process exited with code 0.
func (r Result) Success() bool {
	return r.Status == StatusExited && r.ExitCode == 0
}

// Runner executes commands. The zero value is usable.
type Runner struct {
	// DrainTimeout bounds how long output is still read after the process
	// group has been killed. Descendants that escaped the group may keep the
	// pipes open; after this delay the read ends are closed.
	DrainTimeout time.Duration

	// MaxOutput caps the bytes kept per stream. Output beyond the cap is
	// read and discarded. Zero keeps everything.
	MaxOutput int
}

// New returns a Runner with the default drain timeout and output cap.
func New() *Runner {
	return &Runner{DrainTimeout: 2 * time.Second, MaxOutput: 4 << 20}
}

// Run launches cmd and waits for it to exit or for deadline to pass.
func (r *Runner) Run(ctx context.Context, cmd Command, deadline time.Duration) Result {
	logger := ctxlog.FromContext(ctx).With("command", cmd.String(), "dir", cmd.Dir)

	if len(cmd.Args) == 0 || cmd.Args[0] == "" {
		return launchFailed(ErrEmptyCommand)
	}
	if deadline <= 0 {
		return launchFailed(fmt.Errorf("%w: %s", ErrInvalidDeadline, deadline))
	}
	if err := ctx.Err(); err != nil {
		logger.Debug("Context already cancelled, not starting process.")
		return Result{Status: StatusCancelled, ExitCode: -1, Err: err}
	}
	if cmd.Dir != "" {
		info, err := os.Stat(cmd.Dir)
		if err != nil {
			return launchFailed(fmt.Errorf("working directory: %w", err))
		}
		if !info.IsDir() {
			return launchFailed(fmt.Errorf("working directory %s is not a directory", cmd.Dir))
		}
	}

	outR, outW, err := os.Pipe()
	if err != nil {
		return launchFailed(fmt.Errorf("stdout pipe: %w", err))
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		outR.Close()
		outW.Close()
		return launchFailed(fmt.Errorf("stderr pipe: %w", err))
	}

	c := exec.Command(cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Stdout = outW
	c.Stderr = errW
	setProcessGroup(c)

	start := time.Now()
	startErr := c.Start()
	// The child holds its own copies of the write ends.
	outW.Close()
	errW.Close()
	if startErr != nil {
		outR.Close()
		errR.Close()
		return launchFailed(fmt.Errorf("start %s: %w", cmd.Args[0], startErr))
	}
	pid := c.Process.Pid
	logger.Debug("Process started.", "pid", pid, "deadline", deadline)

	tree, err := attachTree(c)
	if err != nil {
		logger.Warn("Process tree tracking is partial.", "pid", pid, "error", err)
	}
	defer tree.release()

	stdout := &cappedBuffer{limit: r.MaxOutput}
	stderr := &cappedBuffer{limit: r.MaxOutput}
	var drains sync.WaitGroup
	drains.Add(2)
	go drain(&drains, outR, stdout)
	go drain(&drains, errR, stderr)

	done := make(chan error, 1)
	go func() {
		done <- c.Wait()
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	res := Result{Pid: pid}
	select {
	case waitErr := <-done:
		res.Elapsed = time.Since(start)
		res.Status = StatusExited
		res.ExitCode = exitCode(waitErr)
		if res.ExitCode < 0 {
			res.Err = waitErr
		}
	case <-timer.C:
		logger.Warn("Deadline exceeded, killing process tree.", "pid", pid, "deadline", deadline)
		res.Status = StatusTimedOut
		res.Err = fmt.Errorf("deadline of %s exceeded", deadline)
		r.terminate(ctx, c, tree, done)
	case <-ctx.Done():
		logger.Warn("Context cancelled, killing process tree.", "pid", pid)
		res.Status = StatusCancelled
		res.Err = ctx.Err()
		r.terminate(ctx, c, tree, done)
	}

	// Sweep the tree even after a normal exit: the leader may have left
	// background children running.
	if err := tree.kill(); err != nil {
		logger.Debug("Process tree sweep failed.", "pid", pid, "error", err)
	}
	r.waitDrains(&drains, outR, errR)

	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	logger.Debug("Process finished.", "pid", pid, "status", res.Status.String(), "exit_code", res.ExitCode, "elapsed", res.Elapsed)
	return res
}

// terminate kills the process tree and waits for the leader to be reaped.
func (r *Runner) terminate(ctx context.Context, c *exec.Cmd, tree *processTree, done <-chan error) {
	if err := tree.kill(); err != nil {
		ctxlog.FromContext(ctx).Error("Failed to kill process tree.", "pid", c.Process.Pid, "error", err)
		_ = c.Process.Kill()
	}
	<-done
}

func (r *Runner) waitDrains(wg *sync.WaitGroup, readers ...*os.File) {
	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()

	if r.DrainTimeout <= 0 {
		<-drained
		return
	}
	timer := time.NewTimer(r.DrainTimeout)
	defer timer.Stop()
	select {
	case <-drained:
	case <-timer.C:
		for _, f := range readers {
			f.Close()
		}
		<-drained
	}
}

func drain(wg *sync.WaitGroup, src *os.File, dst io.Writer) {
	defer wg.Done()
	defer src.Close()
	_, _ = io.Copy(dst, src)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func launchFailed(err error) Result {
	return Result{Status: StatusLaunchFailed, ExitCode: -1, Err: err}
}

// cappedBuffer keeps at most limit bytes and silently discards the rest so
// the writer side never blocks.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if b.limit <= 0 {
		return b.buf.Write(p)
	}
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) <= room {
			b.buf.Write(p)
		} else {
			b.buf.Write(p[:room])
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
