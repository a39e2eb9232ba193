//go:build !windows

package procrun

import (
	"errors"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// processTree is the child's process group.
type processTree struct {
	pgid int
}

// setProcessGroup makes the child the leader of a new process group so the
// whole tree can be signalled at once.
func setProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// attachTree is called right after Start.
func attachTree(c *exec.Cmd) (*processTree, error) {
	return &processTree{pgid: c.Process.Pid}, nil
}

// kill sends SIGKILL to every process in the group. A group that no longer
// exists is not an error.
func (t *processTree) kill() error {
	err := unix.Kill(-t.pgid, unix.SIGKILL)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}

func (t *processTree) release() {}
