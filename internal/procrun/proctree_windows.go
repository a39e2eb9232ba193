//go:build windows

package procrun

import (
	"fmt"
	"os/exec"
	"strconv"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// processTree is a job object holding the child and every process it
// spawns. Descendants stay in the job after the child exits, so they can
// still be terminated.
type processTree struct {
	pid int
	job windows.Handle
}

func setProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}

// attachTree creates a kill-on-close job object and assigns the started
// child to it. Descendants created before the assignment are not in the
// job; kill falls back to taskkill for those.
func attachTree(c *exec.Cmd) (*processTree, error) {
	t := &processTree{pid: c.Process.Pid}

	job, err := windows.CreateJobObject(nil, nil)
	if err != nil {
		return t, fmt.Errorf("create job object: %w", err)
	}
	info := windows.JOBOBJECT_EXTENDED_LIMIT_INFORMATION{
		BasicLimitInformation: windows.JOBOBJECT_BASIC_LIMIT_INFORMATION{
			LimitFlags: windows.JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE,
		},
	}
	if _, err := windows.SetInformationJobObject(
		job,
		windows.JobObjectExtendedLimitInformation,
		uintptr(unsafe.Pointer(&info)),
		uint32(unsafe.Sizeof(info)),
	); err != nil {
		windows.CloseHandle(job)
		return t, fmt.Errorf("configure job object: %w", err)
	}

	proc, err := windows.OpenProcess(windows.PROCESS_SET_QUOTA|windows.PROCESS_TERMINATE, false, uint32(t.pid))
	if err != nil {
		windows.CloseHandle(job)
		return t, fmt.Errorf("open process %d: %w", t.pid, err)
	}
	defer windows.CloseHandle(proc)

	if err := windows.AssignProcessToJobObject(job, proc); err != nil {
		windows.CloseHandle(job)
		return t, fmt.Errorf("assign process %d to job object: %w", t.pid, err)
	}
	t.job = job
	return t, nil
}

// kill terminates every process in the job, then walks whatever is left of
// the tree with taskkill.
func (t *processTree) kill() error {
	var jobErr error
	if t.job != 0 {
		jobErr = windows.TerminateJobObject(t.job, 1)
	}
	// taskkill fails when the tree is already gone; that is the normal case.
	_ = exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(t.pid)).Run()
	return jobErr
}

// release closes the job handle. Kill-on-close terminates anything the job
// still holds.
func (t *processTree) release() {
	if t.job != 0 {
		windows.CloseHandle(t.job)
		t.job = 0
	}
}
