// Package procrun runs a single external command under a deadline and
// classifies how it ended.
//
// Each command is started in its own process group. Standard output and
// standard error are drained by two goroutines while a third waits for the
// process to exit, so a chatty child can never stall on a full pipe. Whatever
// the exit path (normal exit, deadline, cancellation) the whole process group
// is killed before Run returns, which leaves no orphaned descendants behind.
package procrun
