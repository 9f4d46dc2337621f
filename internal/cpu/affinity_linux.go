//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to its OS thread and restricts that thread
// to a single core, chosen as workerID modulo the number of CPUs. The returned
// release func must be called from the same goroutine. Pinning failures still
// leave the goroutine locked, so release is always non-nil.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	release = runtime.UnlockOSThread

	core := Core(workerID)

	var set unix.CPUSet
	set.Zero()
	set.Set(core)

	return release, unix.SchedSetaffinity(0, &set)
}
