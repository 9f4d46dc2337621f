// Package cpu binds worker goroutines to OS threads and CPU cores.
package cpu

import "runtime"

// Core maps a worker index onto the available logical CPUs.
func Core(workerID int) int {
	n := runtime.NumCPU()
	core := workerID % n
	if core < 0 {
		core += n
	}
	return core
}
