package pool

// BeforeTaskStartFunc is called on the worker goroutine right before a task runs.
type BeforeTaskStartFunc func(taskID uint64)

// TaskEndFunc is called on the worker goroutine after a task's final attempt,
// with the error that will be delivered through its Future (nil on success).
type TaskEndFunc func(taskID uint64, err error)

// RetryFunc is called before each retry with the 1-based number of the attempt
// that just failed and its error.
type RetryFunc func(taskID uint64, attempt int, err error)
