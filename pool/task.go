package pool

import "context"

// cell is the type-erased unit of work stored in the task queue. Workers only
// ever see this interface; the concrete result type lives behind it.
type cell interface {
	// id is the submission sequence number.
	id() uint64

	// call runs the wrapped function once and keeps its value for settle.
	call(ctx context.Context) error

	// settle publishes the kept value together with the final error.
	settle(err error)
}

// taskCell binds one submitted function to the Future awaiting its result.
type taskCell[R any] struct {
	seq    uint64
	fn     func(context.Context) (R, error)
	value  R
	future *Future[R]
}

func newTaskCell[R any](seq uint64, fn func(context.Context) (R, error)) *taskCell[R] {
	return &taskCell[R]{
		seq:    seq,
		fn:     fn,
		future: newFuture[R](seq),
	}
}

func (c *taskCell[R]) id() uint64 {
	return c.seq
}

func (c *taskCell[R]) call(ctx context.Context) error {
	v, err := c.fn(ctx)
	c.value = v
	return err
}

// settle hands the outcome to the Future. A failed task reports the zero
// value, never a partial one.
func (c *taskCell[R]) settle(err error) {
	v := c.value
	if err != nil {
		var zero R
		v = zero
	}
	c.future.complete(v, err)
	c.fn = nil
}
