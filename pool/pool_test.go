package pool

import (
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// Four workers, eight squares, plus a string, a float and a void task.
func TestPool_MixedWorkload(t *testing.T) {
	p, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Shutdown()

	squares := make([]*Future[int], 8)
	for i := range squares {
		squares[i], err = SubmitFunc(p, func() int {
			time.Sleep(5 * time.Millisecond)
			return i * i
		})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	text, _ := Submit1(p, func(s string) (string, error) {
		return "processed: " + s, nil
	}, "hello")
	calc, _ := Submit2(p, func(x, y float64) (float64, error) {
		return x*y + 10.0, nil
	}, 3.0, 2.0)
	var ran atomic.Bool
	void, _ := Go(p, func() { ran.Store(true) })

	for i, f := range squares {
		v, err := f.Get()
		if err != nil || v != i*i {
			t.Errorf("square %d: expected (%d, nil), got (%d, %v)", i, i*i, v, err)
		}
	}
	if s, _ := text.Get(); !strings.HasSuffix(s, "hello") {
		t.Errorf("unexpected string result %q", s)
	}
	if v, _ := calc.Get(); v != 16 {
		t.Errorf("expected 16, got %v", v)
	}
	if _, err := void.Get(); err != nil || !ran.Load() {
		t.Errorf("void task: err=%v ran=%v", err, ran.Load())
	}
}

func TestPool_Introspection(t *testing.T) {
	p, err := New(1, WithQueueCapacity(8))
	if err != nil {
		t.Fatal(err)
	}

	if p.WorkerCount() != 1 || p.QueueCapacity() != 8 {
		t.Errorf("unexpected sizes: workers=%d cap=%d", p.WorkerCount(), p.QueueCapacity())
	}

	release := make(chan struct{})
	started := make(chan struct{})
	_, _ = Go(p, func() {
		close(started)
		<-release
	})
	<-started
	for range 2 {
		_, _ = Go(p, func() {})
	}

	if got := p.QueueLength(); got != 2 {
		t.Errorf("expected 2 queued, got %d", got)
	}
	if got := p.Outstanding(); got != 3 {
		t.Errorf("expected 3 outstanding, got %d", got)
	}

	close(release)
	p.Shutdown()

	if p.Outstanding() != 0 || p.QueueLength() != 0 {
		t.Errorf("expected an empty pool after shutdown, outstanding=%d queued=%d", p.Outstanding(), p.QueueLength())
	}
	select {
	case <-p.Done():
	default:
		t.Error("expected Done to be closed after Shutdown")
	}
}

func TestPool_Close(t *testing.T) {
	p, err := New(2)
	if err != nil {
		t.Fatal(err)
	}

	var c io.Closer = p
	f, _ := SubmitFunc(p, func() int { return 42 })
	if err := c.Close(); err != nil {
		t.Errorf("Close returned %v", err)
	}
	if !p.IsShutdown() {
		t.Error("expected pool to be shut down after Close")
	}
	v, err, ready := f.TryGet()
	if !ready || err != nil || v != 42 {
		t.Errorf("expected a settled 42 after Close, got (%d, %v, %v)", v, err, ready)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
}
