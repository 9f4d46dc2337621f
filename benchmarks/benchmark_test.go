package benchmarks

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/liangbm3/BasicTreadPool/pool"
)

func newPool(b *testing.B, workers int, opts ...pool.Option) *pool.Pool {
	b.Helper()
	p, err := pool.New(workers, opts...)
	if err != nil {
		b.Fatalf("failed to create pool: %v", err)
	}
	return p
}

// =============================================================================
// Throughput Benchmarks
// =============================================================================

func BenchmarkSubmitGet_WorkerScaling(b *testing.B) {
	for _, workers := range []int{1, 2, 4, 8, runtime.NumCPU()} {
		for _, cfg := range getAllConfigs() {
			b.Run(fmt.Sprintf("%s/Workers_%d", cfg.name, workers), func(b *testing.B) {
				p := newPool(b, workers, cfg.opts...)
				defer p.Shutdown()

				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					f, err := pool.SubmitFunc(p, func() int {
						return cpuBoundWork(100, i)
					})
					if err != nil {
						b.Fatal(err)
					}
					_, _ = f.Get()
				}
			})
		}
	}
}

func BenchmarkSubmit_Batch(b *testing.B) {
	const batch = 1000

	for _, cfg := range getAllConfigs() {
		b.Run(cfg.name, func(b *testing.B) {
			p := newPool(b, runtime.NumCPU(), cfg.opts...)
			defer p.Shutdown()

			futures := make([]*pool.Future[int], batch)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				for j := range futures {
					futures[j], _ = pool.SubmitFunc(p, func() int {
						return cpuBoundWork(1000, j)
					})
				}
				for _, f := range futures {
					_, _ = f.Get()
				}
			}
			b.ReportMetric(float64(batch*b.N)/b.Elapsed().Seconds(), "tasks/sec")
		})
	}
}

func BenchmarkSubmit_ConcurrentProducers(b *testing.B) {
	p := newPool(b, runtime.NumCPU())
	defer p.Shutdown()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			f, err := pool.Go(p, func() {})
			if err != nil {
				b.Error(err)
				return
			}
			_, _ = f.Get()
		}
	})
}

func BenchmarkSubmit_IOBound(b *testing.B) {
	for _, workers := range []int{4, 16, 64} {
		b.Run(fmt.Sprintf("Workers_%d", workers), func(b *testing.B) {
			p := newPool(b, workers)
			defer p.Shutdown()

			var wg sync.WaitGroup
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				f, _ := pool.Go(p, func() {
					time.Sleep(time.Millisecond)
				})
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = f.Get()
				}()
			}
			wg.Wait()
		})
	}
}

// =============================================================================
// Feature Overhead
// =============================================================================

func BenchmarkOverhead_Retry(b *testing.B) {
	p := newPool(b, runtime.NumCPU(), pool.WithRetryPolicy(2, 0))
	defer p.Shutdown()

	failFirst := errors.New("first attempt fails")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		attempt := 0
		f, _ := pool.Submit(p, func() (int, error) {
			attempt++
			if attempt == 1 {
				return 0, failFirst
			}
			return i, nil
		})
		if _, err := f.Get(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkOverhead_PanicRecovery(b *testing.B) {
	p := newPool(b, runtime.NumCPU())
	defer p.Shutdown()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, _ := pool.Go(p, func() { panic("benchmark") })
		if _, err := f.Get(); err == nil {
			b.Fatal("expected panic error")
		}
	}
}

func BenchmarkOverhead_Hooks(b *testing.B) {
	p := newPool(b, runtime.NumCPU(),
		pool.WithBeforeTaskStart(func(uint64) {}),
		pool.WithOnTaskEnd(func(uint64, error) {}),
	)
	defer p.Shutdown()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, _ := pool.Go(p, func() {})
		_, _ = f.Get()
	}
}
