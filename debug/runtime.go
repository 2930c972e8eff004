package debug

// Runtime stats logger scheduled only when config.Debug is true.
// Emits goroutine count (runtime metrics) and memory usage at a fixed interval
// to spot leaked polling goroutines or runaway heap growth.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/soocke/dualcam-monitor/domain/monitor"
)

// RuntimeTaskName is the scheduler name of the runtime stats task.
const RuntimeTaskName = "runtime_stats"

// RuntimeTask returns a scheduler task logging goroutine and memory stats.
func RuntimeTask(interval time.Duration, logger *slog.Logger) monitor.Task {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return monitor.Task{
		Name:   RuntimeTaskName,
		Period: interval,
		Run: func(context.Context) error {
			if logger == nil {
				return nil
			}
			samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
			metrics.Read(samples)
			var goroutines uint64
			if samples[0].Value.Kind() == metrics.KindUint64 {
				goroutines = samples[0].Value.Uint64()
			}
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			logger.Info("runtime-stats",
				slog.Uint64("goroutines", goroutines),
				slog.Uint64("stack_inuse", ms.StackInuse),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
				slog.Uint64("heap_objects", ms.HeapObjects),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			)
			return nil
		},
	}
}
