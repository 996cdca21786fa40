package debug

// Periodic memory metrics logger, started only in debug mode. Frame decoding
// allocates a full RGBA image per sample, so this exists to correlate heap
// growth with the frames-processed counter in the main log stream.

import (
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// StartMemstatsLogger launches a ticker that logs heap and goroutine stats.
// It is lightweight; disable by running without the debug flag.
func StartMemstatsLogger(interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for range t.C {
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			logger.Info("memstats",
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
				slog.Uint64("heap_inuse", ms.HeapInuse),
				slog.Uint64("heap_sys", ms.HeapSys),
				slog.Uint64("stack_inuse", ms.StackInuse),
				slog.Uint64("next_gc", ms.NextGC),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			)
		}
	}()
}
