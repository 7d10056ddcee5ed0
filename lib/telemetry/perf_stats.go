package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var perfMeter = otel.Meter("pipeline.runtime")

// InstrumentPerfStats samples process cpu and memory gauges every 30s
// until the context is cancelled. Sampling failures are logged and skipped.
func InstrumentPerfStats(ctx context.Context) {
	cpuGauge, _ := perfMeter.Float64Gauge("cpu_percent")
	heapGauge, _ := perfMeter.Int64Gauge("heap_alloc_mb")
	objectsGauge, _ := perfMeter.Int64Gauge("live_objects")
	goroutineGauge, _ := perfMeter.Int64Gauge("goroutines")

	go func() {
		ticker := time.NewTicker(time.Second * 30)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var ms runtime.MemStats
				runtime.ReadMemStats(&ms)

				usage, err := cpu.Percent(time.Minute, false)
				if err != nil || len(usage) == 0 {
					slog.Warn("failed to sample cpu usage", "err", err)
				} else {
					cpuGauge.Record(ctx, usage[0])
				}

				heapGauge.Record(ctx, int64(ms.Alloc/1_000_000))
				objectsGauge.Record(ctx, int64(ms.Mallocs-ms.Frees))
				goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
			}
		}
	}()
}
