package debug

import (
	"context"
	"log/slog"
	"time"

	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/ui/format"
)

// ExportTaskName is the scheduler name of the segmentation export task.
const ExportTaskName = "segmentation_export"

// StateSource provides the current view state.
type StateSource interface {
	Get() monitor.ViewState
}

// ExportTask logs the segmentation statistics with display formatting. It only
// fires while the current product is positive.
func ExportTask(source StateSource, interval time.Duration, logger *slog.Logger) monitor.Task {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return monitor.Task{
		Name:   ExportTaskName,
		Period: interval,
		Gate: func() bool {
			return source != nil && source.Get().Stats.CurrentProduct > 0
		},
		Run: func(context.Context) error {
			if logger == nil || source == nil {
				return nil
			}
			logger.Info("segmentation-export", ExportAttrs(source.Get().Stats)...)
			return nil
		},
	}
}

// ExportAttrs formats segmentation statistics as log attributes.
func ExportAttrs(st monitor.SegmentationStats) []any {
	return []any{
		slog.Time("timestamp", time.Now()),
		slog.String("camera1_area", format.Count(st.Camera1Area)),
		slog.String("camera2_area", format.Count(st.Camera2Area)),
		slog.String("current_product", format.Count(st.CurrentProduct)),
		slog.String("max_product", format.Count(st.MaxProduct)),
		slog.String("average_product", format.Count(st.AverageProduct)),
		slog.Float64("total_calculations", st.TotalCalculations),
		slog.Float64("non_zero_products", st.NonZeroProducts),
	}
}
