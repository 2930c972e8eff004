package presenter

import (
	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/ui/format"
)

// Slot names a visual element a surface knows how to draw.
type Slot string

const (
	SlotCamera1Indicator Slot = "camera1.indicator"
	SlotCamera2Indicator Slot = "camera2.indicator"
	SlotCamera1Area      Slot = "camera1.area"
	SlotCamera2Area      Slot = "camera2.area"
	SlotAreaProduct      Slot = "area_product"
	SlotCamera1Uptime    Slot = "camera1.uptime"
	SlotCamera2Uptime    Slot = "camera2.uptime"
	SlotCamera1Video     Slot = "camera1.video"
	SlotCamera2Video     Slot = "camera2.video"

	SlotSegCamera1Area     Slot = "segmentation.camera1_area"
	SlotSegCamera2Area     Slot = "segmentation.camera2_area"
	SlotCurrentProduct     Slot = "segmentation.current_product"
	SlotMaxProduct         Slot = "segmentation.max_product"
	SlotAverageProduct     Slot = "segmentation.average_product"
	SlotTotalCalculations  Slot = "segmentation.total_calculations"
	SlotNonZeroProducts    Slot = "segmentation.non_zero_products"
	SlotFormulaCamera1     Slot = "formula.camera1"
	SlotFormulaCamera2     Slot = "formula.camera2"
	SlotFormulaResult      Slot = "formula.result"
	SlotTotalAlarms        Slot = "summary.total"
	SlotPendingAlarms      Slot = "summary.pending"
	SlotCorrectAlarms      Slot = "summary.correct"
	SlotIncorrectAlarms    Slot = "summary.incorrect"
	SlotAccuracy           Slot = "summary.accuracy"
	SlotEvaluation         Slot = "summary.evaluation"
	SlotAlarmsTotalPending Slot = "alarms.total_pending"
	SlotActions            Slot = "actions.status"

	// Activity cards; only SetActive is called for these.
	SlotCamera1Card Slot = "card.camera1"
	SlotCamera2Card Slot = "card.camera2"
	SlotProductCard Slot = "card.product"
)

// IndicatorSlot returns the status indicator slot of a camera.
func IndicatorSlot(id monitor.CameraID) Slot {
	if id == monitor.Camera2 {
		return SlotCamera2Indicator
	}
	return SlotCamera1Indicator
}

// UptimeSlot returns the connection duration slot of a camera.
func UptimeSlot(id monitor.CameraID) Slot {
	if id == monitor.Camera2 {
		return SlotCamera2Uptime
	}
	return SlotCamera1Uptime
}

// VideoSlot returns the live video reference slot of a camera.
func VideoSlot(id monitor.CameraID) Slot {
	if id == monitor.Camera2 {
		return SlotCamera2Video
	}
	return SlotCamera1Video
}

// HighlightRule decides whether a changed value flashes.
type HighlightRule int

const (
	HighlightNever HighlightRule = iota
	// HighlightPositive flashes when the value changed to something above zero.
	HighlightPositive
	// HighlightAny flashes on every change.
	HighlightAny
)

// Binding maps state fields to one slot. The slot is redrawn whenever any of
// Fields changed; Fields[0] is the value the highlight rule inspects.
type Binding struct {
	Slot      Slot
	Fields    []monitor.Field
	Text      func(monitor.ViewState) string
	Highlight HighlightRule
}

func count(f monitor.Field) func(monitor.ViewState) string {
	return func(v monitor.ViewState) string { return format.Count(v.Number(f)) }
}

func percent(f monitor.Field) func(monitor.ViewState) string {
	return func(v monitor.ViewState) string { return format.Percent(v.Number(f)) }
}

func indicator(id monitor.CameraID) func(monitor.ViewState) string {
	return func(v monitor.ViewState) string { return v.Camera(id).Indicator().String() }
}

func bind(slot Slot, f monitor.Field, text func(monitor.ViewState) string, rule HighlightRule) Binding {
	return Binding{Slot: slot, Fields: []monitor.Field{f}, Text: text, Highlight: rule}
}

// DefaultBindings is the binding table for both operator views.
func DefaultBindings() []Binding {
	var b []Binding
	for _, id := range monitor.CameraIDs {
		b = append(b, Binding{
			Slot:   IndicatorSlot(id),
			Fields: []monitor.Field{monitor.ConnectedField(id), monitor.ProcessingField(id)},
			Text:   indicator(id),
		})
	}
	return append(b,
		bind(SlotCamera1Area, monitor.AreaField(monitor.Camera1), count(monitor.AreaField(monitor.Camera1)), HighlightPositive),
		bind(SlotCamera2Area, monitor.AreaField(monitor.Camera2), count(monitor.AreaField(monitor.Camera2)), HighlightPositive),
		bind(SlotAreaProduct, monitor.FieldAreaProduct, count(monitor.FieldAreaProduct), HighlightPositive),

		bind(SlotSegCamera1Area, monitor.FieldStatsCamera1Area, count(monitor.FieldStatsCamera1Area), HighlightPositive),
		bind(SlotSegCamera2Area, monitor.FieldStatsCamera2Area, count(monitor.FieldStatsCamera2Area), HighlightPositive),
		bind(SlotCurrentProduct, monitor.FieldStatsCurrentProduct, count(monitor.FieldStatsCurrentProduct), HighlightPositive),
		bind(SlotMaxProduct, monitor.FieldStatsMaxProduct, count(monitor.FieldStatsMaxProduct), HighlightPositive),
		bind(SlotAverageProduct, monitor.FieldStatsAverageProduct, count(monitor.FieldStatsAverageProduct), HighlightPositive),
		bind(SlotTotalCalculations, monitor.FieldStatsTotalCalculations, count(monitor.FieldStatsTotalCalculations), HighlightPositive),
		bind(SlotNonZeroProducts, monitor.FieldStatsNonZeroProducts, count(monitor.FieldStatsNonZeroProducts), HighlightNever),
		bind(SlotFormulaCamera1, monitor.FieldStatsCamera1Area, count(monitor.FieldStatsCamera1Area), HighlightAny),
		bind(SlotFormulaCamera2, monitor.FieldStatsCamera2Area, count(monitor.FieldStatsCamera2Area), HighlightAny),
		bind(SlotFormulaResult, monitor.FieldStatsCurrentProduct, count(monitor.FieldStatsCurrentProduct), HighlightAny),

		bind(SlotTotalAlarms, monitor.FieldSummaryTotal, count(monitor.FieldSummaryTotal), HighlightNever),
		bind(SlotPendingAlarms, monitor.FieldSummaryPending, count(monitor.FieldSummaryPending), HighlightNever),
		bind(SlotCorrectAlarms, monitor.FieldSummaryCorrect, count(monitor.FieldSummaryCorrect), HighlightNever),
		bind(SlotIncorrectAlarms, monitor.FieldSummaryIncorrect, count(monitor.FieldSummaryIncorrect), HighlightNever),
		bind(SlotAccuracy, monitor.FieldSummaryAccuracy, percent(monitor.FieldSummaryAccuracy), HighlightNever),
		bind(SlotEvaluation, monitor.FieldSummaryEvaluation, percent(monitor.FieldSummaryEvaluation), HighlightNever),
		bind(SlotAlarmsTotalPending, monitor.FieldAlarmsTotalPending, count(monitor.FieldAlarmsTotalPending), HighlightNever),
	)
}

// activityCards maps each activity card to the value that lights it.
var activityCards = []struct {
	slot  Slot
	field monitor.Field
}{
	{SlotCamera1Card, monitor.FieldStatsCamera1Area},
	{SlotCamera2Card, monitor.FieldStatsCamera2Area},
	{SlotProductCard, monitor.FieldStatsCurrentProduct},
}
