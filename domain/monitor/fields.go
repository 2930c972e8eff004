package monitor

import (
	"strings"

	"github.com/samber/lo"
)

// Field names one scalar of the view state. Change detection and render bindings
// are both keyed by Field.
type Field string

const (
	FieldAreaProduct Field = "area_product"

	FieldStatsCamera1Area       Field = "stats.camera1_area"
	FieldStatsCamera2Area       Field = "stats.camera2_area"
	FieldStatsCurrentProduct    Field = "stats.current_product"
	FieldStatsMaxProduct        Field = "stats.max_product"
	FieldStatsAverageProduct    Field = "stats.average_product"
	FieldStatsTotalCalculations Field = "stats.total_calculations"
	FieldStatsNonZeroProducts   Field = "stats.non_zero_products"

	FieldSummaryTotal      Field = "summary.total_alarms"
	FieldSummaryPending    Field = "summary.pending_alarms"
	FieldSummaryCorrect    Field = "summary.correct_alarms"
	FieldSummaryIncorrect  Field = "summary.incorrect_alarms"
	FieldSummaryAccuracy   Field = "summary.accuracy_percentage"
	FieldSummaryEvaluation Field = "summary.evaluation_percentage"

	// FieldAlarms changes when the identity sequence of pending alarms changes.
	FieldAlarms             Field = "alarms"
	FieldAlarmsTotalPending Field = "alarms.total_pending"
)

// ConnectedField is the connected flag of a camera.
func ConnectedField(id CameraID) Field { return Field(string(id) + ".connected") }

// ProcessingField is the processing flag of a camera.
func ProcessingField(id CameraID) Field { return Field(string(id) + ".processing") }

// AreaField is the segmentation area reported with the camera status.
func AreaField(id CameraID) Field { return Field(string(id) + ".segmentation_area") }

type fieldSpec struct {
	field Field
	value func(ViewState) any
}

var fieldSpecs = buildFieldSpecs()

var fieldIndex = lo.SliceToMap(fieldSpecs, func(s fieldSpec) (Field, func(ViewState) any) {
	return s.field, s.value
})

func buildFieldSpecs() []fieldSpec {
	var specs []fieldSpec
	for _, id := range CameraIDs {
		i := id.Index()
		specs = append(specs,
			fieldSpec{ConnectedField(id), func(v ViewState) any { return v.Cameras[i].Connected }},
			fieldSpec{ProcessingField(id), func(v ViewState) any { return v.Cameras[i].Processing }},
			fieldSpec{AreaField(id), func(v ViewState) any { return v.Cameras[i].SegmentationArea }},
		)
	}
	return append(specs,
		fieldSpec{FieldAreaProduct, func(v ViewState) any { return v.AreaProduct }},
		fieldSpec{FieldStatsCamera1Area, func(v ViewState) any { return v.Stats.Camera1Area }},
		fieldSpec{FieldStatsCamera2Area, func(v ViewState) any { return v.Stats.Camera2Area }},
		fieldSpec{FieldStatsCurrentProduct, func(v ViewState) any { return v.Stats.CurrentProduct }},
		fieldSpec{FieldStatsMaxProduct, func(v ViewState) any { return v.Stats.MaxProduct }},
		fieldSpec{FieldStatsAverageProduct, func(v ViewState) any { return v.Stats.AverageProduct }},
		fieldSpec{FieldStatsTotalCalculations, func(v ViewState) any { return v.Stats.TotalCalculations }},
		fieldSpec{FieldStatsNonZeroProducts, func(v ViewState) any { return v.Stats.NonZeroProducts }},
		fieldSpec{FieldSummaryTotal, func(v ViewState) any { return v.Summary.TotalAlarms }},
		fieldSpec{FieldSummaryPending, func(v ViewState) any { return v.Summary.PendingAlarms }},
		fieldSpec{FieldSummaryCorrect, func(v ViewState) any { return v.Summary.CorrectAlarms }},
		fieldSpec{FieldSummaryIncorrect, func(v ViewState) any { return v.Summary.IncorrectAlarms }},
		fieldSpec{FieldSummaryAccuracy, func(v ViewState) any { return v.Summary.AccuracyPercentage }},
		fieldSpec{FieldSummaryEvaluation, func(v ViewState) any { return v.Summary.EvaluationPercentage }},
		fieldSpec{FieldAlarms, func(v ViewState) any { return alarmIdentity(v.Alarms.Items) }},
		fieldSpec{FieldAlarmsTotalPending, func(v ViewState) any { return v.Alarms.TotalPending }},
	)
}

func alarmIdentity(items []Alarm) string {
	return strings.Join(lo.Map(items, func(a Alarm, _ int) string { return a.ID }), "\x1f")
}

// Fields lists every known field in a stable order.
func Fields() []Field {
	return lo.Map(fieldSpecs, func(s fieldSpec, _ int) Field { return s.field })
}

// Value returns the scalar held by f.
func (v ViewState) Value(f Field) (any, bool) {
	get, ok := fieldIndex[f]
	if !ok {
		return nil, false
	}
	return get(v), true
}

// Number returns the numeric value of f. Flags read as 0/1, unknown fields as 0.
func (v ViewState) Number(f Field) float64 {
	val, _ := v.Value(f)
	switch x := val.(type) {
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
	}
	return 0
}

// diff returns the fields whose values differ, in Fields() order.
func diff(prev, next ViewState) []Field {
	var changed []Field
	for _, s := range fieldSpecs {
		if s.value(prev) != s.value(next) {
			changed = append(changed, s.field)
		}
	}
	return changed
}
