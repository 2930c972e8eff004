// Package monitor keeps the local view of the analytics service in sync: the view
// state store, the polling scheduler and the loop that serializes completions.
package monitor

import (
	"strings"
	"time"
)

// CameraID names one of the two fixed camera slots.
type CameraID string

const (
	Camera1 CameraID = "camera1"
	Camera2 CameraID = "camera2"
)

// CameraIDs lists the slots in display order.
var CameraIDs = []CameraID{Camera1, Camera2}

// Valid reports whether id is one of the known slots.
func (id CameraID) Valid() bool { return id == Camera1 || id == Camera2 }

// Index returns the slot position (0 or 1), or -1 for an unknown id.
func (id CameraID) Index() int {
	switch id {
	case Camera1:
		return 0
	case Camera2:
		return 1
	}
	return -1
}

// Label is the operator-facing slot name.
func (id CameraID) Label() string {
	switch id {
	case Camera1:
		return "Camera 1"
	case Camera2:
		return "Camera 2"
	}
	return string(id)
}

// ParseCameraID accepts "camera1", "Camera1", "1" and the like.
func ParseCameraID(s string) (CameraID, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "1", "camera1", "cam1":
		return Camera1, true
	case "2", "camera2", "cam2":
		return Camera2, true
	}
	return "", false
}

// Indicator is the status shown next to a camera.
type Indicator int

const (
	IndicatorDisconnected Indicator = iota
	IndicatorConnected
	IndicatorProcessing
)

func (i Indicator) String() string {
	switch i {
	case IndicatorConnected:
		return "connected"
	case IndicatorProcessing:
		return "processing"
	default:
		return "disconnected"
	}
}

// CameraState is the last known state of one camera slot.
type CameraState struct {
	ID               CameraID
	Connected        bool
	Processing       bool
	SegmentationArea float64
}

// Indicator derives the status indicator from the connectivity flags.
func (c CameraState) Indicator() Indicator {
	switch {
	case c.Connected && c.Processing:
		return IndicatorProcessing
	case c.Connected:
		return IndicatorConnected
	}
	return IndicatorDisconnected
}

// SegmentationStats mirrors the service's segmentation aggregates. CurrentProduct is
// never recomputed locally.
type SegmentationStats struct {
	Camera1Area       float64
	Camera2Area       float64
	CurrentProduct    float64
	MaxProduct        float64
	AverageProduct    float64
	TotalCalculations float64
	NonZeroProducts   float64
}

// AlarmSummary carries the running evaluation statistics.
type AlarmSummary struct {
	TotalAlarms          float64
	PendingAlarms        float64
	CorrectAlarms        float64
	IncorrectAlarms      float64
	AccuracyPercentage   float64
	EvaluationPercentage float64
}

// Alarm is a pending detection event awaiting an operator verdict.
type Alarm struct {
	ID        string
	CameraID  CameraID
	Timestamp time.Time
	Filename  string
}

// AlarmList is a full replacement snapshot of the pending alarms.
type AlarmList struct {
	Items        []Alarm
	TotalPending float64
}

// ViewState is the immutable snapshot handed out by Store.Get.
type ViewState struct {
	Cameras     [2]CameraState
	AreaProduct float64
	Stats       SegmentationStats
	Summary     AlarmSummary
	Alarms      AlarmList
}

// Camera returns the state for id; unknown ids yield a zero state.
func (v ViewState) Camera(id CameraID) CameraState {
	if i := id.Index(); i >= 0 {
		return v.Cameras[i]
	}
	return CameraState{ID: id}
}

// DataKind identifies an independently polled data source.
type DataKind int

const (
	KindCameraStatus DataKind = iota
	KindSegmentation
	KindAlarms
	kindCount
)

func (k DataKind) String() string {
	switch k {
	case KindCameraStatus:
		return "camera_status"
	case KindSegmentation:
		return "segmentation"
	case KindAlarms:
		return "alarms"
	}
	return "unknown"
}
