package remote

// StatusSuccess is the status value the analytics service reports for an accepted command.
const StatusSuccess = "success"

// CameraStatusEntry is the per-camera block of a camera status response.
type CameraStatusEntry struct {
	Connected        bool    `json:"connected"`
	Processing       bool    `json:"processing"`
	SegmentationArea float64 `json:"segmentation_area"`
}

// CameraStatus is the payload of GET /camera_status. Alarm statistics are merged
// into the same document by the service.
type CameraStatus struct {
	Camera1              CameraStatusEntry `json:"camera1"`
	Camera2              CameraStatusEntry `json:"camera2"`
	AreaProduct          float64           `json:"area_product"`
	ModelsLoaded         bool              `json:"models_loaded"`
	TotalAlarms          float64           `json:"total_alarms"`
	PendingAlarms        float64           `json:"pending_alarms"`
	CorrectAlarms        float64           `json:"correct_alarms"`
	IncorrectAlarms      float64           `json:"incorrect_alarms"`
	AccuracyPercentage   float64           `json:"accuracy_percentage"`
	EvaluationPercentage float64           `json:"evaluation_percentage"`
}

// Camera returns the entry for the given camera identifier.
func (s CameraStatus) Camera(id string) (CameraStatusEntry, bool) {
	switch id {
	case "camera1":
		return s.Camera1, true
	case "camera2":
		return s.Camera2, true
	}
	return CameraStatusEntry{}, false
}

// SegmentationStats is the payload of GET /get_segmentation_stats.
type SegmentationStats struct {
	Camera1Area       float64 `json:"camera1_area"`
	Camera2Area       float64 `json:"camera2_area"`
	CurrentProduct    float64 `json:"current_product"`
	MaxProduct        float64 `json:"max_product"`
	AverageProduct    float64 `json:"average_product"`
	TotalCalculations float64 `json:"total_calculations"`
	NonZeroProducts   float64 `json:"non_zero_products"`
}

// Alarm is one pending detection event.
type Alarm struct {
	ID        string `json:"id"`
	CameraID  string `json:"camera_id"`
	Timestamp string `json:"timestamp"`
	Filename  string `json:"filename"`
}

// AlarmList is the payload of GET /get_alarms.
type AlarmList struct {
	Alarms       []Alarm `json:"alarms"`
	TotalPending float64 `json:"total_pending"`
}

// Statistics is the payload of GET /get_statistics.
type Statistics struct {
	TotalAlarms          float64           `json:"total_alarms"`
	PendingAlarms        float64           `json:"pending_alarms"`
	CorrectAlarms        float64           `json:"correct_alarms"`
	IncorrectAlarms      float64           `json:"incorrect_alarms"`
	AccuracyPercentage   float64           `json:"accuracy_percentage"`
	EvaluationPercentage float64           `json:"evaluation_percentage"`
	Folders              map[string]string `json:"folders,omitempty"`
}

// CommandResult is the envelope returned by every mutation endpoint.
type CommandResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the service accepted the command.
func (r CommandResult) OK() bool { return r.Status == StatusSuccess }

// request payloads
type (
	evaluatePayload struct {
		AlarmID   string `json:"alarm_id"`
		IsCorrect bool   `json:"is_correct"`
	}
	connectPayload struct {
		CameraID string `json:"camera_id"`
		RTSPURL  string `json:"rtsp_url"`
	}
	disconnectPayload struct {
		CameraID string `json:"camera_id"`
	}
)
