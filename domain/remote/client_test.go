package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(ClientConfig{BaseURL: srv.URL + "/"}, nil)
}

func TestClient_CameraStatusMissingFieldsDecodeAsZero(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathCameraStatus {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Errorf("missing %s header", RequestIDHeader)
		}
		io.WriteString(w, `{"camera1":{"connected":true,"processing":true,"segmentation_area":500},"camera2":{"connected":false}}`)
	})
	st, err := c.CameraStatus(context.Background())
	if err != nil {
		t.Fatalf("camera status: %v", err)
	}
	if !st.Camera1.Processing || st.Camera1.SegmentationArea != 500 {
		t.Fatalf("camera1 decoded wrong: got %+v", st.Camera1)
	}
	if st.Camera2.SegmentationArea != 0 || st.AreaProduct != 0 || st.TotalAlarms != 0 {
		t.Fatalf("missing fields should be zero: got %+v", st)
	}
}

func TestClient_ListAlarmsMissingArrayIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"total_pending": 3})
	})
	list, err := c.ListAlarms(context.Background())
	if err != nil {
		t.Fatalf("list alarms: %v", err)
	}
	if list.Alarms == nil || len(list.Alarms) != 0 || list.TotalPending != 3 {
		t.Fatalf("unexpected list: got %+v", list)
	}
}

func TestClient_HTTPErrorIsTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	})
	_, err := c.SegmentationStats(context.Background())
	var te *TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected transport error with 500: got %v", err)
	}
}

func TestClient_RejectedCommandIsApplicationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.Method != http.MethodPost || body["camera_id"] != "camera2" || body["rtsp_url"] != "rtsp://u:p@10.0.0.2:554/live" {
			t.Errorf("unexpected request %s %v", r.Method, body)
		}
		writeJSON(w, http.StatusOK, CommandResult{Status: "error", Message: "cannot open stream"})
	})
	res, err := c.ConnectCamera(context.Background(), "camera2", "rtsp://u:p@10.0.0.2:554/live")
	var ae *ApplicationError
	if !errors.As(err, &ae) || ae.Message != "cannot open stream" {
		t.Fatalf("expected application error: got %v", err)
	}
	if res.OK() {
		t.Fatalf("result should not be OK: got %+v", res)
	}
}

func TestClient_EvaluateAlarmSuccess(t *testing.T) {
	var got evaluatePayload
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathEvaluateAlarm {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, CommandResult{Status: StatusSuccess})
	})
	if _, err := c.EvaluateAlarm(context.Background(), "a-1", true); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got.AlarmID != "a-1" || !got.IsCorrect {
		t.Fatalf("payload mismatch: got %+v", got)
	}
}

func TestClient_NetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	c := New(ClientConfig{BaseURL: base}, nil)
	_, err := c.DisconnectCamera(context.Background(), "camera1")
	var te *TransportError
	if !errors.As(err, &te) || te.StatusCode != 0 {
		t.Fatalf("expected network transport error: got %v", err)
	}
}

func TestClient_AlarmImageURL(t *testing.T) {
	c := New(ClientConfig{BaseURL: "http://host:5000/"}, nil)
	if got := c.AlarmImageURL("alarm 1.jpg"); got != "http://host:5000/alarm_image/alarm%201.jpg" {
		t.Fatalf("image url: got %q", got)
	}
	if got := c.AlarmImageURL(""); got != "" {
		t.Fatalf("empty filename: got %q", got)
	}
}

func TestClient_VideoFeedURL(t *testing.T) {
	c := New(ClientConfig{BaseURL: "http://host:5000/"}, nil)
	if got := c.VideoFeedURL("camera2"); got != "http://host:5000/video_feed/camera2" {
		t.Fatalf("video url: got %q", got)
	}
	if got := c.VideoFeedURL(""); got != "" {
		t.Fatalf("empty camera: got %q", got)
	}
}
