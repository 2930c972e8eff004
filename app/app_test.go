package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soocke/dualcam-monitor/config"
	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/ui/model"
	"github.com/soocke/dualcam-monitor/ui/presenter"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", msg)
}

type fakeService struct {
	requests  atomic.Int32
	connected atomic.Bool
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	w.Header().Set("Content-Type", "application/json")
	var body any
	switch r.URL.Path {
	case "/camera_status":
		body = map[string]any{
			"camera1":      map[string]any{"connected": f.connected.Load(), "processing": false, "segmentation_area": 120},
			"camera2":      map[string]any{"connected": false, "processing": false, "segmentation_area": 0},
			"area_product": 0,
			"total_alarms": 3, "pending_alarms": 1,
		}
	case "/get_segmentation_stats":
		body = map[string]any{"camera1_area": 120, "camera2_area": 0, "current_product": 0}
	case "/get_alarms":
		body = map[string]any{"alarms": []any{map[string]any{"id": "a1", "camera_id": "camera1", "timestamp": "2024-05-01T10:00:00", "filename": "a1.jpg"}}, "total_pending": 1}
	case "/connect_camera":
		f.connected.Store(true)
		body = map[string]any{"status": "success", "message": "ok"}
	default:
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

type nopSurface struct{}

func (nopSurface) SetText(presenter.Slot, string)    {}
func (nopSurface) SetHighlight(presenter.Slot, bool) {}
func (nopSurface) SetActive(presenter.Slot, bool)    {}
func (nopSurface) SetAlarms([]presenter.AlarmRow)    {}
func (nopSurface) SetControl(string, model.Control)  {}

func testConfig(baseURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Intervals.CameraStatus = 20 * time.Millisecond
	cfg.Intervals.Segmentation = 20 * time.Millisecond
	cfg.Intervals.Alarms = 20 * time.Millisecond
	cfg.Intervals.Activity = 20 * time.Millisecond
	cfg.EvaluateRefreshDelay = 0
	return cfg
}

func TestApp_InitPollsAndShutdown(t *testing.T) {
	svc := &fakeService{}
	srv := httptest.NewServer(svc)
	defer srv.Close()

	c := BuildContainer(testConfig(srv.URL), discardLogger)
	c.AttachSurface(nopSurface{}, nil)
	a := New(c)
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := a.Init(context.Background()); err != ErrAlreadyStarted {
		t.Fatalf("second init: got %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		v := c.Store.Get()
		return v.Camera(monitor.Camera1).SegmentationArea == 120 && len(v.Alarms.Items) == 1
	}, "polled state")

	info := a.DebugInfo()
	names := map[string]bool{}
	for _, task := range info.Tasks {
		names[task.Name] = true
	}
	for _, want := range []string{monitor.TaskCameraStatus, monitor.TaskSegmentation, monitor.TaskAlarms, ActivityTaskName} {
		if !names[want] {
			t.Fatalf("task %s not registered: %+v", want, info.Tasks)
		}
	}
	if !info.Active || info.Alarms != 1 || info.Cameras["camera1"] != "disconnected" {
		t.Fatalf("unexpected debug info: %+v", info)
	}

	form := c.ConnectionForm(monitor.Camera1)
	form.Address, form.Username, form.Password = "10.0.0.2", "admin", "pw"
	if err := c.Actions.ConnectCamera(context.Background(), monitor.Camera1, form); err != nil {
		t.Fatalf("connect: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return c.Store.Get().Camera(monitor.Camera1).Connected }, "camera1 connected")

	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
	before := svc.requests.Load()
	time.Sleep(80 * time.Millisecond)
	if after := svc.requests.Load(); after != before {
		t.Fatalf("requests after shutdown: %d -> %d", before, after)
	}
	if !a.DebugInfo().Stopped {
		t.Fatalf("debug info should report stopped")
	}
}

func TestApp_MetricsListener(t *testing.T) {
	svc := &fakeService{}
	srv := httptest.NewServer(svc)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MetricsAddr = "127.0.0.1:0"
	a := New(BuildContainer(cfg, discardLogger))
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer a.Shutdown(context.Background())

	waitFor(t, 2*time.Second, func() bool { return a.Metrics.PollsOK.Load() > 0 }, "first poll")
	resp, err := http.Get("http://" + a.MetricsAddr() + "/metrics")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"dualcam_polls_total", "dualcam_segmentation_area"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics missing %s", want)
		}
	}
}
