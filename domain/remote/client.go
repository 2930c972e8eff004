// Package remote talks to the two-camera analytics service over its JSON HTTP API.
package remote

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Endpoint paths exposed by the analytics service.
const (
	PathCameraStatus      = "/camera_status"
	PathSegmentationStats = "/get_segmentation_stats"
	PathAlarms            = "/get_alarms"
	PathEvaluateAlarm     = "/evaluate_alarm"
	PathStatistics        = "/get_statistics"
	PathConnectCamera     = "/connect_camera"
	PathDisconnectCamera  = "/disconnect_camera"
	PathAlarmImage        = "/alarm_image/"
	PathVideoFeed         = "/video_feed/"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL string
	// Timeout bounds each request. Zero disables the timeout.
	Timeout time.Duration
}

// Client issues typed reads and mutation commands against the analytics service.
type Client struct {
	HTTP   *resty.Client
	Config ClientConfig
	logger *slog.Logger
}

// New constructs a Client. logger may be nil.
func New(cfg ClientConfig, logger *slog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)
	r.SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		r.SetTimeout(cfg.Timeout)
	}
	r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader(RequestIDHeader, uuid.NewString())
		return nil
	})
	c := &Client{HTTP: r, Config: cfg, logger: logger}
	r.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if c.logger != nil {
			c.logger.Debug("remote response",
				"method", resp.Request.Method,
				"url", resp.Request.URL,
				"status", resp.StatusCode(),
				"request_id", resp.Request.Header.Get(RequestIDHeader),
				"elapsed", resp.Time())
		}
		return nil
	})
	return c
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.HTTP.R().SetContext(ctx).ForceContentType("application/json")
}

// get performs a read query and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, op, path string, out any) error {
	resp, err := c.request(ctx).SetResult(out).Get(path)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if resp.IsError() {
		return &TransportError{Op: op, StatusCode: resp.StatusCode()}
	}
	return nil
}

// command posts a mutation and checks the status envelope.
func (c *Client) command(ctx context.Context, op, path string, body any) (CommandResult, error) {
	var out CommandResult
	resp, err := c.request(ctx).SetHeader("Content-Type", "application/json").SetBody(body).SetResult(&out).Post(path)
	if err != nil {
		return out, &TransportError{Op: op, Err: err}
	}
	if resp.IsError() {
		return out, &TransportError{Op: op, StatusCode: resp.StatusCode()}
	}
	if !out.OK() {
		return out, &ApplicationError{Op: op, Status: out.Status, Message: out.Message}
	}
	return out, nil
}

// CameraStatus fetches connectivity, segmentation areas and alarm statistics.
func (c *Client) CameraStatus(ctx context.Context) (CameraStatus, error) {
	var out CameraStatus
	err := c.get(ctx, "camera status", PathCameraStatus, &out)
	return out, err
}

// SegmentationStats fetches the aggregated segmentation product statistics.
func (c *Client) SegmentationStats(ctx context.Context) (SegmentationStats, error) {
	var out SegmentationStats
	err := c.get(ctx, "segmentation stats", PathSegmentationStats, &out)
	return out, err
}

// ListAlarms fetches the pending alarm list. A missing list decodes as empty.
func (c *Client) ListAlarms(ctx context.Context) (AlarmList, error) {
	var out AlarmList
	err := c.get(ctx, "list alarms", PathAlarms, &out)
	if out.Alarms == nil {
		out.Alarms = []Alarm{}
	}
	return out, err
}

// Statistics fetches the alarm evaluation statistics.
func (c *Client) Statistics(ctx context.Context) (Statistics, error) {
	var out Statistics
	err := c.get(ctx, "statistics", PathStatistics, &out)
	return out, err
}

// EvaluateAlarm records the operator verdict for an alarm.
func (c *Client) EvaluateAlarm(ctx context.Context, alarmID string, correct bool) (CommandResult, error) {
	return c.command(ctx, "evaluate alarm", PathEvaluateAlarm, evaluatePayload{AlarmID: alarmID, IsCorrect: correct})
}

// ConnectCamera asks the service to open the RTSP stream for a camera slot.
func (c *Client) ConnectCamera(ctx context.Context, cameraID, rtspURL string) (CommandResult, error) {
	return c.command(ctx, "connect camera", PathConnectCamera, connectPayload{CameraID: cameraID, RTSPURL: rtspURL})
}

// DisconnectCamera asks the service to release a camera slot.
func (c *Client) DisconnectCamera(ctx context.Context, cameraID string) (CommandResult, error) {
	return c.command(ctx, "disconnect camera", PathDisconnectCamera, disconnectPayload{CameraID: cameraID})
}

// AlarmImageURL returns the absolute URL of the stored alarm image.
func (c *Client) AlarmImageURL(filename string) string {
	if filename == "" {
		return ""
	}
	return c.Config.BaseURL + PathAlarmImage + url.PathEscape(filename)
}

// VideoFeedURL returns the absolute URL of a camera's live video stream.
func (c *Client) VideoFeedURL(cameraID string) string {
	if cameraID == "" {
		return ""
	}
	return c.Config.BaseURL + PathVideoFeed + url.PathEscape(cameraID)
}
