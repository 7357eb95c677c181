package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/soocke/mediavis-go/domain/selection"
)

const (
	pathText    = "/text"
	pathImage   = "/process_image"
	pathVideo   = "/process_video"
	pathAudio   = "/process_audio"
	maxBodySize = 64 << 20
)

// Client talks to the media backend over HTTP. Every call is a single round
// trip; failures are returned as *Error and never retried.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// NewClient builds a client for baseURL. A zero timeout means requests wait
// until ctx is cancelled.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gateway: base url %q must be absolute", baseURL)
	}
	return &Client{base: u, http: &http.Client{Timeout: timeout}, logger: logger}, nil
}

func (c *Client) SubmitColorMix(ctx context.Context, media Media, rect selection.SourceRect, col color.RGBA) (ImageResult, error) {
	fields := map[string]string{
		"x": strconv.Itoa(rect.X),
		"y": strconv.Itoa(rect.Y),
		"w": strconv.Itoa(rect.W),
		"h": strconv.Itoa(rect.H),
		"r": strconv.Itoa(int(col.R)),
		"g": strconv.Itoa(int(col.G)),
		"b": strconv.Itoa(int(col.B)),
	}
	return c.imageAction(ctx, media, OpMixColors, fields)
}

func (c *Client) SubmitImageOp(ctx context.Context, media Media, op ImageOp, p ImageParams) (ImageResult, error) {
	fields := map[string]string{}
	switch op {
	case OpDecompose:
	case OpSampling:
		fields["rows"], fields["cols"] = strconv.Itoa(p.Rows), strconv.Itoa(p.Cols)
	case OpQuantization:
		fields["rows"], fields["cols"] = strconv.Itoa(p.Rows), strconv.Itoa(p.Cols)
		fields["colors"] = strconv.Itoa(clamp(p.Colors, 2, 256))
	default:
		return ImageResult{}, &Error{Op: string(op), Message: "unsupported image action"}
	}
	return c.imageAction(ctx, media, op, fields)
}

func (c *Client) imageAction(ctx context.Context, media Media, op ImageOp, fields map[string]string) (ImageResult, error) {
	fields["action"] = string(op)
	res, err := c.upload(ctx, pathImage, string(op), "image", media, fields)
	if err != nil {
		return ImageResult{}, err
	}
	return ImageResult{
		OriginalURL:  res.Get("original_url").String(),
		ProcessedURL: res.Get("processed_url").String(),
		PlotURL:      res.Get("plot_url").String(),
		RedURL:       res.Get("r_url").String(),
		GreenURL:     res.Get("g_url").String(),
		BlueURL:      res.Get("b_url").String(),
	}, nil
}

func (c *Client) SubmitVideo(ctx context.Context, media Media, frameCount int) (VideoResult, error) {
	fields := map[string]string{"num_frames": strconv.Itoa(max(frameCount, 1))}
	res, err := c.upload(ctx, pathVideo, "video", "video", media, fields)
	if err != nil {
		return VideoResult{}, err
	}
	out := VideoResult{Metadata: VideoMetadata{
		Duration:   res.Get("metadata.duration").String(),
		FPS:        res.Get("metadata.fps").Float(),
		Resolution: res.Get("metadata.resolution").String(),
	}}
	for _, f := range res.Get("frames").Array() {
		out.Frames = append(out.Frames, f.String())
	}
	return out, nil
}

func (c *Client) SubmitAudio(ctx context.Context, media Media, sampleCount int) (AudioResult, error) {
	fields := map[string]string{"num_samples": strconv.Itoa(clamp(sampleCount, 1, 1000))}
	res, err := c.upload(ctx, pathAudio, "audio", "audio", media, fields)
	if err != nil {
		return AudioResult{}, err
	}
	out := AudioResult{
		Metadata: AudioMetadata{
			Duration:     res.Get("metadata.duration").String(),
			SampleRate:   res.Get("metadata.sample_rate").String(),
			TotalSamples: res.Get("metadata.total_samples").Int(),
		},
		WaveformURL: res.Get("waveform_url").String(),
	}
	for _, s := range res.Get("binary_snippet").Array() {
		out.BinarySnippet = append(out.BinarySnippet, s.String())
	}
	return out, nil
}

func (c *Client) SubmitText(ctx context.Context, text string) (TextResult, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return TextResult{}, &Error{Op: "text", Err: err}
	}
	res, err := c.do(ctx, "text", pathText, "application/json", bytes.NewReader(body))
	if err != nil {
		return TextResult{}, err
	}
	var out TextResult
	for _, v := range res.Get("ascii").Array() {
		out.ASCII = append(out.ASCII, int(v.Int()))
	}
	for _, v := range res.Get("hex").Array() {
		out.Hex = append(out.Hex, v.String())
	}
	for _, v := range res.Get("binary").Array() {
		out.Binary = append(out.Binary, v.String())
	}
	return out, nil
}

// Fetch downloads a reference returned by an earlier call. Relative
// references are resolved against the base URL.
func (c *Client) Fetch(ctx context.Context, ref string) ([]byte, error) {
	u, err := c.resolve(ref)
	if err != nil {
		return nil, &Error{Op: "fetch", Err: err}
	}
	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{Op: "fetch", RequestID: reqID, Err: err}
	}
	req.Header.Set("X-Request-Id", reqID)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Op: "fetch", RequestID: reqID, Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Op: "fetch", Status: resp.StatusCode, RequestID: reqID, Err: err}
	}
	if resp.StatusCode/100 != 2 {
		return nil, &Error{Op: "fetch", Status: resp.StatusCode, RequestID: reqID, Message: fmt.Sprintf("GET %s returned %s", ref, resp.Status)}
	}
	return data, nil
}

// upload posts media as multipart form field fileField together with fields.
func (c *Client) upload(ctx context.Context, path, op, fileField string, media Media, fields map[string]string) (gjson.Result, error) {
	if media.Empty() {
		return gjson.Result{}, &Error{Op: op, Message: "no " + fileField + " uploaded"}
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	name := media.Name
	if name == "" {
		name = fileField + ".bin"
	}
	fw, err := mw.CreateFormFile(fileField, name)
	if err == nil {
		_, err = fw.Write(media.Data)
	}
	for k, v := range fields {
		if err != nil {
			break
		}
		err = mw.WriteField(k, v)
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		return gjson.Result{}, &Error{Op: op, Err: err}
	}
	return c.do(ctx, op, path, mw.FormDataContentType(), &buf)
}

func (c *Client) do(ctx context.Context, op, path, contentType string, body io.Reader) (gjson.Result, error) {
	reqID := uuid.NewString()
	u, _ := c.resolve(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), body)
	if err != nil {
		return gjson.Result{}, &Error{Op: op, RequestID: reqID, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log(op, reqID, 0, start, err)
		return gjson.Result{}, &Error{Op: op, RequestID: reqID, Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.log(op, reqID, resp.StatusCode, start, err)
	if err != nil {
		return gjson.Result{}, &Error{Op: op, Status: resp.StatusCode, RequestID: reqID, Err: err}
	}
	if !gjson.ValidBytes(data) {
		e := &Error{Op: op, Status: resp.StatusCode, RequestID: reqID, Err: errors.New("malformed JSON response")}
		if resp.StatusCode/100 != 2 {
			e.Message = resp.Status
		}
		return gjson.Result{}, e
	}
	res := gjson.ParseBytes(data)
	if msg := res.Get("error"); msg.Exists() {
		return gjson.Result{}, &Error{Op: op, Status: resp.StatusCode, RequestID: reqID, Message: msg.String()}
	}
	if resp.StatusCode/100 != 2 {
		return gjson.Result{}, &Error{Op: op, Status: resp.StatusCode, RequestID: reqID}
	}
	return res, nil
}

func (c *Client) resolve(ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	return c.base.ResolveReference(r), nil
}

func (c *Client) log(op, reqID string, status int, start time.Time, err error) {
	if c.logger == nil {
		return
	}
	if err != nil {
		c.logger.Error("gateway request", "op", op, "request_id", reqID, "status", status, "error", err)
		return
	}
	c.logger.Debug("gateway request", "op", op, "request_id", reqID, "status", status, "elapsed", time.Since(start))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ Gateway = (*Client)(nil)
