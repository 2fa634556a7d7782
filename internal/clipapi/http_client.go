package clipapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/clipstream/clipstream/internal/clip"
	"github.com/clipstream/clipstream/internal/logging"
	"github.com/google/uuid"
)

// DefaultMaxResponseBytes caps how much of a response body is read.
const DefaultMaxResponseBytes = 1 << 20

// HTTPClient talks to the clipping server over HTTP.
type HTTPClient struct {
	baseURL     string
	maxResponse int64
	httpClient  *http.Client
	logger      *slog.Logger
}

type Options struct {
	// Timeout bounds a whole request. Zero leaves it to the transport.
	Timeout          time.Duration
	MaxResponseBytes int64
}

func NewHTTPClient(baseURL string, opts Options, logger *slog.Logger) *HTTPClient {
	maxResponse := opts.MaxResponseBytes
	if maxResponse <= 0 {
		maxResponse = DefaultMaxResponseBytes
	}
	return &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxResponse: maxResponse,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: logging.WithComponent(logger, "clipapi"),
	}
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// DownloadLink asks the server to fetch and clip the video behind url.
func (c *HTTPClient) DownloadLink(ctx context.Context, url string) (clip.Result, error) {
	body, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return clip.Result{}, fmt.Errorf("marshal download request: %w", err)
	}

	endpoint := c.baseURL + DownloadLinkPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return clip.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("requesting clips for link",
		"endpoint", endpoint,
		"url", logging.SanitizeURL(url),
	)

	return c.do(req)
}

// Upload streams file to the server as multipart field "video".
func (c *HTTPClient) Upload(ctx context.Context, file clip.File) (clip.Result, error) {
	src, err := file.Open()
	if err != nil {
		return clip.Result{}, fmt.Errorf("open %s: %w", file.Name, err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer src.Close()
		part, err := mw.CreateFormFile(UploadField, file.Name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(fmt.Errorf("copy %s: %w", file.Name, err))
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	endpoint := c.baseURL + UploadPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		pr.Close()
		return clip.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Info("uploading video for clipping",
		"endpoint", endpoint,
		"filename", file.Name,
		"size", file.Size,
	)

	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (clip.Result, error) {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	logger := logging.WithRequestID(c.logger, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("clip request failed", "endpoint", req.URL.Path, "error", err)
		return clip.Result{}, &TransportError{Endpoint: req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponse))
	if err != nil {
		return clip.Result{}, &TransportError{Endpoint: req.URL.Path, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &ServerError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Detail:     errorDetail(respBody),
		}
		logger.Warn("clip request rejected",
			"endpoint", req.URL.Path,
			"status", resp.StatusCode,
			"detail", serr.Detail,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return clip.Result{}, serr
	}

	var result clip.Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		logger.Warn("clip response not decodable", "endpoint", req.URL.Path, "error", err)
		return clip.Result{}, &PayloadError{Err: err}
	}

	logger.Info("clip request succeeded",
		"endpoint", req.URL.Path,
		"clips", len(result.Clips),
		"topics", len(result.Topics),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func errorDetail(body []byte) string {
	var wrapper struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Error != "" {
		return wrapper.Error
	}
	return strings.TrimSpace(string(body))
}
