package clipapi

import (
	"context"
	"log/slog"

	"github.com/clipstream/clipstream/internal/clip"
)

const (
	DownloadLinkPath = "/download_link"
	UploadPath       = "/upload"

	// UploadField is the multipart form field carrying the video.
	UploadField = "video"
)

// Client submits clipping requests to the server.
type Client interface {
	DownloadLink(ctx context.Context, url string) (clip.Result, error)
	Upload(ctx context.Context, file clip.File) (clip.Result, error)
}

// StubClient answers every request with an empty result without touching the
// network. It backs --dry-run.
type StubClient struct {
	logger *slog.Logger
}

func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

func (c *StubClient) DownloadLink(ctx context.Context, url string) (clip.Result, error) {
	c.logger.Info("clip api stub: download link requested", "url", url)
	return clip.EmptyResult(), nil
}

func (c *StubClient) Upload(ctx context.Context, file clip.File) (clip.Result, error) {
	c.logger.Info("clip api stub: upload requested", "filename", file.Name, "size", file.Size)
	return clip.EmptyResult(), nil
}
