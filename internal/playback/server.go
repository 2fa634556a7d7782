// Package playback serves selected local videos to players over loopback HTTP,
// standing in for the object URLs a browser would hand out.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/clipstream/clipstream/internal/clip"
	"github.com/clipstream/clipstream/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var (
	ErrNotListening = errors.New("preview server is not listening")
	ErrNoLocalPath  = errors.New("file has no local path to preview")
)

const previewPrefix = "/preview/"

// Server hands out revocable preview URLs for local files.
type Server struct {
	port       int
	logger     *slog.Logger
	httpServer *http.Server
	listener   net.Listener

	mu      sync.RWMutex
	baseURL string
	files   map[string]string // token -> path
}

func NewServer(port int, logger *slog.Logger) *Server {
	s := &Server{
		port:   port,
		logger: logging.WithComponent(logger, "playback"),
		files:  make(map[string]string),
	}
	s.httpServer = &http.Server{
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		// players hold long-lived range requests
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Listen binds the loopback address. Preview URLs can be issued afterwards.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return fmt.Errorf("listen for previews: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.baseURL = "http://" + ln.Addr().String()
	s.mu.Unlock()

	s.logger.Info("preview server listening", "addr", ln.Addr().String())
	return nil
}

// Serve blocks until Shutdown. Listen must have succeeded.
func (s *Server) Serve() error {
	s.mu.RLock()
	ln := s.listener
	s.mu.RUnlock()
	if ln == nil {
		return ErrNotListening
	}

	err := s.httpServer.Serve(ln)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down preview server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

// Register issues a preview URL for f. Only files on disk can be previewed.
func (s *Server) Register(f clip.File) (string, error) {
	if f.Path() == "" {
		return "", ErrNoLocalPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseURL == "" {
		return "", ErrNotListening
	}

	token := uuid.NewString()
	s.files[token] = f.Path()

	s.logger.Debug("preview registered", "token", token, "path", logging.SanitizePath(f.Path()))
	return s.baseURL + previewPrefix + token + "/" + url.PathEscape(f.Name), nil
}

// Revoke invalidates a URL returned by Register. Unknown refs are ignored.
func (s *Server) Revoke(ref string) {
	token := tokenFromRef(ref)
	if token == "" {
		return
	}

	s.mu.Lock()
	delete(s.files, token)
	s.mu.Unlock()

	s.logger.Debug("preview revoked", "token", token)
}

func (s *Server) lookup(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	path, ok := s.files[token]
	return path, ok
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(withRequestID)
	r.Use(recoverPanics(s.logger))
	r.Use(accessLog(s.logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok")
	})
	for _, pattern := range []string{previewPrefix + "{token}", previewPrefix + "{token}/*"} {
		r.Get(pattern, s.previewHandler)
		r.Head(pattern, s.previewHandler)
	}

	return r
}

func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	path, ok := s.lookup(token)
	if !ok {
		WriteError(w, http.StatusNotFound, "preview not found")
		return
	}

	if err := s.ServeFile(w, r, path); err != nil {
		s.logger.Error("preview error", "error", err, "token", token)
	}
}

// ServeFile writes filePath honouring a single Range request.
func (s *Server) ServeFile(w http.ResponseWriter, r *http.Request, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			WriteError(w, http.StatusNotFound, "file not found")
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	size := stat.Size()
	contentType := contentTypeFor(filePath)

	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", contentType)

	parsedRange, err := ParseRange(r.Header.Get("Range"), size)
	switch {
	case errors.Is(err, ErrUnsatisfiable):
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		WriteError(w, http.StatusRequestedRangeNotSatisfiable, "range not satisfiable")
		return nil
	case errors.Is(err, ErrInvalidRange):
		// malformed ranges are ignored, as RFC 9110 allows
		parsedRange = nil
	case err != nil:
		return err
	}

	if parsedRange == nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			io.Copy(w, file)
		}
		return nil
	}

	w.Header().Set("Content-Length", fmt.Sprintf("%d", parsedRange.ContentLength()))
	w.Header().Set("Content-Range", parsedRange.ContentRange(size))
	w.WriteHeader(http.StatusPartialContent)

	if r.Method == http.MethodHead {
		return nil
	}
	if _, err := file.Seek(parsedRange.Start, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	io.CopyN(w, file, parsedRange.ContentLength())
	return nil
}

// videoTypes covers containers missing from minimal mime.types installs.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".ts":   "video/mp2t",
}

func contentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

func tokenFromRef(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	rest, ok := strings.CutPrefix(u.Path, previewPrefix)
	if !ok {
		return ""
	}
	token, _, _ := strings.Cut(rest, "/")
	return token
}
