package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/comixd/comixd"
)

// Service resolves a request path inside the collection to a listing or an
// image stream.
type Service interface {
	Serve(ctx context.Context, rawPath string) (*comixd.Response, error)
}

// AuthConfig configures HTTP Basic authentication.
type AuthConfig struct {
	Enabled  bool
	Password string
}

// HandlerConfig carries everything the protocol layer needs from the outside.
type HandlerConfig struct {
	// RootName is the base name of the collection root, returned by GET /.
	RootName string
	// Banner is the free-form server line appended to the welcome response.
	Banner string
	// ChunkSize is the copy buffer size for image streaming.
	ChunkSize int
	// Debug appends error detail to response bodies and enables CORS.
	Debug bool
	Auth  AuthConfig
	// Health reports whether the collection root is still reachable.
	Health func(ctx context.Context) error
}

type handler struct {
	svc Service
	cfg HandlerConfig
}

// NewHandler builds the router for the AirComix protocol surface.
func NewHandler(svc Service, cfg HandlerConfig) http.Handler {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 8192
	}
	h := &handler{svc: svc, cfg: cfg}

	r := chi.NewRouter()
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	if cfg.Debug {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodHead},
		}))
	}
	if cfg.Auth.Enabled {
		r.Use(BasicAuth(cfg.Auth.Password))
	}

	r.Get("/", h.handleRoot)
	r.Get("/welcome.102", h.handleWelcome)
	r.Get("/health", h.handleHealth)
	r.Get("/manga", h.handleManga)
	r.Get("/manga/*", h.handleManga)

	return r
}

func (h *handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	WriteText(w, http.StatusOK, h.cfg.RootName)
}

// handleWelcome answers the client's capability probe. The two flag lines
// are fixed by the protocol; the banner line is free-form.
func (h *handler) handleWelcome(w http.ResponseWriter, r *http.Request) {
	WriteText(w, http.StatusOK, fmt.Sprintf("allowDownload=True\nallowImageProcess=True\n%s", h.cfg.Banner))
}

// handleHealth reports collection reachability as key=value status lines,
// the format monitoring setups for this protocol already scrape.
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Health != nil {
		if err := h.cfg.Health(r.Context()); err != nil {
			slog.Error("health check failed", "err", err)
			WriteText(w, http.StatusServiceUnavailable, "status=unhealthy\nservice=comixd")
			return
		}
	}
	WriteText(w, http.StatusOK, "status=healthy\nservice=comixd")
}

// handleManga dispatches a collection path to the resolver and serializes
// whatever comes back. The raw path after /manga/ is passed through
// unmodified; all validation belongs to the resolver.
func (h *handler) handleManga(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/manga")
	raw = strings.TrimPrefix(raw, "/")

	resp, err := h.svc.Serve(r.Context(), raw)
	if err != nil {
		HandleError(w, err, h.cfg.Debug)
		return
	}

	switch resp.Class {
	case comixd.ClassDirectory, comixd.ClassArchiveListing:
		WriteListing(w, resp.Entries)
	case comixd.ClassDirectImage, comixd.ClassArchiveImage:
		h.streamImage(w, r, resp.Image)
	default:
		HandleError(w, fmt.Errorf("unexpected classification %q: %w", resp.Class, comixd.ErrInternal), h.cfg.Debug)
	}
}

// streamImage copies the image body to the client in fixed-size chunks.
// Content-Length is only set when the container reports a size; RAR entries
// may not.
func (h *handler) streamImage(w http.ResponseWriter, r *http.Request, img *comixd.ImageStream) {
	defer func() {
		if err := img.Body.Close(); err != nil {
			slog.Error("failed to close image stream", "name", img.Name, "err", err)
		}
	}()

	w.Header().Set("Content-Type", img.ContentType)
	if img.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(img.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	buf := make([]byte, h.cfg.ChunkSize)
	if _, err := io.CopyBuffer(w, img.Body, buf); err != nil {
		// Headers are already out; all that is left is to log. Client
		// disconnects land here routinely.
		slog.Debug("image stream interrupted", "name", img.Name, "err", err)
	}
}
