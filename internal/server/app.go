package server

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
	"github.com/desertthunder/backlog/internal/tasks"
)

//go:embed templates/*.html
var templateFS embed.FS

// Ingester adds a game to the backlog by Steam ID. Implemented by [tasks.Ingestor].
type Ingester interface {
	Ingest(ctx context.Context, steamID string) (*tasks.IngestResult, error)
}

// Options configures [New].
type Options struct {
	Store    models.GameStore
	Ingester Ingester
	Auth     shared.AuthConfig
	Logger   *log.Logger
	Metrics  *Metrics                        // Optional; /metrics is only served when set
	Health   func(ctx context.Context) error // Optional readiness probe, e.g. a database ping
}

// App holds the handlers of the backlog web service.
type App struct {
	store     models.GameStore
	ingester  Ingester
	logger    *log.Logger
	templates *template.Template
}

type pageData struct {
	Title string
	Flash *Flash
	Games []*models.Game
	Game  *models.Game
}

var templateFuncs = template.FuncMap{
	"playtime": shared.FormatPlaytime,
	"reviewScore": func(g *models.Game) string {
		if score, ok := g.ReviewScore(); ok {
			return fmt.Sprintf("%d%%", score)
		}
		return ""
	},
	"date": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// New builds the complete HTTP handler: the auth-gated backlog routes plus the unauthenticated health check.
func New(opts Options) (http.Handler, error) {
	if opts.Store == nil || opts.Ingester == nil {
		return nil, fmt.Errorf("%w: store and ingester are required", shared.ErrInvalidConfig)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		store:     opts.Store,
		ingester:  opts.Ingester,
		logger:    opts.Logger,
		templates: tmpl,
	}

	router := NewBasicRouter()
	router.Use(RequestLogger(opts.Logger), SecurityHeaders())

	var onAuth func(bool)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		onAuth = opts.Metrics.ObserveAuth
	}

	router.Handler(&healthHandler{check: opts.Health})

	router.Use(BasicAuth(opts.Auth, opts.Logger, onAuth))

	router.HandleFunc(http.MethodGet, "/{$}", app.index)
	router.HandleFunc(http.MethodGet, "/add_game", app.addGameForm)
	router.HandleFunc(http.MethodPost, "/add_game", app.addGame)
	router.HandleFunc(http.MethodGet, "/game/{id}", app.gameDetail)
	router.HandleFunc(http.MethodGet, "/api/game/{id}", app.apiGameDetail)

	if opts.Metrics != nil {
		router.Handler(newMetricsHandler(opts.Metrics))
	}

	return router, nil
}

// render executes a page template into a buffer so a failure can still produce a clean 500.
func (a *App) render(w http.ResponseWriter, name string, data pageData) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		a.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

// healthHandler is a liveness endpoint outside the auth gate.
type healthHandler struct {
	check func(ctx context.Context) error
}

func (h *healthHandler) Routes() []string {
	return []string{"GET /healthz"}
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.check != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.check(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
