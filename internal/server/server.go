// Package server exposes the scrape endpoint: it fetches every configured UPS
// target through its throttled cache, renders the exposition text, applies
// per-target filtering and slug prefixing, and serves the concatenated body.
package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"apcexporter/internal/config"
	"apcexporter/internal/match"
	"apcexporter/internal/metrics"
	"apcexporter/internal/nis"
	"apcexporter/internal/selfmetrics"
)

const readHeaderTimeout = 5 * time.Second

// fetcher produces one status snapshot per call; nis.Throttled satisfies it.
type fetcher interface {
	Fetch(ctx context.Context) (map[string]string, error)
}

// target binds one UPS to its fetch pipeline settings.
// Params: none.
// Returns: per-target scrape state.
type target struct {
	slug   string
	source fetcher
	filter match.List
	drop   match.List
}

// Server is the HTTP scrape endpoint over all configured targets.
// Params: none.
// Returns: runnable server satisfying the app engine contract.
type Server struct {
	cfg      config.ServerConfig
	logger   *slog.Logger
	renderer *metrics.Renderer
	targets  []*target
	self     *selfmetrics.Collector
}

// New builds the server and its per-target fetch pipelines.
// Params: cfg validated exporter config; logger runtime logger.
// Returns: server or setup error.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	targets := make([]*target, 0, len(cfg.UPS))
	for _, ups := range cfg.UPS {
		client := nis.NewClient(ups.Addr(), ups.Timeout.Duration)
		targets = append(targets, &target{
			slug:   ups.Slug,
			source: nis.NewThrottled(client, ups.Throttle.Duration),
			filter: match.CompileList(ups.FilterMetrics),
			drop:   match.CompileList(ups.DropMetrics),
		})
	}

	server := &Server{
		cfg:      cfg.Server,
		logger:   logger,
		renderer: metrics.NewRenderer(logger),
		targets:  targets,
	}

	if cfg.SelfMetrics.Enabled {
		self, err := selfmetrics.NewCollector()
		if err != nil {
			return nil, fmt.Errorf("init self metrics: %w", err)
		}
		server.self = self
	}

	return server, nil
}

// Run serves the scrape endpoint until the context is canceled.
// Params: ctx lifecycle context.
// Returns: serve error, nil on graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if s.cfg.TLS.Enabled() {
			errCh <- httpServer.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
			return
		}
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	}
}

// routes builds the request mux with optional basic auth.
// Params: none.
// Returns: root handler.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleLanding)
	mux.HandleFunc("/metrics", s.handleMetrics)

	if s.cfg.Auth.Enabled() {
		return s.requireAuth(mux)
	}
	return mux
}

// handleLanding serves a minimal index page.
// Params: w response writer; r request.
// Returns: none.
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<html><head><title>apcupsd exporter</title></head>"+
		"<body><h1>apcupsd exporter</h1><p><a href=\"/metrics\">metrics</a></p></body></html>\n")
}

// handleMetrics renders every target in declaration order. Any failed target
// turns the scrape into a 500 naming each failure; the remaining targets are
// still fetched so their caches stay warm.
// Params: w response writer; r request.
// Returns: none.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var body strings.Builder
	var failures []string

	for _, t := range s.targets {
		text, err := s.renderTarget(r.Context(), t)
		if err != nil {
			s.logger.Error("target scrape failed",
				slog.String("slug", t.slug), slog.String("error", err.Error()))
			failures = append(failures, fmt.Sprintf("%s: %v", t.slug, err))
			continue
		}
		body.WriteString(text)
	}

	if len(failures) > 0 {
		http.Error(w, strings.Join(failures, "\n"), http.StatusInternalServerError)
		return
	}

	if s.self != nil {
		body.WriteString(s.self.Render())
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	fmt.Fprint(w, body.String())
}

// renderTarget runs one target's fetch/render/filter/prefix pipeline.
// Params: ctx request context; t scrape target.
// Returns: prefixed exposition text or fetch/render error.
func (s *Server) renderTarget(ctx context.Context, t *target) (string, error) {
	snapshot, err := t.source.Fetch(ctx)
	if err != nil {
		return "", err
	}

	text, err := s.renderer.Render(snapshot)
	if err != nil {
		return "", err
	}

	text = filterExposition(text, t.filter, t.drop)
	return prefixLines(text, t.slug), nil
}

// filterExposition applies keep/drop wildcard lists block-wise. A non-empty
// keep list drops every family it does not match; the drop list then removes
// matching families.
// Params: text rendered exposition; filter keep list; drop drop list.
// Returns: filtered exposition text.
func filterExposition(text string, filter, drop match.List) string {
	if len(filter) == 0 && len(drop) == 0 {
		return text
	}

	var b strings.Builder
	keep := true
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		if name, ok := strings.CutPrefix(line, "# HELP "); ok {
			family, _, _ := strings.Cut(name, " ")
			keep = (len(filter) == 0 || filter.MatchAny(family)) && !drop.MatchAny(family)
		}
		if keep {
			b.WriteString(line)
		}
	}
	return b.String()
}

// prefixLines prepends "<slug>." to every sample line, leaving comment lines
// untouched.
// Params: text exposition text; slug target slug.
// Returns: prefixed text.
func prefixLines(text string, slug string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/16)

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		if line[0] != '#' {
			b.WriteString(slug)
			b.WriteByte('.')
		}
		b.WriteString(line)
	}
	return b.String()
}

// requireAuth wraps next with HTTP basic auth. The username compare is
// constant time; the password is checked against the configured bcrypt hash.
// Params: next protected handler.
// Returns: authenticating handler.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || !s.checkCredentials(username, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="apcupsd exporter"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkCredentials verifies one username/password pair.
// Params: username and password from the request.
// Returns: true when both match the configured credentials.
func (s *Server) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Auth.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(s.cfg.Auth.PasswordHash), []byte(password)) == nil
	return userOK && passOK
}
