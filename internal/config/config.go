package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultLogLevel    = "info"
	defaultLogFormat   = "line"
	defaultListen      = "127.0.0.1:9175"
	defaultUPSAddress  = "127.0.0.1"
	defaultUPSPort     = uint16(3551)
	defaultUPSTimeout  = 500 * time.Millisecond
	defaultUPSThrottle = time.Second
	defaultPprofListen = "127.0.0.1:6060"
)

// Duration wraps time.Duration for TOML parsing.
// Params: text duration string (e.g. "500ms", "1m").
// Returns: parse error on invalid duration.
type Duration struct {
	time.Duration
}

// UnmarshalText parses TOML duration values.
// Params: text is raw duration bytes from TOML.
// Returns: error when value is not a valid Go duration.
func (d *Duration) UnmarshalText(text []byte) error {
	value := strings.TrimSpace(string(text))
	if value == "" {
		d.Duration = 0
		return nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value, err)
	}

	d.Duration = parsed
	return nil
}

// Config represents the root exporter configuration.
// Params: TOML document sections.
// Returns: validated runtime configuration.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
	Pprof       PprofConfig       `toml:"pprof"`
	SelfMetrics SelfMetricsConfig `toml:"self_metrics"`
	UPS         []UPSConfig       `toml:"ups"`
}

// ServerConfig defines the scrape endpoint listener.
// Params: listen address plus optional auth and TLS sections.
// Returns: HTTP server settings.
type ServerConfig struct {
	Listen string     `toml:"listen"`
	Auth   AuthConfig `toml:"auth"`
	TLS    TLSConfig  `toml:"tls"`
}

// AuthConfig defines optional basic auth for the scrape endpoint.
// Params: username and bcrypt password hash.
// Returns: auth settings; both fields empty means auth is off.
type AuthConfig struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"`
}

// Enabled reports whether basic auth is configured.
// Params: none.
// Returns: true when a username is set.
func (a AuthConfig) Enabled() bool {
	return strings.TrimSpace(a.Username) != ""
}

// TLSConfig defines optional TLS for the scrape endpoint.
// Params: certificate and key file paths.
// Returns: TLS settings; both fields empty means plain HTTP.
type TLSConfig struct {
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`
}

// Enabled reports whether TLS is configured.
// Params: none.
// Returns: true when a certificate file is set.
func (t TLSConfig) Enabled() bool {
	return strings.TrimSpace(t.CertFile) != ""
}

// PprofConfig defines optional runtime pprof HTTP endpoint.
// Params: enabled flag and listen address in host:port format.
// Returns: pprof runtime settings.
type PprofConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

// SelfMetricsConfig toggles exporter process self-telemetry.
// Params: enabled flag.
// Returns: self-metrics settings.
type SelfMetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// LogConfig contains console/file logging configuration.
// Params: console and file sink options.
// Returns: logger sink settings.
type LogConfig struct {
	Console LogSinkConfig `toml:"console"`
	File    LogSinkConfig `toml:"file"`
}

// LogSinkConfig defines one logging sink.
// Params: sink options from TOML.
// Returns: sink setup.
type LogSinkConfig struct {
	Enabled bool   `toml:"enabled"`
	Level   string `toml:"level"`
	Format  string `toml:"format"`
	Path    string `toml:"path"`
}

// UPSConfig defines one apcupsd target to scrape.
// Params: NIS endpoint, timing, and per-target metric filtering.
// Returns: one UPS target runtime config.
type UPSConfig struct {
	Address       string   `toml:"address"`
	Port          uint16   `toml:"port"`
	Slug          string   `toml:"slug"`
	Timeout       Duration `toml:"timeout"`
	Throttle      Duration `toml:"throttle"`
	FilterMetrics []string `toml:"filter_metrics"`
	DropMetrics   []string `toml:"drop_metrics"`
}

// Addr joins the target address and port.
// Params: none.
// Returns: host:port dial string.
func (u UPSConfig) Addr() string {
	return fmt.Sprintf("%s:%d", u.Address, u.Port)
}

// Load reads, expands, validates, and returns config from path.
// Params: path to TOML config file or directory with *.toml files.
// Returns: validated config pointer or error.
func Load(path string) (*Config, error) {
	raw, err := readConfigSource(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(raw))

	var cfg Config
	if err := toml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("decode TOML %q: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readConfigSource reads one TOML file or concatenates *.toml files from directory.
// Params: path to config file or directory.
// Returns: raw TOML bytes or error.
func readConfigSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config %q: %w", path, err)
	}

	if !info.IsDir() {
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read config %q: %w", path, readErr)
		}
		return raw, nil
	}

	return readConfigDir(path)
}

// readConfigDir concatenates config snippets from one directory.
// Params: path to directory that contains *.toml files.
// Returns: concatenated TOML content or error.
func readConfigDir(path string) ([]byte, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read config dir %q: %w", path, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".toml") {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("read config dir %q: no *.toml files", path)
	}

	var builder strings.Builder
	for _, name := range files {
		filePath := filepath.Join(path, name)
		raw, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("read config %q: %w", filePath, readErr)
		}
		builder.Write(raw)
		if len(raw) == 0 || raw[len(raw)-1] != '\n' {
			builder.WriteByte('\n')
		}
		builder.WriteByte('\n')
	}

	return []byte(builder.String()), nil
}

// applyDefaults fills defaults for optional configuration fields. A config
// with no [[ups]] section gets one default local target.
// Params: receiver config pointer.
// Returns: none.
func (c *Config) applyDefaults() {
	c.Log.Console.Level = lowerOrDefault(c.Log.Console.Level, defaultLogLevel)
	c.Log.Console.Format = lowerOrDefault(c.Log.Console.Format, defaultLogFormat)
	c.Log.File.Level = lowerOrDefault(c.Log.File.Level, defaultLogLevel)
	c.Log.File.Format = lowerOrDefault(c.Log.File.Format, "json")

	if !c.Log.Console.Enabled && !c.Log.File.Enabled {
		c.Log.Console.Enabled = true
	}

	if strings.TrimSpace(c.Server.Listen) == "" {
		c.Server.Listen = defaultListen
	}
	if c.Pprof.Enabled && strings.TrimSpace(c.Pprof.Listen) == "" {
		c.Pprof.Listen = defaultPprofListen
	}

	if len(c.UPS) == 0 {
		c.UPS = []UPSConfig{{}}
	}
	for idx := range c.UPS {
		ups := &c.UPS[idx]
		if strings.TrimSpace(ups.Address) == "" {
			ups.Address = defaultUPSAddress
		}
		if ups.Port == 0 {
			ups.Port = defaultUPSPort
		}
		if strings.TrimSpace(ups.Slug) == "" {
			ups.Slug = fmt.Sprintf("apcupsd%d", idx)
		}
		if ups.Timeout.Duration == 0 {
			ups.Timeout.Duration = defaultUPSTimeout
		}
		if ups.Throttle.Duration == 0 {
			ups.Throttle.Duration = defaultUPSThrottle
		}
	}
}

// validate checks config consistency and required fields.
// Params: receiver config pointer.
// Returns: validation error for invalid or incomplete config.
func (c *Config) validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		return fmt.Errorf("server.listen must be host:port: %w", err)
	}

	if c.Server.Auth.Enabled() && strings.TrimSpace(c.Server.Auth.PasswordHash) == "" {
		return fmt.Errorf("server.auth.password_hash is required when username is set")
	}
	if !c.Server.Auth.Enabled() && strings.TrimSpace(c.Server.Auth.PasswordHash) != "" {
		return fmt.Errorf("server.auth.username is required when password_hash is set")
	}

	if c.Server.TLS.Enabled() && strings.TrimSpace(c.Server.TLS.KeyFile) == "" {
		return fmt.Errorf("server.tls.key_file is required when cert_file is set")
	}
	if !c.Server.TLS.Enabled() && strings.TrimSpace(c.Server.TLS.KeyFile) != "" {
		return fmt.Errorf("server.tls.cert_file is required when key_file is set")
	}

	if err := validateSink("log.console", c.Log.Console, false); err != nil {
		return err
	}
	if err := validateSink("log.file", c.Log.File, true); err != nil {
		return err
	}
	if err := validatePprofConfig("pprof", c.Pprof); err != nil {
		return err
	}

	slugs := make(map[string]int, len(c.UPS))
	for idx, ups := range c.UPS {
		path := fmt.Sprintf("ups[%d]", idx)
		if strings.TrimSpace(ups.Address) == "" {
			return fmt.Errorf("%s.address cannot be empty", path)
		}
		if ups.Port == 0 {
			return fmt.Errorf("%s.port must be > 0", path)
		}
		if ups.Timeout.Duration <= 0 {
			return fmt.Errorf("%s.timeout must be > 0", path)
		}
		if ups.Throttle.Duration <= 0 {
			return fmt.Errorf("%s.throttle must be > 0", path)
		}

		if prev, dup := slugs[ups.Slug]; dup {
			return fmt.Errorf("%s.slug %q already used by ups[%d]", path, ups.Slug, prev)
		}
		slugs[ups.Slug] = idx

		for patIdx, pattern := range ups.FilterMetrics {
			if strings.TrimSpace(pattern) == "" {
				return fmt.Errorf("%s.filter_metrics[%d] cannot be empty", path, patIdx)
			}
		}
		for patIdx, pattern := range ups.DropMetrics {
			if strings.TrimSpace(pattern) == "" {
				return fmt.Errorf("%s.drop_metrics[%d] cannot be empty", path, patIdx)
			}
		}
	}

	return nil
}

// validateSink validates one logging sink configuration.
// Params: name is sink path for errors; sink is sink config; requirePath means path required when enabled.
// Returns: validation error or nil.
func validateSink(name string, sink LogSinkConfig, requirePath bool) error {
	if sink.Enabled && requirePath && strings.TrimSpace(sink.Path) == "" {
		return fmt.Errorf("%s.path is required when sink is enabled", name)
	}

	if err := validateLogLevel(sink.Level); err != nil {
		return fmt.Errorf("%s.level: %w", name, err)
	}
	if err := validateLogFormat(sink.Format); err != nil {
		return fmt.Errorf("%s.format: %w", name, err)
	}

	return nil
}

// validateLogLevel validates known log levels.
// Params: level is lower-case level name.
// Returns: error when level is unsupported.
func validateLogLevel(level string) error {
	switch strings.TrimSpace(strings.ToLower(level)) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("unsupported value %q", level)
	}
}

// validateLogFormat validates supported sink formats.
// Params: format is lower-case format name.
// Returns: error when format is unsupported.
func validateLogFormat(format string) error {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "line", "json":
		return nil
	default:
		return fmt.Errorf("unsupported value %q", format)
	}
}

// validatePprofConfig validates optional pprof endpoint settings.
// Params: path is config path prefix; cfg pprof section.
// Returns: validation error for invalid listen endpoint.
func validatePprofConfig(path string, cfg PprofConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.Listen) == "" {
		return fmt.Errorf("%s.listen cannot be empty when enabled", path)
	}
	if _, _, err := net.SplitHostPort(cfg.Listen); err != nil {
		return fmt.Errorf("%s.listen must be host:port: %w", path, err)
	}
	return nil
}

// lowerOrDefault returns a trimmed lower-case value or default fallback.
// Params: value to normalize; fallback value when empty.
// Returns: normalized value.
func lowerOrDefault(value, fallback string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return fallback
	}
	return normalized
}
