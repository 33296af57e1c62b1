package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Settings is the full contents of settings.json.
type Settings struct {
	Server     ServerSettings     `json:"server"`
	Provider   ProviderSettings   `json:"provider"`
	Cache      CacheSettings      `json:"cache"`
	Resolution ResolutionSettings `json:"resolution"`
	Log        LogConfig          `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	// BaseURL prefixes the delivery URLs handed to callers. It must reach a
	// service that serves /{key}/download/...; this process does not.
	BaseURL string `json:"baseUrl"`
}

// ProviderSettings configures the upstream subtitle provider. Limits apply
// per caller key.
type ProviderSettings struct {
	BaseURL           string  `json:"baseUrl"`
	UserAgent         string  `json:"userAgent"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
	Burst             int     `json:"burst"`
	MaxRetries        int     `json:"maxRetries"`
	TimeoutSeconds    int     `json:"timeoutSeconds"`
}

type CacheSettings struct {
	ResponseTTLMinutes      int `json:"responseTtlMinutes"`
	EmptyResponseTTLMinutes int `json:"emptyResponseTtlMinutes"`
	ResponseMaxEntries      int `json:"responseMaxEntries"`
	ArchiveTTLHours         int `json:"archiveTtlHours"`
	ArchiveMaxEntries       int `json:"archiveMaxEntries"`
	PageMetadataTTLHours    int `json:"pageMetadataTtlHours"`
	PageMetadataMaxEntries  int `json:"pageMetadataMaxEntries"`
	ClientMaxEntries        int `json:"clientMaxEntries"`
}

// ResolutionSettings tunes ranking and the shared resolution.
type ResolutionSettings struct {
	TopN int `json:"topN"`
	// MatchStrategy is "entry" (filter archive entries by episode) or
	// "record" (filter records by title, fall back to all).
	MatchStrategy  string `json:"matchStrategy"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File       string `json:"file"`
	Level      string `json:"level"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// Durations derived from the minute/hour/second fields.

func (p ProviderSettings) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

func (c CacheSettings) ResponseTTL() time.Duration {
	return time.Duration(c.ResponseTTLMinutes) * time.Minute
}

func (c CacheSettings) EmptyResponseTTL() time.Duration {
	return time.Duration(c.EmptyResponseTTLMinutes) * time.Minute
}

func (c CacheSettings) ArchiveTTL() time.Duration {
	return time.Duration(c.ArchiveTTLHours) * time.Hour
}

func (c CacheSettings) PageMetadataTTL() time.Duration {
	return time.Duration(c.PageMetadataTTLHours) * time.Hour
}

func (r ResolutionSettings) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Debug reports whether per-candidate logging is enabled.
func (l LogConfig) Debug() bool {
	return strings.EqualFold(strings.TrimSpace(l.Level), "debug")
}

func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 7000, BaseURL: "http://localhost:7000"},
		Provider: ProviderSettings{
			BaseURL:           "https://api.subs.ro/v1.0",
			UserAgent:         "subresolver",
			RequestsPerSecond: 2,
			Burst:             4,
			MaxRetries:        3,
			TimeoutSeconds:    30,
		},
		Cache: CacheSettings{
			ResponseTTLMinutes:      360, // 6 hours
			EmptyResponseTTLMinutes: 15,
			ResponseMaxEntries:      1000,
			ArchiveTTLHours:         24,
			ArchiveMaxEntries:       500,
			PageMetadataTTLHours:    168, // a week
			PageMetadataMaxEntries:  2000,
			ClientMaxEntries:        256,
		},
		Resolution: ResolutionSettings{TopN: 5, MatchStrategy: "entry", TimeoutSeconds: 120},
		Log: LogConfig{
			File:       "cache/logs/subresolver.log",
			Level:      "info",
			MaxSize:    50,   // 50 MB per file
			MaxBackups: 3,    // keep 3 old files
			MaxAge:     7,    // 7 days
			Compress:   true, // compress old files
		},
	}
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	fs   afero.Fs
	path string
}

// NewManager returns a Manager backed by the OS filesystem.
func NewManager(configPath string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), configPath)
}

// NewManagerWithFs returns a Manager backed by fsys.
func NewManagerWithFs(fsys afero.Fs, configPath string) *Manager {
	return &Manager{fs: fsys, path: configPath}
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// EnsureDir ensures parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return m.fs.MkdirAll(dir, 0o755)
}

// Load reads settings.json from disk or creates defaults if missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := m.fs.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		// create with defaults
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}

	backfill(&s)
	return s, nil
}

// backfill fills settings introduced after the file was written and repairs
// values the resolver cannot run with.
func backfill(s *Settings) {
	d := DefaultSettings()

	if strings.TrimSpace(s.Server.Host) == "" {
		s.Server.Host = d.Server.Host
	}
	if s.Server.Port <= 0 {
		s.Server.Port = d.Server.Port
	}
	if strings.TrimSpace(s.Server.BaseURL) == "" {
		s.Server.BaseURL = d.Server.BaseURL
	}
	s.Server.BaseURL = strings.TrimRight(strings.TrimSpace(s.Server.BaseURL), "/")

	if strings.TrimSpace(s.Provider.BaseURL) == "" {
		s.Provider.BaseURL = d.Provider.BaseURL
	}
	if strings.TrimSpace(s.Provider.UserAgent) == "" {
		s.Provider.UserAgent = d.Provider.UserAgent
	}
	if s.Provider.RequestsPerSecond <= 0 {
		s.Provider.RequestsPerSecond = d.Provider.RequestsPerSecond
	}
	if s.Provider.Burst <= 0 {
		s.Provider.Burst = d.Provider.Burst
	}
	if s.Provider.MaxRetries <= 0 {
		s.Provider.MaxRetries = d.Provider.MaxRetries
	}
	if s.Provider.TimeoutSeconds <= 0 {
		s.Provider.TimeoutSeconds = d.Provider.TimeoutSeconds
	}

	if s.Cache.ResponseTTLMinutes <= 0 {
		s.Cache.ResponseTTLMinutes = d.Cache.ResponseTTLMinutes
	}
	if s.Cache.EmptyResponseTTLMinutes <= 0 {
		s.Cache.EmptyResponseTTLMinutes = d.Cache.EmptyResponseTTLMinutes
	}
	// "nothing found" must be retried sooner than a real result is refreshed
	if s.Cache.EmptyResponseTTLMinutes >= s.Cache.ResponseTTLMinutes {
		s.Cache.EmptyResponseTTLMinutes = max(1, s.Cache.ResponseTTLMinutes/4)
		if s.Cache.EmptyResponseTTLMinutes >= s.Cache.ResponseTTLMinutes {
			s.Cache.ResponseTTLMinutes = s.Cache.EmptyResponseTTLMinutes + 1
		}
	}
	if s.Cache.ResponseMaxEntries <= 0 {
		s.Cache.ResponseMaxEntries = d.Cache.ResponseMaxEntries
	}
	if s.Cache.ArchiveTTLHours <= 0 {
		s.Cache.ArchiveTTLHours = d.Cache.ArchiveTTLHours
	}
	if s.Cache.ArchiveMaxEntries <= 0 {
		s.Cache.ArchiveMaxEntries = d.Cache.ArchiveMaxEntries
	}
	if s.Cache.PageMetadataTTLHours <= 0 {
		s.Cache.PageMetadataTTLHours = d.Cache.PageMetadataTTLHours
	}
	if s.Cache.PageMetadataMaxEntries <= 0 {
		s.Cache.PageMetadataMaxEntries = d.Cache.PageMetadataMaxEntries
	}
	if s.Cache.ClientMaxEntries <= 0 {
		s.Cache.ClientMaxEntries = d.Cache.ClientMaxEntries
	}

	if s.Resolution.TopN <= 0 {
		s.Resolution.TopN = d.Resolution.TopN
	}
	switch strings.ToLower(strings.TrimSpace(s.Resolution.MatchStrategy)) {
	case "record":
		s.Resolution.MatchStrategy = "record"
	default:
		s.Resolution.MatchStrategy = "entry"
	}
	if s.Resolution.TimeoutSeconds <= 0 {
		s.Resolution.TimeoutSeconds = d.Resolution.TimeoutSeconds
	}

	if strings.TrimSpace(s.Log.Level) == "" {
		s.Log.Level = d.Log.Level
	}
	if s.Log.MaxSize <= 0 {
		s.Log.MaxSize = d.Log.MaxSize
	}
	if s.Log.MaxBackups <= 0 {
		s.Log.MaxBackups = d.Log.MaxBackups
	}
	if s.Log.MaxAge <= 0 {
		s.Log.MaxAge = d.Log.MaxAge
	}
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := m.fs.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = m.fs.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = m.fs.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = m.fs.Remove(tmp)
		return err
	}
	return m.fs.Rename(tmp, m.path)
}
