// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/jeranaias/threadchat/internal/assistant"
	"github.com/jeranaias/threadchat/internal/kv"
	"github.com/jeranaias/threadchat/internal/render"
	"github.com/jeranaias/threadchat/internal/util"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "THREADCHAT_"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete threadchat configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Assistant endpoint
	Endpoint EndpointConfig `toml:"endpoint" json:"endpoint" envPrefix:"ENDPOINT_"`

	// Conversation persistence
	Storage StorageConfig `toml:"storage" json:"storage" envPrefix:"STORAGE_"`

	// Message rendering
	Render RenderConfig `toml:"render" json:"render" envPrefix:"RENDER_"`

	// Automatic thread titles
	Titles TitlesConfig `toml:"titles" json:"titles" envPrefix:"TITLES_"`

	// Terminal UI
	UI UIConfig `toml:"ui" json:"ui" envPrefix:"UI_"`

	// Log output
	Log LogConfig `toml:"log" json:"log" envPrefix:"LOG_"`
}

// EndpointConfig configures the remote assistant endpoint.
type EndpointConfig struct {
	URL               string  `toml:"url" json:"url" env:"URL"`
	TimeoutSecs       int     `toml:"timeout_secs" json:"timeout_secs" env:"TIMEOUT_SECS"`
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second" env:"RPS"`
	Burst             int     `toml:"burst" json:"burst" env:"BURST"`
	MaxResponseBytes  int64   `toml:"max_response_bytes" json:"max_response_bytes" env:"MAX_RESPONSE_BYTES"`
}

// StorageConfig selects the key-value backend holding conversations.
type StorageConfig struct {
	// Backend is "file", "sqlite" or "memory".
	Backend string `toml:"backend" json:"backend" env:"BACKEND"`
	// Path of the backend file. Empty means a file under ConfigDir.
	Path string `toml:"path" json:"path" env:"PATH"`
	// QuotaBytes caps the file backend's document size (0 disables).
	QuotaBytes int64 `toml:"quota_bytes" json:"quota_bytes" env:"QUOTA_BYTES"`
	// Watch reloads conversations when another process changes them.
	Watch bool `toml:"watch" json:"watch" env:"WATCH"`
}

// RenderConfig controls how assistant replies are rendered.
type RenderConfig struct {
	// Mode is "markdown" or "legacy".
	Mode string `toml:"mode" json:"mode" env:"MODE"`
	// CodeStyle is the chroma style used for highlighted code blocks.
	CodeStyle string `toml:"code_style" json:"code_style" env:"CODE_STYLE"`
	// TerminalStyle is "auto", "dark", "light" or "notty".
	TerminalStyle string `toml:"terminal_style" json:"terminal_style" env:"TERMINAL_STYLE"`
	// WrapWidth is the word wrap column for terminal output.
	WrapWidth int `toml:"wrap_width" json:"wrap_width" env:"WRAP_WIDTH"`
}

// TitlesConfig controls automatic thread titles.
type TitlesConfig struct {
	Enabled     bool `toml:"enabled" json:"enabled" env:"ENABLED"`
	Backfill    bool `toml:"backfill" json:"backfill" env:"BACKFILL"`
	TimeoutSecs int  `toml:"timeout_secs" json:"timeout_secs" env:"TIMEOUT_SECS"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	SidebarWidth int  `toml:"sidebar_width" json:"sidebar_width" env:"SIDEBAR_WIDTH"`
	ShowExamples bool `toml:"show_examples" json:"show_examples" env:"SHOW_EXAMPLES"`
	ConfirmClear bool `toml:"confirm_clear" json:"confirm_clear" env:"CONFIRM_CLEAR"`
}

// LogConfig configures the rotated log file.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `toml:"level" json:"level" env:"LEVEL"`
	// File is the log path. Empty means logs/threadchat.log under ConfigDir.
	File       string `toml:"file" json:"file" env:"FILE"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `toml:"max_age_days" json:"max_age_days" env:"MAX_AGE_DAYS"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Endpoint: EndpointConfig{
			URL:               assistant.DefaultEndpoint,
			TimeoutSecs:       60,
			RequestsPerSecond: 2,
			Burst:             4,
			MaxResponseBytes:  1 << 20,
		},
		Storage: StorageConfig{
			Backend:    kv.KindFile,
			QuotaBytes: kv.DefaultQuota,
			Watch:      true,
		},
		Render: RenderConfig{
			Mode:          string(render.ModeMarkdown),
			CodeStyle:     render.DefaultCodeStyle,
			TerminalStyle: render.TerminalStyleAuto,
			WrapWidth:     80,
		},
		Titles: TitlesConfig{
			Enabled:     true,
			Backfill:    true,
			TimeoutSecs: 30,
		},
		UI: UIConfig{
			SidebarWidth: 28,
			ShowExamples: true,
			ConfirmClear: true,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the threadchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".threadchat"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions tightens config file permissions to 0600.
// SECURITY: Conversations and endpoint settings are private to the user.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// StoragePath returns the backend path, deriving one from ConfigDir when
// none is configured.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return expandHome(c.Storage.Path)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	name := "state.json"
	if strings.EqualFold(c.Storage.Backend, kv.KindSQLite) {
		name = "state.db"
	}
	return filepath.Join(dir, name), nil
}

// LogPath returns the log file path, deriving one from ConfigDir when none
// is configured.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return expandHome(c.Log.File)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", "threadchat.log"), nil
}

// HistoryPath returns the REPL history file path.
func HistoryPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults. A .env file and
// then environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error
	loaded := false

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
				cfg = Default()
			} else {
				loaded = true
			}
		}
	}

	if !loaded {
		if jsonPath, err := ConfigPathJSON(); err == nil {
			if _, statErr := os.Stat(jsonPath); statErr == nil {
				if err := LoadJSON(cfg, jsonPath); err != nil {
					loadErr = fmt.Errorf("failed to load JSON config: %w", err)
					cfg = Default()
				} else {
					loadErr = nil
				}
			}
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}

	// Defaults are still usable when a config file failed to parse.
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
// SECURITY: Checks and fixes file permissions on load.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
// Keys missing from the file keep their default values.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies .env, environment overrides, migration, defaults and
// validation in that order.
func finish(cfg *Config) error {
	LoadDotEnv()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	if err := cfg.Migrate(); err != nil {
		return fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadDotEnv loads ./.env and ~/.threadchat/.env if present. Variables that
// are already set in the process environment win.
func LoadDotEnv() {
	candidates := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", path, err)
		}
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// SECURITY: Ensure permissions are correct even if file already existed
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# threadchat configuration file")
	fmt.Fprintln(file, "# Environment variables prefixed with "+EnvPrefix+" override these values.")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Endpoint
	if c.Endpoint.URL == "" {
		errs = append(errs, ValidationError{"endpoint.url", "must not be empty"})
	} else if u, err := url.Parse(c.Endpoint.URL); err != nil || u.Host == "" {
		errs = append(errs, ValidationError{"endpoint.url", fmt.Sprintf("invalid URL %q", c.Endpoint.URL)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{"endpoint.url", fmt.Sprintf("unsupported scheme %q (must be http or https)", u.Scheme)})
	}
	if c.Endpoint.TimeoutSecs < 1 || c.Endpoint.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{"endpoint.timeout_secs", "must be between 1 and 600"})
	}
	if c.Endpoint.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{"endpoint.requests_per_second", "must not be negative"})
	}
	if c.Endpoint.Burst < 1 {
		errs = append(errs, ValidationError{"endpoint.burst", "must be at least 1"})
	}
	if c.Endpoint.MaxResponseBytes < 1024 {
		errs = append(errs, ValidationError{"endpoint.max_response_bytes", "must be at least 1024"})
	}

	// Storage
	switch strings.ToLower(c.Storage.Backend) {
	case kv.KindFile, kv.KindSQLite, kv.KindMemory:
	default:
		errs = append(errs, ValidationError{"storage.backend", fmt.Sprintf("unknown backend %q (must be file, sqlite or memory)", c.Storage.Backend)})
	}
	if c.Storage.QuotaBytes < 0 {
		errs = append(errs, ValidationError{"storage.quota_bytes", "must not be negative"})
	}

	// Render
	if _, err := render.ParseMode(c.Render.Mode); err != nil {
		errs = append(errs, ValidationError{"render.mode", err.Error()})
	}
	switch c.Render.TerminalStyle {
	case render.TerminalStyleAuto, render.TerminalStyleDark, render.TerminalStyleLight, render.TerminalStyleNoTTY:
	default:
		errs = append(errs, ValidationError{"render.terminal_style", fmt.Sprintf("unknown style %q", c.Render.TerminalStyle)})
	}
	if c.Render.WrapWidth < 20 || c.Render.WrapWidth > 400 {
		errs = append(errs, ValidationError{"render.wrap_width", "must be between 20 and 400"})
	}

	// Titles
	if c.Titles.TimeoutSecs < 1 || c.Titles.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{"titles.timeout_secs", "must be between 1 and 600"})
	}

	// UI
	if c.UI.SidebarWidth < 12 || c.UI.SidebarWidth > 80 {
		errs = append(errs, ValidationError{"ui.sidebar_width", "must be between 12 and 80"})
	}

	// Log
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{"log.level", fmt.Sprintf("unknown level %q", c.Log.Level)})
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, ValidationError{"log", "rotation limits must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values that have a sensible default.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Endpoint.URL == "" {
		c.Endpoint.URL = d.Endpoint.URL
	}
	if c.Endpoint.TimeoutSecs == 0 {
		c.Endpoint.TimeoutSecs = d.Endpoint.TimeoutSecs
	}
	if c.Endpoint.Burst == 0 {
		c.Endpoint.Burst = d.Endpoint.Burst
	}
	if c.Endpoint.MaxResponseBytes == 0 {
		c.Endpoint.MaxResponseBytes = d.Endpoint.MaxResponseBytes
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Render.Mode == "" {
		c.Render.Mode = d.Render.Mode
	}
	if c.Render.CodeStyle == "" {
		c.Render.CodeStyle = d.Render.CodeStyle
	}
	if c.Render.TerminalStyle == "" {
		c.Render.TerminalStyle = d.Render.TerminalStyle
	}
	if c.Render.WrapWidth == 0 {
		c.Render.WrapWidth = d.Render.WrapWidth
	}
	if c.Titles.TimeoutSecs == 0 {
		c.Titles.TimeoutSecs = d.Titles.TimeoutSecs
	}
	if c.UI.SidebarWidth == 0 {
		c.UI.SidebarWidth = d.UI.SidebarWidth
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Migrate rewrites values from older config files.
func (c *Config) Migrate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.Render.Mode = strings.ToLower(strings.TrimSpace(c.Render.Mode))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))

	// Older config files call the file backend "json".
	if c.Storage.Backend == "json" {
		c.Storage.Backend = kv.KindFile
	}
	// Older config files call legacy rendering "html".
	if c.Render.Mode == "html" {
		c.Render.Mode = string(render.ModeLegacy)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies THREADCHAT_* environment variables to the config.
// Variable names follow the section and key, for example
// THREADCHAT_ENDPOINT_URL, THREADCHAT_STORAGE_BACKEND or THREADCHAT_LOG_LEVEL.
func (c *Config) ApplyEnvOverrides() error {
	return env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix})
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// EndpointTimeout returns the request timeout as a duration.
func (c *Config) EndpointTimeout() time.Duration {
	return time.Duration(c.Endpoint.TimeoutSecs) * time.Second
}

// TitleTimeout returns the title request timeout as a duration.
func (c *Config) TitleTimeout() time.Duration {
	return time.Duration(c.Titles.TimeoutSecs) * time.Second
}

// ClientConfig builds the endpoint client configuration.
func (c *Config) ClientConfig() *assistant.ClientConfig {
	cc := assistant.DefaultConfig()
	cc.URL = c.Endpoint.URL
	cc.Timeout = c.EndpointTimeout()
	cc.RequestsPerSecond = c.Endpoint.RequestsPerSecond
	cc.Burst = c.Endpoint.Burst
	cc.MaxResponseBytes = c.Endpoint.MaxResponseBytes
	return cc
}

// RenderMode returns the parsed render mode, falling back to markdown.
func (c *Config) RenderMode() render.Mode {
	mode, err := render.ParseMode(c.Render.Mode)
	if err != nil {
		return render.ModeMarkdown
	}
	return mode
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "storage.backend").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "storage.backend").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		section := tomlName(f)
		if f.Type.Kind() != reflect.Struct {
			keys = append(keys, section)
			continue
		}
		for j := 0; j < f.Type.NumField(); j++ {
			keys = append(keys, section+"."+tomlName(f.Type.Field(j)))
		}
	}
	return keys
}

func tomlName(f reflect.StructField) string {
	if tag := f.Tag.Get("toml"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return strings.ToLower(f.Name)
}

// Clone creates a copy of the configuration. Config holds only value
// types, so a struct copy is a deep copy.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
// SECURITY: Redacts credentials embedded in the endpoint URL.
func (c *Config) String() string {
	safe := c.Clone()
	if u, err := url.Parse(safe.Endpoint.URL); err == nil && u.User != nil {
		u.User = url.User("REDACTED")
		safe.Endpoint.URL = u.String()
	}

	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
