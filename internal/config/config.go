// Package config loads server settings from defaults, an optional YAML file,
// an optional .env file and the process environment, in increasing order of
// priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/screen-speak-mcp/internal/audio"
	"github.com/ironsheep/screen-speak-mcp/internal/imaging"
	"github.com/ironsheep/screen-speak-mcp/internal/selection"
)

// Environment variables. Each overrides the YAML key of the same meaning.
const (
	ConfigPathEnvVar   = "SCREEN_SPEAK_CONFIG"
	LogLevelEnvVar     = "SCREEN_SPEAK_LOG_LEVEL"
	LogFileEnvVar      = "SCREEN_SPEAK_LOG_FILE"
	SampleRateEnvVar   = "SCREEN_SPEAK_SAMPLE_RATE"
	ChannelsEnvVar     = "SCREEN_SPEAK_CHANNELS"
	MinSelectionEnvVar = "SCREEN_SPEAK_MIN_SELECTION"
	OverlayAlphaEnvVar = "SCREEN_SPEAK_OVERLAY_ALPHA"
	BorderColorEnvVar  = "SCREEN_SPEAK_BORDER_COLOR"
	BorderWidthEnvVar  = "SCREEN_SPEAK_BORDER_WIDTH"
	OCRLanguageEnvVar  = "SCREEN_SPEAK_OCR_LANG"
	ExportDirEnvVar    = "SCREEN_SPEAK_EXPORT_DIR"
	VoiceEnvVar        = "SCREEN_SPEAK_VOICE"
)

// Voices are the prebuilt speech synthesis voices a client may ask for.
var Voices = []string{"Kore", "Zephyr", "Puck", "Charon", "Fenrir"}

// Config holds all server settings.
type Config struct {
	// LogLevel is "info" or "debug".
	LogLevel string `yaml:"log_level"`

	// LogFile, if set, also writes logs to this file with size-based rotation.
	LogFile string `yaml:"log_file"`

	// SampleRate and Channels describe the PCM delivered by the synthesis
	// step when a request does not say otherwise.
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`

	// MinSelection is the smallest confirmable selection side, in viewport
	// pixels.
	MinSelection float64 `yaml:"min_selection"`

	// Preview overlay.
	OverlayAlpha float64 `yaml:"overlay_alpha"`
	BorderColor  string  `yaml:"border_color"`
	BorderWidth  int     `yaml:"border_width"`

	// OCRLanguage is the Tesseract language used by local OCR.
	OCRLanguage string `yaml:"ocr_language"`

	// ExportDir receives exported WAV files. Empty means the system temp dir.
	ExportDir string `yaml:"export_dir"`

	// Voice is the default synthesis voice, one of Voices.
	Voice string `yaml:"voice"`
}

// LoadOptions overrides file discovery.
type LoadOptions struct {
	// ConfigPath is the YAML file to read. Empty means SCREEN_SPEAK_CONFIG,
	// and no file if that is unset too.
	ConfigPath string

	// EnvPath is the .env file to read. Empty means .env next to the
	// executable, then in the working directory. "-" disables .env loading.
	EnvPath string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		SampleRate:   audio.DefaultSampleRate,
		Channels:     audio.DefaultChannels,
		MinSelection: selection.DefaultMinSize,
		OverlayAlpha: 0.5,
		BorderColor:  "#3b82f6",
		BorderWidth:  2,
		OCRLanguage:  "eng",
		Voice:        "Kore",
	}
}

// Load reads the configuration with default file discovery.
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions reads the configuration and validates it.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	dotenvValues, err := readDotenvValues(resolveEnvPath(opts.EnvPath))
	if err != nil {
		return nil, err
	}
	lookup := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(dotenvValues[key])
	}

	cfg := Default()

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = lookup(ConfigPathEnvVar)
	}
	if configPath != "" {
		if err := cfg.loadYAML(configPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) string) error {
	strs := []struct {
		key string
		dst *string
	}{
		{LogLevelEnvVar, &c.LogLevel},
		{LogFileEnvVar, &c.LogFile},
		{BorderColorEnvVar, &c.BorderColor},
		{OCRLanguageEnvVar, &c.OCRLanguage},
		{ExportDirEnvVar, &c.ExportDir},
		{VoiceEnvVar, &c.Voice},
	}
	for _, s := range strs {
		if v := lookup(s.key); v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{SampleRateEnvVar, &c.SampleRate},
		{ChannelsEnvVar, &c.Channels},
		{BorderWidthEnvVar, &c.BorderWidth},
	}
	for _, i := range ints {
		if v := lookup(i.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", i.key, v, err)
			}
			*i.dst = n
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{MinSelectionEnvVar, &c.MinSelection},
		{OverlayAlphaEnvVar, &c.OverlayAlpha},
	}
	for _, f := range floats {
		if v := lookup(f.key); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", f.key, v, err)
			}
			*f.dst = n
		}
	}
	return nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "info", "debug":
	default:
		return fmt.Errorf("invalid log level %q: must be info or debug", c.LogLevel)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("invalid channel count %d", c.Channels)
	}
	if c.MinSelection <= 0 {
		return fmt.Errorf("invalid minimum selection size %g", c.MinSelection)
	}
	if c.OverlayAlpha < 0 || c.OverlayAlpha > 1 {
		return fmt.Errorf("invalid overlay alpha %g: must be between 0 and 1", c.OverlayAlpha)
	}
	if c.BorderWidth < 0 {
		return fmt.Errorf("invalid border width %d", c.BorderWidth)
	}
	if _, err := imaging.ParseHexColor(c.BorderColor); err != nil {
		return fmt.Errorf("invalid border color: %w", err)
	}
	if !slices.Contains(Voices, c.Voice) {
		return fmt.Errorf("invalid voice %q: must be one of %s", c.Voice, strings.Join(Voices, ", "))
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// OverlayStyle returns the preview overlay settings.
func (c *Config) OverlayStyle() (imaging.OverlayStyle, error) {
	border, err := imaging.ParseHexColor(c.BorderColor)
	if err != nil {
		return imaging.OverlayStyle{}, err
	}
	return imaging.OverlayStyle{
		DimAlpha:    c.OverlayAlpha,
		BorderColor: border,
		BorderWidth: c.BorderWidth,
	}, nil
}

// SelectionOptions returns the selection engine settings.
func (c *Config) SelectionOptions() (selection.Options, error) {
	style, err := c.OverlayStyle()
	if err != nil {
		return selection.Options{}, err
	}
	return selection.Options{MinSize: c.MinSelection, Style: style}, nil
}

func resolveEnvPath(override string) string {
	switch override {
	case "-":
		return ""
	case "":
	default:
		return override
	}

	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}
	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}
	return ""
}

func readDotenvValues(envPath string) (map[string]string, error) {
	if envPath == "" {
		return map[string]string{}, nil
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", envPath, err)
	}
	return values, nil
}
