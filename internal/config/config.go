package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type PromptOptions struct {
	Symbol          string `toml:"symbol"`
	History         bool   `toml:"history"`
	Masking         bool   `toml:"masking"`
	StartupSequence bool   `toml:"startup-sequence"`
}

// StartupLine is one announcement played before the prompt accepts keys.
type StartupLine struct {
	Text  string        `toml:"text"`
	Delay time.Duration `toml:"delay"`
}

type ServerOptions struct {
	URL     string        `toml:"url"`
	Timeout time.Duration `toml:"timeout"`
	Offline bool          `toml:"offline"`
}

type LogOptions struct {
	Debug bool   `toml:"debug"`
	File  string `toml:"file"`
}

type Theme struct {
	Theme                string `toml:"theme"`
	Foreground           string `toml:"foreground"`
	Background           string `toml:"background"`
	PromptForeground     string `toml:"prompt-foreground"`
	PromptBackground     string `toml:"prompt-background"`
	PromptSymbol         string `toml:"prompt-symbol-foreground"`
	TranscriptForeground string `toml:"transcript-foreground"`
}

type Config struct {
	Prompt  PromptOptions `toml:"prompt"`
	Startup []StartupLine `toml:"startup"`
	Server  ServerOptions `toml:"server"`
	Log     LogOptions    `toml:"log"`
	Theme   Theme         `toml:"theme"`
}

func Default() Config {
	return Config{
		Prompt: PromptOptions{
			Symbol:          ">",
			History:         true,
			Masking:         true,
			StartupSequence: true,
		},
		Startup: []StartupLine{
			{Text: "Initializing terminal..."},
			{Text: "Loading portal registry..."},
			{Text: "Opening uplink..."},
			{Text: "Ready."},
		},
		Server: ServerOptions{
			URL:     "http://127.0.0.1:8000",
			Timeout: 30 * time.Second,
		},
		Theme: Theme{
			Foreground:           "#B3B1AD",
			Background:           "#0A0E14",
			PromptForeground:     "#B3B1AD",
			PromptBackground:     "#0F1419",
			PromptSymbol:         "#E6B450",
			TranscriptForeground: "#B3B1AD",
		},
	}
}

// Load reads config.toml on top of Default. Keys absent from the file keep
// their default values; a [[startup]] list in the file replaces the default one.
func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	return Parse(string(data))
}

// Parse decodes a config document over Default.
func Parse(data string) (Config, error) {
	cfg := Default()
	startup := cfg.Startup
	cfg.Startup = nil
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Default(), err
	}
	if !md.IsDefined("startup") {
		cfg.Startup = startup
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme, func(key string) bool {
			return md.IsDefined("theme", key)
		})
	}
	if cfg.Server.Timeout <= 0 {
		cfg.Server.Timeout = Default().Server.Timeout
	}
	return cfg, nil
}

// mergeTheme copies non-empty colors from src unless the user set them explicitly.
func mergeTheme(dst *Theme, src Theme, userSet func(key string) bool) {
	set := func(key string, to *string, from string) {
		if from != "" && !userSet(key) {
			*to = from
		}
	}
	set("foreground", &dst.Foreground, src.Foreground)
	set("background", &dst.Background, src.Background)
	set("prompt-foreground", &dst.PromptForeground, src.PromptForeground)
	set("prompt-background", &dst.PromptBackground, src.PromptBackground)
	set("prompt-symbol-foreground", &dst.PromptSymbol, src.PromptSymbol)
	set("transcript-foreground", &dst.TranscriptForeground, src.TranscriptForeground)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, err
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QPROMPT_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qprompt"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qprompt"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath resolves the log file: explicit setting, QPROMPT_LOG_FILE, then the config dir.
func LogPath(cfg Config) (string, error) {
	if cfg.Log.File != "" {
		return cfg.Log.File, nil
	}
	if v := os.Getenv("QPROMPT_LOG_FILE"); v != "" {
		return v, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "qprompt.log"), nil
}
