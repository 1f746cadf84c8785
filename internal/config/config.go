package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const envPrefix = "RUHAAN"

type Config struct {
	Mode Mode

	Port string

	Log     LogConfig
	LLM     LLMConfig
	Storage StorageConfig
	History HistoryConfig
	Redis   RedisConfig
	Browser BrowserConfig
	Voice   VoiceConfig
}

type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

type LLMConfig struct {
	Provider        string // "mock", "openai" or "vertex"
	BaseURL         string
	APIKey          string
	Model           string
	StructuredModel string
	GCPProjectID    string
	GCPLocation     string
	Timeouts        Timeouts
}

// Timeouts bound every outbound model call.
type Timeouts struct {
	Classify   time.Duration
	Structured time.Duration
	ChitChat   time.Duration
	Command    time.Duration
	Translate  time.Duration
	Planner    time.Duration
}

type StorageConfig struct {
	Backend      string // "memory", "firestore" or "sqlite"
	SQLitePath   string
	GCPProjectID string
}

type HistoryConfig struct {
	Backend string // "memory" or "redis"
	Window  int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type BrowserConfig struct {
	Launcher string // "log" or "rod"
	Headless bool
	Bin      string
}

type VoiceConfig struct {
	PhraseBank string // optional YAML file with openers/closers
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", string(ModeLocal))
	v.SetDefault("port", "8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("llm.provider", "mock")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "llama3-8b-8192")
	v.SetDefault("llm.structured_model", "")
	v.SetDefault("llm.gcp_location", "us-central1")
	v.SetDefault("llm.timeouts.classify", 10*time.Second)
	v.SetDefault("llm.timeouts.structured", 60*time.Second)
	v.SetDefault("llm.timeouts.chitchat", 20*time.Second)
	v.SetDefault("llm.timeouts.command", 15*time.Second)
	v.SetDefault("llm.timeouts.translate", 10*time.Second)
	v.SetDefault("llm.timeouts.planner", 30*time.Second)

	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.sqlite_path", "data/ruhaan.db")

	v.SetDefault("history.backend", "memory")
	v.SetDefault("history.window", 5)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("browser.launcher", "log")
	v.SetDefault("browser.headless", false)
}

// Load reads defaults, the optional config file and RUHAAN_* env vars and builds the config.
// An empty configPath skips the file.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	var mode Mode
	switch strings.ToLower(v.GetString("mode")) {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	gcpProject := v.GetString("gcp_project")

	cfg := &Config{
		Mode: mode,
		Port: v.GetString("port"),

		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(v.GetString("llm.provider")),
			BaseURL:         v.GetString("llm.base_url"),
			APIKey:          v.GetString("llm.api_key"),
			Model:           v.GetString("llm.model"),
			StructuredModel: v.GetString("llm.structured_model"),
			GCPProjectID:    firstNonEmpty(v.GetString("llm.gcp_project"), gcpProject),
			GCPLocation:     v.GetString("llm.gcp_location"),
			Timeouts: Timeouts{
				Classify:   v.GetDuration("llm.timeouts.classify"),
				Structured: v.GetDuration("llm.timeouts.structured"),
				ChitChat:   v.GetDuration("llm.timeouts.chitchat"),
				Command:    v.GetDuration("llm.timeouts.command"),
				Translate:  v.GetDuration("llm.timeouts.translate"),
				Planner:    v.GetDuration("llm.timeouts.planner"),
			},
		},
		Storage: StorageConfig{
			Backend:      strings.ToLower(v.GetString("storage.backend")),
			SQLitePath:   v.GetString("storage.sqlite_path"),
			GCPProjectID: firstNonEmpty(v.GetString("storage.gcp_project"), gcpProject),
		},
		History: HistoryConfig{
			Backend: strings.ToLower(v.GetString("history.backend")),
			Window:  v.GetInt("history.window"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Browser: BrowserConfig{
			Launcher: strings.ToLower(v.GetString("browser.launcher")),
			Headless: v.GetBool("browser.headless"),
			Bin:      v.GetString("browser.bin"),
		},
		Voice: VoiceConfig{
			PhraseBank: v.GetString("voice.phrase_bank"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects inconsistent combinations.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLM.Provider {
	case "mock":
	case "openai":
		if c.LLM.APIKey == "" {
			errs = append(errs, errors.New("llm.api_key is required for the openai provider"))
		}
	case "vertex":
		if c.LLM.GCPProjectID == "" || c.LLM.GCPLocation == "" {
			errs = append(errs, errors.New("llm.gcp_project and llm.gcp_location are required for the vertex provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown llm.provider %q", c.LLM.Provider))
	}

	switch c.Storage.Backend {
	case "memory":
	case "firestore":
		if c.Storage.GCPProjectID == "" {
			errs = append(errs, errors.New("storage.gcp_project is required for the firestore backend"))
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q", c.Storage.Backend))
	}

	switch c.History.Backend {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("unknown history.backend %q", c.History.Backend))
	}
	if c.History.Window <= 0 {
		errs = append(errs, errors.New("history.window must be positive"))
	}

	switch c.Browser.Launcher {
	case "log", "rod":
	default:
		errs = append(errs, fmt.Errorf("unknown browser.launcher %q", c.Browser.Launcher))
	}

	// Minimal validation in GCP mode
	if c.Mode == ModeGCP && c.LLM.Provider == "mock" {
		errs = append(errs, errors.New("the mock llm provider cannot be used in gcp mode"))
	}

	return errors.Join(errs...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
