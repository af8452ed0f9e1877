package core

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all process configuration. The Hyperbolic API key is a single
// process-wide credential: every user of this bot shares it, there is no
// per-user key storage.
type Config struct {
	Env            string        `yaml:"env" env:"APP_ENV" env-default:"prod"`
	TelegramToken  string        `yaml:"telegram_token" env:"TELEGRAM_TOKEN" env-default:""`
	APIKey         string        `yaml:"api_key" env:"HYPERBOLIC_API_KEY" env-default:""`
	CompletionsURL string        `yaml:"completions_url" env:"COMPLETIONS_URL" env-default:"https://api.hyperbolic.xyz/v1"`
	HyperbolicURL  string        `yaml:"hyperbolic_url" env:"HYPERBOLIC_URL" env-default:"https://api.hyperbolic.xyz/v1"`
	ListenMetrics  string        `yaml:"listen_metrics" env:"LISTEN_METRICS" env-default:""`
	ScratchDir     string        `yaml:"scratch_dir" env:"SCRATCH_DIR" env-default:""`
	SessionTTL     time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"1h"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"30s"`
}

// MustLoad reads configuration from the yaml file at path, if it exists,
// with environment variables taking precedence. Missing required values
// abort startup.
func MustLoad(path string) *Config {
	conf := &Config{}

	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, conf)
	} else {
		err = cleanenv.ReadEnv(conf)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		log.Fatalf("config: %s; %s", err, desc)
	}

	if conf.TelegramToken == "" {
		log.Fatal("config: telegram_token (TELEGRAM_TOKEN) is required")
	}
	if conf.APIKey == "" {
		log.Fatal("config: api_key (HYPERBOLIC_API_KEY) is required")
	}
	if conf.ScratchDir == "" {
		conf.ScratchDir = os.TempDir()
	}

	return conf
}
