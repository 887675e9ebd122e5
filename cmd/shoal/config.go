package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/casualjim/shoal/internal/game"
	"gopkg.in/yaml.v3"
)

const defaultSubject = "shoal.input"

type config struct {
	natsURL   string
	httpAddr  string
	subject   string
	ups       int
	fps       int
	level     slog.Level
	duration  time.Duration
	synthetic bool
	trace     bool
	dump      bool
}

// fileConfig is the YAML file named by SHOAL_CONFIG.
type fileConfig struct {
	NATSURL   string        `yaml:"nats_url"`
	HTTPAddr  string        `yaml:"http_addr"`
	Subject   string        `yaml:"subject"`
	UPS       int           `yaml:"ups"`
	FPS       int           `yaml:"fps"`
	LogLevel  string        `yaml:"log_level"`
	Duration  time.Duration `yaml:"duration"`
	Synthetic *bool         `yaml:"synthetic"`
}

// loadConfig builds the configuration from, in increasing precedence, the
// defaults, the file named by SHOAL_CONFIG, the environment read through
// getenv and args.
func loadConfig(args []string, getenv func(string) string) (config, error) {
	cfg := config{
		subject:   defaultSubject,
		ups:       game.DefaultUPS,
		fps:       game.DefaultFPS,
		level:     slog.LevelInfo,
		duration:  5 * time.Second,
		synthetic: true,
	}

	var level string
	if path := getenv("SHOAL_CONFIG"); path != "" {
		fc, err := readConfigFile(path)
		if err != nil {
			return cfg, err
		}
		cfg.apply(fc)
		level = fc.LogLevel
	}

	if v := getenv("NATS_URL"); v != "" {
		cfg.natsURL = v
	}
	if v := getenv("SHOAL_HTTP_ADDR"); v != "" {
		cfg.httpAddr = v
	}
	if v := getenv("SHOAL_SUBJECT"); v != "" {
		cfg.subject = v
	}
	if err := envInt(getenv, "SHOAL_UPS", &cfg.ups); err != nil {
		return cfg, err
	}
	if err := envInt(getenv, "SHOAL_FPS", &cfg.fps); err != nil {
		return cfg, err
	}
	if v := getenv("SHOAL_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid SHOAL_DURATION: %w", err)
		}
		cfg.duration = d
	}
	if v := getenv("SHOAL_LOG_LEVEL"); v != "" {
		level = v
	}

	fs := flag.NewFlagSet("shoal", flag.ContinueOnError)
	fs.StringVar(&cfg.natsURL, "nats", cfg.natsURL, "NATS server url, enables the NATS bridge")
	fs.StringVar(&cfg.httpAddr, "http", cfg.httpAddr, "address serving /metrics and the /ws input endpoint")
	fs.StringVar(&cfg.subject, "subject", cfg.subject, "NATS subject carrying input events")
	fs.IntVar(&cfg.ups, "ups", cfg.ups, "simulation ticks per second")
	fs.IntVar(&cfg.fps, "fps", cfg.fps, "rendered frames per second")
	fs.DurationVar(&cfg.duration, "duration", cfg.duration, "how long to run, 0 runs until interrupted")
	fs.StringVar(&level, "log-level", level, "debug, info, warn or error")
	fs.BoolVar(&cfg.synthetic, "synthetic", cfg.synthetic, "generate input events")
	fs.BoolVar(&cfg.trace, "trace", cfg.trace, "print every input event")
	fs.BoolVar(&cfg.dump, "dump", cfg.dump, "print the final scene state")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if level != "" {
		if err := cfg.level.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
			return cfg, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	if cfg.ups <= 0 || cfg.fps <= 0 {
		return cfg, fmt.Errorf("ups and fps must be positive, got %d and %d", cfg.ups, cfg.fps)
	}
	if cfg.ups > game.MaxRate || cfg.fps > game.MaxRate {
		return cfg, fmt.Errorf("ups and fps must not exceed %d, got %d and %d", game.MaxRate, cfg.ups, cfg.fps)
	}
	if cfg.duration < 0 {
		return cfg, fmt.Errorf("duration must not be negative, got %s", cfg.duration)
	}
	return cfg, nil
}

func envInt(getenv func(string) string, key string, dst *int) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func readConfigFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return fc, nil
}

func (c *config) apply(fc fileConfig) {
	if fc.NATSURL != "" {
		c.natsURL = fc.NATSURL
	}
	if fc.HTTPAddr != "" {
		c.httpAddr = fc.HTTPAddr
	}
	if fc.Subject != "" {
		c.subject = fc.Subject
	}
	if fc.UPS != 0 {
		c.ups = fc.UPS
	}
	if fc.FPS != 0 {
		c.fps = fc.FPS
	}
	if fc.Duration != 0 {
		c.duration = fc.Duration
	}
	if fc.Synthetic != nil {
		c.synthetic = *fc.Synthetic
	}
}
