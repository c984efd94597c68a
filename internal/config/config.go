package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultPrompt = "Hourly check-in: what did you do in the last hour? " +
	"Include duration, quadrant (Q1-4), and tags if you can."

type Config struct {
	Discord struct {
		Token string `yaml:"token" env:"DISCORD_TOKEN,required"`
		// ChannelID optionally pins the bot to one channel; when empty the
		// first !start registers the conversation.
		ChannelID string `yaml:"channel_id" env:"DISCORD_CHANNEL_ID"`
	} `yaml:"discord"`

	Database struct {
		Host     string `yaml:"host" env:"DB_HOST,required"`
		Port     int    `yaml:"port" env:"DB_PORT,required"`
		User     string `yaml:"user" env:"DB_USER,required"`
		Password string `yaml:"password" env:"DB_PASSWORD,required"`
		DBName   string `yaml:"dbname" env:"DB_NAME,required"`
		SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE,required"`
	} `yaml:"database"`

	Completion struct {
		BaseURL        string `yaml:"base_url" env:"COMPLETION_BASE_URL"`
		APIKey         string `yaml:"api_key" env:"COMPLETION_API_KEY,required"`
		Model          string `yaml:"model" env:"COMPLETION_MODEL"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"completion"`

	Checkin struct {
		DayStartHour int    `yaml:"day_start_hour"`
		DayEndHour   int    `yaml:"day_end_hour"`
		TTLMinutes   int    `yaml:"ttl_minutes"`
		PollMinutes  int    `yaml:"poll_minutes"`
		Timezone     string `yaml:"timezone"`
		Prompt       string `yaml:"prompt"`
		StatePath    string `yaml:"state_path"`
	} `yaml:"checkin"`
}

func Load() (*Config, error) {
	return LoadFrom("config.yaml")
}

func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Replace environment variables in the YAML content
	content := string(data)
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		placeholder := "${" + pair[0] + "}"
		content = strings.ReplaceAll(content, placeholder, pair[1])
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	// Convert DB_PORT from string to int if it's an environment variable
	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PORT value: %w", err)
		}
		cfg.Database.Port = port
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Completion.BaseURL == "" {
		c.Completion.BaseURL = "https://api.x.ai/v1"
	}
	if c.Completion.Model == "" {
		c.Completion.Model = "grok-4-latest"
	}
	if c.Completion.TimeoutSeconds <= 0 {
		c.Completion.TimeoutSeconds = 60
	}
	if c.Checkin.Prompt == "" {
		c.Checkin.Prompt = defaultPrompt
	}
	if c.Checkin.StatePath == "" {
		c.Checkin.StatePath = "checkin_state.json"
	}
	if c.Checkin.DayStartHour == 0 && c.Checkin.DayEndHour == 0 {
		c.Checkin.DayStartHour = 9
		c.Checkin.DayEndHour = 18
	}
	c.Checkin.DayStartHour = clampInt("day_start_hour", c.Checkin.DayStartHour, 0, 23, 9)
	c.Checkin.DayEndHour = clampInt("day_end_hour", c.Checkin.DayEndHour, 0, 23, 18)
	c.Checkin.TTLMinutes = clampInt("ttl_minutes", orDefault(c.Checkin.TTLMinutes, 120), 10, 720, 120)
	c.Checkin.PollMinutes = clampInt("poll_minutes", orDefault(c.Checkin.PollMinutes, 60), 1, 720, 60)
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func clampInt(name string, v, min, max, def int) int {
	if v < min || v > max {
		log.Printf("Out-of-range %s=%d, using default %d", name, v, def)
		return def
	}
	return v
}

// Location resolves the configured timezone, falling back to the system local
// zone when unset or unknown.
func (c *Config) Location() *time.Location {
	if c.Checkin.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Checkin.Timezone)
	if err != nil {
		log.Printf("Unknown timezone %q, using local timezone", c.Checkin.Timezone)
		return time.Local
	}
	return loc
}

// CompletionTimeout is the bound on a single completion call.
func (c *Config) CompletionTimeout() time.Duration {
	return time.Duration(c.Completion.TimeoutSeconds) * time.Second
}

// PollInterval is the scheduler tick interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Checkin.PollMinutes) * time.Minute
}

// TTL is how long an unanswered prompt stays open.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.Checkin.TTLMinutes) * time.Minute
}
