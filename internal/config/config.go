package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App     App                    `mapstructure:"app"`
	LLM     LLM                    `mapstructure:"llm"`
	Topics  Topics                 `mapstructure:"topics"`
	Images  Images                 `mapstructure:"images"`
	Publish Publish                `mapstructure:"publish"`
	Sites   map[string]SiteProfile `mapstructure:"sites"`
}

// App holds general application configuration.
type App struct {
	Debug      bool   `mapstructure:"debug"`
	ConfigFile string `mapstructure:"config_file"`
}

// LLM holds the two language-model backend endpoints: the research backend
// drives the generation stages, the editorial backend handles title fixes,
// category choice and tag generation.
type LLM struct {
	Research  Endpoint `mapstructure:"research"`
	Editorial Endpoint `mapstructure:"editorial"`
}

// Endpoint describes one chat-completions backend.
type Endpoint struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Timeout string `mapstructure:"timeout"`
}

// TimeoutDuration returns the parsed request timeout.
func (e Endpoint) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return time.Minute
	}
	return d
}

// Topics holds topic-discovery backend configuration.
type Topics struct {
	EventRegistry EventRegistry `mapstructure:"event_registry"`
}

// EventRegistry holds the news-aggregation backend configuration.
type EventRegistry struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Language   string `mapstructure:"language"`
	WindowDays int    `mapstructure:"window_days"`
	Timeout    string `mapstructure:"timeout"`
}

// Images holds image-search backend configuration.
type Images struct {
	Pexels       Pexels `mapstructure:"pexels"`
	FetchTimeout string `mapstructure:"fetch_timeout"`
}

// Pexels holds the image-search backend configuration.
type Pexels struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// FetchTimeoutDuration returns the parsed image download timeout.
func (i Images) FetchTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(i.FetchTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Publish holds content-backend call configuration shared by all sites.
type Publish struct {
	FallbackCategoryID int    `mapstructure:"fallback_category_id"`
	Timeout            string `mapstructure:"timeout"`
}

// TimeoutDuration returns the parsed content-backend request timeout.
func (p Publish) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return time.Minute
	}
	return d
}

// SiteProfile is the immutable per-target configuration bundle. Loaded once
// at startup and never mutated by the pipeline.
type SiteProfile struct {
	ID            string   `mapstructure:"-"`
	Name          string   `mapstructure:"name"`
	APIBase       string   `mapstructure:"api_base"`
	Auth          Auth     `mapstructure:"auth"`
	ThematicFocus string   `mapstructure:"thematic_focus"`
	WritingRules  string   `mapstructure:"writing_rules"`
	AuthorID      int      `mapstructure:"author_id"`
	TopicConcepts []string `mapstructure:"topic_concepts"`
	TopicPrompt   string   `mapstructure:"topic_prompt"`
}

// Auth holds a site's content-backend credentials. Method is either "basic"
// (username/password pair) or "bearer" (token).
type Auth struct {
	Method   string `mapstructure:"method"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Token    string `mapstructure:"token"`
}

var globalConfig *Config

// Load loads the configuration from various sources.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".pressgen")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Site returns the profile for the given site id.
func (c *Config) Site(id string) (SiteProfile, error) {
	profile, ok := c.Sites[id]
	if !ok {
		return SiteProfile{}, fmt.Errorf("unknown site %q (configured: %s)", id, strings.Join(c.SiteIDs(), ", "))
	}
	return profile, nil
}

// SiteIDs returns the configured site identifiers in sorted order.
func (c *Config) SiteIDs() []string {
	ids := make([]string, 0, len(c.Sites))
	for id := range c.Sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("app.debug", false)

	// Generation calls run minutes-scale, editorial calls seconds-scale.
	viper.SetDefault("llm.research.base_url", "https://api.perplexity.ai")
	viper.SetDefault("llm.research.model", "sonar-pro")
	viper.SetDefault("llm.research.timeout", "400s")
	viper.SetDefault("llm.editorial.base_url", "https://api.openai.com/v1")
	viper.SetDefault("llm.editorial.model", "gpt-4o-mini")
	viper.SetDefault("llm.editorial.timeout", "60s")

	viper.SetDefault("topics.event_registry.base_url", "https://eventregistry.org/api/v1")
	viper.SetDefault("topics.event_registry.language", "pol")
	viper.SetDefault("topics.event_registry.window_days", 3)
	viper.SetDefault("topics.event_registry.timeout", "30s")

	viper.SetDefault("images.pexels.base_url", "https://api.pexels.com/v1")
	viper.SetDefault("images.fetch_timeout", "20s")

	viper.SetDefault("publish.fallback_category_id", 1)
	viper.SetDefault("publish.timeout", "30s")
}

// bindEnvironmentVariables sets up flexible environment variable binding.
func bindEnvironmentVariables() {
	bindEnvKeys("llm.research.api_key", []string{
		"PERPLEXITY_API_KEY",
		"PRESSGEN_RESEARCH_API_KEY",
	})

	bindEnvKeys("llm.editorial.api_key", []string{
		"OPENAI_API_KEY",
		"PRESSGEN_EDITORIAL_API_KEY",
	})

	bindEnvKeys("topics.event_registry.api_key", []string{
		"EVENT_REGISTRY_API_KEY",
		"ER_API_KEY",
	})

	bindEnvKeys("images.pexels.api_key", []string{
		"PEXELS_API_KEY",
	})

	bindEnvKeys("app.debug", []string{
		"PRESSGEN_DEBUG",
		"DEBUG",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key.
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig applies post-processing to configuration values.
func postProcessConfig(config *Config) error {
	// Site credential fields may reference secrets as ${ENV_VAR}.
	for id, site := range config.Sites {
		site.ID = id
		site.Auth.Username = os.ExpandEnv(site.Auth.Username)
		site.Auth.Password = os.ExpandEnv(site.Auth.Password)
		site.Auth.Token = os.ExpandEnv(site.Auth.Token)
		config.Sites[id] = site
	}

	durations := map[string]string{
		"llm.research.timeout":          config.LLM.Research.Timeout,
		"llm.editorial.timeout":         config.LLM.Editorial.Timeout,
		"topics.event_registry.timeout": config.Topics.EventRegistry.Timeout,
		"images.fetch_timeout":          config.Images.FetchTimeout,
		"publish.timeout":               config.Publish.Timeout,
	}

	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				return fmt.Errorf("invalid duration for %s: %s", key, duration)
			}
		}
	}

	return nil
}

// validateConfig ensures required configuration is present.
func validateConfig(config *Config) error {
	var errors []string

	if config.LLM.Research.APIKey == "" {
		errors = append(errors, "research backend API key is required. Set PERPLEXITY_API_KEY or llm.research.api_key in config file")
	}
	if config.LLM.Editorial.APIKey == "" {
		errors = append(errors, "editorial backend API key is required. Set OPENAI_API_KEY or llm.editorial.api_key in config file")
	}

	if len(config.Sites) == 0 {
		errors = append(errors, "at least one site profile is required under sites:")
	}

	for id, site := range config.Sites {
		if site.Name == "" {
			errors = append(errors, fmt.Sprintf("site %q: name is required", id))
		}
		if site.APIBase == "" {
			errors = append(errors, fmt.Sprintf("site %q: api_base is required", id))
		}
		switch site.Auth.Method {
		case "basic":
			if site.Auth.Username == "" || site.Auth.Password == "" {
				errors = append(errors, fmt.Sprintf("site %q: basic auth requires username and password", id))
			}
		case "bearer":
			if site.Auth.Token == "" {
				errors = append(errors, fmt.Sprintf("site %q: bearer auth requires a token", id))
			}
		default:
			errors = append(errors, fmt.Sprintf("site %q: unknown auth method %q (supported: basic, bearer)", id, site.Auth.Method))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Convenience getters for commonly used configuration values.
func GetLLM() LLM         { return Get().LLM }
func GetPublish() Publish { return Get().Publish }
func IsDebugMode() bool   { return Get().App.Debug }

// Reset clears the global configuration (useful for testing).
func Reset() {
	globalConfig = nil
	viper.Reset()
}
