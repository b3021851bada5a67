// Package config loads the YAML run configuration.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobhydra/internal/credential"
	"github.com/amishk599/jobhydra/internal/source"
)

// Config is the root configuration of one run. It is built once and passed
// explicitly; nothing reads configuration from package state.
type Config struct {
	Profile          string
	Queries          []string
	FetchConcurrency int
	Search           SearchConfig
	WebSearch        WebSearchConfig
	Feeds            []FeedConfig
	Scrape           []ScrapeConfig
	Boards           []BoardConfig
	Filters          FilterConfig
	Enrich           EnrichConfig
	AI               AIConfig
	Store            StoreConfig
	Notification     NotificationConfig
	RateLimit        RateLimitConfig
	Metrics          MetricsConfig
}

// SearchConfig drives the keyed Programmable Search provider.
type SearchConfig struct {
	Enabled  bool
	Pool     []credential.Search `validate:"dive"`
	Pages    int                 // result pages per query, 10 results each
	Endpoint string              // API root override, empty for Google's
}

// WebSearchConfig drives the free-text HTML search provider.
type WebSearchConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Endpoint string   `yaml:"endpoint"`
	Queries  []string `yaml:"queries"` // defaults to the top-level queries
}

// FeedConfig is one RSS/Atom feed of listings.
type FeedConfig struct {
	Name string `yaml:"name" validate:"required"`
	URL  string `yaml:"url" validate:"required,url"`
}

// ScrapeConfig is one listing page scraped with CSS selectors.
type ScrapeConfig struct {
	Name    string `yaml:"name" validate:"required"`
	URL     string `yaml:"url" validate:"required,url"`
	Item    string `yaml:"item" validate:"required"`
	Title   string `yaml:"title" validate:"required"`
	Link    string `yaml:"link"`
	Snippet string `yaml:"snippet"`
}

// BoardConfig is a public ATS job board.
type BoardConfig struct {
	Name    string `yaml:"name" validate:"required"`
	ATS     string `yaml:"ats" validate:"oneof=greenhouse lever"`
	Token   string `yaml:"token" validate:"required"`
	Enabled bool   `yaml:"enabled"`
}

// FilterConfig holds the title stoplist.
type FilterConfig struct {
	TitleExclude []string            // applied to every source
	KindExclude  map[string][]string // extra words per source kind
}

// EnrichConfig controls full-text enrichment.
type EnrichConfig struct {
	Enabled   bool
	Timeout   time.Duration
	MinLength int
	MaxLength int
	Workers   int
}

// ProviderConfig is one language-model backend.
type ProviderConfig struct {
	Name    string
	BaseURL string
	Model   string
	Keys    []string // pool; one is chosen per call
}

// AIConfig configures classification and drafting.
type AIConfig struct {
	Gemini         ProviderConfig
	OpenAI         ProviderConfig // OpenAI-compatible fallback, Groq by default
	Timeout        time.Duration  // per-request timeout
	ChunkSize      int
	ChunkDelay     time.Duration
	DraftThreshold float64
	Draft          bool
}

// StoreConfig selects and configures the persistence sink.
type StoreConfig struct {
	Type            string `yaml:"type"` // "sheets", "sqlite" or "none"
	Path            string `yaml:"path"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	Sheet           string `yaml:"sheet"`
	CredentialsJSON string `yaml:"credentials_json"`
	CredentialsFile string `yaml:"credentials_file"`
}

// NotificationConfig controls which notifiers are used and their settings.
type NotificationConfig struct {
	Types       []string      // "telegram", "slack", "log", "terminal"
	WebhookURL  string        // slack
	BotToken    string        // telegram
	ChatID      string        // telegram
	BaseURL     string        // telegram API override
	MinInterval time.Duration // pacing between telegram messages
}

// RateLimitConfig controls per-kind source throttling.
type RateLimitConfig struct {
	MinDelay      time.Duration
	KindOverrides map[string]time.Duration
}

// MinDelayFor returns the configured delay for the given kind, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(kind string) time.Duration {
	if d, ok := r.KindOverrides[kind]; ok {
		return d
	}
	return r.MinDelay
}

// MetricsConfig controls the Pushgateway flush at the end of a run.
type MetricsConfig struct {
	PushURL  string
	Job      string
	Instance string
}

const (
	defaultGeminiModel    = "gemini-flash-latest"
	defaultOpenAIBaseURL  = "https://api.groq.com/openai/v1"
	defaultOpenAIModel    = "llama-3.1-8b-instant"
	defaultOpenAIName     = "groq"
	defaultStorePath      = "jobhydra.db"
	defaultSheet          = "Jobs"
	defaultSearchPages    = 2
	defaultChunkSize      = 5
	defaultChunkDelay     = 5 * time.Second
	defaultDraftThreshold = 85
	defaultAITimeout      = 60 * time.Second
	defaultEnrichTimeout  = 10 * time.Second
	defaultMetricsJob     = "jobhydra"
)

// defaultTitleExclude matches the stoplist applied before any AI call.
var defaultTitleExclude = []string{"senior", "manager"}

// defaultKindExclude adds words that are only dropped for one source kind.
// Feeds carry many leadership roles that slip past the common stoplist.
var defaultKindExclude = map[string][]string{"feed": {"head", "lead"}}

// defaultFeeds is used when the config has no feeds section.
var defaultFeeds = []FeedConfig{{Name: "jobicy", URL: source.DefaultJobicyFeed}}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Profile          string             `yaml:"profile"`
	Queries          []string           `yaml:"queries"`
	FetchConcurrency int                `yaml:"fetch_concurrency"`
	Search           rawSearchConfig    `yaml:"search"`
	WebSearch        WebSearchConfig    `yaml:"websearch"`
	Feeds            []FeedConfig       `yaml:"feeds"`
	Scrape           []ScrapeConfig     `yaml:"scrape"`
	Boards           []BoardConfig      `yaml:"boards"`
	Filters          rawFilterConfig    `yaml:"filters"`
	Enrich           rawEnrichConfig    `yaml:"enrich"`
	AI               rawAIConfig        `yaml:"ai"`
	Store            StoreConfig        `yaml:"store"`
	Notification     rawNotifyConfig    `yaml:"notification"`
	RateLimit        rawRateLimitConfig `yaml:"rate_limit"`
	Metrics          rawMetricsConfig   `yaml:"metrics"`
}

type rawSearchConfig struct {
	Enabled  *bool               `yaml:"enabled"`
	Pool     []credential.Search `yaml:"pool"`
	Pages    int                 `yaml:"pages"`
	Endpoint string              `yaml:"endpoint"`
}

type rawFilterConfig struct {
	TitleExclude []string            `yaml:"title_exclude"`
	KindExclude  map[string][]string `yaml:"kind_exclude"`
}

type rawEnrichConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Timeout   string `yaml:"timeout"`
	MinLength int    `yaml:"min_length"`
	MaxLength int    `yaml:"max_length"`
	Workers   int    `yaml:"workers"`
}

type rawProviderConfig struct {
	Name    string   `yaml:"name"`
	BaseURL string   `yaml:"base_url"`
	Model   string   `yaml:"model"`
	Keys    []string `yaml:"keys"`
}

type rawAIConfig struct {
	Gemini         rawProviderConfig `yaml:"gemini"`
	OpenAI         rawProviderConfig `yaml:"openai"`
	Timeout        string            `yaml:"timeout"`
	ChunkSize      int               `yaml:"chunk_size"`
	ChunkDelay     string            `yaml:"chunk_delay"`
	DraftThreshold float64           `yaml:"draft_threshold"`
	Draft          *bool             `yaml:"draft"`
}

type rawNotifyConfig struct {
	Type        string   `yaml:"type"`
	Types       []string `yaml:"types"`
	WebhookURL  string   `yaml:"webhook_url"`
	BotToken    string   `yaml:"bot_token"`
	ChatID      string   `yaml:"chat_id"`
	BaseURL     string   `yaml:"base_url"`
	MinInterval string   `yaml:"min_interval"`
}

type rawRateLimitConfig struct {
	MinDelay      string            `yaml:"min_delay"`
	KindOverrides map[string]string `yaml:"kind_overrides"`
}

type rawMetricsConfig struct {
	PushURL  string `yaml:"push_url"`
	Job      string `yaml:"job"`
	Instance string `yaml:"instance"`
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := build(raw)
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func build(raw rawConfig) (*Config, error) {
	var err error
	dur := func(field, s string, def time.Duration) time.Duration {
		if err != nil || s == "" {
			return def
		}
		d, perr := time.ParseDuration(s)
		if perr != nil {
			err = fmt.Errorf("parse %s %q: %w", field, s, perr)
			return def
		}
		return d
	}

	cfg := &Config{
		Profile:          strings.TrimSpace(raw.Profile),
		Queries:          raw.Queries,
		FetchConcurrency: raw.FetchConcurrency,
		WebSearch:        raw.WebSearch,
		Feeds:            raw.Feeds,
		Scrape:           raw.Scrape,
		Boards:           raw.Boards,
		Store:            raw.Store,
	}

	cfg.Search = SearchConfig{
		Enabled:  raw.Search.Enabled == nil || *raw.Search.Enabled,
		Pool:     dropEmptyCreds(raw.Search.Pool),
		Pages:    raw.Search.Pages,
		Endpoint: raw.Search.Endpoint,
	}
	if cfg.Search.Pages <= 0 {
		cfg.Search.Pages = defaultSearchPages
	}
	if len(cfg.WebSearch.Queries) == 0 {
		cfg.WebSearch.Queries = raw.Queries
	}

	cfg.Filters = FilterConfig{
		TitleExclude: raw.Filters.TitleExclude,
		KindExclude:  raw.Filters.KindExclude,
	}
	if cfg.Filters.TitleExclude == nil {
		cfg.Filters.TitleExclude = defaultTitleExclude
	}
	if cfg.Filters.KindExclude == nil {
		cfg.Filters.KindExclude = maps.Clone(defaultKindExclude)
	}
	if cfg.Feeds == nil {
		cfg.Feeds = slices.Clone(defaultFeeds)
	}

	cfg.Enrich = EnrichConfig{
		Enabled:   raw.Enrich.Enabled,
		Timeout:   dur("enrich.timeout", raw.Enrich.Timeout, defaultEnrichTimeout),
		MinLength: raw.Enrich.MinLength,
		MaxLength: raw.Enrich.MaxLength,
		Workers:   raw.Enrich.Workers,
	}

	cfg.AI = AIConfig{
		Gemini: ProviderConfig{
			Name:    "gemini",
			BaseURL: raw.AI.Gemini.BaseURL,
			Model:   orDefault(raw.AI.Gemini.Model, defaultGeminiModel),
			Keys:    SplitPool(raw.AI.Gemini.Keys),
		},
		OpenAI: ProviderConfig{
			Name:    orDefault(raw.AI.OpenAI.Name, defaultOpenAIName),
			BaseURL: orDefault(raw.AI.OpenAI.BaseURL, defaultOpenAIBaseURL),
			Model:   orDefault(raw.AI.OpenAI.Model, defaultOpenAIModel),
			Keys:    SplitPool(raw.AI.OpenAI.Keys),
		},
		Timeout:        dur("ai.timeout", raw.AI.Timeout, defaultAITimeout),
		ChunkSize:      raw.AI.ChunkSize,
		ChunkDelay:     dur("ai.chunk_delay", raw.AI.ChunkDelay, defaultChunkDelay),
		DraftThreshold: raw.AI.DraftThreshold,
		Draft:          raw.AI.Draft == nil || *raw.AI.Draft,
	}
	if cfg.AI.ChunkSize == 0 {
		cfg.AI.ChunkSize = defaultChunkSize
	}
	if cfg.AI.DraftThreshold == 0 {
		cfg.AI.DraftThreshold = defaultDraftThreshold
	}

	if cfg.Store.Type == "" {
		cfg.Store.Type = "sheets"
	}
	if cfg.Store.Type == "sqlite" && cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath
	}
	if cfg.Store.Type == "sheets" && cfg.Store.Sheet == "" {
		cfg.Store.Sheet = defaultSheet
	}

	types := raw.Notification.Types
	if raw.Notification.Type != "" {
		types = append(types, raw.Notification.Type)
	}
	if len(types) == 0 {
		types = []string{"log"}
	}
	cfg.Notification = NotificationConfig{
		Types:       types,
		WebhookURL:  raw.Notification.WebhookURL,
		BotToken:    raw.Notification.BotToken,
		ChatID:      raw.Notification.ChatID,
		BaseURL:     raw.Notification.BaseURL,
		MinInterval: dur("notification.min_interval", raw.Notification.MinInterval, time.Second),
	}

	overrides := make(map[string]time.Duration)
	for kind, s := range raw.RateLimit.KindOverrides {
		overrides[kind] = dur(fmt.Sprintf("rate_limit.kind_overrides[%q]", kind), s, 0)
	}
	cfg.RateLimit = RateLimitConfig{
		MinDelay:      dur("rate_limit.min_delay", raw.RateLimit.MinDelay, 0),
		KindOverrides: overrides,
	}

	cfg.Metrics = MetricsConfig{
		PushURL:  raw.Metrics.PushURL,
		Job:      orDefault(raw.Metrics.Job, defaultMetricsJob),
		Instance: raw.Metrics.Instance,
	}

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// SplitPool flattens a key pool whose entries may each hold several
// comma-separated keys, as happens when a pool comes from one env var.
// Blank entries, e.g. unset variables, are dropped.
func SplitPool(entries []string) []string {
	var out []string
	for _, e := range entries {
		for _, k := range strings.Split(e, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
	}
	return out
}

func dropEmptyCreds(pool []credential.Search) []credential.Search {
	var out []credential.Search
	for _, c := range pool {
		if c.Key == "" && c.CX == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func validate(cfg *Config) error {
	if cfg.Profile == "" {
		return fmt.Errorf("profile is required")
	}

	v := validator.New()
	if err := v.Struct(cfg.Search); err != nil {
		return fmt.Errorf("search.pool: %w", err)
	}
	for i := range cfg.Feeds {
		if err := v.Struct(cfg.Feeds[i]); err != nil {
			return fmt.Errorf("feeds[%d]: %w", i, err)
		}
	}
	for i := range cfg.Scrape {
		if err := v.Struct(cfg.Scrape[i]); err != nil {
			return fmt.Errorf("scrape[%d]: %w", i, err)
		}
	}
	for i := range cfg.Boards {
		if err := v.Struct(cfg.Boards[i]); err != nil {
			return fmt.Errorf("boards[%d]: %w", i, err)
		}
	}

	if cfg.Search.Enabled && len(cfg.Queries) > 0 && len(cfg.Search.Pool) == 0 {
		return fmt.Errorf("search.pool needs at least one {key, cx} when search is enabled")
	}
	if cfg.Search.Pages > 10 {
		return fmt.Errorf("search.pages must be at most 10, got %d", cfg.Search.Pages)
	}

	if len(cfg.AI.Gemini.Keys) == 0 && len(cfg.AI.OpenAI.Keys) == 0 {
		return fmt.Errorf("at least one of ai.gemini.keys or ai.openai.keys is required")
	}
	if cfg.AI.ChunkSize < 1 {
		return fmt.Errorf("ai.chunk_size must be positive, got %d", cfg.AI.ChunkSize)
	}
	if cfg.AI.ChunkDelay < 0 {
		return fmt.Errorf("ai.chunk_delay must not be negative, got %v", cfg.AI.ChunkDelay)
	}
	if cfg.AI.DraftThreshold < 0 || cfg.AI.DraftThreshold > 100 {
		return fmt.Errorf("ai.draft_threshold must be between 0 and 100, got %v", cfg.AI.DraftThreshold)
	}

	switch cfg.Store.Type {
	case "sheets":
		if cfg.Store.SpreadsheetID == "" {
			return fmt.Errorf("store.spreadsheet_id is required when store.type is \"sheets\"")
		}
		if cfg.Store.CredentialsJSON == "" && cfg.Store.CredentialsFile == "" {
			return fmt.Errorf("store.credentials_json or store.credentials_file is required when store.type is \"sheets\"")
		}
	case "sqlite", "none":
	default:
		return fmt.Errorf("store.type must be sheets, sqlite or none, got %q", cfg.Store.Type)
	}

	for _, t := range cfg.Notification.Types {
		switch t {
		case "log", "terminal":
		case "slack":
			if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
				return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
			}
		case "telegram":
			if cfg.Notification.BotToken == "" || cfg.Notification.ChatID == "" {
				return fmt.Errorf("notification.bot_token and notification.chat_id are required for telegram")
			}
		default:
			return fmt.Errorf("unknown notification type %q", t)
		}
	}

	return nil
}
