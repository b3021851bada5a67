package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/amishk599/jobhydra/internal/ai"
	"github.com/amishk599/jobhydra/internal/config"
	"github.com/amishk599/jobhydra/internal/credential"
	"github.com/amishk599/jobhydra/internal/enrich"
	"github.com/amishk599/jobhydra/internal/filter"
	"github.com/amishk599/jobhydra/internal/model"
	"github.com/amishk599/jobhydra/internal/notifier"
	"github.com/amishk599/jobhydra/internal/ratelimit"
	"github.com/amishk599/jobhydra/internal/source"
	"github.com/amishk599/jobhydra/internal/store"
)

const resultsPerPage = 10

func buildSources(ctx context.Context, cfg *config.Config, httpClient *http.Client, logger *slog.Logger) ([]model.Source, error) {
	var sources []model.Source

	if cfg.Search.Enabled && len(cfg.Queries) > 0 {
		opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
		if cfg.Search.Endpoint != "" {
			opts = append(opts, option.WithEndpoint(cfg.Search.Endpoint))
		}
		svc, err := customsearch.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("custom search client: %w", err)
		}
		for _, q := range cfg.Queries {
			for page := 0; page < cfg.Search.Pages; page++ {
				start := int64(1 + page*resultsPerPage)
				sources = append(sources, source.NewCustomSearch(svc, cfg.Search.Pool, credential.RandomSelector{}, q, start))
			}
		}
	}

	if cfg.WebSearch.Enabled {
		for _, q := range cfg.WebSearch.Queries {
			sources = append(sources, source.NewWebSearch(cfg.WebSearch.Endpoint, q, httpClient))
		}
	}

	for _, f := range cfg.Feeds {
		sources = append(sources, source.NewFeed(f.Name, f.URL, httpClient))
	}

	for _, s := range cfg.Scrape {
		sources = append(sources, source.NewScrape(source.ScrapeTarget{
			Name:    s.Name,
			URL:     s.URL,
			Item:    s.Item,
			Title:   s.Title,
			Link:    s.Link,
			Snippet: s.Snippet,
		}, httpClient.Transport, httpClient.Timeout))
	}

	for _, b := range cfg.Boards {
		if !b.Enabled {
			continue
		}
		switch b.ATS {
		case "greenhouse":
			sources = append(sources, source.NewGreenhouse(b.Token, httpClient))
		case "lever":
			sources = append(sources, source.NewLever(b.Token, httpClient))
		default:
			logger.Warn("unsupported ATS, skipping", "board", b.Name, "ats", b.ATS)
		}
	}

	return throttle(sources, cfg.RateLimit), nil
}

// throttle wraps every source whose kind has a positive delay. Sources of
// one kind share a limiter.
func throttle(sources []model.Source, rl config.RateLimitConfig) []model.Source {
	limiters := make(map[model.SourceKind]*ratelimit.KindLimiter)
	out := make([]model.Source, len(sources))
	for i, s := range sources {
		d := rl.MinDelayFor(string(s.Kind()))
		if d <= 0 {
			out[i] = s
			continue
		}
		lim, ok := limiters[s.Kind()]
		if !ok {
			lim = ratelimit.NewKindLimiter(d)
			limiters[s.Kind()] = lim
		}
		out[i] = ratelimit.Wrap(s, lim)
	}
	return out
}

func buildPolicy(cfg *config.Config) *filter.TitlePolicy {
	perKind := make(map[model.SourceKind][]string, len(cfg.Filters.KindExclude))
	for k, words := range cfg.Filters.KindExclude {
		perKind[model.SourceKind(k)] = words
	}
	return filter.NewTitlePolicy(cfg.Filters.TitleExclude, perKind)
}

func buildEnricher(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Enricher {
	if !cfg.Enrich.Enabled {
		return nil
	}
	return enrich.NewHTMLEnricher(httpClient, logger,
		enrich.WithTimeout(cfg.Enrich.Timeout),
		enrich.WithMinLength(cfg.Enrich.MinLength),
		enrich.WithMaxLength(cfg.Enrich.MaxLength),
	)
}

// buildProviders returns the providers in fallback order: Gemini first when
// it has keys, then the OpenAI-compatible backend.
func buildProviders(cfg *config.Config) []ai.Provider {
	client := &http.Client{Timeout: cfg.AI.Timeout}
	sel := credential.RandomSelector{}

	var providers []ai.Provider
	if g := cfg.AI.Gemini; len(g.Keys) > 0 {
		providers = append(providers, ai.NewGeminiProvider(g.Keys, sel, g.Model, g.BaseURL, client))
	}
	if o := cfg.AI.OpenAI; len(o.Keys) > 0 {
		providers = append(providers, ai.NewOpenAIProvider(o.Name, o.BaseURL, o.Keys, sel, o.Model, client))
	}
	return providers
}

func openSink(ctx context.Context, cfg *config.Config) (model.Sink, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store.Type {
	case "sqlite":
		s, err := store.NewSQLiteSink(cfg.Store.Path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case "none":
		return store.Empty{}, noop, nil
	default:
		s, err := store.OpenSheets(ctx, store.SheetsConfig{
			SpreadsheetID:   cfg.Store.SpreadsheetID,
			Sheet:           cfg.Store.Sheet,
			CredentialsJSON: cfg.Store.CredentialsJSON,
			CredentialsFile: cfg.Store.CredentialsFile,
		})
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	}
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, out io.Writer, logger *slog.Logger) model.Notifier {
	var ns notifier.Multi
	for _, t := range cfg.Notification.Types {
		switch t {
		case "telegram":
			logger.Info("using telegram notifier")
			var lim *rate.Limiter
			if cfg.Notification.MinInterval > 0 {
				lim = rate.NewLimiter(rate.Every(cfg.Notification.MinInterval), 1)
			}
			ns = append(ns, notifier.NewTelegramNotifier(cfg.Notification.BaseURL, cfg.Notification.BotToken, cfg.Notification.ChatID, lim, httpClient, logger))
		case "slack":
			logger.Info("using slack notifier")
			ns = append(ns, notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger))
		case "terminal":
			ns = append(ns, notifier.NewTerminalNotifier(out, cfg.AI.DraftThreshold))
		default:
			ns = append(ns, notifier.NewLogNotifier(logger))
		}
	}
	if len(ns) == 1 {
		return ns[0]
	}
	return ns
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
