package websearch

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/httpclient"
	"github.com/ternarybob/discere/internal/models"
	"golang.org/x/sync/errgroup"
)

// Service fetches and ranks web resources for a query. FetchResources never
// fails: upstream errors degrade to the curated fallback list.
type Service struct {
	client      *http.Client
	heuristics  *common.Heuristics
	logger      arbor.ILogger
	concurrency int
	budget      time.Duration
	region      string
}

// NewService creates a new web search service
func NewService(config *common.SearchConfig, heuristics *common.Heuristics, logger arbor.ILogger) (*Service, error) {
	callTimeout := 6 * time.Second
	if config.CallTimeout != "" {
		parsed, err := time.ParseDuration(config.CallTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid search call timeout %q: %w", config.CallTimeout, err)
		}
		callTimeout = parsed
	}

	budget := 12 * time.Second
	if config.OverallBudget != "" {
		parsed, err := time.ParseDuration(config.OverallBudget)
		if err != nil {
			return nil, fmt.Errorf("invalid search budget %q: %w", config.OverallBudget, err)
		}
		budget = parsed
	}

	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	region := config.Region
	if region == "" {
		region = "us-en"
	}

	return &Service{
		client:      httpclient.NewHTTPClientWithUserAgent(callTimeout, config.UserAgent),
		heuristics:  heuristics,
		logger:      logger,
		concurrency: concurrency,
		budget:      budget,
		region:      region,
	}, nil
}

// FetchResources runs query variants across a bounded worker pool and
// returns up to limit sanitized, deduplicated, score-ranked resources.
// Workers stop once the time budget elapses or enough unique results are
// collected. Zero survivors yields the curated fallback list; short result
// sets are padded with fallback entries not already present.
func (s *Service) FetchResources(ctx context.Context, query string, limit int) []models.ResourceRef {
	if limit <= 0 {
		limit = 8
	}

	queries := s.buildQueries(query)
	target := limit
	if target < 8 {
		target = 8
	}

	ctx, cancel := context.WithTimeout(ctx, s.budget)
	defer cancel()

	var (
		mu        sync.Mutex
		collected []models.ResourceRef
		seen      = make(map[string]bool)
	)

	collectedCount := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(collected)
	}
	addResults := func(items []models.ResourceRef) {
		cleaned := SanitizeResources(items)
		mu.Lock()
		defer mu.Unlock()
		for _, it := range cleaned {
			if !seen[it.URL] {
				seen[it.URL] = true
				collected = append(collected, it)
			}
		}
	}

	workers := s.concurrency
	if workers > len(queries) {
		workers = len(queries)
	}

	var next int64 = -1
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				i := int(atomic.AddInt64(&next, 1))
				if i >= len(queries) {
					return nil
				}
				if gctx.Err() != nil || collectedCount() >= target {
					return nil
				}
				if results := s.queryBackend(gctx, queries[i]); len(results) > 0 {
					addResults(results)
				}
			}
		})
	}
	_ = g.Wait()

	if len(collected) == 0 {
		fallback := CuratedFallback(query)
		s.logger.Info().Str("query", query).Int("count", len(fallback)).Msg("Search empty, using curated fallback")
		if len(fallback) > limit {
			fallback = fallback[:limit]
		}
		return fallback
	}

	ranked := s.rank(collected, query)

	// Pad short result sets with curated entries not already present
	if len(ranked) < limit {
		for _, fb := range SanitizeResources(CuratedFallback(query)) {
			if len(ranked) >= limit {
				break
			}
			if !seen[fb.URL] {
				seen[fb.URL] = true
				ranked = append(ranked, fb)
			}
		}
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	s.logger.Info().Str("query", query).Int("count", len(ranked)).Msg("Resources fetched")
	return ranked
}

// Rank re-scores resources against a query without re-fetching, used when
// patching previously cached modules.
func (s *Service) Rank(resources []models.ResourceRef, query string) []models.ResourceRef {
	return s.rank(resources, query)
}

// rank sorts resources by descending score; ties keep discovery order
func (s *Service) rank(resources []models.ResourceRef, query string) []models.ResourceRef {
	type scored struct {
		ref   models.ResourceRef
		score int
	}
	entries := make([]scored, len(resources))
	for i, r := range resources {
		entries[i] = scored{ref: r, score: ScoreResource(s.heuristics, r, query)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})
	out := make([]models.ResourceRef, len(entries))
	for i, e := range entries {
		out[i] = e.ref
	}
	return out
}

// buildQueries expands the raw query into recall variants plus one site:
// variant per trusted domain.
func (s *Service) buildQueries(query string) []string {
	variants := []string{
		query,
		query + " overview",
		query + " basics",
		query + " tutorial",
		query + " guide",
		query + " best practices",
		query + " examples",
		query + " cheatsheet",
		query + " pdf",
		query + " 2024",
		query + " 2025",
		query + " site:edu",
		query + " site:org",
	}
	for _, d := range s.heuristics.TrustedDomains {
		variants = append(variants, fmt.Sprintf("%s site:%s", query, d))
	}
	return variants
}
