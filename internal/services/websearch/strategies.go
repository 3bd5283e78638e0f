package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/discere/internal/models"
)

// instantAnswerQuerySuffix biases the structured API toward reference
// material and away from the music/lyrics results many topics attract.
const instantAnswerQuerySuffix = " tutorial guide documentation pdf -lyrics -piano -music"

// htmlQuerySuffix is the milder suffix for the HTML strategies, which
// support operator-free queries better.
const htmlQuerySuffix = " tutorial guide documentation pdf"

type iaTopic struct {
	FirstURL string    `json:"FirstURL"`
	Text     string    `json:"Text"`
	Topics   []iaTopic `json:"Topics"`
}

type iaResponse struct {
	Results       []iaTopic `json:"Results"`
	RelatedTopics []iaTopic `json:"RelatedTopics"`
}

// queryBackend runs the three escalating strategies for one query variant:
// structured instant-answer API, full HTML results page, then the lite HTML
// variant. The first non-empty result set wins. Failures yield an empty set.
func (s *Service) queryBackend(ctx context.Context, variant string) []models.ResourceRef {
	if results, err := s.fetchInstantAnswers(ctx, variant); err == nil && len(results) > 0 {
		s.logger.Debug().Str("variant", variant).Int("count", len(results)).Msg("Instant-answer results")
		return results
	}

	if results, err := s.fetchHTMLResults(ctx, variant, "https://duckduckgo.com/html/"); err == nil && len(results) > 0 {
		s.logger.Debug().Str("variant", variant).Int("count", len(results)).Msg("HTML results")
		return results
	}

	if results, err := s.fetchLiteResults(ctx, variant); err == nil && len(results) > 0 {
		s.logger.Debug().Str("variant", variant).Int("count", len(results)).Msg("Lite results")
		return results
	}

	return nil
}

// fetchInstantAnswers queries the structured instant-answer API
func (s *Service) fetchInstantAnswers(ctx context.Context, variant string) ([]models.ResourceRef, error) {
	q := url.QueryEscape(variant + instantAnswerQuerySuffix)
	endpoint := fmt.Sprintf("https://api.duckduckgo.com/?q=%s&format=json&no_html=1&skip_disambig=1", q)

	body, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var data iaResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode instant-answer response: %w", err)
	}

	var out []models.ResourceRef
	appendTopic := func(t iaTopic) {
		if t.FirstURL == "" || t.Text == "" {
			return
		}
		title := t.Text
		if idx := strings.Index(title, " - "); idx != -1 {
			title = title[:idx]
		}
		out = append(out, models.ResourceRef{
			Title:   truncate(html.UnescapeString(title), 160),
			URL:     t.FirstURL,
			Source:  hostOf(t.FirstURL),
			Snippet: truncate(t.Text, 300),
		})
	}

	for _, r := range data.Results {
		appendTopic(r)
	}

	var flatten func(topics []iaTopic)
	flatten = func(topics []iaTopic) {
		for _, t := range topics {
			if len(t.Topics) > 0 {
				flatten(t.Topics)
				continue
			}
			appendTopic(t)
		}
	}
	flatten(data.RelatedTopics)

	return out, nil
}

// fetchHTMLResults parses the full HTML search results page
func (s *Service) fetchHTMLResults(ctx context.Context, variant, baseURL string) ([]models.ResourceRef, error) {
	endpoint := fmt.Sprintf("%s?q=%s&kl=%s", baseURL, url.QueryEscape(variant+htmlQuerySuffix), s.region)

	body, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results page: %w", err)
	}

	var out []models.ResourceRef
	doc.Find("a.result__a, a[class*='result__title']").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if ref, valid := resultFromLink(href, sel.Text()); valid {
			out = append(out, ref)
		}
	})

	return out, nil
}

// fetchLiteResults parses the lightweight HTML variant
func (s *Service) fetchLiteResults(ctx context.Context, variant string) ([]models.ResourceRef, error) {
	endpoint := fmt.Sprintf("https://duckduckgo.com/lite/?q=%s&kl=%s", url.QueryEscape(variant+htmlQuerySuffix), s.region)

	body, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse lite results page: %w", err)
	}

	var out []models.ResourceRef
	doc.Find("a.result-link").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if ref, valid := resultFromLink(href, sel.Text()); valid {
			out = append(out, ref)
		}
	})

	return out, nil
}

// resultFromLink unwraps a result anchor into a ResourceRef, dropping links
// that stay on the search backend or carry no usable title.
func resultFromLink(href, text string) (models.ResourceRef, bool) {
	finalURL := normalizeRedirectURL(href)
	title := strings.TrimSpace(text)
	if finalURL == "" || title == "" {
		return models.ResourceRef{}, false
	}
	host := hostOf(finalURL)
	if host == "" || strings.Contains(host, searchBackendHost) {
		return models.ResourceRef{}, false
	}
	return models.ResourceRef{
		Title:  truncate(title, 160),
		URL:    finalURL,
		Source: host,
	}, true
}

// get performs a GET request and returns the response body. The client's
// per-call timeout bounds each request; ctx carries the overall budget.
func (s *Service) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
