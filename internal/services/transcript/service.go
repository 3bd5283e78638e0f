package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/httpclient"
)

const (
	timedTextURL = "https://www.youtube.com/api/timedtext"

	// maxAttempts bounds the retry loop; backoff doubles from 500ms.
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// Service fetches spoken-caption transcripts for YouTube videos. Fetch never
// fails: exhausted retries yield an empty transcript, not an error.
type Service struct {
	client   *http.Client
	logger   arbor.ILogger
	language string
}

// NewService creates a new transcript service
func NewService(language string, timeout time.Duration, logger arbor.ILogger) *Service {
	if language == "" {
		language = "en"
	}
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &Service{
		client:   httpclient.NewDefaultHTTPClient(timeout),
		logger:   logger,
		language: language,
	}
}

// Fetch retrieves the caption transcript for a video, retrying up to 3 times
// with exponential backoff. Returns empty text when no transcript exists or
// all attempts fail.
func (s *Service) Fetch(ctx context.Context, videoID string) string {
	if videoID == "" {
		return ""
	}

	backoff := initialBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := s.fetchOnce(ctx, videoID)
		if err == nil && text != "" {
			return text
		}

		if attempt == maxAttempts {
			break
		}

		if err != nil {
			s.logger.Debug().
				Str("video_id", videoID).
				Int("attempt", attempt).
				Err(err).
				Msg("Transcript fetch failed, retrying")
		}

		select {
		case <-ctx.Done():
			return ""
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	s.logger.Debug().Str("video_id", videoID).Msg("No transcript available")
	return ""
}

type timedTextBody struct {
	Texts []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Value string `xml:",chardata"`
}

func (s *Service) fetchOnce(ctx context.Context, videoID string) (string, error) {
	params := url.Values{}
	params.Set("lang", s.language)
	params.Set("v", videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, timedTextURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d fetching transcript", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcript body: %w", err)
	}

	var parsed timedTextBody
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse transcript XML: %w", err)
	}

	lines := make([]string, 0, len(parsed.Texts))
	for _, line := range parsed.Texts {
		if trimmed := strings.TrimSpace(html.UnescapeString(line.Value)); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, " "), nil
}
