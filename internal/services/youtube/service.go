package youtube

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/httpclient"
	"github.com/ternarybob/discere/internal/models"
)

// searchQuerySuffix steers the backend toward instructional content
const searchQuerySuffix = " tutorial for beginners"

// Service searches YouTube and enriches results with detail metadata.
type Service struct {
	client     *Client
	heuristics *common.Heuristics
	logger     arbor.ILogger
	region     string
	language   string
}

// NewService creates a new video search service
func NewService(config *common.YouTubeConfig, heuristics *common.Heuristics, logger arbor.ILogger) (*Service, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	timeout := DefaultTimeout
	if config.RequestTimeout != "" {
		parsed, err := time.ParseDuration(config.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid youtube request timeout %q: %w", config.RequestTimeout, err)
		}
		timeout = parsed
	}

	opts := []ClientOption{
		WithLogger(logger),
		WithHTTPClient(httpclient.NewDefaultHTTPClient(timeout)),
	}
	if config.RateLimit > 0 {
		opts = append(opts, WithRateLimit(config.RateLimit))
	}

	return &Service{
		client:     NewClient(config.APIKey, opts...),
		heuristics: heuristics,
		logger:     logger,
		region:     config.Region,
		language:   config.Language,
	}, nil
}

// SearchWithDetails issues one search call, scores and ranks the candidates,
// then fetches duration/statistics metadata for the kept set in one batched
// call. A detail-fetch failure degrades gracefully: videos are still
// returned with the metadata fields absent.
func (s *Service) SearchWithDetails(ctx context.Context, query string, maxResults int) ([]models.VideoRef, error) {
	if maxResults <= 0 {
		maxResults = 3
	}

	resp, err := s.client.Search(ctx, query+searchQuerySuffix, maxResults, s.region, s.language)
	if err != nil {
		return nil, fmt.Errorf("video search failed: %w", err)
	}

	videos := make([]models.VideoRef, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, models.VideoRef{
			VideoID:      item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
			ChannelID:    item.Snippet.ChannelID,
			ChannelTitle: item.Snippet.ChannelTitle,
		})
	}

	// Rank lexically; ties keep backend relevance order
	sort.SliceStable(videos, func(i, j int) bool {
		return ScoreVideo(s.heuristics, videos[i].Title, videos[i].Description, query) >
			ScoreVideo(s.heuristics, videos[j].Title, videos[j].Description, query)
	})
	if len(videos) > maxResults {
		videos = videos[:maxResults]
	}

	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.VideoID
	}

	details, err := s.client.VideoDetails(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Video detail fetch failed, returning search results without metadata")
		return videos, nil
	}

	byID := make(map[string]Video, len(details.Items))
	for _, d := range details.Items {
		byID[d.ID] = d
	}
	for i := range videos {
		d, ok := byID[videos[i].VideoID]
		if !ok {
			continue
		}
		videos[i].DurationSec = ParseISO8601Duration(d.ContentDetails.Duration)
		videos[i].ViewCount = parseCount(d.Statistics.ViewCount)
		videos[i].LikeCount = parseCount(d.Statistics.LikeCount)
		if d.Snippet.Description != "" {
			videos[i].Description = d.Snippet.Description
		}
		if d.Snippet.ChannelID != "" {
			videos[i].ChannelID = d.Snippet.ChannelID
		}
		if d.Snippet.ChannelTitle != "" {
			videos[i].ChannelTitle = d.Snippet.ChannelTitle
		}
		if ts, perr := time.Parse(time.RFC3339, d.Snippet.PublishedAt); perr == nil {
			published := ts
			videos[i].PublishedAt = &published
		}
	}

	s.logger.Info().Str("query", query).Int("count", len(videos)).Msg("Videos fetched")
	return videos, nil
}

// ScoreVideo ranks a candidate by lexical relevance: query tokens of at
// least 4 characters score +3 in the title and +1 in the description;
// denylisted terms in the title cost 6 each.
func ScoreVideo(h *common.Heuristics, title, description, query string) int {
	titleLower := strings.ToLower(title)
	descLower := strings.ToLower(description)

	score := 0
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len(t) < 4 {
			continue
		}
		if strings.Contains(titleLower, t) {
			score += 3
		}
		if strings.Contains(descLower, t) {
			score += 1
		}
	}
	for _, d := range h.DenyTerms {
		if strings.Contains(titleLower, d) {
			score -= 6
		}
	}
	return score
}

// FilterVideos applies client-supplied filters to a video set. Each filter
// is independently eliminative: a video survives only when it passes every
// active filter. A nil filters value keeps everything.
func FilterVideos(videos []models.VideoRef, filters *models.VideoFilters) []models.VideoRef {
	if filters == nil {
		return videos
	}

	out := make([]models.VideoRef, 0, len(videos))
	for _, v := range videos {
		if filters.MinViews > 0 && v.ViewCount < filters.MinViews {
			continue
		}
		if filters.MinMinutes > 0 && v.DurationSec < filters.MinMinutes*60 {
			continue
		}
		if filters.MaxMinutes > 0 && v.DurationSec > filters.MaxMinutes*60 {
			continue
		}
		if filters.UploadedAfter != nil {
			if v.PublishedAt == nil || v.PublishedAt.Before(*filters.UploadedAfter) {
				continue
			}
		}
		if len(filters.AllowedChannels) > 0 && !channelMatches(v, filters.AllowedChannels) {
			continue
		}
		if len(filters.BlockedChannels) > 0 && channelMatches(v, filters.BlockedChannels) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// channelMatches checks a video's channel ID or title against a list,
// case-insensitively.
func channelMatches(v models.VideoRef, channels []string) bool {
	for _, c := range channels {
		if strings.EqualFold(c, v.ChannelID) || strings.EqualFold(c, v.ChannelTitle) {
			return true
		}
	}
	return false
}

func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
