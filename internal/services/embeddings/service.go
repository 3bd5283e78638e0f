package embeddings

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/interfaces"
	"github.com/ternarybob/discere/internal/models"
)

const (
	// minTranscriptChars is the minimum transcript length considered an
	// adequate embedding source; shorter text falls back to title+description.
	minTranscriptChars = 200

	// officeChartPenalty offsets the lexical collision many technical
	// topics have with spreadsheet and chart tooling results.
	officeChartPenalty = 0.12

	// boostPerToken and boostCap bound the refined-query match boost.
	boostPerToken = 0.02
	boostCap      = 0.10
)

// Service reranks video candidates by semantic similarity between a module
// intent vector and per-video embeddings cached insert-if-absent.
type Service struct {
	llm         interfaces.LLMService
	storage     interfaces.EmbeddingStorage
	transcripts interfaces.TranscriptService
	heuristics  *common.Heuristics
	logger      arbor.ILogger
}

// NewService creates a new semantic reranking service
func NewService(
	llm interfaces.LLMService,
	storage interfaces.EmbeddingStorage,
	transcripts interfaces.TranscriptService,
	heuristics *common.Heuristics,
	logger arbor.ILogger,
) *Service {
	return &Service{
		llm:         llm,
		storage:     storage,
		transcripts: transcripts,
		heuristics:  heuristics,
		logger:      logger,
	}
}

// Rerank scores each candidate as cosine similarity to the intent text, then
// applies the office/chart penalty and the refined-query boost, in that
// order. Returns the top topK candidates with relevanceScore attached.
// Never fails: when the intent cannot be embedded the first topK candidates
// are returned unscored.
func (s *Service) Rerank(ctx context.Context, intentText, refinedQuery string, candidates []models.VideoRef, topK int) []models.VideoRef {
	if topK <= 0 {
		topK = 3
	}
	if len(candidates) == 0 {
		return candidates
	}

	intentVec, err := s.llm.Embed(ctx, intentText)
	if err != nil || len(intentVec) == 0 {
		s.logger.Warn().Err(err).Msg("Intent embedding unavailable, skipping semantic rerank")
		if len(candidates) > topK {
			return candidates[:topK]
		}
		return candidates
	}

	refinedTokens := strings.Fields(refinedQuery)

	type scored struct {
		ref   models.VideoRef
		score float64
	}
	entries := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		vec := s.ensureEmbedding(ctx, candidate)
		score := Cosine(intentVec, vec)

		combined := strings.ToLower(candidate.Title + " " + candidate.Description)
		if common.ContainsAnyTerm(combined, s.heuristics.OfficeChartTerms) {
			score -= officeChartPenalty
		}

		boost := 0.0
		for _, token := range refinedTokens {
			if strings.Contains(combined, token) {
				boost += boostPerToken
			}
		}
		if boost > boostCap {
			boost = boostCap
		}
		score += boost

		candidate.RelevanceScore = &score
		entries = append(entries, scored{ref: candidate, score: score})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	out := make([]models.VideoRef, 0, topK)
	for i, e := range entries {
		if i >= topK {
			break
		}
		out = append(out, e.ref)
	}
	return out
}

// ensureEmbedding returns the cached embedding for a video, computing and
// caching one on a miss. Source text prefers the caption transcript (minimum
// 200 characters, one retry) over title+description. A concurrent insert race
// is tolerated: the existing entry wins and this computation is discarded.
func (s *Service) ensureEmbedding(ctx context.Context, candidate models.VideoRef) []float32 {
	cached, err := s.storage.GetEmbedding(ctx, candidate.VideoID)
	if err == nil && cached != nil {
		return cached.Embedding
	}
	if err != nil && err != interfaces.ErrKeyNotFound {
		s.logger.Warn().Err(err).Str("video_id", candidate.VideoID).Msg("Embedding lookup failed")
	}

	text := s.transcripts.Fetch(ctx, candidate.VideoID)
	if len(text) < minTranscriptChars {
		text = s.transcripts.Fetch(ctx, candidate.VideoID)
	}
	if len(text) < minTranscriptChars {
		text = strings.TrimSpace(fmt.Sprintf("%s %s", candidate.Title, candidate.Description))
	}

	vec, err := s.llm.Embed(ctx, text)
	if err != nil {
		s.logger.Warn().Err(err).Str("video_id", candidate.VideoID).Msg("Embedding generation failed")
		return nil
	}
	if len(vec) == 0 {
		return nil
	}

	entry := &models.VideoEmbedding{
		VideoID:      candidate.VideoID,
		Embedding:    vec,
		Title:        candidate.Title,
		Description:  candidate.Description,
		ChannelID:    candidate.ChannelID,
		ChannelTitle: candidate.ChannelTitle,
		PublishedAt:  candidate.PublishedAt,
		DurationSec:  candidate.DurationSec,
		ViewCount:    candidate.ViewCount,
		LikeCount:    candidate.LikeCount,
		UpdatedAt:    time.Now().UTC(),
	}

	inserted, err := s.storage.InsertIfAbsent(ctx, entry)
	if err != nil {
		s.logger.Warn().Err(err).Str("video_id", candidate.VideoID).Msg("Embedding cache insert failed")
	} else if !inserted {
		// Lost a cache-miss race; use the stored entry for determinism
		if existing, gerr := s.storage.GetEmbedding(ctx, candidate.VideoID); gerr == nil && existing != nil {
			return existing.Embedding
		}
	}

	return vec
}
