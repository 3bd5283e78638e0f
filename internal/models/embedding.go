package models

import "time"

// VideoEmbedding is a cached embedding vector for an external video,
// keyed by VideoID. The cache is append-mostly: entries are written once
// (insert-if-absent) and reused across courses indefinitely.
type VideoEmbedding struct {
	VideoID      string     `json:"video_id" badgerhold:"key"`
	Embedding    []float32  `json:"embedding"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	ChannelID    string     `json:"channel_id,omitempty"`
	ChannelTitle string     `json:"channel_title,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	DurationSec  int        `json:"duration_sec,omitempty"`
	ViewCount    int64      `json:"view_count,omitempty"`
	LikeCount    int64      `json:"like_count,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
