package youtube

// Snippet holds the common metadata block returned by search and detail calls.
type Snippet struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ChannelID    string     `json:"channelId"`
	ChannelTitle string     `json:"channelTitle"`
	PublishedAt  string     `json:"publishedAt"`
	Thumbnails   Thumbnails `json:"thumbnails"`
}

// Thumbnails holds the thumbnail variants; only medium is used.
type Thumbnails struct {
	Medium Thumbnail `json:"medium"`
}

// Thumbnail is a single thumbnail image reference.
type Thumbnail struct {
	URL string `json:"url"`
}

// SearchListResponse is the response body of the search endpoint.
type SearchListResponse struct {
	Items []SearchResult `json:"items"`
}

// SearchResult is one item of a search response.
type SearchResult struct {
	ID      SearchResultID `json:"id"`
	Snippet Snippet        `json:"snippet"`
}

// SearchResultID wraps the video identifier of a search result.
type SearchResultID struct {
	VideoID string `json:"videoId"`
}

// VideoListResponse is the response body of the videos endpoint.
type VideoListResponse struct {
	Items []Video `json:"items"`
}

// Video is one item of a detail response. Statistics counters arrive as
// decimal strings.
type Video struct {
	ID             string         `json:"id"`
	Snippet        Snippet        `json:"snippet"`
	ContentDetails ContentDetails `json:"contentDetails"`
	Statistics     Statistics     `json:"statistics"`
}

// ContentDetails carries the ISO-8601 duration of a video.
type ContentDetails struct {
	Duration string `json:"duration"`
}

// Statistics carries view and like counters.
type Statistics struct {
	ViewCount string `json:"viewCount"`
	LikeCount string `json:"likeCount"`
}
