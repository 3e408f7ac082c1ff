package models

// MediaTypeImage is the only media type the selection policy reports.
const MediaTypeImage = "image"

// FeedItem is one entry of the upstream picture-of-the-day feed.
type FeedItem struct {
	Date        string  `json:"date"`
	Explanation string  `json:"explanation"`
	HDURL       *string `json:"hdurl,omitempty"`
	MediaType   string  `json:"media_type"`
	Title       string  `json:"title"`
	URL         *string `json:"url,omitempty"`
}

// IsImage reports whether the entry is a still image (as opposed to video or
// any other media type the upstream may add).
func (i FeedItem) IsImage() bool {
	return i.MediaType == MediaTypeImage
}
