package processing

import (
	"errors"

	"github.com/DeafMist/apod-edge/internal/models"
)

// ErrSelectionEmpty is returned when the window holds no image entry.
var ErrSelectionEmpty = errors.New("no image in feed window")

// SelectLatestImage returns the newest image entry. The upstream lists entries
// in ascending date order, so walking the slice from the back is the same as
// reversing it and taking the first match. Items are not re-sorted: an
// unordered upstream would break "newest" and is treated as a contract
// violation on its side.
//
// The returned pointer aliases items.
func SelectLatestImage(items []models.FeedItem) (*models.FeedItem, error) {
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].IsImage() {
			return &items[i], nil
		}
	}
	return nil, ErrSelectionEmpty
}
