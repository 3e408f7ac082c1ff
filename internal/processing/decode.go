package processing

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/DeafMist/apod-edge/internal/models"
)

// ErrDecode marks an upstream body that is not a JSON array of feed items.
var ErrDecode = errors.New("decode upstream feed")

var validate = validator.New(validator.WithRequiredStructEnabled())

// wireItem mirrors models.FeedItem with pointer fields so an absent key can be
// told apart from an empty string.
type wireItem struct {
	Date        *string `json:"date" validate:"required"`
	Explanation *string `json:"explanation" validate:"required"`
	HDURL       *string `json:"hdurl"`
	MediaType   *string `json:"media_type" validate:"required"`
	Title       *string `json:"title" validate:"required"`
	URL         *string `json:"url"`
}

// DecodeFeed parses the upstream body. Items keep the order they were received
// in. Any malformed item fails the whole body.
func DecodeFeed(body []byte) ([]models.FeedItem, error) {
	var raw []wireItem
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: body is not an array", ErrDecode)
	}

	items := make([]models.FeedItem, 0, len(raw))
	for i := range raw {
		if err := validate.Struct(&raw[i]); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrDecode, i, err)
		}
		w := raw[i]
		items = append(items, models.FeedItem{
			Date:        *w.Date,
			Explanation: *w.Explanation,
			HDURL:       w.HDURL,
			MediaType:   *w.MediaType,
			Title:       *w.Title,
			URL:         w.URL,
		})
	}

	return items, nil
}
