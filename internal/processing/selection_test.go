package processing_test

import (
	"testing"

	"github.com/DeafMist/apod-edge/internal/models"
	"github.com/DeafMist/apod-edge/internal/processing"
	"github.com/stretchr/testify/require"
)

func TestSelectLatestImage(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.FeedItem
		wantDate string
	}{
		{
			name: "newest is image",
			items: []models.FeedItem{
				{Date: "2024-03-01", MediaType: "image"},
				{Date: "2024-03-02", MediaType: "image"},
			},
			wantDate: "2024-03-02",
		},
		{
			name: "newest is video",
			items: []models.FeedItem{
				{Date: "2024-02-28", MediaType: "image"},
				{Date: "2024-02-29", MediaType: "image"},
				{Date: "2024-03-01", MediaType: "video"},
				{Date: "2024-03-02", MediaType: "video"},
			},
			wantDate: "2024-02-29",
		},
		{
			name: "media type is case sensitive",
			items: []models.FeedItem{
				{Date: "2024-03-01", MediaType: "image"},
				{Date: "2024-03-02", MediaType: "Image"},
			},
			wantDate: "2024-03-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := processing.SelectLatestImage(tt.items)
			require.NoError(t, err)
			require.Equal(t, tt.wantDate, got.Date)
		})
	}
}

func TestSelectLatestImageReturnsViewIntoInput(t *testing.T) {
	items := []models.FeedItem{
		{Date: "2024-03-01", MediaType: "video"},
		{Date: "2024-03-02", MediaType: "image"},
	}

	got, err := processing.SelectLatestImage(items)
	require.NoError(t, err)
	require.Same(t, &items[1], got)
	require.Equal(t, "2024-03-01", items[0].Date, "input order must be preserved")
}

func TestSelectLatestImageEmpty(t *testing.T) {
	tests := []struct {
		name  string
		items []models.FeedItem
	}{
		{name: "nil", items: nil},
		{name: "videos only", items: []models.FeedItem{{MediaType: "video"}, {MediaType: "video"}}},
		{name: "unknown types", items: []models.FeedItem{{MediaType: "other"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := processing.SelectLatestImage(tt.items)
			require.ErrorIs(t, err, processing.ErrSelectionEmpty)
			require.Nil(t, got)
		})
	}
}
