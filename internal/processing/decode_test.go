package processing_test

import (
	"testing"

	"github.com/DeafMist/apod-edge/internal/processing"
	"github.com/stretchr/testify/require"
)

func TestDecodeFeed(t *testing.T) {
	body := []byte(`[
		{"date":"2024-03-01","explanation":"A video.","media_type":"video","title":"Clip","url":"https://youtube.example/v"},
		{"date":"2024-03-02","explanation":"E","hdurl":null,"media_type":"image","title":"T","url":"http://x"}
	]`)

	items, err := processing.DecodeFeed(body)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, "2024-03-01", items[0].Date)
	require.Equal(t, "video", items[0].MediaType)
	require.Nil(t, items[0].HDURL)
	require.NotNil(t, items[0].URL)

	require.Equal(t, "2024-03-02", items[1].Date)
	require.Equal(t, "T", items[1].Title)
	require.Equal(t, "E", items[1].Explanation)
	require.Nil(t, items[1].HDURL)
	require.Equal(t, "http://x", *items[1].URL)
}

func TestDecodeFeedEmptyArray(t *testing.T) {
	items, err := processing.DecodeFeed([]byte(`[]`))
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestDecodeFeedAcceptsEmptyStrings(t *testing.T) {
	items, err := processing.DecodeFeed([]byte(`[{"date":"2024-03-02","explanation":"","media_type":"image","title":""}]`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Empty(t, items[0].Explanation)
}

func TestDecodeFeedRejectsMalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ``},
		{name: "not json", body: `<html>rate limited</html>`},
		{name: "object", body: `{"code":403,"msg":"API_KEY_INVALID"}`},
		{name: "null", body: `null`},
		{name: "missing title", body: `[{"date":"2024-03-02","explanation":"E","media_type":"image"}]`},
		{name: "missing media type", body: `[{"date":"2024-03-02","explanation":"E","title":"T"}]`},
		{name: "null explanation", body: `[{"date":"2024-03-02","explanation":null,"media_type":"image","title":"T"}]`},
		{name: "wrong type", body: `[{"date":20240302,"explanation":"E","media_type":"image","title":"T"}]`},
		{name: "null element", body: `[null]`},
		{name: "one bad item spoils the array", body: `[{"date":"2024-03-01","explanation":"E","media_type":"image","title":"T"},{"date":"2024-03-02"}]`},
		{name: "trailing garbage", body: `[]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := processing.DecodeFeed([]byte(tt.body))
			require.ErrorIs(t, err, processing.ErrDecode)
			require.Nil(t, items)
		})
	}
}
