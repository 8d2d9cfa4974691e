package frame

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		origin string
		fields Fields
		want   string
	}{
		{
			name:   "encodes text fields",
			origin: "https://frame.example",
			fields: Fields{Pair: "BTC/USDT", PnL: "-3.5", Strategy: "Mean Reversion", Sentiment: "有信心"},
			want:   "https://frame.example/api/frame/image?pair=BTC%2FUSDT&pnl=-3.5&strategy=Mean+Reversion&sentiment=%E6%9C%89%E4%BF%A1%E5%BF%83",
		},
		{
			name:   "numeric pnl is never re-encoded",
			origin: "http://localhost:3000/",
			fields: Fields{Pair: "ETH", PnL: "+5", Strategy: "A", Sentiment: "B"},
			want:   "http://localhost:3000/api/frame/image?pair=ETH&pnl=+5&strategy=A&sentiment=B",
		},
		{
			name:   "non numeric pnl is escaped",
			origin: "http://localhost:3000",
			fields: Fields{Pair: "ETH", PnL: "1&x=2", Strategy: "A", Sentiment: "B"},
			want:   "http://localhost:3000/api/frame/image?pair=ETH&pnl=1%26x%3D2&strategy=A&sentiment=B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImageURL(tt.origin, tt.fields))
		})
	}
}

func TestEmbedMarshal(t *testing.T) {
	t.Parallel()

	f := Fields{Pair: "ETH", PnL: "10", Strategy: "it's <risky> & fun", Sentiment: "Calm"}
	e := NewEmbed(f, "abc123", "https://frame.example/api/frame/image?pair=ETH", DefaultOptions().Launch)

	s, err := e.Marshal()
	require.NoError(t, err)

	assert.NotContains(t, s, "\n")
	assert.NotContains(t, s, "'")
	assert.NotContains(t, s, "<")
	assert.NotContains(t, s, "&")
	assert.Contains(t, s, `"version":"1"`)
	assert.Contains(t, s, `"diaryId":"abc123"`)
	assert.Contains(t, s, `"pair":"ETH"`)
	assert.Contains(t, s, `"type":"launch_miniapp"`)

	var back Embed
	require.NoError(t, json.Unmarshal([]byte(s), &back))
	assert.Equal(t, e, back)
	assert.Equal(t, "it's <risky> & fun", back.Metadata.Strategy)
	assert.True(t, strings.HasPrefix(back.ImageURL, "https://frame.example/"))
}
