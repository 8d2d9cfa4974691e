package frame

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDefaults(t *testing.T) {
	t.Parallel()

	got := Fields{}.WithDefaults()
	assert.Equal(t, Fields{Pair: "Unknown", PnL: "0", Strategy: "Unknown", Sentiment: "Unknown"}, got)

	supplied := Fields{Pair: "BTC/USDT", PnL: "abc", Strategy: "Scalping", Sentiment: "Confident", ID: "x1"}
	assert.Equal(t, supplied, supplied.WithDefaults(), "supplied values are used verbatim")
}

func TestFieldsFromQuery(t *testing.T) {
	t.Parallel()

	q := url.Values{
		"pair":     {"ETH", "BTC"},
		"pnl":      {""},
		"strategy": {"Swing"},
		"id":       {"abc123"},
	}

	f := FieldsFromQuery(q)
	assert.Equal(t, "ETH", f.Pair, "first value wins")
	assert.Equal(t, "0", f.PnL, "empty counts as missing")
	assert.Equal(t, "Swing", f.Strategy)
	assert.Equal(t, "Unknown", f.Sentiment)
	assert.Equal(t, "abc123", f.ID)

	assert.Empty(t, FieldsFromQuery(url.Values{}).ID, "id has no default")
}

func TestWithDefaultsSanitizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"control", "\x01BTC", "\uFFFDBTC"},
		{"vertical tab", "a\x0bb", "a\uFFFDb"},
		{"form feed", "a\x0cb", "a\uFFFDb"},
		{"invalid utf8", "\xff", "\uFFFD"},
		{"noncharacter", "a\uFFFEb", "a\uFFFDb"},
		{"whitespace kept", "a\tb\nc\rd", "a\tb\nc\rd"},
		{"unicode kept", "比特币 🚀", "比特币 🚀"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := Fields{Pair: tt.in, PnL: tt.in, Strategy: tt.in, Sentiment: tt.in, ID: tt.in}.WithDefaults()
			assert.Equal(t, Fields{Pair: tt.want, PnL: tt.want, Strategy: tt.want, Sentiment: tt.want, ID: tt.want}, f)
		})
	}
}
