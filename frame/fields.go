package frame

import (
	"net/url"
	"strings"
)

// Display values used when a field is missing from the request.
const (
	DefaultPair      = "Unknown"
	DefaultPnL       = "0"
	DefaultStrategy  = "Unknown"
	DefaultSentiment = "Unknown"
)

// Fields is the journal summary carried by a share request.
type Fields struct {
	Pair      string
	PnL       string
	Strategy  string
	Sentiment string
	ID        string
}

// WithDefaults returns a copy with every field reduced to XML-safe text and
// every empty primary field replaced by its default. ID has no default.
func (f Fields) WithDefaults() Fields {
	f.Pair = orDefault(sanitize(f.Pair), DefaultPair)
	f.PnL = orDefault(sanitize(f.PnL), DefaultPnL)
	f.Strategy = orDefault(sanitize(f.Strategy), DefaultStrategy)
	f.Sentiment = orDefault(sanitize(f.Sentiment), DefaultSentiment)
	f.ID = sanitize(f.ID)
	return f
}

// FieldsFromQuery reads the first value of each known query parameter and
// applies the defaults.
func FieldsFromQuery(q url.Values) Fields {
	return Fields{
		Pair:      q.Get("pair"),
		PnL:       q.Get("pnl"),
		Strategy:  q.Get("strategy"),
		Sentiment: q.Get("sentiment"),
		ID:        q.Get("id"),
	}.WithDefaults()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// sanitize replaces invalid UTF-8 and every rune outside the XML 1.0 Char
// production with U+FFFD. Escaping alone cannot make those well-formed.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return '\uFFFD'
	}, strings.ToValidUTF8(s, "\uFFFD"))
}

func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
