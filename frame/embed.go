package frame

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// EmbedVersion is the mini app embed schema version.
const EmbedVersion = "1"

// Launch describes the mini app the embed button opens.
type Launch struct {
	Title                 string
	URL                   string
	Name                  string
	SplashImageURL        string
	SplashBackgroundColor string
}

// Embed is the payload read by Farcaster clients from the fc:miniapp and
// fc:frame meta tags.
type Embed struct {
	Version  string        `json:"version"`
	ImageURL string        `json:"imageUrl"`
	Button   EmbedButton   `json:"button"`
	Metadata EmbedMetadata `json:"metadata"`
}

type EmbedButton struct {
	Title  string      `json:"title"`
	Action EmbedAction `json:"action"`
}

type EmbedAction struct {
	Type                  string `json:"type"`
	URL                   string `json:"url"`
	Name                  string `json:"name"`
	SplashImageURL        string `json:"splashImageUrl"`
	SplashBackgroundColor string `json:"splashBackgroundColor"`
}

// EmbedMetadata round-trips the diary fields to the mini app.
type EmbedMetadata struct {
	DiaryID   string `json:"diaryId"`
	Pair      string `json:"pair"`
	PnL       string `json:"pnl"`
	Strategy  string `json:"strategy"`
	Sentiment string `json:"sentiment"`
}

// NewEmbed builds the payload for already defaulted fields.
func NewEmbed(f Fields, diaryID, imageURL string, l Launch) Embed {
	return Embed{
		Version:  EmbedVersion,
		ImageURL: imageURL,
		Button: EmbedButton{
			Title: l.Title,
			Action: EmbedAction{
				Type:                  "launch_miniapp",
				URL:                   l.URL,
				Name:                  l.Name,
				SplashImageURL:        l.SplashImageURL,
				SplashBackgroundColor: l.SplashBackgroundColor,
			},
		},
		Metadata: EmbedMetadata{
			DiaryID:   diaryID,
			Pair:      f.Pair,
			PnL:       f.PnL,
			Strategy:  f.Strategy,
			Sentiment: f.Sentiment,
		},
	}
}

// Marshal encodes the embed as one line of JSON free of apostrophes,
// ampersands and angle brackets, so it can sit in a single-quoted attribute.
func (e Embed) Marshal() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(e); err != nil {
		return "", err
	}
	s := strings.TrimSuffix(buf.String(), "\n")
	return strings.ReplaceAll(s, "'", `\u0027`), nil
}

// ImageURL points back at the image endpoint with the same fields.
// A numeric pnl is appended verbatim; anything else is query-escaped.
func ImageURL(origin string, f Fields) string {
	pnl := f.PnL
	if !ParsePnL(pnl).Valid || strings.TrimSpace(pnl) != pnl {
		pnl = url.QueryEscape(pnl)
	}

	var b strings.Builder
	b.WriteString(strings.TrimSuffix(origin, "/"))
	b.WriteString("/api/frame/image?pair=")
	b.WriteString(url.QueryEscape(f.Pair))
	b.WriteString("&pnl=")
	b.WriteString(pnl)
	b.WriteString("&strategy=")
	b.WriteString(url.QueryEscape(f.Strategy))
	b.WriteString("&sentiment=")
	b.WriteString(url.QueryEscape(f.Sentiment))
	return b.String()
}
