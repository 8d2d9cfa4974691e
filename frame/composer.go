package frame

import (
	"embed"
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"github.com/thundertrack/frameapi/internal/id"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates escape every interpolated value explicitly: html for text nodes
// and attributes, js inside script string literals. EmbedJSON is safe inside
// a single-quoted attribute by construction (see Embed.Marshal).
var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Content types of composed documents.
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeSVG  = "image/svg+xml"
)

// Canvas is the layout size of the summary image; Options.Width and
// Options.Height only scale it.
const (
	CanvasWidth  = 600
	CanvasHeight = 315
)

// Options are the process-wide settings a Composer renders with.
type Options struct {
	AppTitle string
	Launch   Launch
	Palette  Palette
	Currency string
	Width    int
	Height   int
	IDs      *id.Deriver
}

// DefaultOptions mirrors the production ThunderTrack deployment.
func DefaultOptions() Options {
	return Options{
		AppTitle: "ThunderTrack 交易复盘",
		Launch: Launch{
			Title:                 "查看详情",
			URL:                   "https://thundertrack-miniapp.vercel.app",
			Name:                  "ThunderTrack",
			SplashImageURL:        "https://thundertrack-miniapp.vercel.app/icons/Icon-192.png",
			SplashBackgroundColor: "#1a1a2e",
		},
		Palette: DefaultPalette,
		Width:   CanvasWidth,
		Height:  CanvasHeight,
		IDs:     id.NewDeriver(id.Timestamp),
	}
}

// Request is what the diary document needs to know about the inbound request.
type Request struct {
	// BaseURL is scheme://host the service is reached at.
	BaseURL string
	// RawQuery is the untouched query string, without "?".
	RawQuery string
}

// Document is a composed response body.
type Document struct {
	ContentType string
	Body        string

	// Set for diary documents only.
	DiaryID     string
	ImageURL    string
	RedirectURL string
}

// Composer renders diary pages and summary images. It holds no per-request
// state and is safe for concurrent use.
type Composer struct {
	opts Options
}

func NewComposer(opts Options) *Composer {
	if opts.IDs == nil {
		opts.IDs = id.NewDeriver(id.Timestamp)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = CanvasWidth, CanvasHeight
	}
	if opts.Palette == (Palette{}) {
		opts.Palette = DefaultPalette
	}
	return &Composer{opts: opts}
}

type diaryView struct {
	AppTitle     string
	Title        string
	Description  string
	EmbedJSON    string
	ImageURL     string
	CanonicalURL string
	AppName      string
	AppBaseURL   string
	DiaryID      string
	RedirectURL  string
	Redirect     bool

	Pair      string
	PnL       string
	PnLColor  string
	Strategy  string
	Sentiment string
}

// Document composes the shareable diary page.
func (c *Composer) Document(f Fields, req Request, v Variant) (Document, error) {
	f = f.WithDefaults()
	pnl := ParsePnL(f.PnL)
	origin := strings.TrimSuffix(req.BaseURL, "/")

	diaryID := c.opts.IDs.Derive(f.ID, f.Pair)
	imageURL := ImageURL(origin, f)

	embedJSON, err := NewEmbed(f, diaryID, imageURL, c.opts.Launch).Marshal()
	if err != nil {
		return Document{}, fmt.Errorf("marshal embed: %w", err)
	}

	view := diaryView{
		AppTitle:     c.opts.AppTitle,
		Title:        c.opts.AppTitle + " - " + f.Pair,
		Description:  fmt.Sprintf("交易对: %s | 盈亏: %s%s | 策略: %s", f.Pair, pnl.Sign(), f.PnL, f.Strategy),
		EmbedJSON:    embedJSON,
		ImageURL:     imageURL,
		CanonicalURL: origin + "/api/frame/diary",
		AppName:      c.opts.Launch.Name,
		AppBaseURL:   strings.TrimSuffix(c.opts.Launch.URL, "/"),
		DiaryID:      diaryID,
		RedirectURL:  c.redirectURL(diaryID, req.RawQuery),
		Redirect:     v == RedirectStub,
		Pair:         f.Pair,
		PnL:          pnl.Display(c.opts.Currency),
		PnLColor:     pnl.Color(c.opts.Palette),
		Strategy:     f.Strategy,
		Sentiment:    f.Sentiment,
	}

	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, "diary.html.tmpl", view); err != nil {
		return Document{}, fmt.Errorf("render diary: %w", err)
	}

	return Document{
		ContentType: ContentTypeHTML,
		Body:        b.String(),
		DiaryID:     diaryID,
		ImageURL:    imageURL,
		RedirectURL: view.RedirectURL,
	}, nil
}

// redirectURL is the mini app route for the diary, carrying the request's
// query string unmodified. The id is path-escaped as one segment; the mini
// app route decodes it, so ids like "BTC/USDT-1" stay a single segment.
func (c *Composer) redirectURL(diaryID, rawQuery string) string {
	u := strings.TrimSuffix(c.opts.Launch.URL, "/") + "/#/diary/" + url.PathEscape(diaryID)
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

type imageView struct {
	Width     int
	Height    int
	ViewBox   string
	Title     string
	Pair      string
	PnL       string
	PnLColor  string
	Strategy  string
	Sentiment string
}

// Image composes the SVG summary card. Output depends on f only.
func (c *Composer) Image(f Fields) (Document, error) {
	f = f.WithDefaults()
	pnl := ParsePnL(f.PnL)

	view := imageView{
		Width:     c.opts.Width,
		Height:    c.opts.Height,
		ViewBox:   fmt.Sprintf("0 0 %d %d", CanvasWidth, CanvasHeight),
		Title:     c.opts.AppTitle,
		Pair:      f.Pair,
		PnL:       pnl.Display(c.opts.Currency),
		PnLColor:  pnl.Color(c.opts.Palette),
		Strategy:  f.Strategy,
		Sentiment: f.Sentiment,
	}

	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, "image.svg.tmpl", view); err != nil {
		return Document{}, fmt.Errorf("render image: %w", err)
	}
	return Document{ContentType: ContentTypeSVG, Body: b.String()}, nil
}
