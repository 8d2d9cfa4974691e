package frame

import (
	"fmt"
	"strings"
)

// Variant selects the body of the diary document.
type Variant int

const (
	// RedirectStub sends a viewer that opens the page directly on to the mini app.
	RedirectStub Variant = iota
	// SummaryCard renders the trade summary in place, without redirecting.
	SummaryCard
)

func (v Variant) String() string {
	switch v {
	case RedirectStub:
		return "redirect"
	case SummaryCard:
		return "card"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ParseVariant accepts "redirect" (or empty) and "card".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "redirect":
		return RedirectStub, nil
	case "card":
		return SummaryCard, nil
	default:
		return 0, fmt.Errorf("unknown variant %q (want redirect|card)", s)
	}
}
