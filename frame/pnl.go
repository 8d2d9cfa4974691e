package frame

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Palette holds the hues used to render a profit or a loss.
type Palette struct {
	Positive string
	Negative string
}

// DefaultPalette is the neon green / red pair used by the card and the image.
var DefaultPalette = Palette{Positive: "#00ff88", Negative: "#ff4757"}

// maxExponent rejects inputs like "1e2000000000" that would expand into an
// enormous fixed-point string.
const maxExponent = 1024

// maxMinorUnits bounds values handed to go-money, which works on int64 minor units.
var maxMinorUnits = decimal.NewFromInt(1 << 62)

// PnL is a profit/loss value as received (Raw) and as understood (Value).
// Text that does not parse as a decimal number is worth zero.
type PnL struct {
	Raw   string
	Value decimal.Decimal
	Valid bool
}

// ParsePnL never fails: unparseable input yields a zero Value and Valid=false.
func ParsePnL(raw string) PnL {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || v.Exponent() > maxExponent || v.Exponent() < -maxExponent {
		return PnL{Raw: raw, Value: decimal.Zero}
	}
	return PnL{Raw: raw, Value: v, Valid: true}
}

// Positive reports whether the value is zero or above.
func (p PnL) Positive() bool { return !p.Value.IsNegative() }

// Sign is "+" for positive values. Negative values carry their own "-".
func (p PnL) Sign() string {
	if p.Positive() {
		return "+"
	}
	return ""
}

// Color picks the palette hue matching the sign.
func (p PnL) Color(pal Palette) string {
	if p.Positive() {
		return pal.Positive
	}
	return pal.Negative
}

// Fixed renders the signed value with exactly two decimals: "+5.00", "-3.50".
func (p PnL) Fixed() string {
	s := p.Value.StringFixed(2)
	if !p.Positive() && !strings.HasPrefix(s, "-") {
		// -0.001 rounds to 0.00 but is still a loss
		s = "-" + s
	}
	return p.Sign() + s
}

// Display renders the value in the given ISO currency, "+$120.50" for USD.
// An empty or unknown code, or a value go-money cannot hold, falls back to Fixed.
func (p PnL) Display(currency string) string {
	if currency == "" {
		return p.Fixed()
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return p.Fixed()
	}
	minor := p.Value.Shift(int32(cur.Fraction)).Round(0)
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return p.Fixed()
	}
	s := money.New(minor.IntPart(), cur.Code).Display()
	if !p.Positive() && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return p.Sign() + s
}
