// Package id derives the diary identifiers that correlate a shared frame with
// the mini app's diary view.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Scheme selects how a missing diary identifier is derived.
type Scheme string

const (
	// Timestamp derives "{pair}-{unix millis}".
	Timestamp Scheme = "timestamp"
	// ULID derives "{pair}-{ULID}", sortable and unique within a process.
	ULID Scheme = "ulid"
)

// ParseScheme maps a config value to a Scheme. Empty means Timestamp.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", Timestamp:
		return Timestamp, nil
	case ULID:
		return ULID, nil
	default:
		return "", fmt.Errorf("unknown id scheme %q (want timestamp|ulid)", s)
	}
}

// Deriver produces diary identifiers. The zero value uses the Timestamp
// scheme and the wall clock.
type Deriver struct {
	Scheme Scheme
	Now    func() time.Time

	mu   sync.Mutex
	mono io.Reader
}

// NewDeriver returns a Deriver for the given scheme.
func NewDeriver(scheme Scheme) *Deriver {
	return &Deriver{Scheme: scheme}
}

// Derive returns supplied when it is non-empty, otherwise a fresh identifier
// prefixed with pair.
func (d *Deriver) Derive(supplied, pair string) string {
	if supplied != "" {
		return supplied
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	t := now()

	if d.Scheme == ULID {
		return pair + "-" + d.newULID(t)
	}
	return pair + "-" + strconv.FormatInt(t.UnixMilli(), 10)
}

func (d *Deriver) newULID(t time.Time) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mono == nil {
		// Seed a PRNG from crypto/rand; ulid.Monotonic keeps IDs generated
		// within the same millisecond increasing.
		var seed int64
		_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		d.mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
	}

	id, err := ulid.New(ulid.Timestamp(t.UTC()), d.mono)
	if err != nil {
		// Only when time goes backwards past the epoch or entropy overflows.
		return strconv.FormatInt(t.UnixMilli(), 10)
	}
	return id.String()
}
