package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/okian/bateman/internal/domain/activation"
	"github.com/okian/bateman/internal/domain/nuclide"
)

// Key is a content hash identifying one (composition, history, algorithm)
// triple. Two computations with equal keys return bit-identical results.
type Key string

// NewKey digests the full ordered composition, sample mass, every
// irradiation event's location, power and interval, and the algorithm
// version tag. Timestamps are canonicalized to UTC RFC3339Nano so the
// caller's time zone representation cannot split the cache.
func NewKey(comp nuclide.Composition, massGrams float64, events []activation.Irradiation, algorithmVersion string) Key {
	var b strings.Builder
	fmt.Fprintf(&b, "v=%s|m=%.9e", algorithmVersion, massGrams)
	for _, c := range comp {
		fmt.Fprintf(&b, "|c=%s:%s:%.9e", c.Element, c.Isotope, c.Fraction)
	}
	for _, ev := range events {
		fmt.Fprintf(&b, "|e=%s:%.6f:%s:%s",
			ev.Location,
			ev.PowerKW,
			ev.Start.UTC().Format(time.RFC3339Nano),
			ev.End.UTC().Format(time.RFC3339Nano),
		)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return Key(hex.EncodeToString(sum[:]))
}
