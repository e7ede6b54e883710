// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package match

import (
	"math"

	"github.com/tomtom215/spott/internal/models"
)

// Config holds the similarity thresholds.
type Config struct {
	NameSimilarity    float64 // exclusive lower bound on NameSimilarity
	ProximityKM       float64 // exclusive upper bound on distance
	MinStreetTokenLen int     // leading address segment must be longer than this
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		NameSimilarity:    0.85,
		ProximityKM:       0.1,
		MinStreetTokenLen: 10,
	}
}

// Reason names the predicate that made two records similar.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNameEqual    Reason = "name_equal"
	ReasonNameSimilar  Reason = "name_similar"
	ReasonAddressEqual Reason = "address_equal"
	ReasonStreetEqual  Reason = "street_equal"
	ReasonNearby       Reason = "nearby"
)

// candidate caches the normalized forms of a record for pairwise comparison.
type candidate struct {
	name    string
	address string
	street  string
	coords  *models.Coordinates
}

func newCandidate(loc *models.Location) candidate {
	return candidate{
		name:    NormalizeName(loc.Name),
		address: NormalizeAddress(loc.Address),
		street:  leadingSegment(loc.Address),
		coords:  loc.Coordinates,
	}
}

// AreSimilar reports whether a and b describe the same place.
func (c Config) AreSimilar(a, b *models.Location) bool {
	return c.similarity(newCandidate(a), newCandidate(b)) != ReasonNone
}

// Explain is AreSimilar returning the predicate that matched.
func (c Config) Explain(a, b *models.Location) Reason {
	return c.similarity(newCandidate(a), newCandidate(b))
}

func (c Config) similarity(a, b candidate) Reason {
	// Equal normalized names match even when both are empty, as with
	// names made only of stopwords.
	if a.name == b.name {
		return ReasonNameEqual
	}
	if a.name != "" && b.name != "" && NameSimilarity(a.name, b.name) > c.NameSimilarity {
		return ReasonNameSimilar
	}
	if a.address != "" && a.address == b.address {
		return ReasonAddressEqual
	}
	if len(a.street) > c.MinStreetTokenLen && a.street == b.street {
		return ReasonStreetEqual
	}
	if a.coords != nil && b.coords != nil &&
		HaversineKM(a.coords.Lat, a.coords.Lon, b.coords.Lat, b.coords.Lon) < c.ProximityKM {
		return ReasonNearby
	}
	return ReasonNone
}

// HaversineKM returns the great-circle distance between two points in km.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
