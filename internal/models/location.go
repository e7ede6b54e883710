// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package models

import (
	"strings"
	"time"
)

// Source identifies which ingestion path a location came from.
type Source string

const (
	SourceInternal Source = "internal"
	SourceExternal Source = "external"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location is the canonical record every ingestion shape normalizes to.
// Matching, scoring and enrichment only ever see this type.
type Location struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Category      string       `json:"category"`
	Address       string       `json:"address,omitempty"`
	City          string       `json:"city,omitempty"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
	GooglePlaceID string       `json:"google_place_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at,omitempty"`
	PostCount     int          `json:"post_count"`
	LikesCount    int          `json:"likes_count,omitempty"`
	SavesCount    int          `json:"saves_count,omitempty"`
	Source        Source       `json:"source"`

	// Set by the enrichment job.
	OpeningHours []string   `json:"opening_hours,omitempty"`
	PhotoURLs    []string   `json:"photo_urls,omitempty"`
	EnrichedAt   *time.Time `json:"enriched_at,omitempty"`
}

// LastActivity returns UpdatedAt when set, otherwise CreatedAt.
func (l *Location) LastActivity() time.Time {
	if !l.UpdatedAt.IsZero() {
		return l.UpdatedAt
	}
	return l.CreatedAt
}

// LocationSource is one of the ingestion shapes: *InternalLocation or
// *ExternalPlace. The interface is sealed; other packages cannot add variants.
type LocationSource interface {
	normalize() (Location, bool)
}

// Post is a user post attached to a location.
type Post struct {
	ID         string    `json:"id"`
	LocationID string    `json:"location_id"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// InternalLocation is a row from Spott's own locations table with its posts.
type InternalLocation struct {
	ID            string
	Name          string
	Category      string
	Address       string
	City          string
	Latitude      *float64
	Longitude     *float64
	GooglePlaceID string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	Posts         []Post
	LikesCount    *int
	SavesCount    *int
}

func (l *InternalLocation) normalize() (Location, bool) {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return Location{}, false
	}
	loc := Location{
		ID:            l.ID,
		Name:          name,
		Category:      l.Category,
		Address:       strings.TrimSpace(l.Address),
		City:          l.City,
		Coordinates:   coordinates(l.Latitude, l.Longitude),
		GooglePlaceID: l.GooglePlaceID,
		CreatedAt:     l.CreatedAt,
		PostCount:     len(l.Posts),
		Source:        SourceInternal,
	}
	if l.UpdatedAt != nil {
		loc.UpdatedAt = *l.UpdatedAt
	}
	if l.LikesCount != nil {
		loc.LikesCount = *l.LikesCount
	}
	if l.SavesCount != nil {
		loc.SavesCount = *l.SavesCount
	}
	return loc, true
}

// ExternalPlace is a Places API result a user saved directly.
type ExternalPlace struct {
	ID               string
	PlaceID          string
	Name             string
	Types            []string
	FormattedAddress string
	City             string
	Latitude         *float64
	Longitude        *float64
	PostCount        int
	SavedAt          time.Time
}

// genericPlaceTypes carry no category information.
var genericPlaceTypes = map[string]bool{
	"point_of_interest": true,
	"establishment":     true,
	"premise":           true,
	"geocode":           true,
	"food":              true,
	"store":             true,
}

func (p *ExternalPlace) normalize() (Location, bool) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Location{}, false
	}
	return Location{
		ID:            p.ID,
		Name:          name,
		Category:      CategoryFromPlaceTypes(p.Types),
		Address:       strings.TrimSpace(p.FormattedAddress),
		City:          p.City,
		Coordinates:   coordinates(p.Latitude, p.Longitude),
		GooglePlaceID: p.PlaceID,
		CreatedAt:     p.SavedAt,
		PostCount:     p.PostCount,
		Source:        SourceExternal,
	}, true
}

// CategoryFromPlaceTypes picks the first specific Places type, or "other".
func CategoryFromPlaceTypes(types []string) string {
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !genericPlaceTypes[t] {
			return t
		}
	}
	return "other"
}

func coordinates(lat, lon *float64) *Coordinates {
	if lat == nil || lon == nil {
		return nil
	}
	return &Coordinates{Lat: *lat, Lon: *lon}
}

// Normalize converts any ingestion shape to the canonical Location.
// It returns false for records without a usable name.
func Normalize(src LocationSource) (Location, bool) {
	if src == nil {
		return Location{}, false
	}
	return src.normalize()
}

// NormalizeAll normalizes sources in order, dropping unusable records.
func NormalizeAll(sources []LocationSource) []Location {
	out := make([]Location, 0, len(sources))
	for _, src := range sources {
		if loc, ok := Normalize(src); ok {
			out = append(out, loc)
		}
	}
	return out
}

// LocationCard is one deduplicated place with the posts of all its duplicates summed.
type LocationCard struct {
	Key           string       `json:"key"`
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Category      string       `json:"category"`
	Address       string       `json:"address,omitempty"`
	City          string       `json:"city,omitempty"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
	GooglePlaceID string       `json:"google_place_id,omitempty"`
	PostCount     int          `json:"post_count"`
	MemberIDs     []string     `json:"member_ids"`
}

// LocationFilter narrows location list queries.
type LocationFilter struct {
	City     string
	Category string
	Limit    int
	Offset   int
}
