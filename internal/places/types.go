// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package places

import "github.com/tomtom215/spott/internal/models"

// Candidate is a Find Place match.
type Candidate struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	Location         *models.Coordinates
}

// Details is the subset of Place Details Spott stores.
type Details struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	Location         *models.Coordinates
	Types            []string
	OpeningHours     []string // weekday_text lines
	PhotoReferences  []string
}

// DetailsOptions selects the optional field groups of a Details request.
// Both groups are billed under the same SKU but enlarge the response.
type DetailsOptions struct {
	Hours  bool
	Photos bool
}

// Wire shapes of the Places web service.

type apiLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type apiGeometry struct {
	Location *apiLatLng `json:"location"`
}

type apiPlace struct {
	PlaceID          string       `json:"place_id"`
	Name             string       `json:"name"`
	FormattedAddress string       `json:"formatted_address"`
	Geometry         *apiGeometry `json:"geometry"`
	Types            []string     `json:"types"`
	OpeningHours     *struct {
		WeekdayText []string `json:"weekday_text"`
	} `json:"opening_hours"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
		Width          int    `json:"width"`
		Height         int    `json:"height"`
	} `json:"photos"`
}

func (p *apiPlace) coordinates() *models.Coordinates {
	if p.Geometry == nil || p.Geometry.Location == nil {
		return nil
	}
	return &models.Coordinates{Lat: p.Geometry.Location.Lat, Lon: p.Geometry.Location.Lng}
}

type findPlaceResponse struct {
	Candidates   []apiPlace `json:"candidates"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message"`
}

type detailsResponse struct {
	Result       *apiPlace `json:"result"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message"`
}
