// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package match

import (
	"sort"

	"github.com/tomtom215/spott/internal/models"
)

// Matcher deduplicates locations. The zero value is not usable; call New.
type Matcher struct {
	cfg Config
}

// New returns a Matcher using cfg.
func New(cfg Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Config returns the matcher's thresholds.
func (m *Matcher) Config() Config {
	return m.cfg
}

// group is a set of record indices that describe one place.
type group struct {
	placeID string
	members []int // ascending input order
}

// Dedupe collapses records into one card per place, ordered by the first
// appearance of each place in records. It is deterministic and idempotent:
// feeding the representatives back in yields the same cards.
func (m *Matcher) Dedupe(records []models.Location) []models.LocationCard {
	if len(records) == 0 {
		return []models.LocationCard{}
	}

	groups := m.group(records)

	cards := make([]models.LocationCard, 0, len(groups))
	for _, g := range groups {
		card, ok := buildCard(records, g)
		if ok {
			cards = append(cards, card)
		}
	}
	return cards
}

// Groups returns the member indices of every group, in first-appearance order.
// Exposed for diagnostics; Dedupe is the normal entry point.
func (m *Matcher) Groups(records []models.Location) [][]int {
	groups := m.group(records)
	out := make([][]int, len(groups))
	for i, g := range groups {
		out[i] = g.members
	}
	return out
}

func (m *Matcher) group(records []models.Location) []*group {
	var groups []*group
	byPlaceID := make(map[string]*group)

	// Exact-key pass.
	var loose []int
	for i := range records {
		id := records[i].GooglePlaceID
		if id == "" {
			loose = append(loose, i)
			continue
		}
		g, ok := byPlaceID[id]
		if !ok {
			g = &group{placeID: id}
			byPlaceID[id] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, i)
	}

	// Similarity pass: connected components over records without a place id.
	cands := make([]candidate, len(loose))
	for k, idx := range loose {
		cands[k] = newCandidate(&records[idx])
	}
	ds := newDisjointSet(len(loose))
	for a := 0; a < len(loose); a++ {
		for b := a + 1; b < len(loose); b++ {
			if ds.find(a) == ds.find(b) {
				continue
			}
			if m.cfg.similarity(cands[a], cands[b]) != ReasonNone {
				ds.union(a, b)
			}
		}
	}
	byRoot := make(map[int]*group)
	for k, idx := range loose {
		root := ds.find(k)
		g, ok := byRoot[root]
		if !ok {
			g = &group{}
			byRoot[root] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, idx)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].members[0] < groups[j].members[0]
	})
	return groups
}

func buildCard(records []models.Location, g *group) (models.LocationCard, bool) {
	rep := g.members[0]
	total := 0
	ids := make([]string, 0, len(g.members))
	for _, idx := range g.members {
		total += records[idx].PostCount
		ids = append(ids, records[idx].ID)
		// Strictly greater keeps the earliest record on ties.
		if records[idx].PostCount > records[rep].PostCount {
			rep = idx
		}
	}
	if total == 0 {
		return models.LocationCard{}, false
	}

	r := &records[rep]
	key := g.placeID
	if key == "" {
		key = r.Name + r.ID
	}
	return models.LocationCard{
		Key:           key,
		ID:            r.ID,
		Name:          r.Name,
		Category:      r.Category,
		Address:       r.Address,
		City:          r.City,
		Coordinates:   r.Coordinates,
		GooglePlaceID: r.GooglePlaceID,
		PostCount:     total,
		MemberIDs:     ids,
	}, true
}

// Dedupe runs a Matcher with DefaultConfig.
func Dedupe(records []models.Location) []models.LocationCard {
	return New(DefaultConfig()).Dedupe(records)
}
