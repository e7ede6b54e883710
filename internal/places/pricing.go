// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package places

// SKU names a billable Places request type. The values are stored in the
// api_usage ledger and used as metric labels.
type SKU string

const (
	SKUFindPlace    SKU = "find_place"
	SKUPlaceDetails SKU = "place_details"
	SKUPlacePhoto   SKU = "place_photo"
)

// Per-request prices in USD.
const (
	CostFindPlace    = 0.017
	CostPlaceDetails = 0.017
	CostPlacePhoto   = 0.007

	// MonthlyFreeCredit is Google's monthly Maps Platform credit.
	MonthlyFreeCredit = 200.0
)

// Cost returns the price of one request of this SKU, or 0 if unknown.
func (s SKU) Cost() float64 {
	switch s {
	case SKUFindPlace:
		return CostFindPlace
	case SKUPlaceDetails:
		return CostPlaceDetails
	case SKUPlacePhoto:
		return CostPlacePhoto
	default:
		return 0
	}
}
