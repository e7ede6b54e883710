// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

// Package enrich fills location rows with Google Places data (place ids,
// opening hours, photos, missing addresses and coordinates) while keeping
// the month's Places spend under the free credit.
//
// Batches are pull-based and resumable. Rows are read in (created_at, id)
// order; a location Places cannot match is deleted, which shifts every
// later row down by one, so the next batch starts at
//
//	offset + processed - deleted
//
// Before each item the job checks that at least one Place Details request
// still fits in the budget (credit - monthly spend - batch cost). When it
// does not, the batch ends with BudgetExhausted set and RemainingBudget 0.
//
// Every billed request is appended to the api_usage ledger, which is the
// source of the monthly spend. A dry run issues no Places requests and
// writes nothing; it reports each row as skipped with its estimated cost.
package enrich
