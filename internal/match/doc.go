// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

/*
Package match deduplicates location records into unique location cards.

The same real-world place often appears more than once: as rows in Spott's
own table and as Places results saved by users, with slightly different names,
addresses or coordinates. Dedupe groups those records and returns one card per
place with the post counts of every duplicate summed.

# Grouping

Records carrying a Google place id are grouped by that id only. The remaining
records are compared pairwise with AreSimilar and grouped into the connected
components of the resulting similarity graph, so the outcome does not depend
on input order: if A~B and B~C then A, B and C form one card even when A and
C are not directly similar.

AreSimilar short-circuits on the first predicate that holds:

 1. normalized names are equal
 2. name similarity (1 - levenshtein/maxLen) is above Config.NameSimilarity
 3. normalized addresses are equal
 4. the leading address segments (before the first comma) are equal and longer than Config.MinStreetTokenLen
 5. the coordinates are closer than Config.ProximityKM

# Representatives

Each group is displayed through its representative: the member with the most
posts, ties going to the record that appeared first. Groups whose summed post
count is zero are dropped.

Dedupe is pure and never fails.
*/
package match
