// Package bitemporal decomposes a four-bound bi-temporal query window into a
// disjunction of per-partition range predicates.
//
// A record's bi-temporal footprint is stored in one of four partitions of the
// valid-time × transaction-time plane (see ir.Partition). A query window
// (vtFrom, vtTo, ttFrom, ttTo) plus a spatial relation is answered by:
//
//  1. Select: choose which partitions can hold a match and which bounds to
//     ask each of them for
//  2. Compose: ask a Coverage for a valid-time and a transaction-time
//     predicate per selected partition, AND them, OR the results, and
//     apply the window's boost
//
// Both steps are pure functions of their inputs. There is no shared state,
// so plans may be built concurrently without coordination.
//
// # Decision table
//
//	ttFrom is NOW | fullValid | ttTo >= vtFrom | partitions
//	------------- | --------- | -------------- | ------------------------------
//	no            |     -     | yes            | P1 P2 P3 P4
//	no            |     -     | no             | P2 P4
//	yes           | no        | yes            | P1 P2
//	yes           | no        | no             | P2
//	yes           | yes       |     -          | P1 P2, both axes (MIN, MAX)
//
// fullValid means vtFrom is MIN and vtTo is MAX.
package bitemporal
