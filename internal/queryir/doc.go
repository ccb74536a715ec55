// Package queryir provides the predicate intermediate representation (IR)
// produced by bi-temporal query planning.
//
// The IR is the abstraction boundary between planning and the backends
// that evaluate a predicate against stored shapes:
//
//	[condition] → [bitemporal plan] → [Query IR] → [SQL backend]   (querysql)
//	                                             → [memory backend] (shape)
//
// SEALED INTERFACE:
//
// Predicate is a sealed interface using the marker method pattern. Only
// types in this package implement it. Backends switch exhaustively:
//
//	switch p := pred.(type) {
//	case Range:
//	    // one partition, one axis, one bound pair
//	case Present:
//	    // any record with an interval on this axis in this partition
//	case And, Or, Not, Boost, MatchAll:
//	    // combinators
//	}
//
// IDENTITIES:
//
//   - And{} is always true (vacuous truth)
//   - Or{} is always false (identity of disjunction)
//   - Boost never changes which records match, only their weight
//
// Backends accept both value and pointer forms of every node.
package queryir
