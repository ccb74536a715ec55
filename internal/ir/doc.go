// Package ir provides the foundational value types for bitemp.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the time domain and the
// partition vocabulary free of circular dependencies.
//
// Key design constraints:
//   - Instants are a closed tagged variant (MIN, finite, NOW, MAX), never
//     overloaded numeric sentinels
//   - Partitions are the four fixed regions P1..P4 of the
//     valid-time × transaction-time plane
//   - All JSON tags use snake_case
//   - Transaction time is a logical clock value, never wall-clock time
package ir
