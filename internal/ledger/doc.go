// Package ledger implements the debt-settlement engine: net balances from
// shared expenses, a greedy simplification of those balances into pairwise
// debts, and reconciliation of recorded payments against the computed debts.
//
// All functions are pure: they take a snapshot of plain values, return fresh
// results, and hold no state between calls. Callers recompute on every view;
// record counts are household-sized so this is cheap.
//
// Amounts are float64 in a single ledger currency. A fixed ±0.01 tolerance
// band absorbs floating-point drift from repeated division: balances and
// debts within the band are treated as settled.
//
// The simplifier pairs the largest debtor with the largest creditor first.
// This minimizes the number of transfers in the common case but is not
// provably minimal for every balance distribution (an exact minimum requires
// subset-sum partitioning and is NP-hard); the approximation is intentional.
package ledger
