// Package models defines the core domain models for SplitPay.
//
// # Models
//
//   - Group: a named set of members who share expenses
//   - Expense: a shared expense fronted by one member and split among others
//   - Settlement: an append-only record of a payment made outside the ledger
//   - User: a registered account (authentication only)
//
// Members are identified by display name strings, unique within a group.
//
// # Design Principles
//
//  1. **Explicit value structs**: every field is declared; nothing is an
//     optional key on a dynamic map. Defaulting (empty involved set, missing
//     settled flag) happens once at the storage and API boundaries, never at
//     read sites.
//  2. **Plain snapshots**: the ledger engine consumes these records converted
//     to its own input types; models never reach into storage.
//  3. **Avoid circular references**: relationships use ID strings, not
//     pointers.
package models
