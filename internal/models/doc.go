// Package models defines the core domain models for the household ledger.
//
// # Models
//
//   - Transaction: an income or expense attributed to franklin, michele or
//     the couple ("casal"). Casal transactions are materialized as two
//     derived half-amount rows that point back to their parent.
//   - Debt: what one member owes the other for a joint expense paid by a
//     single person.
//   - Category: a user-defined label for transactions.
//   - User: a registered account. Every transaction, debt and category is
//     owned by exactly one user.
//
// # Design Principles
//
// 1. **Closed types at the boundary**: rows are validated and normalized
// before they reach the ledger, so business logic never sees optional-
// everything records.
// 2. **Decimal money**: amounts use shopspring/decimal with two fractional
// digits, never float64.
// 3. **Avoid circular references**: relationships use ID strings, not
// pointers.
package models
