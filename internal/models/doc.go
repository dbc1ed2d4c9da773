// Package models defines the core domain models for the Splitwiser ledger.
//
// # Facts and projections
//
// Expenses (with their Splits) and Settlements are append-only facts. They are
// never edited or deleted; balances and pairwise debts are derived from them on
// demand by the calculator package.
//
//   - User: immutable identity, referenced by ID everywhere else
//   - Group: a member list with exactly one currency and a settlement lock
//   - Expense: an amount paid by one member, split among participants
//   - Split: one participant's share of an expense
//   - Settlement: a real-world payment from payer to payee
//
// # Rounds
//
// A group's facts are partitioned into rounds. Every fact is stamped with the
// group's round at append time. The round advances when a settlement brings every
// member's balance to zero, which also releases the settlement lock.
//
// # Money
//
// Amounts are money.Money values in the currency's minor unit. Relationships are
// expressed with ID strings, never pointers.
package models
