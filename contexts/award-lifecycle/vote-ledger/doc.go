// Package voteledger owns the public voting ledger and the tally read model.
//
// The ledger is append-only: one vote per voter email per subcategory, and
// only for approved nominations. Every accepted vote commits together with a
// voter_sync outbox entry so the CRM never learns about a voter whose vote
// did not land, and never misses one that did.
//
// Tallies are recomputed on demand from the ledger plus the admin-set
// additional-votes overlay on each nomination. The overlay is additive and
// invisible on the public leaderboard, which serves combined totals only.
package voteledger
