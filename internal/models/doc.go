// Package models defines the core domain models for feeledger.
//
// # Persisted models
//
//   - FeeRecord: one row of the fee ledger, either an expectation
//     (pending/overdue) or a fulfillment (paid) of money owed
//   - Student: the person a fee record belongs to
//   - User: a staff account that can log into the API
//
// # Derived models
//
//   - Installment: one numbered slot of a student's payment plan, computed
//     from fee records on every query and never persisted
//   - Verdict: the classification of a proposed payment against the plan
//
// # Design principles
//
//  1. **Raw amounts**: FeeRecord keeps the amount exactly as persisted (a
//     string) so legacy or corrupted values survive a round-trip; parsing
//     happens at aggregation time
//  2. **Avoid circular references**: relationships use ID strings, not
//     pointers
//  3. **Dates as ISO strings**: due and payment dates are YYYY-MM-DD strings
//     (empty = absent), which order lexicographically
package models
