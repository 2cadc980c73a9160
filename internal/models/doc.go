// Package models defines the core domain entities for Bill Divide.
//
// # Entities
//
//   - Bill: an itemized bill shared among participants, with tax/tip
//     percentages and a settlement status
//   - Item: a line item on a bill, assigned to a subset of participants
//   - Participant: one person's stake in a bill, including the immutable
//     share assessed at creation and their settlement state
//   - Balance: a derived "who owes whom" edge, never persisted
//   - User: a registered account for the demo login flow
//   - Preferences / PaymentHandle: the profile screen's persisted settings
//
// # Design principles
//
//  1. Entities are explicit tagged structs with validating behavior, not
//     free-form maps; Bill.Validate enforces the structural invariants.
//  2. A bill's itemization is a frozen historical record: after creation the
//     only mutations are settlement-state changes.
//  3. The assessed share never changes. "How much is still owed" is derived
//     from settlement state (Participant.Outstanding), so there is a single
//     source of truth for each participant's debt.
//  4. Relationships use ID strings instead of pointers; the application's
//     own user is always identified by CurrentUserID.
package models
