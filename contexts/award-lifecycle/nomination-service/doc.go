// Package nominationservice implements the nomination lifecycle inside the
// award-lifecycle context.
//
// The module owns nomination intake (nominator + nominee + nomination created
// as one unit of work), the submitted/approved/rejected state machine, live
// identity assignment on approval, and the admin additional-votes overlay.
// Every lifecycle event that external systems track is appended to the shared
// sync outbox in the same transaction as the domain write. Business rules
// live in application/domain layers; infrastructure sits behind ports and
// adapters.
package nominationservice
