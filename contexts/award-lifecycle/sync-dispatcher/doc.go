// Package syncdispatcher drains the shared sync_outbox table and delivers
// entries to the external CRM and email collaborators.
//
// Entries are claimed in exclusive batches: a claim stamps a fresh token and
// flips the rows to processing, so concurrent dispatcher instances never
// deliver the same entry twice. Failed deliveries go back to pending with an
// exponential backoff schedule; entries that keep failing are parked as dead
// for operator review. Payload rejections are classified separately from
// transient faults and give up sooner, since retrying a bad payload cannot
// succeed.
package syncdispatcher
