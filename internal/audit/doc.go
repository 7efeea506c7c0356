// Package audit records vault operations in a local JSON Lines log.
//
// The log lives next to the default vault database:
//
//	<data dir>/strongbox/audit.jsonl
//
// Each entry holds a UTC timestamp, the OS user, the installation UUID, the
// operation name and operation-specific details such as a record id or an
// import mode. Passwords, notes and keys are never written.
//
// # Usage
//
//	entry := audit.LogWithUser(audit.OpImport)
//	entry.Mode = "merge"
//	entry.Count = result.Imported
//	audit.Log(entry)
//
// Logging is best-effort. A failed write never fails the operation that
// triggered it.
package audit
