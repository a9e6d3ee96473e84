// Package services contains application services for the Promptify CLI:
// session bootstrap and reconciliation, the unlock orchestrator and the
// catalog view. Server state is authoritative; the local cache is only
// ever overwritten with values the server reported.
package services
