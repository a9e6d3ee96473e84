// Package services contains server-side business logic: the coin ledger
// that grants prompt unlocks, the gate guarding secret prompt text, profile
// bootstrap and the public catalog.
//
// Services depend on a dbx.Transactor and a repomanager.RepositoryManager;
// units of work that must be atomic run inside Transactor.WithTx with
// repositories bound to the transaction handle.
package services
