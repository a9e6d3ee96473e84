// Package cli provides the interactive Promptify command-line client.
//
// It wires configuration, the local cache, API services and an interactive
// REPL. Typical flow: restore or ask for an identity token, reconcile the
// cached profile with the server, start a background connectivity watcher,
// and execute user commands.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
