// Package cli provides the interactive namecard command-line client.
//
// It wires configuration, the local session store, the hosted service client
// and the card services behind a small REPL. A session persisted by an
// earlier run is restored on start, so a signed-in user stays signed in
// across restarts.
//
// Commands:
//   - register, login, logout, whoami, google, delete-account
//   - create, gallery [term] [lang:<code>], mine, share <shareId>, delete <cardId>
//   - stats (request counts since start)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
