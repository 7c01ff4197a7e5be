// Package cli provides the interactive WombGuard command-line client.
//
// It wires configuration, the local credential store, the authenticated
// request gateway and the services into a REPL. Start-up runs the one
// identity resolution (persisted credential first, then the auth provider's
// session) while a background watcher tracks whether the backend is
// reachable. Commands that need a signed-in user are refused until somebody
// logs in. When the backend rejects the stored credential the session is torn
// down and the prompt returns to its signed-out form.
//
// Commands:
//   - register, verify, login, adopt, logout, whoami
//   - predict, history, dashboard, stats, watch
//   - profile, chat, newchat, chathistory, health
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
