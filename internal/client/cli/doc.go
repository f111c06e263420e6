// Package cli provides the interactive shopkeeper command-line client.
//
// It wires configuration, local state storage, the session validator, the
// tenant context and guards, the backend client and the onboarding saga
// behind a small REPL. Typical flow: restore the persisted session, start a
// background connectivity watcher, then execute user commands.
//
// Key features:
//   - login / logout / whoami (bearer token or dev token)
//   - open <path>: navigate to a storefront or admin page through the
//     soft or strict tenant guard, following redirects
//   - onboard: collect the wizard data and provision a tenant
//   - usage / admin-usage: tenant and platform usage dashboards
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
