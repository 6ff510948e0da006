// Package cli provides the interactive studyport command-line client.
//
// It wires configuration, the local cache, API services and an interactive
// REPL for browsing the catalog and reading notes. Typical flow: prompt for
// credentials, start a background connectivity watcher, and execute user
// commands.
//
// Key features:
//   - Login / Logout against the learning portal
//   - Browse subjects and notes
//   - Open a note behind the entitlement gate and read it page by page,
//     with watermark overlay, zoom and session refresh
//   - Sync cached reading progress with the server
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
