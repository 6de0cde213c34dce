// Package commands defines the keyward CLI and wires dependencies for subcommands.
//
// Commands
//
//   - prepare          Bootstrap the device identity and publish keys
//   - status           Show stored identity and the server's key counts
//   - fingerprint      Print the device's Ed25519 fingerprint
//   - otk top-up       Replenish one-time keys from the server's counts
//   - otk update       Reconcile against counts given on the command line
//   - room encrypted   Report whether a room has encryption enabled
//
// # Implementation
//
// The root command loads the config file, applies flag overrides and builds
// the dependency graph (store, homeserver client, room tracker, encryption
// client) before any subcommand runs. Commands that need a ready client
// call Prepare first with the configured rooms.
package commands
