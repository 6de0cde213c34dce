// Package app loads configuration and wires application dependencies for
// the CLI.
//
// Configuration is read from a single YAML file named by the --config flag
// or the KEYWARD_CONFIG environment variable. There is no discovery; with
// neither set, Default() is used and command-line flags fill the gaps.
//
// Wire builds the key store, homeserver client, room tracker and
// encryption client from Config and returns them as an App.
package app
