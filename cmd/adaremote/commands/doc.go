// Package commands defines the adaremote CLI and wires dependencies for subcommands.
//
// Commands
//
//   - host        Register a session and wait for a client
//   - connect     Join a session by id or 9-digit code
//   - password    Print a fresh 9-digit session password
//   - status      Show the current session and relay health
//   - disconnect  Forget the current session
//
// # Implementation
//
// The root command loads config.yaml, initialises logging and builds the
// dependency graph (session store, relay HTTP client) before any subcommand
// runs. Commands that talk to a peer open their own signaling connection.
//
// # Exit status
//
// 2 when the session was not found, 3 when authentication failed, 4 when a
// frame failed to decrypt, 1 for anything else.
package commands
