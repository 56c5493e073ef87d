// Package app wires application dependencies for the CLI.
//
// It builds the session store, the relay HTTP client and, on demand, the
// signaling connection and session service from Config, exposing them via
// Wire and Conn for commands to use.
package app
