// Package relay launches the bundled analysis script against the active
// workspace and reports its outcome to the host editor.
package relay

// Version is the relay release version.
const Version = "0.2.0"
