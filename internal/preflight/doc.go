// Package preflight verifies the daemon's environment before tracking
// starts: directory access, free disk space, and sensor availability. Both
// the daemon startup path and the CLI status command consume the same
// checks.
package preflight
