// Package ipc exposes daemon control to the stride CLI as JSON-RPC over a
// Unix domain socket. The companion app uses the same surface to report
// lifecycle transitions and read step totals.
package ipc
