// Package daemon composes the step engine, the sedentary monitor, and their
// supporting services into the single-instance background process the CLI
// controls over IPC.
package daemon
