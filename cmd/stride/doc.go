// Package main hosts the stride CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into IPC calls
// against the strided daemon: starting and stopping tracking sessions, reading
// step counts and history, logging manual activity, reporting app lifecycle
// transitions, and toggling sedentary nudges. It centralizes configuration
// resolution and socket discovery so subcommands can focus on output.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
