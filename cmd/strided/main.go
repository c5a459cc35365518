// Command strided runs the step tracking daemon in the foreground.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"stride/internal/config"
	"stride/internal/daemonrun"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	socketPath := flag.String("socket", "", "IPC socket path override")
	flag.Parse()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	opts := daemonrun.Options{
		LogLevel:   *logLevel,
		SocketPath: *socketPath,
	}
	if err := daemonrun.Run(context.Background(), cfg, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
