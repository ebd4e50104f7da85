// Command streamscribed runs the StreamScribe daemon: it owns the queue
// store, the workflow manager, and the JSON-RPC control socket the CLI
// talks to.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"streamscribe/internal/config"
	"streamscribe/internal/daemonrun"
)

func main() {
	var configPath string
	var socketPath string
	var logLevel string
	flag.StringVar(&configPath, "config", "", "configuration file path")
	flag.StringVar(&socketPath, "socket", "", "control socket path override")
	flag.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	level := logLevel
	if level == "" {
		level = cfg.Logging.Level
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{
		LogLevel:   level,
		SocketPath: socketPath,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "streamscribed: %v\n", err)
		os.Exit(1)
	}
}
