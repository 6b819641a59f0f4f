// Package main is the entry point for the smfkit API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/smfkit/pkg/api"
	"github.com/james-see/smfkit/pkg/logger"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if err := logger.InitLogger(*level); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("Starting smfkit API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := api.StartServer(*port, logger.GetLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
