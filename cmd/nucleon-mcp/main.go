package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	nucleonmcp "github.com/peterkuimelis/nucleon/internal/mcp"
	nucleonnet "github.com/peterkuimelis/nucleon/internal/net"
	"github.com/peterkuimelis/nucleon/internal/store"
)

func main() {
	elements := flag.String("elements", "elements.yaml", "path to element table")
	molecules := flag.String("molecules", "molecules.yaml", "path to molecule catalog")
	economyFile := flag.String("economy", "economy.yaml", "path to balance config")
	dbPath := flag.String("db", "", "SQLite file for saves and event history (disabled if empty)")
	flag.Parse()

	// stdout carries the MCP stream.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	sc, err := nucleonnet.LoadSessionConfig(*elements, *molecules, *economyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		db, err := store.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		sc.Store = db
	}
	nucleonmcp.SetSessionConfig(sc)

	s := server.NewMCPServer("nucleon", "1.0.0")
	nucleonmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
