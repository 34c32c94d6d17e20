package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	nucleonnet "github.com/peterkuimelis/nucleon/internal/net"
	"github.com/peterkuimelis/nucleon/internal/store"
	"github.com/peterkuimelis/nucleon/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	elements := flag.String("elements", "elements.yaml", "path to element table")
	molecules := flag.String("molecules", "molecules.yaml", "path to molecule catalog")
	economyFile := flag.String("economy", "economy.yaml", "path to balance config")
	dbPath := flag.String("db", "", "SQLite file for saves and event history (disabled if empty)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	sc, err := nucleonnet.LoadSessionConfig(*elements, *molecules, *economyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var db *store.DB
	if *dbPath != "" {
		db, err = store.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	srv := web.NewServer(sc, db)

	addr := fmt.Sprintf(":%d", *port)
	slog.Info("nucleon web UI listening", "url", fmt.Sprintf("http://localhost:%d", *port))
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
