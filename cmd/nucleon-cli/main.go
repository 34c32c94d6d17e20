package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	nucleonnet "github.com/peterkuimelis/nucleon/internal/net"
	"github.com/peterkuimelis/nucleon/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "serve":
		runServe(os.Args[2:])
	case "connect":
		runConnect(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  nucleon serve [--port P] [--elements FILE] [--molecules FILE] [--economy FILE] [--db FILE]")
	fmt.Println("  nucleon connect [--addr ADDR]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve      Host economies, one per connection")
	fmt.Println("  connect    Connect to a server and play from the terminal")
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.String("port", "9000", "TCP port to listen on")
	elements := fs.String("elements", "elements.yaml", "path to element table")
	molecules := fs.String("molecules", "molecules.yaml", "path to molecule catalog")
	economyFile := fs.String("economy", "economy.yaml", "path to balance config")
	dbPath := fs.String("db", "", "SQLite file for saves and event history (disabled if empty)")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

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
		slog.Info("database opened", "path", *dbPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &nucleonnet.Server{Port: *port, Session: sc}
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func runConnect(args []string) {
	fs := flag.NewFlagSet("connect", flag.ExitOnError)
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	fs.Parse(args)

	if err := nucleonnet.Connect(context.Background(), *addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
