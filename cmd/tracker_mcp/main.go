// Package main runs the program tracker MCP server over stdio (for local editor/agent use).
// The same MCP server is also mounted on the main backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/programtracker/internal/config"
	"github.com/2beens/programtracker/internal/db"
	"github.com/2beens/programtracker/internal/program"
	"github.com/2beens/programtracker/internal/progress"
	"github.com/2beens/programtracker/internal/tracker"
	trackermcp "github.com/2beens/programtracker/internal/tracker/mcp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout carries the MCP protocol
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	catalog, err := program.LoadFiles(cfg.ProgramPath, cfg.ExercisesPath)
	if err != nil {
		log.Fatalf("load program catalog: %v", err)
	}

	ctx := context.Background()
	var store progress.Store
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		sqliteStore, err := progress.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("sqlite store: %v", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	default:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     os.Getenv("PTRACK_DB_PASS"),
			TracingEnabled: false,
		})
		if err != nil {
			log.Fatalf("db pool: %v", err)
		}
		defer dbPool.Close()
		store = progress.NewPsqlStore(dbPool)
	}

	service := tracker.NewService(tracker.ServiceParams{
		Catalog:             catalog,
		Resolver:            program.NewResolver(catalog, cfg.ResolverCacheSizeBytes),
		Store:               store,
		SaveAttempts:        cfg.SaveRetryAttempts,
		SaveInitialInterval: cfg.SaveRetryInitialInterval(),
	})
	defer service.Close()

	server := trackermcp.NewServer(service, catalog.Program.Version)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Errorf("mcp server: %v", err)
	}
}
