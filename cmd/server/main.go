/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the contract amortization server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize the contract directory (SQLite or in-memory fixtures)
  3. Create API handler with dependencies
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: contracts.db)
             Use ":memory:" for an in-memory database
  -fixtures  Use the in-memory fixture directory instead of SQLite
             (demo contracts, state lost on restart)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database connection
  4. Exit

EXAMPLES:
  # Run against a file database
  ./server -db="./data/contracts.db"

  # Run with demo fixtures, no database
  ./server -fixtures

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/amortization-engine/api"
	"github.com/warp/amortization-engine/contracts"
	"github.com/warp/amortization-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "contracts.db", "SQLite database path")
	fixtures := flag.Bool("fixtures", false, "use in-memory fixture contracts instead of SQLite")
	flag.Parse()

	// Data source strategy: an explicit construction decision, not a
	// module-level toggle.
	var (
		directory contracts.Directory
		entries   contracts.EntryStore
	)
	if *fixtures {
		directory = contracts.NewFixture()
		entries = contracts.NewMemoryEntries()
		log.Println("Using in-memory fixture contracts")
	} else {
		store, err := sqlite.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()
		directory = store
		entries = store
	}

	schedules := contracts.NewScheduleService(directory, entries)
	handler := api.NewHandler(directory, schedules)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
