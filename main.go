package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PI-TidalHealth/HORA/internal/api"
	"github.com/PI-TidalHealth/HORA/internal/config"
	"github.com/PI-TidalHealth/HORA/internal/db"
	"github.com/PI-TidalHealth/HORA/internal/monitoring"
	"github.com/PI-TidalHealth/HORA/internal/version"
)

var (
	//go:embed static/*
	staticFiles embed.FS
	devMode     = flag.Bool("dev", false, "Run in dev mode")
	listen      = flag.String("listen", config.DefaultListen, "Listen address")
	dbFile      = flag.String("db", config.DefaultDBFile, "Path to the sqlite database")
	verbose     = flag.Bool("verbose", false, "Enable debug logging")
	configFile  = flag.String("config", "", "Path to a JSON config file")
)

// applyConfig overlays config file values onto flags that were not set
// explicitly on the command line.
func applyConfig(cfg *config.ServerConfig) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["listen"] {
		*listen = cfg.GetListen()
	}
	if !set["db"] {
		*dbFile = cfg.GetDBFile()
	}
	if !set["verbose"] {
		*verbose = cfg.GetVerbose()
	}
}

// runMigrateCommand handles the "migrate" subcommand: up, down, or
// version. It opens the database without auto-migrating so that down
// and version report the real state.
func runMigrateCommand(args []string) {
	if len(args) == 0 {
		log.Fatal("migrate requires a direction: up, down, or version")
	}
	d, err := db.OpenDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer d.Close()

	switch args[0] {
	case "up":
		err = d.MigrateUp()
	case "down":
		err = d.MigrateDown()
	case "version":
		var version uint
		var dirty bool
		version, dirty, err = d.MigrateVersion()
		if err == nil {
			fmt.Printf("version=%d dirty=%v\n", version, dirty)
		}
	default:
		log.Fatalf("unknown migrate direction %q", args[0])
	}
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

func main() {
	flag.Parse()

	if *configFile != "" {
		cfg, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		applyConfig(cfg)
	}
	monitoring.Verbose = *verbose
	log.Printf("HORA %s", version.String())

	if flag.Arg(0) == "migrate" {
		runMigrateCommand(flag.Args()[1:])
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()

	// mount the admin debugging routes (accessible only in dev mode or over Tailscale)
	database.AttachAdminRoutes(mux)

	// mount the dataset and analysis handlers
	apiMux := api.NewServer(database).ServeMux()
	mux.Handle("/api/", apiMux)
	mux.Handle("/charts/", apiMux)

	// read static files from the embedded filesystem in production or from
	// the local ./static in dev for easier iteration without restarting the
	// server
	var staticHandler http.Handler
	if *devMode {
		staticHandler = http.FileServer(http.Dir("./static"))
	} else {
		staticFS, err := fs.Sub(staticFiles, "static")
		if err != nil {
			log.Fatalf("failed to open embedded static files: %v", err)
		}
		staticHandler = http.FileServer(http.FS(staticFS))
	}
	mux.Handle("/", staticHandler)

	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(mux),
	}

	go func() {
		log.Printf("listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		os.Exit(1)
	}
	log.Printf("Graceful shutdown complete")
}
