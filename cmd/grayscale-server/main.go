package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ironsheep/image-grayscale/internal/config"
	"github.com/ironsheep/image-grayscale/internal/httpapi"
	"github.com/ironsheep/image-grayscale/internal/imaging"
	"github.com/ironsheep/image-grayscale/internal/logging"
	"github.com/ironsheep/image-grayscale/internal/server"
)

const idleTimeout = 2 * time.Minute

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	mode := "http"
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("grayscale-server %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "mcp":
			mode = "mcp"
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q\n\n", os.Args[1])
			printUsage()
			os.Exit(2)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.SetLevel(cfg.LogLevel)
	log := logging.NewLogger("grayscale/main")
	log.Debugf("grayscale-server %s (built %s, commit %s)", Version, BuildTime, GitCommit)

	pipeline := imaging.NewPipeline(cfg.PipelineOptions()...)

	if mode == "mcp" {
		if err := server.New(pipeline, server.WithVersion(Version)).Run(); err != nil {
			log.Errorf("mcp server: %v", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      httpapi.New(pipeline, cfg.MaxBodyBytes),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  idleTimeout,
	}

	log.Infof("grayscale-server %s starting, luma=%s max_body=%d", Version, pipeline.Luma(), cfg.MaxBodyBytes)
	if err := httpapi.ListenAndServe(ctx, srv, cfg.ShutdownTimeout); err != nil {
		log.Errorf("http server: %v", err)
		os.Exit(1)
	}
	log.Info("stopped")
}

func printUsage() {
	fmt.Println("grayscale-server - convert images to grayscale PNG")
	fmt.Println()
	fmt.Println("Usage: grayscale-server [mcp | options]")
	fmt.Println()
	fmt.Println("With no argument an HTTP server accepts an image as the body of")
	fmt.Println("POST / and answers with an 8-bit grayscale PNG.")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  mcp              Serve the MCP protocol over stdin/stdout")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  GRAYSCALE_ADDR=:8000               HTTP listen address")
	fmt.Println("  GRAYSCALE_LOG_LEVEL=info           disabled|error|warn|info|debug|trace")
	fmt.Println("  GRAYSCALE_LUMA=bt601               bt601|bt709|average|linear")
	fmt.Println("  GRAYSCALE_PNG_COMPRESSION=default  default|none|speed|best")
	fmt.Println("  GRAYSCALE_MAX_BODY_BYTES=33554432  request body limit")
	fmt.Println("  GRAYSCALE_MAX_PIXELS=50000000      decoded pixel limit, 0 disables")
	fmt.Println("  GRAYSCALE_AUTO_ORIENT=false        apply EXIF orientation")
	fmt.Println("  GRAYSCALE_READ_TIMEOUT=30s")
	fmt.Println("  GRAYSCALE_WRITE_TIMEOUT=30s")
	fmt.Println("  GRAYSCALE_SHUTDOWN_TIMEOUT=10s")
}
