package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/stereo-tools-mcp/internal/config"
	"github.com/ironsheep/stereo-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("stereo-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("stereo-tools-mcp - MCP server for stereo matching")
			fmt.Println()
			fmt.Println("Usage: stereo-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=<level>  debug, info (default), warn or error\n", config.EnvLogLevel)
			fmt.Printf("  %s=<path>      JSON file with matcher, prefilter and render defaults\n", config.EnvConfig)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.Logs(config.LevelInfo) {
		log.Printf("Stereo MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}
	if cfg.Debug() {
		log.Printf("Matcher defaults: %+v", cfg.Matcher)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
