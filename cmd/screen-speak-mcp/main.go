package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/screen-speak-mcp/internal/config"
	"github.com/ironsheep/screen-speak-mcp/internal/logutil"
	"github.com/ironsheep/screen-speak-mcp/internal/playback"
	"github.com/ironsheep/screen-speak-mcp/internal/server"
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
			fmt.Printf("screen-speak-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("screen-speak-mcp - MCP server for reading screen regions aloud")
			fmt.Println()
			fmt.Println("Usage: screen-speak-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from .env):")
			fmt.Printf("  %s=path.yaml    YAML configuration file\n", config.ConfigPathEnvVar)
			fmt.Printf("  %s=debug     Enable debug logging\n", config.LogLevelEnvVar)
			fmt.Printf("  %s=path       Also log to a rotating file\n", config.LogFileEnvVar)
			fmt.Printf("  %s=24000   Default PCM sample rate\n", config.SampleRateEnvVar)
			fmt.Printf("  %s=1          Default PCM channel count\n", config.ChannelsEnvVar)
			fmt.Printf("  %s=dir      Where exported WAV files go\n", config.ExportDirEnvVar)
			fmt.Printf("  %s=Kore            Synthesis voice\n", config.VoiceEnvVar)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Logging goes to stderr (stdout is for MCP protocol)
	logCloser, err := logutil.Setup(cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logCloser.Close()

	if cfg.Debug() {
		log.Printf("Screen Speak MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	server.Version = Version

	speaker := playback.NewSpeaker(cfg.SampleRate)
	defer speaker.Close()

	srv, err := server.New(cfg, speaker)
	if err != nil {
		log.Fatalf("Server setup failed: %v", err)
	}
	defer srv.Close()

	if err := srv.Run(); err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}
