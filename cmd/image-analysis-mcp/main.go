package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-analysis-mcp/internal/config"
	"github.com/ironsheep/image-analysis-mcp/internal/detection"
	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
	"github.com/ironsheep/image-analysis-mcp/internal/logger"
	"github.com/ironsheep/image-analysis-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version, --help and the analyze subcommand
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-analysis-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage(os.Stdout)
			return
		}
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(cfg)

	if len(os.Args) > 1 && os.Args[1] == "analyze" {
		os.Exit(runAnalyze(os.Args[2:], os.Stdout, os.Stderr, log))
	}

	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("starting MCP server")

	srv := server.New(server.WithLogger(log), server.WithConfig(cfg))
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "image-analysis-mcp - MCP server for object analysis in images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  image-analysis-mcp                      Serve MCP over stdin/stdout")
	fmt.Fprintln(w, "  image-analysis-mcp analyze [flags] PATH Print the objects found in an image as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Analyze flags:")
	fmt.Fprintln(w, "  -mode string     binary, grayscale or color (default \"color\")")
	fmt.Fprintln(w, "  -filtered        Keep objects with 10 < area < 2500 and add Hu moments")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  IMAGE_MCP_LOG_LEVEL=debug|info|warn|error   Log level (default info)")
	fmt.Fprintln(w, "  IMAGE_MCP_LOG_FORMAT=console|json           Log format on stderr (default console)")
	fmt.Fprintln(w, "  IMAGE_MCP_PALETTE=gray|heat|ocean|rainbow   Default palette for color renderings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(w, "Configure it in your MCP client (e.g., Claude Desktop).")
}

// runAnalyze implements the analyze subcommand and returns the exit code.
func runAnalyze(args []string, stdout, stderr io.Writer, log zerolog.Logger) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mode := fs.String("mode", detection.ModeColor, "pipeline mode: binary, grayscale or color")
	filtered := fs.Bool("filtered", false, "keep objects with 10 < area < 2500 and add Hu moments")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: image-analysis-mcp analyze [-mode binary|grayscale|color] [-filtered] PATH")
		return 2
	}
	path := fs.Arg(0)

	result, err := detection.AnalyzeFile(imaging.NewImageCache(), path, *mode, *filtered, detection.WithLogger(log))
	if err != nil {
		log.Error().Err(err).Str("path", path).Str("mode", *mode).Msg("analysis failed")
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Error().Err(err).Msg("failed to write result")
		return 1
	}
	return 0
}
