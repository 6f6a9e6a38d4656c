package main

import (
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/pyted/internal/config"
	"github.com/ludo-technologies/pyted/internal/version"
	"github.com/ludo-technologies/pyted/mcp"
)

const serverName = "pyted"

func main() {
	// MCP uses stdout for JSON-RPC
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := pflag.StringP("config", "c", "", "Configuration file path")
	pflag.Parse()

	cfg, err := config.LoadConfigWithTarget(*configPath, "")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	mcp.RegisterTools(server, mcp.NewHandlerSet(mcp.NewDependencies(cfg, *configPath)))

	log.Printf("Starting %s MCP server %s", serverName, version.Short())
	log.Println("Registered tools:")
	for _, name := range mcp.ToolNames {
		log.Printf("  - %s", name)
	}
	log.Println("Server ready - waiting for MCP client connection...")

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
