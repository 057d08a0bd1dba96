package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gorgias-tools/gorgias-mcp/internal/api"
	"github.com/gorgias-tools/gorgias-mcp/internal/config"
	"github.com/gorgias-tools/gorgias-mcp/internal/gorgias"
	"github.com/gorgias-tools/gorgias-mcp/internal/mcp"
)

// maxMessageSize bounds a single stdio JSON-RPC line. Tool results can be
// large; incoming requests should not be.
const maxMessageSize = 4 << 20

var (
	configFlag string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "gorgias-mcp",
	Short: "MCP server exposing Gorgias helpdesk operations as assistant tools",
	Long: `gorgias-mcp bridges AI assistants to a Gorgias helpdesk account.

It speaks the Model Context Protocol over stdio (the default) or HTTP, and
exposes ticket, customer, message and reporting operations as tools. All
remote calls are rate limited and retried according to the account budget.`,
	Version: gorgias.Version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP over stdio (one JSON-RPC message per line)",
	RunE:  runServeStdio,
}

var serveHTTPCmd = &cobra.Command{
	Use:   "serve-http",
	Short: "Serve MCP over HTTP with a Prometheus metrics endpoint",
	RunE:  runServeHTTP,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools this server exposes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, tool := range mcp.ToolRegistry {
			fmt.Printf("%-26s %s\n", tool.Name, tool.Description)
		}
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify connectivity and credentials against the configured account",
	RunE:  runCheck,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gorgias-mcp %s (protocol %s)\n", gorgias.Version, mcp.ProtocolVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging on stderr")

	serveHTTPCmd.Flags().String("listen", "", "Listen address (overrides server.host/server.port)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(serveHTTPCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// Stdout is the protocol channel in stdio mode; all logging goes to
	// stderr unconditionally.
	log.SetOutput(os.Stderr)
	log.SetPrefix("gorgias-mcp: ")
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if debugFlag {
		cfg.Debug = true
	}
	if cfg.Debug {
		log.Printf("config: %s", cfg.Redacted())
	}
	return cfg, nil
}

func newServer(cfg *config.Config) *mcp.Server {
	client := gorgias.NewClient(cfg.ClientConfig())
	return mcp.NewServer(client, cfg.Debug)
}

func runServeStdio(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	server := newServer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), maxMessageSize)
	out := bufio.NewWriter(os.Stdout)

	log.Printf("serving MCP over stdio (account %s)", cfg.Gorgias.Domain)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp, err := server.HandleMessage(ctx, line)
		if err != nil {
			log.Printf("message handling failed: %v", err)
			continue
		}
		if resp == nil {
			continue
		}

		out.Write(resp)
		out.WriteByte('\n')
		if err := out.Flush(); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}

		if ctx.Err() != nil {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	log.Printf("stdin closed, shutting down")
	return nil
}

func runServeHTTP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	server := newServer(cfg)

	addr := cfg.Server.ServerAddr()
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		addr = listen
	}

	router := api.NewRouter(server, cfg.Debug)
	log.Printf("serving MCP over HTTP on %s (account %s)", addr, cfg.Gorgias.Domain)
	return router.Run(addr)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := gorgias.NewClient(cfg.ClientConfig())

	if !client.TestConnection(cmd.Context()) {
		return fmt.Errorf("connection check against %s failed", client.BaseURL())
	}
	fmt.Printf("connection to %s OK\n", client.BaseURL())
	return nil
}
