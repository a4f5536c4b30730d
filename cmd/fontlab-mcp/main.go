// FontLab MCP is a Model Context Protocol server that drives FontLab
// through generated scripts executed inside a sandboxed bridge.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fontlab-mcp",
	Short: "MCP server exposing FontLab font editing as tools and resources.",
	Long: `fontlab-mcp bridges MCP clients to a local FontLab installation.
Every tool call is validated, rendered into a script from a fixed template,
and executed in an isolated work area with a bounded timeout. Results and
errors are sanitized before they reach the client.`,
	RunE:          runServe, // Default to serve mode.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, versionCmd)
	_ = godotenv.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
