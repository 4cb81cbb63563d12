package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cppla/secureapi/controllers"
)

var rootCmd = &cobra.Command{
	Use:   "secureapi",
	Short: "Authenticated REST API for users and posts",
	Long: `secureapi serves a small token-authenticated REST API: password login issuing
bearer tokens, a user listing and author-owned posts.`,
	Version:       controllers.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, userAddCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
