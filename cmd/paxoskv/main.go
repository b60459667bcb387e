// Command paxoskv runs a node or issues a single client operation
// against a Multi-Paxos replicated key-value cluster.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "paxoskv",
	Short: "A Multi-Paxos replicated key-value store node and client",
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "file", "f", "config.yml", "cluster config file (YAML)")
	rootCmd.AddCommand(serverCmd, clientCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
