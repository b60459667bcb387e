package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roxel/multi-paxos/internal/client"
	"github.com/roxel/multi-paxos/internal/config"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "read or write one key against the cluster",
}

var readCmd = &cobra.Command{
	Use:   "read <key>",
	Short: "read a key's value from a quorum of peers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRead(args[0])
	},
}

var writeCmd = &cobra.Command{
	Use:   "write <key> <value>",
	Short: "write a key's value through the current leader",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrite(args[0], args[1])
	},
}

func init() {
	clientCmd.AddCommand(readCmd, writeCmd)
}

func runRead(key string) error {
	requestID := uuid.New().String()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	c := client.New(cfg.Servers)
	value, err := c.Read(key)
	if err != nil {
		return fmt.Errorf("[%s] %w", requestID, err)
	}
	fmt.Println(string(value))
	return nil
}

func runWrite(key, value string) error {
	requestID := uuid.New().String()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	c := client.New(cfg.Servers)
	if err := c.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("[%s] %w", requestID, err)
	}
	fmt.Println("OK")
	return nil
}
