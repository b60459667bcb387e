package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roxel/multi-paxos/internal/config"
	"github.com/roxel/multi-paxos/internal/consensus"
	"github.com/roxel/multi-paxos/internal/logging"
	"github.com/roxel/multi-paxos/internal/server"
	"github.com/roxel/multi-paxos/internal/store"
	"github.com/roxel/multi-paxos/internal/store/pgstore"
	"github.com/roxel/multi-paxos/internal/store/redisstore"
)

var serverCmd = &cobra.Command{
	Use:   "server <address>",
	Short: "start a node bound to <address>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(args[0])
	},
}

func runServer(address string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	nodeID, err := cfg.NodeID(address)
	if err != nil {
		return err
	}

	log, err := logging.New(nodeID)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	backend, closeStore, err := openStore(cfg, nodeID)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	peers := consensus.Peers{}
	for i, addr := range cfg.Servers {
		if int64(i) != nodeID {
			peers[int64(i)] = addr
		}
	}

	node := consensus.NewNode(nodeID, peers, cfg.QuorumSize(), backend, log)
	srv := server.New(address, node, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("starting server",
		zap.String("address", address),
		zap.Int64("node_id", nodeID),
		zap.Int("quorum_size", cfg.QuorumSize()),
		zap.String("store_driver", cfg.Store.Driver))

	return srv.Serve(ctx)
}

func openStore(cfg *config.Config, nodeID int64) (store.Store, func(), error) {
	switch cfg.Store.Driver {
	case "", "memory":
		return store.NewMemoryStore(), nil, nil
	case "postgres":
		pg, err := pgstore.Open(cfg.Store.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return pg, func() { pg.Close() }, nil
	case "redis":
		rs := redisstore.Open(cfg.Store.DSN, nodeID)
		return rs, func() { rs.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
