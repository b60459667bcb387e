// Package client implements the short-lived read/write/find-leader
// logic the CLI drives: contact the cluster, tally responses, retry a
// bounded number of times.
package client

import (
	"context"
	"fmt"

	"github.com/roxel/multi-paxos/internal/transport"
	"github.com/roxel/multi-paxos/internal/wire"
)

const defaultRetries = 3

// Client is not a cluster member: Peers is the full membership list
// ordered by node id, exactly as it appears in the cluster config, so
// Peers[leaderID] always resolves a leader id straight to an address.
type Client struct {
	Peers      []string
	QuorumSize int
	Retries    int

	leader string
}

func New(peers []string) *Client {
	return &Client{
		Peers:      peers,
		QuorumSize: len(peers)/2 + 1,
		Retries:    defaultRetries,
	}
}

func (c *Client) retries() int {
	if c.Retries > 0 {
		return c.Retries
	}
	return defaultRetries
}

// Read performs a quorum read of key: it asks every peer and only
// trusts the value a quorum of them agree on.
func (c *Client) Read(key string) ([]byte, error) {
	for i := 0; i < c.retries(); i++ {
		if value, ok := c.read(key); ok {
			return value, nil
		}
	}
	return nil, fmt.Errorf("read %q: %w", key, wire.ErrQuorumNotReached)
}

func (c *Client) read(key string) ([]byte, bool) {
	msg := wire.Message{Type: wire.TypeRead, Key: key}
	counts := map[string]int{}
	values := map[string][]byte{}

	for _, addr := range c.Peers {
		resp := transport.Send(context.Background(), addr, msg, transport.Immediate)
		if resp.Type != wire.TypeAccepted {
			continue
		}
		k := string(resp.Value)
		counts[k]++
		values[k] = resp.Value
	}

	best, bestCount := topCount(counts)
	if bestCount < c.QuorumSize {
		return nil, false
	}
	return values[best], true
}

// FindLeader contacts every peer with a dummy READ and adopts whichever
// leader_id a quorum of responses agree on. The quorum size is fixed at
// ⌊N/2⌋+1 over the full membership, not shrunk by how many peers
// actually answered — a responsiveness-shrunk quorum could let a
// reachable minority agree on a leader the rest of the cluster never
// recognizes.
func (c *Client) FindLeader() error {
	msg := wire.Message{Type: wire.TypeRead, Key: ""}
	counts := map[int64]int{}

	for _, addr := range c.Peers {
		resp := transport.Send(context.Background(), addr, msg, transport.Immediate)
		if resp.Type != wire.TypeAccepted || resp.LeaderID == nil {
			continue
		}
		counts[*resp.LeaderID]++
	}

	best, bestCount := topCount(counts)
	if bestCount < c.QuorumSize {
		c.leader = ""
		return fmt.Errorf("find leader: %w", wire.ErrNoLeader)
	}
	if best < 0 || int(best) >= len(c.Peers) {
		return fmt.Errorf("find leader: leader id %d out of range", best)
	}
	c.leader = c.Peers[best]
	return nil
}

// Write sends (key, value) to the discovered leader. A WRITE_NACK (the
// leader lost its own quorum, or is mid-handoff) is treated as a reason
// to rediscover the leader and retry, up to the bounded retry count —
// the bounded analogue of the original client's unbounded
// poll-until-saved loop.
func (c *Client) Write(key string, value []byte) error {
	var lastErr error
	for i := 0; i < c.retries(); i++ {
		if err := c.FindLeader(); err != nil {
			lastErr = err
			continue
		}
		resp := transport.Send(context.Background(), c.leader, wire.Message{Type: wire.TypeWrite, Key: key, Value: value}, transport.Awaiting)
		if resp.Type == wire.TypeAccepted {
			return nil
		}
		lastErr = fmt.Errorf("write %q: leader replied %s", key, resp.Type)
	}
	return fmt.Errorf("write %q: %w: %v", key, wire.ErrQuorumNotReached, lastErr)
}

func topCount[K comparable](counts map[K]int) (K, int) {
	var best K
	bestCount := -1
	for k, c := range counts {
		if c > bestCount {
			best, bestCount = k, c
		}
	}
	if bestCount < 0 {
		bestCount = 0
	}
	return best, bestCount
}
