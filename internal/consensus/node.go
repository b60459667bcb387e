// Package consensus implements the per-node Multi-Paxos state machine:
// leader election by heartbeat, and the Prepare/Promise + Accept/Accepted
// write path, sharing one consolidated State and a pair of timers.
package consensus

import (
	"go.uber.org/zap"

	"github.com/roxel/multi-paxos/internal/store"
)

// Peers maps every OTHER node's id to its dial address; it never
// contains an entry for this node's own id.
type Peers map[int64]string

// Node wires together everything a single server needs to take part in
// the cluster: its own state, timers, the peer set, the store backing
// READ/WRITE, and the quorum size computed once from the static
// membership at startup.
type Node struct {
	ID         int64
	Peers      Peers
	QuorumSize int
	Store      store.Store
	State      *State
	Timers     *Timers
	Log        *zap.Logger
}

func NewNode(id int64, peers Peers, quorumSize int, backend store.Store, log *zap.Logger) *Node {
	return &Node{
		ID:         id,
		Peers:      peers,
		QuorumSize: quorumSize,
		Store:      backend,
		State:      NewState(id),
		Timers:     &Timers{},
		Log:        log,
	}
}

// Start arms the heartbeat-timeout timer, kicking off leader election.
func (n *Node) Start() {
	n.Timers.ResetTimeout(n.onHeartbeatTimeout)
}

// Shutdown cancels both timers so no further election activity runs
// after the server stops accepting connections.
func (n *Node) Shutdown() {
	n.Timers.StopTimeout()
	n.Timers.StopHeartbeat()
}
