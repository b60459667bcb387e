package consensus

import (
	"time"

	"github.com/roxel/multi-paxos/internal/transport"
	"github.com/roxel/multi-paxos/internal/wire"
)

// OnWrite is the leader's write path. If a previous write already
// established a live Prepare round (prepare_phase_complete), this skips
// straight to the Accept phase — the Multi-Paxos steady-state
// optimization of running Prepare once per leader tenure rather than
// once per write. A permanent minority of reachable peers must not spin
// this handler forever, so retries are bounded by the same window the
// client gives up waiting after; once it elapses this returns
// WRITE_NACK rather than proceeding to Accept under an unsettled round.
func (n *Node) OnWrite(msg wire.Message) wire.Message {
	deadline := time.Now().Add(transport.AwaitingTimeout)
	for !n.State.PreparePhaseComplete() {
		if n.runPreparePhase() {
			break
		}
		if time.Now().After(deadline) {
			return wire.Message{Type: wire.TypeWriteNack, SenderID: n.ID, Key: msg.Key, Value: msg.Value}
		}
	}
	return n.runAcceptPhase(msg.Key, msg.Value)
}

// runPreparePhase sends a fresh PREPARE to every peer and counts
// PROMISE responses; prepare_phase_complete is set once promises from a
// quorum of the OTHER nodes (QuorumSize-1, since this node's own promise
// to itself is implicit) come back.
func (n *Node) runPreparePhase() bool {
	p := n.State.NextProposalNumber()
	msg := wire.Message{Type: wire.TypePrepare, SenderID: n.ID, ProposalNumber: &p}
	responses := n.broadcast(msg, transport.Immediate)

	promises := 0
	for _, r := range responses {
		switch {
		case r.Type == wire.TypePromise:
			promises++
		case r.Type == wire.TypePrepareNack && r.ProposalNumber != nil:
			n.State.ObserveProposalNumber(*r.ProposalNumber)
		}
	}

	achieved := promises >= n.QuorumSize-1
	n.State.SetPreparePhaseComplete(achieved)
	return achieved
}

// runAcceptPhase sends ACCEPT_REQUEST for (key, value) under this
// node's current proposal number and commits the value locally once a
// quorum of peers (again QuorumSize-1, for the same reason) accept it.
func (n *Node) runAcceptPhase(key string, value []byte) wire.Message {
	p := n.State.OwnProposalNumber()
	msg := wire.Message{Type: wire.TypeAcceptRequest, SenderID: n.ID, ProposalNumber: &p, Key: key, Value: value}
	responses := n.broadcast(msg, transport.Immediate)

	accepted := 0
	for _, r := range responses {
		switch {
		case r.Type == wire.TypeAccepted:
			accepted++
		case r.Type == wire.TypeAcceptNack:
			n.State.SetPreparePhaseComplete(false)
			if r.LeaderProposalNumber != nil {
				n.State.ObserveProposalNumber(*r.LeaderProposalNumber)
			}
		}
	}

	if accepted >= n.QuorumSize-1 {
		n.Store.Set(key, value)
		return wire.Message{
			Type:     wire.TypeAccepted,
			SenderID: n.ID,
			LeaderID: n.State.leaderPointer(),
			Key:      key,
			Value:    value,
		}
	}
	return wire.Message{Type: wire.TypeWriteNack, SenderID: n.ID, Key: key, Value: value}
}
