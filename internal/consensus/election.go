package consensus

import (
	"time"

	"go.uber.org/zap"

	"github.com/roxel/multi-paxos/internal/transport"
	"github.com/roxel/multi-paxos/internal/wire"
)

// OnHeartbeat handles a HEARTBEAT arriving from another node. Only a
// sender with a strictly higher id is accepted as leader, following the
// tie-break rule that higher node id always wins; a heartbeat from an
// equal-or-lower id changes nothing.
func (n *Node) OnHeartbeat(msg wire.Message) wire.Message {
	if msg.SenderID > n.ID {
		n.Timers.StopHeartbeat()
		n.State.SetLeader(msg.SenderID)
		n.State.SetLastHeartbeat(msg.Heartbeat)
		n.State.ClearPreparePhase()
		n.Timers.ResetTimeout(n.onHeartbeatTimeout)
	}
	return wire.Message{Type: wire.TypeHeartbeat, SenderID: n.ID}
}

// onHeartbeatTimeout fires when no qualifying heartbeat arrived within
// the randomized deadline. It probes the cluster with a low-ball
// PREPARE to see whether peers already agree on a stable leader this
// node simply hasn't heard from yet; only if that probe can't find one
// does it self-promote.
func (n *Node) onHeartbeatTimeout() {
	n.State.ClearLeader()

	responses := n.broadcastLowBallPrepare()
	topLeader, leaderCount, topHeartbeat, heartbeatCount := tallyPrepareNacks(responses)

	if topLeader != nil && *topLeader > n.ID &&
		leaderCount >= n.QuorumSize && heartbeatCount >= n.QuorumSize {
		n.Log.Info("adopting leader found via low-ball probe",
			zap.Int64("leader_id", *topLeader))
		n.Timers.StopHeartbeat()
		n.State.SetLeader(*topLeader)
		n.State.SetLastHeartbeat(topHeartbeat)
		n.Timers.ResetTimeout(n.onHeartbeatTimeout)
		return
	}

	// A leader is driven solely by the send-heartbeat timer from here
	// on; it only steps down via OnHeartbeat from a higher id, which
	// rearms heartbeat-timeout itself. Rearming it here too would have
	// it refire every period with no higher heartbeat to cancel it,
	// perpetually re-electing a stable leader.
	n.Log.Info("self-promoting to leader",
		zap.Int64("self_id", n.ID), zap.Int("peer_count", len(n.Peers)))
	n.State.SetLeader(n.ID)
	n.State.NextProposalNumber()
	n.onSendHeartbeat()
}

// onSendHeartbeat broadcasts one HEARTBEAT and rearms itself for the
// next period; it is the send_heartbeat_timer handler as well as the
// immediate first beat a freshly self-promoted leader sends.
func (n *Node) onSendHeartbeat() {
	msg := wire.Message{Type: wire.TypeHeartbeat, SenderID: n.ID, Heartbeat: time.Now().UnixNano()}
	n.broadcastFireAndForget(msg, transport.Immediate)
	n.Timers.ResetHeartbeat(n.onSendHeartbeat)
}

func (n *Node) broadcastLowBallPrepare() []wire.Message {
	lowest := wire.LowestProposalNumber
	msg := wire.Message{Type: wire.TypePrepare, SenderID: n.ID, ProposalNumber: &lowest}
	return n.broadcast(msg, transport.Immediate)
}

// tallyPrepareNacks counts PREPARE_NACK responses by the (leader_id,
// last_heartbeat) pair each one carries. It reports the most-common
// leader id and its count, and separately the most-common heartbeat
// timestamp reported for that leader and its count — both must reach
// quorum for the probe to be trusted.
func tallyPrepareNacks(responses []wire.Message) (topLeader *int64, leaderCount int, topHeartbeat int64, heartbeatCount int) {
	leaderCounts := map[int64]int{}
	heartbeatsByLeader := map[int64]map[int64]int{}

	for _, r := range responses {
		if r.Type != wire.TypePrepareNack || r.LeaderID == nil {
			continue
		}
		lid := *r.LeaderID
		leaderCounts[lid]++
		if heartbeatsByLeader[lid] == nil {
			heartbeatsByLeader[lid] = map[int64]int{}
		}
		heartbeatsByLeader[lid][r.LastHeartbeat]++
	}

	var best int64
	bestCount := 0
	found := false
	for lid, c := range leaderCounts {
		if c > bestCount {
			best, bestCount, found = lid, c, true
		}
	}
	if !found {
		return nil, 0, 0, 0
	}

	var bestHB int64
	bestHBCount := 0
	for hb, c := range heartbeatsByLeader[best] {
		if c > bestHBCount {
			bestHB, bestHBCount = hb, c
		}
	}

	return &best, bestCount, bestHB, bestHBCount
}
