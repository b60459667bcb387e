package consensus

import "github.com/roxel/multi-paxos/internal/wire"

// OnPrepare is the acceptor's PREPARE rule (the Promise half of Paxos):
// a proposal number greater-or-equal to the highest ever promised is
// accepted and promised; anything lower is NACKed with the current
// leader info so the proposer can fall back to leader-discovery logic.
func (n *Node) OnPrepare(msg wire.Message) wire.Message {
	accepted, current := n.State.ObservePrepare(msg)
	if accepted {
		return wire.Message{Type: wire.TypePromise, SenderID: n.ID, ProposalNumber: msg.ProposalNumber}
	}
	return wire.Message{
		Type:           wire.TypePrepareNack,
		SenderID:       n.ID,
		ProposalNumber: current.ProposalNumber,
		LeaderID:       n.State.leaderPointer(),
		LastHeartbeat:  n.State.LastHeartbeat(),
	}
}

// OnAcceptRequest is the acceptor's ACCEPT rule: the proposal number
// must exactly equal the one most recently promised (not merely
// greater-or-equal, unlike Prepare) or the request is rejected.
func (n *Node) OnAcceptRequest(msg wire.Message) wire.Message {
	highest := n.State.HighestPrepare()
	if msg.ProposalNumber != nil && highest.ProposalNumber != nil && *msg.ProposalNumber == *highest.ProposalNumber {
		n.Store.Set(msg.Key, msg.Value)
		return wire.Message{
			Type:           wire.TypeAccepted,
			SenderID:       n.ID,
			ProposalNumber: msg.ProposalNumber,
			LeaderID:       n.State.leaderPointer(),
			Key:            msg.Key,
			Value:          msg.Value,
		}
	}
	return wire.Message{
		Type:                 wire.TypeAcceptNack,
		SenderID:             n.ID,
		ProposalNumber:       msg.ProposalNumber,
		LeaderID:             n.State.leaderPointer(),
		LeaderProposalNumber: highest.ProposalNumber,
	}
}

// OnRead answers a READ with the store's current value for the key (an
// empty value if absent) and this node's current view of the leader, so
// clients can piggyback leader-discovery on an ordinary read.
func (n *Node) OnRead(msg wire.Message) wire.Message {
	value, _ := n.Store.Get(msg.Key)
	return wire.Message{
		Type:     wire.TypeAccepted,
		SenderID: n.ID,
		LeaderID: n.State.leaderPointer(),
		Key:      msg.Key,
		Value:    value,
	}
}
