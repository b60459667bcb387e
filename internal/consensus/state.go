package consensus

import (
	"sync"

	"github.com/roxel/multi-paxos/internal/wire"
)

// State holds every field the consensus algorithm mutates: the highest
// PREPARE this node has promised as an acceptor, its own proposal
// number as a proposer, the leader it currently believes is live, the
// last heartbeat timestamp it saw from that leader, and whether its
// own prepare phase is still good for another Accept round. All of it
// sits behind one mutex, replacing the per-field locks
// (_prop_num_lock, _leader_id_lock, _last_value_lock,
// _prepare_responses_lock) the original design used.
type State struct {
	mu sync.Mutex

	selfID int64

	highestPrepare       wire.Message
	ownPropNum           wire.ProposalNumber
	leaderID             *int64
	lastHeartbeat        int64
	preparePhaseComplete bool
}

func NewState(selfID int64) *State {
	lowest := wire.ProposalNumber{RoundNo: 0, NodeID: selfID}
	return &State{
		selfID: selfID,
		highestPrepare: wire.Message{
			Type:           wire.TypePrepare,
			SenderID:       selfID,
			ProposalNumber: &lowest,
		},
		ownPropNum: lowest,
	}
}

func (s *State) SelfID() int64 { return s.selfID }

func (s *State) HighestPrepare() wire.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highestPrepare
}

func (s *State) OwnProposalNumber() wire.ProposalNumber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownPropNum
}

// NextProposalNumber advances own_prop_num.round_no by one and returns
// the new value, for use as a fresh proposal in the next Paxos round.
func (s *State) NextProposalNumber() wire.ProposalNumber {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ownPropNum.RoundNo++
	return s.ownPropNum
}

// ObserveProposalNumber raises own_prop_num.round_no to at least p's,
// used when a NACK reveals a competing proposal this node must beat on
// its next attempt.
func (s *State) ObserveProposalNumber(p wire.ProposalNumber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.RoundNo > s.ownPropNum.RoundNo {
		s.ownPropNum.RoundNo = p.RoundNo
	}
}

// ObservePrepare is the acceptor's PREPARE handling rule: msg is
// accepted as the new highest_prepare_msg if its proposal number is
// greater-or-equal to the one currently held. Accepting a strictly
// higher number also clears prepare_phase_complete, since this node's
// own in-flight write round (if any) is now stale.
func (s *State) ObservePrepare(msg wire.Message) (accepted bool, current wire.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := *msg.ProposalNumber
	last := *s.highestPrepare.ProposalNumber

	if p.GreaterOrEqual(last) {
		s.highestPrepare = msg
		if p.RoundNo > s.ownPropNum.RoundNo {
			s.ownPropNum.RoundNo = p.RoundNo
		}
		if p != last {
			s.preparePhaseComplete = false
		}
		return true, msg
	}
	return false, s.highestPrepare
}

func (s *State) LeaderID() (id int64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.leaderID == nil {
		return 0, false
	}
	return *s.leaderID, true
}

func (s *State) SetLeader(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaderID = &id
}

func (s *State) ClearLeader() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaderID = nil
}

func (s *State) LastHeartbeat() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHeartbeat
}

func (s *State) SetLastHeartbeat(ts int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastHeartbeat = ts
}

func (s *State) PreparePhaseComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preparePhaseComplete
}

func (s *State) SetPreparePhaseComplete(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preparePhaseComplete = v
}

// ClearPreparePhase discards steady-state reuse, forcing the next write
// to run a fresh Prepare round. Used when a higher-id peer's heartbeat
// shows this node is no longer the accepted leader.
func (s *State) ClearPreparePhase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preparePhaseComplete = false
}

// leaderPointer is a small helper shared by the acceptor and proposer
// code: it copies LeaderID() into the *int64 shape the wire schema
// wants, or nil when no leader is known.
func (s *State) leaderPointer() *int64 {
	id, ok := s.LeaderID()
	if !ok {
		return nil
	}
	return &id
}
