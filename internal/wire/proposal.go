package wire

import (
	"fmt"
	"math"
)

// ProposalNumber totally orders Paxos rounds as the pair (RoundNo, NodeID),
// with RoundNo dominant: equal rounds break ties on node id, so no two
// distinct nodes ever produce the same proposal number.
type ProposalNumber struct {
	RoundNo int64 `json:"round_no"`
	NodeID  int64 `json:"node_id"`
}

// LowestProposalNumber can never win acceptance against a proposal number
// any live node would actually generate; it is used as the low-ball
// PREPARE probe sent to check whether a stable leader already exists.
var LowestProposalNumber = ProposalNumber{RoundNo: math.MinInt64, NodeID: math.MinInt64}

func (p ProposalNumber) Less(o ProposalNumber) bool {
	if p.RoundNo != o.RoundNo {
		return p.RoundNo < o.RoundNo
	}
	return p.NodeID < o.NodeID
}

func (p ProposalNumber) LessOrEqual(o ProposalNumber) bool {
	return p == o || p.Less(o)
}

func (p ProposalNumber) Greater(o ProposalNumber) bool {
	return o.Less(p)
}

func (p ProposalNumber) GreaterOrEqual(o ProposalNumber) bool {
	return p == o || p.Greater(o)
}

func (p ProposalNumber) String() string {
	return fmt.Sprintf("(%d,%d)", p.RoundNo, p.NodeID)
}
