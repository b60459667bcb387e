package consensus

import (
	"context"
	"sync"

	"github.com/roxel/multi-paxos/internal/transport"
	"github.com/roxel/multi-paxos/internal/wire"
)

// broadcast fans msg out to every peer concurrently and waits for all
// of them to answer (or time out), returning whatever responses came
// back. A peer that errors contributes an ERROR message to the result,
// same as any other response — callers tally by Type, so a failed peer
// simply fails to contribute a vote.
func (n *Node) broadcast(msg wire.Message, timeout transport.Timeout) []wire.Message {
	responses := make([]wire.Message, 0, len(n.Peers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, addr := range n.Peers {
		wg.Add(1)
		go func(addr string) {
			defer wg.Done()
			resp := transport.Send(context.Background(), addr, msg, timeout)
			mu.Lock()
			responses = append(responses, resp)
			mu.Unlock()
		}(addr)
	}
	wg.Wait()
	return responses
}

// broadcastFireAndForget is the same fan-out without waiting to collect
// results, used for HEARTBEAT sends whose replies nobody reads.
func (n *Node) broadcastFireAndForget(msg wire.Message, timeout transport.Timeout) {
	for _, addr := range n.Peers {
		go func(addr string) {
			transport.Send(context.Background(), addr, msg, timeout)
		}(addr)
	}
}
