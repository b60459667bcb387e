// Package transport sends a single request and reads a single response
// over a fresh TCP connection, in the two timeout classes the wire
// protocol distinguishes between.
package transport

import (
	"context"
	"net"
	"time"

	"github.com/roxel/multi-paxos/internal/wire"
)

// Timeout selects one of the two RPC timeout classes.
type Timeout int

const (
	// Immediate is used for single-hop exchanges: HEARTBEAT, PREPARE,
	// ACCEPT_REQUEST, READ.
	Immediate Timeout = iota
	// Awaiting is used for a WRITE sent to the leader, whose handling
	// may itself span a full Prepare/Accept round with every peer.
	Awaiting
)

const (
	ImmediateTimeout = time.Second
	AwaitingTimeout  = 10 * time.Second
)

func (t Timeout) Duration() time.Duration {
	if t == Awaiting {
		return AwaitingTimeout
	}
	return ImmediateTimeout
}

// Send dials addr, writes msg, reads exactly one response, and closes
// the connection. It never retries: any failure — refused connection,
// deadline exceeded, malformed payload — is folded into a synthetic
// ERROR message so callers see one uniform return type regardless of
// why a peer didn't answer.
func Send(ctx context.Context, addr string, msg wire.Message, timeout Timeout) wire.Message {
	d := net.Dialer{Timeout: timeout.Duration()}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errorMessage(addr, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout.Duration()))

	if err := wire.Encode(conn, msg); err != nil {
		return errorMessage(addr, err)
	}
	resp, err := wire.Decode(conn)
	if err != nil {
		return errorMessage(addr, err)
	}
	return resp
}

func errorMessage(addr string, err error) wire.Message {
	return wire.Message{Type: wire.TypeError, Reason: (&wire.TransportError{Addr: addr, Reason: err}).Error()}
}
