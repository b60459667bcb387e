// Package server implements the request/response TCP endpoint described
// by the wire protocol: one connection carries exactly one request and
// one response before it closes.
package server

import (
	"context"
	"net"
	"time"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/roxel/multi-paxos/internal/consensus"
	"github.com/roxel/multi-paxos/internal/transport"
	"github.com/roxel/multi-paxos/internal/wire"
)

// handlingDeadline bounds how long a single connection may be held open
// end to end; it must be at least as generous as the client's own
// Awaiting timeout class, since a WRITE can itself fan out a full
// Prepare/Accept round to every peer before this node replies.
const handlingDeadline = transport.AwaitingTimeout + 2*time.Second

// Server accepts connections on Addr and dispatches each decoded
// message to the consensus Node.
type Server struct {
	Addr string
	Node *consensus.Node
	Log  *zap.Logger
}

func New(addr string, node *consensus.Node, log *zap.Logger) *Server {
	return &Server{Addr: addr, Node: node, Log: log}
}

// Serve accepts connections until ctx is cancelled, spawning one
// goroutine per connection. The accept loop itself follows the
// teacher's two-channel accept/serve shape: a single token in
// `accepting` gates how many Accept() calls are in flight, and accepted
// connections are handed off on `serving` for the select loop to spin
// off into their own goroutine.
func (s *Server) Serve(ctx context.Context) error {
	l, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	defer l.Close()

	s.Node.Start()
	defer s.Node.Shutdown()

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	accepting := make(chan struct{}, 1)
	serving := make(chan net.Conn, 1)
	accepting <- struct{}{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-accepting:
			go func() {
				conn, err := l.Accept()
				if err != nil {
					return
				}
				serving <- conn
			}()
		case conn, ok := <-serving:
			if !ok {
				return nil
			}
			go s.handle(conn)
			accepting <- struct{}{}
		}
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	requestID := xid.New().String()
	log := s.Log.With(zap.String("request_id", requestID), zap.String("peer", conn.RemoteAddr().String()))

	conn.SetDeadline(time.Now().Add(handlingDeadline))

	msg, err := wire.Decode(conn)
	if err != nil {
		log.Warn("failed to decode request", zap.Error(err))
		wire.Encode(conn, wire.Message{Type: wire.TypeError, Reason: err.Error()})
		return
	}

	resp := s.dispatch(log, msg)
	if err := wire.Encode(conn, resp); err != nil {
		log.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) dispatch(log *zap.Logger, msg wire.Message) wire.Message {
	switch msg.Type {
	case wire.TypeRead:
		return s.Node.OnRead(msg)
	case wire.TypeWrite:
		return s.Node.OnWrite(msg)
	case wire.TypePrepare:
		return s.Node.OnPrepare(msg)
	case wire.TypeAcceptRequest:
		return s.Node.OnAcceptRequest(msg)
	case wire.TypeHeartbeat:
		return s.Node.OnHeartbeat(msg)
	default:
		log.Warn("unrecognized message type", zap.String("type", string(msg.Type)))
		return wire.Message{Type: wire.TypeError, Reason: "unrecognized message type"}
	}
}
