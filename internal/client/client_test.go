package client

import (
	"net"
	"testing"

	"github.com/roxel/multi-paxos/internal/wire"
)

// fakePeer serves one canned response to every connection it accepts,
// until closed.
func fakePeer(t *testing.T, respond func(req wire.Message) wire.Message) (addr string, close func()) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				req, err := wire.Decode(conn)
				if err != nil {
					return
				}
				wire.Encode(conn, respond(req))
			}()
		}
	}()
	return l.Addr().String(), func() { l.Close() }
}

func TestReadReturnsQuorumAgreedValue(t *testing.T) {
	respond := func(req wire.Message) wire.Message {
		return wire.Message{Type: wire.TypeAccepted, Value: []byte("v1")}
	}
	a1, c1 := fakePeer(t, respond)
	defer c1()
	a2, c2 := fakePeer(t, respond)
	defer c2()
	a3, c3 := fakePeer(t, respond)
	defer c3()

	c := New([]string{a1, a2, a3})
	value, err := c.Read("k")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(value) != "v1" {
		t.Fatalf("expected v1, got %q", value)
	}
}

func TestReadFailsWithoutQuorumAgreement(t *testing.T) {
	a1, c1 := fakePeer(t, func(req wire.Message) wire.Message {
		return wire.Message{Type: wire.TypeAccepted, Value: []byte("v1")}
	})
	defer c1()
	a2, c2 := fakePeer(t, func(req wire.Message) wire.Message {
		return wire.Message{Type: wire.TypeAccepted, Value: []byte("v2")}
	})
	defer c2()
	a3, c3 := fakePeer(t, func(req wire.Message) wire.Message {
		return wire.Message{Type: wire.TypeAccepted, Value: []byte("v3")}
	})
	defer c3()

	c := New([]string{a1, a2, a3})
	c.Retries = 1
	if _, err := c.Read("k"); err == nil {
		t.Fatal("expected read to fail without quorum agreement")
	}
}

func TestFindLeaderAdoptsQuorumAgreedLeader(t *testing.T) {
	leader := int64(1)
	respond := func(req wire.Message) wire.Message {
		return wire.Message{Type: wire.TypeAccepted, LeaderID: &leader}
	}
	a0, c0 := fakePeer(t, respond)
	defer c0()
	a1, c1 := fakePeer(t, respond)
	defer c1()
	a2, c2 := fakePeer(t, respond)
	defer c2()

	c := New([]string{a0, a1, a2})
	if err := c.FindLeader(); err != nil {
		t.Fatalf("find leader: %v", err)
	}
	if c.leader != a1 {
		t.Fatalf("expected leader address %s, got %s", a1, c.leader)
	}
}

func TestWriteRetriesOnNack(t *testing.T) {
	leader := int64(0)
	attempts := 0
	a0, c0 := fakePeer(t, func(req wire.Message) wire.Message {
		if req.Type == wire.TypeWrite {
			attempts++
			if attempts == 1 {
				return wire.Message{Type: wire.TypeWriteNack}
			}
			return wire.Message{Type: wire.TypeAccepted}
		}
		return wire.Message{Type: wire.TypeAccepted, LeaderID: &leader}
	})
	defer c0()

	c := New([]string{a0})
	c.QuorumSize = 1
	if err := c.Write("k", []byte("v")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if attempts < 2 {
		t.Fatalf("expected at least one retry after a NACK, got %d attempts", attempts)
	}
}
