package wire

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	leader := int64(2)
	prop := ProposalNumber{RoundNo: 4, NodeID: 2}

	messages := []Message{
		{Type: TypeRead, Key: "x"},
		{Type: TypeWrite, Key: "x", Value: []byte("hello")},
		{Type: TypePrepare, SenderID: 1, ProposalNumber: &prop, Key: "x"},
		{Type: TypePromise, SenderID: 2, ProposalNumber: &prop},
		{Type: TypePrepareNack, SenderID: 2, ProposalNumber: &prop, LeaderID: &leader, LastHeartbeat: 42},
		{Type: TypeAcceptRequest, SenderID: 1, ProposalNumber: &prop, Key: "x", Value: []byte("hello")},
		{Type: TypeAccepted, SenderID: 2, LeaderID: &leader, Key: "x", Value: []byte("hello")},
		{Type: TypeAcceptNack, SenderID: 2, LeaderID: &leader, LeaderProposalNumber: &prop},
		{Type: TypeWriteNack, Key: "x", Value: []byte("hello")},
		{Type: TypeHeartbeat, SenderID: 2, Heartbeat: 99},
		{Type: TypeError, Reason: "boom"},
	}

	for _, m := range messages {
		var buf bytes.Buffer
		if err := Encode(&buf, m); err != nil {
			t.Fatalf("encode %v: %v", m.Type, err)
		}
		got, err := Decode(&buf)
		if err != nil {
			t.Fatalf("decode %v: %v", m.Type, err)
		}
		if got.Type != m.Type {
			t.Errorf("type mismatch: got %v want %v", got.Type, m.Type)
		}
		if got.Key != m.Key || !bytes.Equal(got.Value, m.Value) {
			t.Errorf("payload mismatch for %v: got %+v want %+v", m.Type, got, m)
		}
	}
}

func TestDecodeRefusesOversizedMessage(t *testing.T) {
	huge := `{"message_type":"WRITE","key":"x","value":"` + strings.Repeat("A", MaxMessageBytes*2) + `"}`
	_, err := Decode(strings.NewReader(huge))
	if err == nil {
		t.Fatal("expected decode to fail on oversized payload")
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	raw := `{"message_type":"READ","key":"x","unexpected_field":123}`
	m, err := Decode(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != TypeRead || m.Key != "x" {
		t.Fatalf("unexpected decode result: %+v", m)
	}
}
