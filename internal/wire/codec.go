package wire

import (
	"encoding/json"
	"fmt"
	"io"
)

// MaxMessageBytes bounds a single wire message; Decode refuses to read
// past it so a misbehaving peer can't hold a connection open streaming
// an unbounded payload.
const MaxMessageBytes = 1024

func Encode(w io.Writer, m Message) error {
	if err := json.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return nil
}

func Decode(r io.Reader) (Message, error) {
	var m Message
	dec := json.NewDecoder(io.LimitReader(r, MaxMessageBytes))
	if err := dec.Decode(&m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	return m, nil
}
