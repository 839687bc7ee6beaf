package messages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// SerializeMessage encodes the message as JSON and compresses it with zstd.
func SerializeMessage(m *Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}

	compressed := bytes.NewBuffer(nil)
	compWriter, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := compWriter.Write(b); err != nil {
		return nil, fmt.Errorf("failed to compress message: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %v", err)
	}

	return compressed.Bytes(), nil
}

func DeserializeMessage(data []byte) (*Message, error) {
	compReader, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderMaxMemory(MaxMessageSize*4))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()
	b, err := io.ReadAll(compReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read decompressed message: %v", err)
	}

	message := &Message{}
	if err := json.Unmarshal(b, message); err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}
	if message.Type == "" {
		return nil, fmt.Errorf("message has no type")
	}

	return message, nil
}

// NewMessage builds a message with the payload encoded as JSON.
func NewMessage(messageType string, fingerprint uint64, payload interface{}) (*Message, error) {
	m := &Message{Type: messageType, Fingerprint: fingerprint}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %v", messageType, err)
		}
		m.Payload = b
	}
	return m, nil
}

// DecodePayload unmarshals the payload of m into v.
func DecodePayload(m *Message, v interface{}) error {
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %v", m.Type, err)
	}
	return nil
}
