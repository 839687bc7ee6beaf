package messages

import (
	"encoding/json"

	"github.com/cbodonnell/monopoly/pkg/game"
)

const (
	// MaxMessageSize is the largest encoded message accepted from a channel
	MaxMessageSize = 4 << 20
)

// Message types
const (
	MessageTypeRequestFullGame = "rfg"
	MessageTypePlayerIntent    = "cpi"
	MessageTypeServerHello     = "shl"

	MessageTypePieceMoved        = "upm"
	MessageTypeWealthChanged     = "uwc"
	MessageTypeJailChanged       = "ujc"
	MessageTypePropertyObtained  = "upo"
	MessageTypeCardKept          = "uck"
	MessageTypeCardUsed          = "ucu"
	MessageTypeHouseCountChanged = "uhc"
	MessageTypeCardDrawn         = "ucd"
	MessageTypeTurnStateChanged  = "uts"
	MessageTypeTurnEnded         = "ute"

	MessageTypeFullGameUpdate = "ufg"
)

// Message represents a generic message for serialization/deserialization.
// Fingerprint is only meaningful on update messages, where it is the
// authority's fingerprint right after the mutation.
type Message struct {
	ConnectionID string          `json:"connectionID,omitempty"`
	Type         string          `json:"type"`
	Fingerprint  uint64          `json:"fingerprint,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

// IsUpdate reports whether the message carries a state update.
func (m *Message) IsUpdate() bool {
	return IsDelta(m.Type) || m.Type == MessageTypeFullGameUpdate
}

// IsDelta reports whether t is one of the minimal delta update types.
func IsDelta(t string) bool {
	switch t {
	case MessageTypePieceMoved,
		MessageTypeWealthChanged,
		MessageTypeJailChanged,
		MessageTypePropertyObtained,
		MessageTypeCardKept,
		MessageTypeCardUsed,
		MessageTypeHouseCountChanged,
		MessageTypeCardDrawn,
		MessageTypeTurnStateChanged,
		MessageTypeTurnEnded:
		return true
	default:
		return false
	}
}

// ServerHello is the first message the server sends on a new connection.
type ServerHello struct {
	ConnectionID string `json:"connectionID"`
	MatchID      string `json:"matchID"`
}

// PlayerIntent asks the authority to run one turn command.
type PlayerIntent struct {
	Intent game.Intent `json:"intent"`
}

type PieceMoved struct {
	Player   int `json:"player"`
	Position int `json:"position"`
}

type WealthChanged struct {
	Player int   `json:"player"`
	Wealth int64 `json:"wealth"`
}

type JailChanged struct {
	Player int `json:"player"`
	Rounds int `json:"rounds"`
}

type PropertyObtained struct {
	Player int `json:"player"`
	Field  int `json:"field"`
}

type CardKept struct {
	Player int    `json:"player"`
	Deck   string `json:"deck"`
	Card   int    `json:"card"`
}

type CardUsed struct {
	Player int    `json:"player"`
	Deck   string `json:"deck"`
	Card   int    `json:"card"`
}

type HouseCountChanged struct {
	Field int `json:"field"`
	Count int `json:"count"`
}

// CardDrawn rotates the named deck once on the receiver.
type CardDrawn struct {
	Deck string `json:"deck"`
}

type TurnStateChanged struct {
	TurnState game.TurnState `json:"turnState"`
}

type TurnEnded struct {
	Player int `json:"player"`
	Turn   int `json:"turn"`
}

// FullGameUpdate carries the entire game state.
type FullGameUpdate struct {
	Snapshot *game.Snapshot `json:"snapshot"`
}
