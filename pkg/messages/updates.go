package messages

import (
	"fmt"

	"github.com/cbodonnell/monopoly/pkg/game"
)

// NewUpdateFromEvent builds the delta update for a game event, stamped with
// the fingerprint the event was raised with. Events without a delta, such as
// BankruptEvent, return a nil message.
func NewUpdateFromEvent(event game.Event, fingerprint uint64) (*Message, error) {
	switch e := event.(type) {
	case game.PieceMovedEvent:
		return NewMessage(MessageTypePieceMoved, fingerprint, PieceMoved{Player: e.Player, Position: e.Position})
	case game.WealthChangedEvent:
		return NewMessage(MessageTypeWealthChanged, fingerprint, WealthChanged{Player: e.Player, Wealth: e.Wealth})
	case game.JailChangedEvent:
		return NewMessage(MessageTypeJailChanged, fingerprint, JailChanged{Player: e.Player, Rounds: e.Rounds})
	case game.PropertyObtainedEvent:
		return NewMessage(MessageTypePropertyObtained, fingerprint, PropertyObtained{Player: e.Player, Field: e.Field})
	case game.CardKeptEvent:
		return NewMessage(MessageTypeCardKept, fingerprint, CardKept{Player: e.Player, Deck: e.Card.Deck, Card: e.Card.Index})
	case game.CardUsedEvent:
		return NewMessage(MessageTypeCardUsed, fingerprint, CardUsed{Player: e.Player, Deck: e.Card.Deck, Card: e.Card.Index})
	case game.HouseCountChangedEvent:
		return NewMessage(MessageTypeHouseCountChanged, fingerprint, HouseCountChanged{Field: e.Field, Count: e.Count})
	case game.CardDrawnEvent:
		return NewMessage(MessageTypeCardDrawn, fingerprint, CardDrawn{Deck: e.Deck})
	case game.TurnStateChangedEvent:
		return NewMessage(MessageTypeTurnStateChanged, fingerprint, TurnStateChanged{TurnState: e.State})
	case game.TurnEndedEvent:
		return NewMessage(MessageTypeTurnEnded, fingerprint, TurnEnded{Player: e.Player, Turn: e.Turn})
	default:
		return nil, nil
	}
}

func NewFullGameUpdate(s *game.Snapshot, fingerprint uint64) (*Message, error) {
	return NewMessage(MessageTypeFullGameUpdate, fingerprint, FullGameUpdate{Snapshot: s})
}

func NewRequestFullGame() *Message {
	return &Message{Type: MessageTypeRequestFullGame}
}

func NewPlayerIntent(intent game.Intent) (*Message, error) {
	return NewMessage(MessageTypePlayerIntent, 0, PlayerIntent{Intent: intent})
}

// ApplyUpdate applies a delta or full update to the game. Deltas are
// assignments; a full update replaces the whole state. Errors satisfying
// game.IsInvalidUpdate mean the payload referenced state the game cannot
// satisfy; other errors mean the payload could not be decoded.
func ApplyUpdate(g *game.Game, m *Message) error {
	switch m.Type {
	case MessageTypePieceMoved:
		var u PieceMoved
		if err := DecodePayload(m, &u); err != nil {
			return err
		}
		return g.ApplyPieceMoved(u.Player, u.Position)
	case MessageTypeWealthChanged:
		var u WealthChanged
		if err := DecodePayload(m, &u); err != nil {
			return err
		}
		return g.ApplyWealthChanged(u.Player, u.Wealth)
	case MessageTypeJailChanged:
		var u JailChanged
		if err := DecodePayload(m, &u); err != nil {
			return err
		}
		return g.ApplyJailChanged(u.Player, u.Rounds)
	case MessageTypePropertyObtained:
		var u PropertyObtained
		if err := DecodePayload(m, &u); err != nil {
			return err
		}
		return g.ApplyPropertyObtained(u.Player, u.Field)
	case MessageTypeCardKept:
		var u CardKept
		if err := DecodePayload(m, &u); err != nil {
			return err
		}
		return g.ApplyCardKept(u.Player, game.CardRef{Deck: u.Deck, Index: u.Card})
	case MessageTypeCardUsed:
		var u CardUsed
		if err := DecodePayload(m, &u); err != nil {
			return err
		}
		return g.ApplyCardUsed(u.Player, game.CardRef{Deck: u.Deck, Index: u.Card})
	case MessageTypeHouseCountChanged:
		var u HouseCountChanged
		if err := DecodePayload(m, &u); err != nil {
			return err
		}
		return g.ApplyHouseCountChanged(u.Field, u.Count)
	case MessageTypeCardDrawn:
		var u CardDrawn
		if err := DecodePayload(m, &u); err != nil {
			return err
		}
		return g.ApplyCardDrawn(u.Deck)
	case MessageTypeTurnStateChanged:
		var u TurnStateChanged
		if err := DecodePayload(m, &u); err != nil {
			return err
		}
		return g.ApplyTurnStateChanged(u.TurnState)
	case MessageTypeTurnEnded:
		var u TurnEnded
		if err := DecodePayload(m, &u); err != nil {
			return err
		}
		return g.ApplyTurnEnded(u.Player, u.Turn)
	case MessageTypeFullGameUpdate:
		s, err := DecodeFullGame(m)
		if err != nil {
			return err
		}
		return g.Restore(s)
	default:
		return fmt.Errorf("message type %s is not an update", m.Type)
	}
}

// DecodeFullGame extracts the snapshot of a full game update.
func DecodeFullGame(m *Message) (*game.Snapshot, error) {
	var u FullGameUpdate
	if err := DecodePayload(m, &u); err != nil {
		return nil, err
	}
	if u.Snapshot == nil {
		return nil, fmt.Errorf("full game update has no snapshot")
	}
	return u.Snapshot, nil
}
