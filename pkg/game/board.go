package game

import (
	"fmt"

	"github.com/cbodonnell/monopoly/pkg/game/constants"
)

// Board is the static layout of a match. It is never mutated once a Game owns it.
type Board struct {
	Fields         []Field         `json:"fields"`
	Decks          []Deck          `json:"decks"`
	Groups         []MonopolyGroup `json:"groups"`
	StartMoney     int64           `json:"startMoney"`
	MaxHouses      int             `json:"maxHouses"`
	CurrencyPrefix string          `json:"currencyPrefix,omitempty"`
	CurrencySuffix string          `json:"currencySuffix,omitempty"`
}

// Len returns the number of fields on the board.
func (b *Board) Len() int {
	return len(b.Fields)
}

// FlankLength returns the number of fields on each edge.
func (b *Board) FlankLength() int {
	return len(b.Fields) / constants.Flanks
}

// Field returns the field at index i.
func (b *Board) Field(i int) (Field, bool) {
	if i < 0 || i >= len(b.Fields) {
		return Field{}, false
	}
	return b.Fields[i], true
}

// Deck returns the deck definition with the given name.
func (b *Board) Deck(name string) (*Deck, bool) {
	for i := range b.Decks {
		if b.Decks[i].Name == name {
			return &b.Decks[i], true
		}
	}
	return nil, false
}

// Card resolves a card reference.
func (b *Board) Card(ref CardRef) (Card, bool) {
	deck, ok := b.Deck(ref.Deck)
	if !ok || ref.Index < 0 || ref.Index >= len(deck.Cards) {
		return Card{}, false
	}
	return deck.Cards[ref.Index], true
}

// Group returns the monopoly group with the given name.
func (b *Board) Group(name string) (*MonopolyGroup, bool) {
	for i := range b.Groups {
		if b.Groups[i].Name == name {
			return &b.Groups[i], true
		}
	}
	return nil, false
}

// JailIndex returns the index of the first jail field.
func (b *Board) JailIndex() (int, bool) {
	for i, f := range b.Fields {
		if f.Kind == FieldKindJail {
			return i, true
		}
	}
	return 0, false
}

// NextIndexOfKind scans forward from position, wrapping around, and returns
// the index of the next field of the given kind. It returns position when no
// other field of that kind exists.
func (b *Board) NextIndexOfKind(position int, kind FieldKind) int {
	n := len(b.Fields)
	for cursor := (position + 1) % n; cursor != position; cursor = (cursor + 1) % n {
		if b.Fields[cursor].Kind == kind {
			return cursor
		}
	}
	return position
}

// CurrencyText formats an amount with the board's currency.
func (b *Board) CurrencyText(amount int64) string {
	return fmt.Sprintf("%s%d%s", b.CurrencyPrefix, amount, b.CurrencySuffix)
}

// Validate checks that the board is internally consistent.
func (b *Board) Validate() error {
	if len(b.Fields) == 0 || len(b.Fields)%constants.Flanks != 0 {
		return fmt.Errorf("board length %d is not a positive multiple of %d", len(b.Fields), constants.Flanks)
	}
	if b.MaxHouses < 1 {
		return fmt.Errorf("max houses must be positive, got %d", b.MaxHouses)
	}

	seen := make(map[string]bool, len(b.Decks))
	needsJail := false
	for _, deck := range b.Decks {
		if seen[deck.Name] {
			return fmt.Errorf("duplicate deck %q", deck.Name)
		}
		seen[deck.Name] = true
		if len(deck.Cards) == 0 {
			return fmt.Errorf("deck %q is empty", deck.Name)
		}
		for _, card := range deck.Cards {
			switch card.Kind {
			case CardKindGoToJail:
				needsJail = true
			case CardKindAdvanceTo:
				if card.Position < 0 || card.Position >= len(b.Fields) {
					return fmt.Errorf("card %q in deck %q advances to invalid position %d", card.Text, deck.Name, card.Position)
				}
			}
		}
	}

	for i, f := range b.Fields {
		switch f.Kind {
		case FieldKindProperty:
			if _, ok := b.Group(f.Group); !ok {
				return fmt.Errorf("field %d (%s) references unknown group %q", i, f.Name, f.Group)
			}
			if len(f.Rents) != b.MaxHouses+1 {
				return fmt.Errorf("field %d (%s) has %d rents, want %d", i, f.Name, len(f.Rents), b.MaxHouses+1)
			}
		case FieldKindRailroad, FieldKindCompany:
			if len(f.Rents) == 0 {
				return fmt.Errorf("field %d (%s) has no rent schedule", i, f.Name)
			}
		case FieldKindDrawCard:
			if !seen[f.Name] {
				return fmt.Errorf("field %d references unknown deck %q", i, f.Name)
			}
		case FieldKindGoToJail:
			needsJail = true
		}
	}

	for _, group := range b.Groups {
		for _, i := range group.Fields {
			f, ok := b.Field(i)
			if !ok || f.Kind != FieldKindProperty || f.Group != group.Name {
				return fmt.Errorf("group %q lists field %d which is not one of its properties", group.Name, i)
			}
		}
	}

	if _, ok := b.JailIndex(); needsJail && !ok {
		return fmt.Errorf("board sends players to jail but has no jail field")
	}

	return nil
}

func (b *Board) copy() *Board {
	c := &Board{
		Fields:         make([]Field, len(b.Fields)),
		Decks:          make([]Deck, len(b.Decks)),
		Groups:         make([]MonopolyGroup, len(b.Groups)),
		StartMoney:     b.StartMoney,
		MaxHouses:      b.MaxHouses,
		CurrencyPrefix: b.CurrencyPrefix,
		CurrencySuffix: b.CurrencySuffix,
	}
	for i, f := range b.Fields {
		c.Fields[i] = f.copy()
	}
	for i, d := range b.Decks {
		c.Decks[i] = Deck{Name: d.Name, Cards: append([]Card(nil), d.Cards...)}
	}
	for i, g := range b.Groups {
		c.Groups[i] = MonopolyGroup{Name: g.Name, Color: g.Color, Fields: append([]int(nil), g.Fields...)}
	}
	return c
}
