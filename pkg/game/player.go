package game

import "sort"

// PlayingPiece is a player's token on the board.
type PlayingPiece struct {
	Position int    `json:"position"`
	Color    string `json:"color"`
}

// Player is one participant of a match.
type Player struct {
	Name string `json:"name"`
	// Wealth may go negative, which signals bankruptcy
	Wealth int64 `json:"wealth"`
	// InJailRounds is the number of rounds left in jail, 0 when free
	InJailRounds int `json:"inJailRounds"`
	// Possessions holds the indexes of owned buyable fields in acquisition order
	Possessions []int        `json:"possessions"`
	KeptCards   []CardRef    `json:"keptCards"`
	Piece       PlayingPiece `json:"piece"`
}

// InJail reports whether the player has rounds left in jail.
func (p *Player) InJail() bool {
	return p.InJailRounds > 0
}

// Possesses reports whether the player owns the field at index.
func (p *Player) Possesses(field int) bool {
	for _, f := range p.Possessions {
		if f == field {
			return true
		}
	}
	return false
}

// Keeps reports whether the player holds the given card.
func (p *Player) Keeps(ref CardRef) bool {
	for _, c := range p.KeptCards {
		if c == ref {
			return true
		}
	}
	return false
}

func (p *Player) removeKeptCard(ref CardRef) bool {
	for i, c := range p.KeptCards {
		if c == ref {
			p.KeptCards = append(p.KeptCards[:i], p.KeptCards[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Player) removePossession(field int) bool {
	for i, f := range p.Possessions {
		if f == field {
			p.Possessions = append(p.Possessions[:i], p.Possessions[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Player) copy() Player {
	c := *p
	c.Possessions = append([]int{}, p.Possessions...)
	c.KeptCards = append([]CardRef{}, p.KeptCards...)
	return c
}

func (p *Player) sortedPossessions() []int {
	s := append([]int(nil), p.Possessions...)
	sort.Ints(s)
	return s
}

func (p *Player) sortedKeptCards() []CardRef {
	s := append([]CardRef(nil), p.KeptCards...)
	sort.Slice(s, func(i, j int) bool {
		if s[i].Deck != s[j].Deck {
			return s[i].Deck < s[j].Deck
		}
		return s[i].Index < s[j].Index
	})
	return s
}
