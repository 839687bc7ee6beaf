package game

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// digest writes a canonical binary encoding into an xxhash state.
type digest struct {
	h   *xxhash.Digest
	buf [8]byte
}

func newDigest() *digest {
	return &digest{h: xxhash.New()}
}

func (d *digest) int(v int64) {
	binary.LittleEndian.PutUint64(d.buf[:], uint64(v))
	d.h.Write(d.buf[:])
}

func (d *digest) str(s string) {
	d.int(int64(len(s)))
	d.h.WriteString(s)
}

func (d *digest) bool(b bool) {
	if b {
		d.int(1)
	} else {
		d.int(0)
	}
}

func (d *digest) sum() uint64 {
	return d.h.Sum64()
}

// digestBoard hashes the static board once so that fingerprints only need to
// mix in the cached value.
func digestBoard(b *Board) uint64 {
	d := newDigest()
	d.int(int64(len(b.Fields)))
	for _, f := range b.Fields {
		d.str(string(f.Kind))
		d.str(f.Name)
		d.int(f.Price)
		d.int(f.Mortgage)
		d.int(f.HousePrice)
		d.int(int64(len(f.Rents)))
		for _, r := range f.Rents {
			d.int(r)
		}
		d.str(f.Group)
		d.int(f.PassMoney)
		d.int(f.VisitMoney)
		d.int(f.Tax)
	}

	decks := append([]Deck(nil), b.Decks...)
	sort.Slice(decks, func(i, j int) bool { return decks[i].Name < decks[j].Name })
	d.int(int64(len(decks)))
	for _, deck := range decks {
		d.str(deck.Name)
		d.int(int64(len(deck.Cards)))
		for _, c := range deck.Cards {
			d.str(string(c.Kind))
			d.str(c.Text)
			d.int(int64(c.Position))
			d.bool(c.MoveForward)
			d.int(int64(c.Steps))
			d.int(c.Money)
			d.int(c.PerHouse)
			d.int(c.PerHotel)
		}
	}

	d.int(int64(len(b.Groups)))
	for _, g := range b.Groups {
		d.str(g.Name)
		d.str(g.Color)
		d.int(int64(len(g.Fields)))
		for _, f := range g.Fields {
			d.int(int64(f))
		}
	}

	d.int(b.StartMoney)
	d.int(int64(b.MaxHouses))
	d.str(b.CurrencyPrefix)
	d.str(b.CurrencySuffix)
	return d.sum()
}

// fingerprint computes a 64-bit xxhash digest of the full game state: the
// board, the turn index, every player, the published turn state, the house
// register and the draw order of every deck. Equal fingerprints are treated as
// equal states. This is a probabilistic check: distinct states collide with a
// probability of about 2^-64 and the collision is never detected.
func (g *Game) fingerprint() uint64 {
	d := newDigest()
	d.int(int64(g.boardDigest))
	d.int(int64(g.turn))

	d.int(int64(len(g.players)))
	for _, p := range g.players {
		d.str(p.Name)
		d.int(p.Wealth)
		d.int(int64(p.InJailRounds))
		possessions := p.sortedPossessions()
		d.int(int64(len(possessions)))
		for _, f := range possessions {
			d.int(int64(f))
		}
		kept := p.sortedKeptCards()
		d.int(int64(len(kept)))
		for _, c := range kept {
			d.str(c.Deck)
			d.int(int64(c.Index))
		}
		d.int(int64(p.Piece.Position))
		d.str(p.Piece.Color)
	}

	if s := g.published; s != nil {
		d.bool(true)
		d.int(int64(s.Turn))
		d.int(int64(s.LastCast[0]))
		d.int(int64(s.LastCast[1]))
		d.bool(s.Drawn != nil)
		if s.Drawn != nil {
			d.str(s.Drawn.Deck)
			d.int(int64(s.Drawn.Index))
		}
		d.int(int64(s.Task))
	} else {
		d.bool(false)
	}

	fields := g.houses.Fields()
	d.int(int64(len(fields)))
	for _, f := range fields {
		d.int(int64(f))
		d.int(int64(g.houses.Count(f)))
	}

	names := make([]string, 0, len(g.decks))
	for name := range g.decks {
		names = append(names, name)
	}
	sort.Strings(names)
	d.int(int64(len(names)))
	for _, name := range names {
		d.str(name)
		order := g.decks[name].order
		d.int(int64(len(order)))
		for _, i := range order {
			d.int(int64(i))
		}
	}

	return d.sum()
}
