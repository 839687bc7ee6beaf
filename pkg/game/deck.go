package game

// ShuffledDeck is a cyclic queue over the cards of one deck. Drawing takes the
// top card and puts it back under the bottom, so cards are recycled rather
// than consumed.
type ShuffledDeck struct {
	name  string
	order []int
}

// NewShuffledDeck creates a deck of n cards in definition order. A nil
// shuffle leaves the order untouched.
func NewShuffledDeck(name string, n int, shuffle func(n int, swap func(i, j int))) *ShuffledDeck {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if shuffle != nil {
		shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	return &ShuffledDeck{name: name, order: order}
}

// Name returns the deck name.
func (d *ShuffledDeck) Name() string {
	return d.name
}

// Len returns the number of cards in the deck.
func (d *ShuffledDeck) Len() int {
	return len(d.order)
}

// Peek returns the index of the top card without drawing it.
func (d *ShuffledDeck) Peek() (int, bool) {
	if len(d.order) == 0 {
		return 0, false
	}
	return d.order[0], true
}

// Draw returns the top card index and moves it under the bottom.
func (d *ShuffledDeck) Draw() (int, bool) {
	if len(d.order) == 0 {
		return 0, false
	}
	top := d.order[0]
	copy(d.order, d.order[1:])
	d.order[len(d.order)-1] = top
	return top, true
}

// Order returns a copy of the current draw order.
func (d *ShuffledDeck) Order() []int {
	return append([]int(nil), d.order...)
}
