package game

// Event is a domain event raised by a mutation of the game.
type Event interface {
	isEvent()
}

// Listener receives events synchronously, while the game is locked, together
// with the fingerprint of the state right after the mutation. Listeners must
// not call back into the Game.
type Listener interface {
	HandleEvent(event Event, fingerprint uint64)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(event Event, fingerprint uint64)

func (f ListenerFunc) HandleEvent(event Event, fingerprint uint64) {
	f(event, fingerprint)
}

type PieceMovedEvent struct {
	Player      int
	OldPosition int
	Position    int
}

type WealthChangedEvent struct {
	Player    int
	OldWealth int64
	Wealth    int64
}

// BankruptEvent is raised when a player's wealth drops below zero.
type BankruptEvent struct {
	Player int
}

type JailChangedEvent struct {
	Player    int
	OldRounds int
	Rounds    int
}

type PropertyObtainedEvent struct {
	Player int
	Field  int
}

type CardKeptEvent struct {
	Player int
	Card   CardRef
}

type CardUsedEvent struct {
	Player int
	Card   CardRef
}

type HouseCountChangedEvent struct {
	Field    int
	OldCount int
	Count    int
}

type CardDrawnEvent struct {
	Deck string
	Card int
}

// TurnStateChangedEvent is raised when the published state of the live turn
// handler changes.
type TurnStateChangedEvent struct {
	State TurnState
}

// TurnEndedEvent is raised after Player ended their turn and Turn became the
// index of the next player.
type TurnEndedEvent struct {
	Player int
	Turn   int
}

// RestoredEvent is raised after the whole state was replaced from a snapshot.
type RestoredEvent struct{}

func (PieceMovedEvent) isEvent()        {}
func (WealthChangedEvent) isEvent()     {}
func (BankruptEvent) isEvent()          {}
func (JailChangedEvent) isEvent()       {}
func (PropertyObtainedEvent) isEvent()  {}
func (CardKeptEvent) isEvent()          {}
func (CardUsedEvent) isEvent()          {}
func (HouseCountChangedEvent) isEvent() {}
func (CardDrawnEvent) isEvent()         {}
func (TurnStateChangedEvent) isEvent()  {}
func (TurnEndedEvent) isEvent()         {}
func (RestoredEvent) isEvent()          {}
