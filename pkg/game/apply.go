package game

// The Apply methods install the outcome of a replicated delta. They are
// assignments, not commands: applying one never consults the turn state or
// the random source. Each raises the same event the authority raised, so
// local listeners observe a replica like they observe the authority.

func (g *Game) checkPlayer(player int) error {
	if player < 0 || player >= len(g.players) {
		return invalidUpdate("player %d does not exist", player)
	}
	return nil
}

func (g *Game) ApplyPieceMoved(player int, position int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkPlayer(player); err != nil {
		return err
	}
	if position < 0 || position >= g.board.Len() {
		return invalidUpdate("position %d is off the board", position)
	}
	g.setPosition(player, position)
	return nil
}

func (g *Game) ApplyWealthChanged(player int, wealth int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkPlayer(player); err != nil {
		return err
	}
	g.setWealth(player, wealth)
	return nil
}

func (g *Game) ApplyJailChanged(player int, rounds int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkPlayer(player); err != nil {
		return err
	}
	if rounds < 0 {
		return invalidUpdate("negative jail rounds %d", rounds)
	}
	g.setJailRounds(player, rounds)
	return nil
}

func (g *Game) ApplyPropertyObtained(player int, field int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkPlayer(player); err != nil {
		return err
	}
	f, ok := g.board.Field(field)
	if !ok || !f.Buyable() {
		return invalidUpdate("field %d is not buyable", field)
	}
	g.addPossession(player, field)
	return nil
}

func (g *Game) ApplyCardKept(player int, ref CardRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkPlayer(player); err != nil {
		return err
	}
	card, ok := g.board.Card(ref)
	if !ok || !card.Keepable() {
		return invalidUpdate("card %s/%d is not keepable", ref.Deck, ref.Index)
	}
	g.keepCard(player, ref)
	return nil
}

func (g *Game) ApplyCardUsed(player int, ref CardRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkPlayer(player); err != nil {
		return err
	}
	if !g.players[player].Keeps(ref) {
		return invalidUpdate("player %d does not keep card %s/%d", player, ref.Deck, ref.Index)
	}
	g.useCard(player, ref)
	return nil
}

func (g *Game) ApplyHouseCountChanged(field int, count int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	f, ok := g.board.Field(field)
	if !ok || f.Kind != FieldKindProperty {
		return invalidUpdate("field %d is not a property", field)
	}
	if count < 0 || count > g.board.MaxHouses {
		return invalidUpdate("house count %d out of range", count)
	}
	g.setHouses(field, count)
	return nil
}

// ApplyCardDrawn rotates the named deck once.
func (g *Game) ApplyCardDrawn(deck string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, _, ok := g.drawFrom(deck); !ok {
		return invalidUpdate("deck %q does not exist", deck)
	}
	return nil
}

// ApplyTurnStateChanged installs the turn handler state.
func (g *Game) ApplyTurnStateChanged(s TurnState) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkPlayer(s.Turn); err != nil {
		return err
	}
	if !s.Task.valid() {
		return invalidUpdate("unknown task %d", s.Task)
	}
	if s.Drawn != nil {
		if _, ok := g.board.Card(*s.Drawn); !ok {
			return invalidUpdate("drawn card %s/%d does not exist", s.Drawn.Deck, s.Drawn.Index)
		}
	}
	s = s.copy()
	g.handler = &turnHandler{turn: s.Turn, lastCast: s.LastCast, drawn: s.Drawn, task: s.Task}
	g.publish()
	return nil
}

// ApplyTurnEnded hands the turn to the given player and drops the handler.
func (g *Game) ApplyTurnEnded(player int, turn int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkPlayer(player); err != nil {
		return err
	}
	if err := g.checkPlayer(turn); err != nil {
		return err
	}
	g.turn = turn
	g.handler = nil
	g.published = nil
	g.fire(TurnEndedEvent{Player: player, Turn: turn})
	return nil
}
