package server

import (
	"encoding/json"
	"errors"
	"testing"

	mocks "github.com/cbodonnell/monopoly/mocks/github.com/cbodonnell/monopoly/pkg/queue"
	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.NewGame(game.NewGameOptions{
		Board:   game.StandardBoard(),
		Players: []game.NewPlayerOptions{{Name: "player-1"}, {Name: "player-2"}},
		Seed:    42,
	})
	require.NoError(t, err)
	return g
}

func intentMessage(t *testing.T, intent game.Intent) *messages.Message {
	t.Helper()
	payload, err := json.Marshal(messages.PlayerIntent{Intent: intent})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return &messages.Message{
		ConnectionID: "connection-1",
		Type:         messages.MessageTypePlayerIntent,
		Payload:      payload,
	}
}

func isTask(want game.TurnTask) func(game.TurnTask) bool {
	return func(task game.TurnTask) bool {
		return task == want
	}
}

func TestGameManager_processClientMessages(t *testing.T) {
	mockQueue := mocks.NewQueue(t)

	tests := []struct {
		name     string
		setup    func()
		wantTask func(task game.TurnTask) bool
		wantCast bool
	}{
		{
			name: "cast dice",
			setup: func() {
				mockQueue.EXPECT().ReadAllMessages().Return([]interface{}{
					intentMessage(t, game.Intent{Player: 0, Action: game.ActionCastDice}),
				}, nil).Once()
			},
			wantTask: isTask(game.TaskMovePlayingPiece),
			wantCast: true,
		},
		{
			name: "cast dice and move in one tick",
			setup: func() {
				mockQueue.EXPECT().ReadAllMessages().Return([]interface{}{
					intentMessage(t, game.Intent{Player: 0, Action: game.ActionCastDice}),
					intentMessage(t, game.Intent{Player: 0, Action: game.ActionMovePiece}),
				}, nil).Once()
			},
			wantTask: func(task game.TurnTask) bool {
				return task != game.TaskCastDice && task != game.TaskMovePlayingPiece
			},
			wantCast: true,
		},
		{
			name: "foreign turn",
			setup: func() {
				mockQueue.EXPECT().ReadAllMessages().Return([]interface{}{
					intentMessage(t, game.Intent{Player: 1, Action: game.ActionCastDice}),
				}, nil).Once()
			},
			wantTask: isTask(game.TaskCastDice),
		},
		{
			name: "illegal action",
			setup: func() {
				mockQueue.EXPECT().ReadAllMessages().Return([]interface{}{
					intentMessage(t, game.Intent{Player: 0, Action: game.ActionEndTurn}),
				}, nil).Once()
			},
			wantTask: isTask(game.TaskCastDice),
		},
		{
			name: "no messages",
			setup: func() {
				mockQueue.EXPECT().ReadAllMessages().Return([]interface{}{}, nil).Once()
			},
			wantTask: isTask(game.TaskCastDice),
		},
		{
			name: "unexpected items",
			setup: func() {
				mockQueue.EXPECT().ReadAllMessages().Return([]interface{}{
					"not a message",
					&messages.Message{Type: messages.MessageTypeRequestFullGame},
					&messages.Message{Type: messages.MessageTypePlayerIntent, Payload: []byte("{")},
				}, nil).Once()
			},
			wantTask: isTask(game.TaskCastDice),
		},
		{
			name: "read error",
			setup: func() {
				mockQueue.EXPECT().ReadAllMessages().Return(nil, errors.New("boom")).Once()
			},
			wantTask: isTask(game.TaskCastDice),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			gm := NewGameManager(NewGameManagerOptions{
				Game:        g,
				IntentQueue: mockQueue,
			})
			tt.setup()
			gm.processClientMessages()

			assert.True(t, tt.wantTask(g.NextTask()), "unexpected task %s", g.NextTask())
			cast := g.LastCast()
			assert.Equal(t, tt.wantCast, cast[0] != 0)
		})
	}
}
