package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/monopoly/pkg/bot"
	"github.com/cbodonnell/monopoly/pkg/client"
	"github.com/cbodonnell/monopoly/pkg/config"
	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/log"
	"github.com/cbodonnell/monopoly/pkg/network"
	"github.com/cbodonnell/monopoly/pkg/version"
	"golang.org/x/sync/errgroup"
)

func main() {
	envFile := flag.String("env-file", ".env", "env file with MONOPOLY_* settings")
	addr := flag.String("addr", "localhost:8888", "TCP address of the server")
	wsURL := flag.String("ws-url", "", "WebSocket url of the server, used instead of -addr when set")
	logLevel := flag.String("log-level", "", "Log level")
	player := flag.Int("player", -1, "seat to play")
	useBot := flag.Bool("bot", false, "let a bot play -player")
	botReserve := flag.Int64("bot-reserve", 0, "money the bot keeps when buying, 0 never buys")
	statsInterval := flag.Duration("stats-interval", 10*time.Second, "how often replica stats are logged")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, parsedLogLevel)
	log.SetDefaultLogger(logger)
	defer logger.Sync()
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting monopoly client version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var channel network.Channel
	if *wsURL != "" {
		log.Info("Connecting to %s", *wsURL)
		channel, err = network.DialWS(ctx, *wsURL)
	} else {
		log.Info("Connecting to %s", *addr)
		channel, err = network.DialTCP(ctx, *addr)
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to server: %v", err))
	}

	c := client.NewClient(client.NewClientOptions{
		Channel:           channel,
		Listeners:         []game.Listener{game.ListenerFunc(logEvent)},
		QueueSize:         cfg.OutboundQueueSize,
		ResyncTimeout:     cfg.ResyncTimeout,
		MaxResyncAttempts: cfg.ResyncRetries,
		OnConnectionLost: func(err error) {
			if client.IsResyncFailed(err) {
				log.Error("Gave up resynchronizing: %v", err)
			} else {
				log.Error("Connection to server lost: %v", err)
			}
			stop()
		},
	})
	c.Start(ctx)
	defer c.Close()

	readyCtx, cancelReady := context.WithTimeout(ctx, cfg.ResyncTimeout*time.Duration(cfg.ResyncRetries))
	err = c.WaitReady(readyCtx)
	cancelReady()
	if err != nil {
		log.Error("Failed to receive the game: %v", err)
		return
	}
	log.Info("Joined match %s as connection %s", c.MatchID(), c.ConnectionID())

	eg, ctx := errgroup.WithContext(ctx)
	if *useBot {
		if *player < 0 || *player >= c.Game().NPlayers() {
			log.Error("Seat %d does not exist, the match has %d players", *player, c.Game().NPlayers())
			return
		}
		var strategy bot.Strategy = bot.CautiousStrategy{}
		if *botReserve > 0 {
			strategy = bot.ReserveStrategy{Reserve: *botReserve}
		}
		b := bot.NewBot(bot.NewBotOptions{Game: c, Player: *player, Strategy: strategy})
		log.Info("Bot is playing seat %d", *player)
		eg.Go(func() error {
			return b.Start(ctx)
		})
	}
	eg.Go(func() error {
		ticker := time.NewTicker(*statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-c.Done():
				return nil
			case <-ticker.C:
				stats := c.Stats()
				log.Info("Applied %d updates, ignored %d, %d mismatches, %d full games",
					stats.Applied, stats.Ignored, stats.Mismatches, stats.Resyncs)
			}
		}
	})

	if err := eg.Wait(); err != nil {
		log.Error("Client stopped: %v", err)
		return
	}
	log.Info("Client stopped")
}

func logEvent(event game.Event, fingerprint uint64) {
	switch e := event.(type) {
	case game.TurnEndedEvent:
		log.Info("Player %d ended their turn, player %d is next [%016x]", e.Player, e.Turn, fingerprint)
	case game.BankruptEvent:
		log.Info("Player %d is bankrupt [%016x]", e.Player, fingerprint)
	case game.RestoredEvent:
		log.Info("Installed full game [%016x]", fingerprint)
	default:
		log.Debug("%T %+v [%016x]", event, event, fingerprint)
	}
}
