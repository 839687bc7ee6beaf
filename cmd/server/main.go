package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/monopoly/pkg/api"
	"github.com/cbodonnell/monopoly/pkg/bot"
	"github.com/cbodonnell/monopoly/pkg/config"
	"github.com/cbodonnell/monopoly/pkg/game"
	"github.com/cbodonnell/monopoly/pkg/log"
	"github.com/cbodonnell/monopoly/pkg/repositories"
	"github.com/cbodonnell/monopoly/pkg/server"
	"github.com/cbodonnell/monopoly/pkg/version"
	"github.com/cbodonnell/monopoly/pkg/workers"
	"golang.org/x/sync/errgroup"
)

func main() {
	envFile := flag.String("env-file", ".env", "env file with MONOPOLY_* settings")
	tcpPort := flag.Int("tcp-port", 0, "TCP port to listen on, 0 disables")
	wsPort := flag.Int("ws-port", 0, "WebSocket port to listen on, 0 disables")
	apiPort := flag.Int("api-port", 0, "status API port, 0 disables")
	logLevel := flag.String("log-level", "", "Log level")
	players := flag.Int("players", 0, "number of players")
	bots := flag.Int("bots", 0, "number of seats driven by bots, taken from the last seat")
	botReserve := flag.Int64("bot-reserve", 0, "money the bots keep when buying, 0 never buys")
	seed := flag.Uint64("seed", 0, "seed for dice and shuffles, 0 is time based")
	databaseURL := flag.String("database-url", "", "journal database url, \"none\" disables the journal")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tcp-port":
			cfg.TCPPort = *tcpPort
		case "ws-port":
			cfg.WSPort = *wsPort
		case "api-port":
			cfg.APIPort = *apiPort
		case "log-level":
			cfg.LogLevel = *logLevel
		case "players":
			cfg.Players = *players
		case "bots":
			cfg.Bots = *bots
		case "seed":
			cfg.Seed = *seed
		case "database-url":
			cfg.DatabaseURL = *databaseURL
		}
	})
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, parsedLogLevel)
	log.SetDefaultLogger(logger)
	defer logger.Sync()
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting monopoly server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	playerOpts := make([]game.NewPlayerOptions, cfg.Players)
	for i := range playerOpts {
		playerOpts[i] = game.NewPlayerOptions{Name: fmt.Sprintf("player-%d", i+1)}
	}
	g, err := game.NewGame(game.NewGameOptions{
		Board:   game.StandardBoard(),
		Players: playerOpts,
		Seed:    cfg.Seed,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game: %v", err))
	}

	srv := server.NewServer(server.NewServerOptions{
		Game:      g,
		QueueSize: cfg.OutboundQueueSize,
		TCPPort:   cfg.TCPPort,
		WSPort:    cfg.WSPort,
	})
	log.Info("Hosting match %s with %d players", srv.MatchID(), cfg.Players)

	var repository repositories.Repository
	var journalWorker *workers.JournalWorker
	if cfg.DatabaseURL != "" && cfg.DatabaseURL != "none" {
		repository, err = repositories.NewRepository(ctx, cfg.DatabaseURL, cfg.MigrationsDir)
		if err != nil {
			panic(fmt.Sprintf("Failed to create repository: %v", err))
		}
		defer repository.Close(context.Background())

		journalWorker = workers.NewJournalWorker(workers.NewJournalWorkerOptions{
			Repository: repository,
			MatchID:    srv.MatchID(),
		})
		g.AddListener(journalWorker)
	}

	gameManager := server.NewGameManager(server.NewGameManagerOptions{
		Game:        g,
		IntentQueue: srv.IntentQueue(),
	})

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.Start(ctx)
	})
	eg.Go(func() error {
		log.Info("Starting game manager")
		return gameManager.Start(ctx)
	})
	if journalWorker != nil {
		eg.Go(func() error {
			journalWorker.Start(ctx)
			return nil
		})
	}

	var strategy bot.Strategy = bot.CautiousStrategy{}
	if *botReserve > 0 {
		strategy = bot.ReserveStrategy{Reserve: *botReserve}
	}
	for seat := cfg.Players - cfg.Bots; seat < cfg.Players; seat++ {
		b := bot.NewBot(bot.NewBotOptions{Game: g, Player: seat, Strategy: strategy})
		log.Info("Bot is playing seat %d", seat)
		eg.Go(func() error {
			return b.Start(ctx)
		})
	}

	if cfg.APIPort > 0 {
		apiServer := api.NewAPIServer(api.NewAPIServerOptions{
			Port:         cfg.APIPort,
			AllowOrigins: cfg.AllowOrigins,
			MatchID:      srv.MatchID(),
			Game:         g,
			Connections:  srv.Connections(),
			Repository:   repository,
		})
		eg.Go(apiServer.Start)
		eg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return apiServer.Stop(shutdownCtx)
		})
	}

	if err := eg.Wait(); err != nil {
		log.Error("Server stopped: %v", err)
		return
	}
	log.Info("Server stopped")
}
