package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/pflag"
)

const (
	shutdownTimeout = 5 * time.Second
	tuiLogFile      = "siege.log"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "siege:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	// The terminal belongs to the radar, so logs go to a file instead
	var logOut io.Writer = os.Stderr
	if cfg.TUI {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	log := NewLogger(logOut, cfg.LogLevel, cfg.LogPretty && !cfg.TUI)

	tables, err := LoadTables(cfg.ShipsFile)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	world := NewWorld(cfg.Match, tables, rand.New(rand.NewSource(seed)))
	log.Info().
		Int64("seed", seed).
		Int("ships", cfg.Match.Ships).
		Int("planets", cfg.Match.Planets).
		Str("player", cfg.Match.PlayerKind.String()).
		Msg("world created")

	var db *DB
	var analytics *Analytics
	if cfg.DBPath != "" {
		db, err = OpenDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		analytics = NewAnalytics(db, log)
		defer analytics.Stop()
		log.Info().Str("path", cfg.DBPath).Msg("database opened")
	}

	pairing, err := NewPairing(cfg.Pairing.Secret, cfg.Pairing.PublicURL, db)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	game := NewGame(world, cfg.FPS, log, db, analytics)
	go game.Run(ctx)

	var server *http.Server
	if cfg.Addr != "" {
		hub := NewHub(game, pairing, log)
		go hub.Run(ctx)

		server = &http.Server{Addr: cfg.Addr, Handler: SetupRoutes(hub, db)}
		go func() {
			log.Info().Str("addr", cfg.Addr).Msg("server starting")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("listen")
				stop()
			}
		}()

		token, err := pairing.Issue()
		if err != nil {
			return err
		}
		log.Info().Str("url", pairing.URL(token)).Msg("open this URL, or /pair.png from this host, to pilot")
	}

	if cfg.TUI {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init screen: %w", err)
		}
		// Run returns when the user quits
		NewTUI(screen, game, log).Run(ctx)
		stop()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}
	return nil
}
