package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joestump/superheroes/internal/api"
	"github.com/joestump/superheroes/internal/config"
	"github.com/joestump/superheroes/internal/confirm"
	"github.com/joestump/superheroes/internal/datasource"
	"github.com/joestump/superheroes/internal/db"
	"github.com/joestump/superheroes/internal/handler"
	"github.com/joestump/superheroes/internal/loading"
	"github.com/joestump/superheroes/internal/logging"
	"github.com/joestump/superheroes/internal/notify"
	"github.com/joestump/superheroes/internal/store"
	"github.com/joestump/superheroes/internal/welcome"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, err := logging.New(cfg.Log.Level, cfg.Log.Dev)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			var database *sqlx.DB
			if cfg.DB.Driver != "" {
				database, err = db.New(cfg.DB.Driver, cfg.DB.DSN)
				if err != nil {
					return err
				}
				defer func() { _ = database.Close() }()

				if err := db.Migrate(database, cfg.DB.Driver); err != nil {
					return err
				}
			}

			tracker := loading.NewTracker()
			src, err := datasource.Open(datasource.Options{
				Kind:      cfg.DataSource.Kind,
				Latency:   cfg.DataSource.Latency,
				Roster:    cfg.Roster,
				DB:        database,
				BaseURL:   cfg.DataSource.BaseURL,
				Timeout:   cfg.DataSource.Timeout,
				Transport: loading.NewTransport(http.DefaultTransport, tracker, 0),
				Logger:    log,
			})
			if err != nil {
				return err
			}

			hub := notify.NewHub(cfg.NotifyDuration)
			heroStore := store.New(src, store.WithNotifier(hub), store.WithLogger(log))
			broker := confirm.NewBroker(cfg.ConfirmTTL)
			sessions := welcome.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime)

			srv := &server{
				http: &http.Server{
					Handler: handler.NewRouter(api.Deps{
						Store:    heroStore,
						Confirm:  broker,
						Hub:      hub,
						Loading:  tracker,
						Sessions: sessions,
						Logger:   log,
					}),
					ReadHeaderTimeout: 10 * time.Second,
				},
				store:  heroStore,
				hub:    hub,
				broker: broker,
				log:    log.With(zap.String("datasource", cfg.DataSource.Kind)),
			}

			ln, err := net.Listen("tcp", cfg.HTTP.Addr)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.run(ctx, ln)
		},
	}
}

// server ties the HTTP server to the store it exposes and the background
// workers that live as long as it does.
type server struct {
	http   *http.Server
	store  *store.Store
	hub    *notify.Hub
	broker *confirm.Broker
	log    *zap.Logger
}

// run loads the roster, then serves on ln until ctx is done. Connections
// accepted by ln wait in its backlog until the roster is in place, so no
// request can touch the collection before the initial load replaces it.
func (s *server) run(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	notes, unsubscribe := s.hub.Subscribe(64)
	defer unsubscribe()
	g.Go(func() error {
		runNotificationLog(notes, notify.NewLogNotifier(s.log))
		return nil
	})

	// A failed load leaves the error in the store; the server keeps running.
	if err := s.store.LoadInitial(ctx); err != nil {
		s.log.Error("initial load failed", zap.Error(err))
	} else {
		s.log.Info("roster loaded", zap.Int("heroes", s.store.HeroCount()))
	}

	g.Go(func() error {
		return s.broker.Run(ctx, sweepInterval)
	})

	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down")
		s.store.SetIdle()
		// Closing the hub ends the streaming handlers so Shutdown can finish.
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// runNotificationLog hands every notification to sink until the
// subscription closes.
func runNotificationLog(notes <-chan notify.Notification, sink notify.Notifier) {
	for n := range notes {
		sink.Notify(n)
	}
}
