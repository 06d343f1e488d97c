package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"trend-story-api/config"
	"trend-story-api/database"
	"trend-story-api/handlers"
	"trend-story-api/logger"
	"trend-story-api/reposync"
	"trend-story-api/services"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	configPath string
	dbPath     string
	noSync     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "trend-story-api",
		Short:         "Read-only HTTP API over the daily trend stories dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(opts)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, log)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (default ./config.*)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to the SQLite dataset, overrides store.path")
	root.Flags().BoolVar(&opts.noSync, "no-sync", false, "disable the periodic dataset sync")

	root.AddCommand(newSyncCmd(opts), newDatesCmd(opts))
	return root
}

func newSyncCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Clone or pull the dataset repository once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(opts)
			if err != nil {
				return err
			}
			if err := reposync.New(cfg.Sync, log).SyncOnce(cmd.Context()); err != nil {
				log.WithError(err).Error("Dataset sync failed")
				return err
			}
			log.Info("Dataset sync completed")
			return nil
		},
	}
}

func newDatesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dates",
		Short: "Print the day index as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(opts)
			if err != nil {
				return err
			}
			store := database.NewStore(cfg.Store.Path, log)
			dates, err := services.NewNewsService(store, cfg.API).AllDates(cmd.Context())
			if err != nil {
				log.WithError(err).Error("Failed to list dates")
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dates)
		},
	}
}

func setup(opts *options) (*config.Config, *logrus.Entry, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		return nil, nil, err
	}
	if opts.dbPath != "" {
		cfg.Store.Path = opts.dbPath
	}
	if opts.noSync {
		cfg.Sync.Enabled = false
	}
	return cfg, logger.New("trend-story-api", cfg.Log.Level), nil
}

func serve(parent context.Context, cfg *config.Config, log *logrus.Entry) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	gin.SetMode(cfg.Server.Mode)

	store := database.NewStore(cfg.Store.Path, log)
	news := services.NewNewsService(store, cfg.API)
	router := handlers.NewRouter(cfg, news, store, log)

	if cfg.Sync.Enabled {
		go reposync.New(cfg.Sync, log.WithField("component", "reposync")).Run(ctx, cfg.Sync.Interval)
	} else {
		log.Info("Dataset sync disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":  cfg.Server.Addr,
			"store": store.Path(),
		}).Info("Starting trend story API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			log.WithError(err).Error("Server failed")
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
		return err
	}
	log.Info("Server stopped")
	return nil
}
