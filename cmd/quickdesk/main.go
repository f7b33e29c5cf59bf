package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/ShivamHirwani/quick-desk/internal/api"
	"github.com/ShivamHirwani/quick-desk/internal/config"
	"github.com/ShivamHirwani/quick-desk/internal/database"
	"github.com/ShivamHirwani/quick-desk/internal/logger"
	"github.com/ShivamHirwani/quick-desk/internal/repository"
	"github.com/ShivamHirwani/quick-desk/internal/runner"
	"github.com/ShivamHirwani/quick-desk/internal/session"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "quickdesk",
	Short: "QuickDesk - helpdesk ticketing service",
	Long: `QuickDesk is a role-gated helpdesk: users file support tickets,
agents and admins triage, assign, comment and resolve them, and admins
manage the accounts.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

var autocloseCmd = &cobra.Command{
	Use:   "autoclose",
	Short: "Close stale resolved tickets once and exit",
	RunE:  runAutoclose,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yaml")
	rootCmd.AddCommand(serveCmd, migrateCmd, autocloseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, error) {
	if err := config.Load(configPath); err != nil {
		return nil, err
	}
	cfg := config.Get()
	if _, err := logger.Init(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	config.OnReload(func(c *config.Config) {
		logger.SetLevel(logger.ParseLevel(c.Logging.Level))
	})
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret is required")
	}

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	var sessions session.Store
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetRedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(cmd.Context()).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		sessions = session.NewRedisStore(client, cfg.Redis.Session.Prefix)
	} else {
		sessions = session.NewMemoryStore()
	}

	router := api.NewRouter(db, cfg, sessions)
	router.SetupRoutes()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AutoClose.Enabled {
		tasks := runner.New()
		tasks.Register(runner.NewAutoCloseTask(
			repository.NewTicketRepository(db),
			cfg.AutoClose.Schedule,
			cfg.AutoClose.After,
		))
		if err := tasks.Start(ctx); err != nil {
			return err
		}
		defer tasks.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database.Driver); err != nil {
		return err
	}
	slog.Info("migrations applied")
	return nil
}

func runAutoclose(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	task := runner.NewAutoCloseTask(repository.NewTicketRepository(db), cfg.AutoClose.Schedule, cfg.AutoClose.After)
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()
	return task.Run(ctx)
}
