package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contexthub-dev/contexthub/db"
	"github.com/contexthub-dev/contexthub/internal/auth"
	"github.com/contexthub-dev/contexthub/internal/handlers"
	"github.com/contexthub-dev/contexthub/internal/rag"
	"github.com/contexthub-dev/contexthub/internal/router"
	"github.com/contexthub-dev/contexthub/internal/session"
	"github.com/contexthub-dev/contexthub/internal/storage"
	"github.com/contexthub-dev/contexthub/internal/teardown"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const sweepInterval = time.Hour

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewProduction()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	defer logger.Sync()

	root := &cobra.Command{
		Use:           "contexthub",
		Short:         "ContextHub API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd(logger), migrateCmd(logger))

	if err := root.Execute(); err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}

func migrateCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := db.Connect(os.Getenv("DATABASE_URL"))

			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}

			if err := db.Migrate(gdb); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}

			logger.Info("migration complete")
			return nil
		},
	}
}

func serveCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.InitJWTSecret(); err != nil {
				return err
			}

			gdb, err := db.Connect(os.Getenv("DATABASE_URL"))

			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}

			avatarDir := os.Getenv("AVATAR_DIR")

			if avatarDir == "" {
				avatarDir = "uploads/avatars"
			}

			avatars, err := storage.NewAvatarStore(avatarDir)

			if err != nil {
				return fmt.Errorf("preparing avatar directory: %w", err)
			}

			ragClient := rag.NewClient(os.Getenv("RAG_SERVICE_URL"), os.Getenv("RAG_SERVICE_API_KEY"))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := ragClient.Ping(ctx); err != nil {
				logger.Warn("retrieval service unreachable at startup", zap.Error(err))
			}

			sessions := session.NewStore(gdb)
			td := teardown.NewService(gdb, avatars, logger)
			h := handlers.New(gdb, sessions, avatars, ragClient, td, logger, os.Getenv("OPS_WEBHOOK_URL"))
			r := router.NewRouter(h, sessions)

			port := os.Getenv("PORT")

			if port == "" {
				port = "3000"
				logger.Info("PORT not set, defaulting to 3000")
			}

			srv := &http.Server{
				Addr:    ":" + port,
				Handler: r,
			}

			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				logger.Info("server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				sessions.Sweep(gctx, sweepInterval, logger)
				return nil
			})

			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}
}
