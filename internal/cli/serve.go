package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lodgehall/internal/config"
	"lodgehall/internal/handler"
	"lodgehall/internal/model"
	"lodgehall/internal/repository"
	"lodgehall/internal/service"
	"lodgehall/pkg/crypto"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()
		return serve(cfg, logger)
	},
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	// 1. Connect to the database
	db, err := config.NewDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	logger.Info("database connected", zap.String("driver", cfg.Database.Driver))

	// 2. Auto-migrate if enabled
	if cfg.Database.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		logger.Info("database migration completed")
	}

	// 3. Token cache (Redis or in-memory)
	var tokenCache repository.TokenCache
	switch cfg.State.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
		tokenCache = repository.NewRedisTokenCache(redisClient)
		logger.Info("using Redis token cache")
	default:
		tokenCache = repository.NewMemoryTokenCache()
		logger.Info("using in-memory token cache")
	}

	// 4. Repositories
	userRepo := repository.NewPGUserRepository(db)
	tokenRepo := repository.NewPGTokenRepository(db)
	lodgeRepo := repository.NewPGLodgeRepository(db)
	cabinRepo := repository.NewPGCabinRepository(db)
	messageRepo := repository.NewPGMessageRepository(db)

	// 5. Services
	tokenService := service.NewTokenService(
		tokenRepo, userRepo, tokenCache,
		cfg.State.TokenCacheTTL, cfg.Security.TokenLength, logger,
	)
	userService := service.NewUserService(userRepo, tokenService, service.PasswordPolicy{
		MinEntropy: cfg.Security.MinPasswordEntropy,
		Argon2: crypto.Argon2Params{
			Time:      cfg.Security.Argon2Time,
			MemoryKiB: cfg.Security.Argon2MemoryKiB,
			Threads:   cfg.Security.Argon2Threads,
		},
	})
	authz := service.NewAuthorizer(lodgeRepo)
	lodgeService := service.NewLodgeService(lodgeRepo, authz)
	cabinService := service.NewCabinService(lodgeRepo, cabinRepo, messageRepo, userRepo, authz)

	// 6. Handlers and router
	router := handler.SetupRouter(cfg, logger, tokenService,
		handler.NewUserHandler(userService, tokenService),
		handler.NewLodgeHandler(lodgeService),
		handler.NewCabinHandler(cabinService),
	)

	// 7. HTTP server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited gracefully")
	return nil
}
