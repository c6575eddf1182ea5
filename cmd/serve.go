package cmd

import (
	"context"
	"ecommerce-backend/cache"
	"ecommerce-backend/config"
	"ecommerce-backend/jwt"
	"ecommerce-backend/routers"
	"ecommerce-backend/store"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func openStore(cfg config.Config) (*store.GormStore, error) {
	db, err := config.SetupDatabaseConnection(cfg.Database)
	if err != nil {
		return nil, err
	}
	return store.NewGormStore(db)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.GinMode)

	s, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pc *cache.ProductCache
	if rdb := config.SetupRedisConnection(cfg.Redis); rdb != nil {
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis at %s unreachable, reads will go to the database: %v", cfg.Redis.Addr, err)
		}
		pc = cache.NewProductCache(rdb, cfg.Redis.TTL)
	}

	var verifier *jwt.Verifier
	if cfg.Auth.PublicKeyPath != "" {
		verifier, err = jwt.LoadVerifier(cfg.Auth.PublicKeyPath)
		if err != nil {
			return fmt.Errorf("loading token key: %w", err)
		}
		log.Println("write routes require an admin token")
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: routers.SetupRouters(s, pc, verifier),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
