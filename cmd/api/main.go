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

	"mcredit-backend/internal/adapter/filestore"
	httpadp "mcredit-backend/internal/adapter/http"
	"mcredit-backend/internal/adapter/repository/gormrepo"
	"mcredit-backend/internal/adapter/repository/memory"
	sessionstore "mcredit-backend/internal/adapter/session"
	"mcredit-backend/internal/config"
	"mcredit-backend/internal/domain/session"
	"mcredit-backend/internal/domain/uow"
	"mcredit-backend/internal/infrastructure/cache"
	"mcredit-backend/internal/infrastructure/db"
	"mcredit-backend/internal/infrastructure/logger"
	"mcredit-backend/internal/infrastructure/metrics"
	"mcredit-backend/internal/usecase/auth"
	docuc "mcredit-backend/internal/usecase/document"
	loanuc "mcredit-backend/internal/usecase/loan"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type stores struct {
	repos uow.Repos
	uow   uow.UnitOfWork
	close func()
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	st, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	var (
		rdb      *redis.Client
		sessions session.Store
	)
	if cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(context.Background(), cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rdb.Close()
		sessions = sessionstore.NewRedisStore(rdb)
		log.Info("sessions in redis", zap.String("addr", cfg.RedisAddr))
	} else {
		sessions = sessionstore.NewMemoryStore()
		log.Warn("REDIS_ADDR not set; sessions in memory and idempotency disabled")
	}

	files, err := filestore.NewLocal(cfg.UploadDir)
	if err != nil {
		return err
	}

	m := metrics.New()
	authUC := auth.NewUsecase(st.repos.Users, sessions, cfg.SessionTTL(), log)
	loanUC := loanuc.NewUsecase(st.repos.Loans, st.repos.Users, st.uow, log).WithRecorder(m)
	docUC := docuc.NewUsecase(st.repos.Loans, st.repos.Documents, st.uow, files, log).
		WithRecorder(m).
		WithMaxFileSize(cfg.MaxUploadBytes)

	if cfg.SeedDemoUsers {
		if err := authUC.SeedDemoUsers(context.Background()); err != nil {
			return err
		}
	}

	e := httpadp.NewRouter(httpadp.RouterConfig{
		Auth:               authUC,
		Loans:              loanUC,
		Documents:          docUC,
		Log:                log,
		StoreName:          cfg.StoreDriver,
		SessionTTL:         cfg.SessionTTL(),
		SecureCookie:       cfg.SessionCookieSecure,
		Metrics:            m,
		Redis:              rdb,
		IdempotencyTTL:     cfg.IdempotencyTTL(),
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		AllowOrigins:       cfg.AllowOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(cfg *config.Config, log *zap.Logger) (*stores, error) {
	if cfg.StoreDriver == "memory" {
		s := memory.NewStore()
		log.Warn("using in-memory store; data is lost on restart")
		return &stores{
			repos: uow.Repos{Loans: s.Loans(), Documents: s.Documents(), Users: s.Users()},
			uow:   memory.NewUoW(s),
			close: func() {},
		}, nil
	}

	gdb, err := db.OpenGorm(cfg.StoreDriver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.StoreDriver, err)
	}
	if err := gormrepo.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	sqlDB, _ := gdb.DB()
	return &stores{
		repos: uow.Repos{
			Loans:     gormrepo.NewLoanRepository(gdb),
			Documents: gormrepo.NewDocumentRepository(gdb),
			Users:     gormrepo.NewUserRepository(gdb),
		},
		uow:   gormrepo.NewGormUoW(gdb),
		close: func() { _ = sqlDB.Close() },
	}, nil
}
