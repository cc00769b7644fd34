package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/employee-directory/internal/adapters/grpc/handler"
	"github.com/ogurasousui/employee-directory/internal/adapters/repository/memory"
	"github.com/ogurasousui/employee-directory/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-directory/internal/adapters/rest"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/platform/config"
	pg "github.com/ogurasousui/employee-directory/internal/platform/db/postgres"
	"github.com/ogurasousui/employee-directory/internal/platform/logger"
	"github.com/ogurasousui/employee-directory/internal/platform/metrics"
	"github.com/ogurasousui/employee-directory/internal/platform/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
	zl.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	repo, tx, closeStore, err := buildStore(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	employeeSvc := employee.NewService(repo, tx, zl)

	restHandler := rest.NewEmployeeHandler(employeeSvc, m, zl, nil)
	httpServer := server.NewHTTP(cfg.Server.HTTPListenAddr, rest.NewRouter(restHandler, m))
	grpcServer := server.New(cfg.Server.ListenAddr, handler.NewEmployeeGrpcHandler(employeeSvc, m), zl)

	zl.Info("starting employee directory",
		zap.String("grpc_addr", cfg.Server.ListenAddr),
		zap.String("http_addr", cfg.Server.HTTPListenAddr),
		zap.String("storage", cfg.Storage.Driver),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})
	g.Go(func() error {
		return server.RunHTTP(gctx, httpServer, zl)
	})
	return g.Wait()
}

func buildStore(ctx context.Context, cfg *config.Config, zl *zap.Logger) (employee.Repository, employee.TransactionManager, func(), error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		zl.Warn("using in-memory storage; data is lost on restart")
		return memory.NewEmployeeRepository(), nil, func() {}, nil
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database, zl)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialize database pool: %w", err)
	}

	return postgres.NewEmployeeRepository(dbPool), pg.NewTransactionManager(dbPool, pg.WithLogger(zl)), dbPool.Close, nil
}
