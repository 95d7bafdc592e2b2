package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/danbrewer/letsretire-backend/internal/adapter/grpc"
	"github.com/danbrewer/letsretire-backend/internal/adapter/repository/postgres"
	"github.com/danbrewer/letsretire-backend/internal/config"
	"github.com/danbrewer/letsretire-backend/internal/domain"
	"github.com/danbrewer/letsretire-backend/internal/logger"
	"github.com/danbrewer/letsretire-backend/internal/usecase/projection"
	"github.com/danbrewer/letsretire-backend/internal/usecase/tax"
)

func main() {
	// 1. Configuration, with an optional .env for local runs
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel)

	// 2. Optional persistence
	var repo domain.ProjectionRepository
	if cfg.PersistProjections {
		if err := postgres.RunMigrations(cfg.DBConnStr); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}

		db, err := postgres.NewDB(cfg.DBConnStr)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		repo = postgres.NewProjectionRepository(db)
		log.Info().Msg("projection persistence enabled")
	}

	// 3. Services
	projections := projection.NewProjectionService(tax.NewService(tax.DefaultConfig()), repo, log)

	// 4. gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterProjectionServiceServer(grpcServer, grpcadapter.NewServer(projections))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.ListenAddr()).Msg("failed to listen")
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr()).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("failed to serve gRPC server")
		}
	}()

	waitForShutdown(grpcServer, log)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(grpcServer *grpclib.Server, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	grpcServer.GracefulStop()
	log.Info().Msg("gRPC server stopped")
}
