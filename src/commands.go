package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Backend-SurveyHub/src/config"
	"Backend-SurveyHub/src/controllers"
	"Backend-SurveyHub/src/database"
	"Backend-SurveyHub/src/jobs"
	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/routes"
	"Backend-SurveyHub/src/seeder"
	"Backend-SurveyHub/src/services/email"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	withWorker        bool
	workerConcurrency int
	inMemory          bool

	seedName     string
	seedEmail    string
	seedPassword string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the asynq email worker",
	RunE:  runWorker,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create an admin account and a sample survey",
	RunE:  runSeed,
}

func init() {
	serveCmd.Flags().BoolVar(&withWorker, "with-worker", false, "also process email tasks in this process")
	serveCmd.Flags().IntVar(&workerConcurrency, "concurrency", 5, "worker concurrency")
	serveCmd.Flags().BoolVar(&inMemory, "memory", false, "keep everything in memory (no MongoDB); seeds the default admin")
	workerCmd.Flags().IntVar(&workerConcurrency, "concurrency", 5, "worker concurrency")

	seedCmd.Flags().StringVar(&seedName, "name", "Admin", "admin display name")
	seedCmd.Flags().StringVar(&seedEmail, "email", "admin@surveyhub.local", "admin email")
	seedCmd.Flags().StringVar(&seedPassword, "password", "admin123", "admin password")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	st, err := connect(cfg, inMemory)
	if err != nil {
		return err
	}
	defer st.close()

	if inMemory {
		if err := seedDefaults(st); err != nil {
			return err
		}
	}

	controllers.Wire(st.services)
	app := routes.NewApp(cfg.AllowedOrigins)

	var worker *asynq.Server
	if withWorker {
		if worker, err = startWorker(cfg); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("🚀 Server is running", zap.String("port", cfg.AppURI))
		errCh <- app.Listen(fmt.Sprintf(":%s", url.PathEscape(cfg.AppURI)))
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err = <-errCh:
	case <-sig:
		logger.L().Info("🛑 shutting down")
		err = app.ShutdownWithTimeout(10 * time.Second)
	}

	if worker != nil {
		worker.Shutdown()
	}
	return err
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.RedisURI == "" {
		return errors.New("REDIS_URI is required to run the worker")
	}
	sender, err := email.NewSMTPSender(cfg)
	if err != nil {
		return err
	}

	srv := jobs.NewServer(cfg.RedisURI, workerConcurrency)
	logger.L().Info("👷 worker started", zap.Int("concurrency", workerConcurrency))
	// Run blocks until SIGINT/SIGTERM
	return srv.Run(jobs.NewMux(sender, cfg.AppBaseURL))
}

func startWorker(cfg *config.Config) (*asynq.Server, error) {
	if database.RedisClient == nil {
		return nil, errors.New("--with-worker needs REDIS_URI")
	}
	sender, err := email.NewSMTPSender(cfg)
	if err != nil {
		return nil, err
	}
	srv := jobs.NewServer(cfg.RedisURI, workerConcurrency)
	if err := srv.Start(jobs.NewMux(sender, cfg.AppBaseURL)); err != nil {
		return nil, err
	}
	logger.L().Info("👷 in-process worker started")
	return srv, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	st, err := connect(cfg, false)
	if err != nil {
		return err
	}
	defer st.close()
	return seedDefaults(st)
}

func seedDefaults(st *stack) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return seeder.SeedAdminAndSurvey(ctx, st.services.Auth, st.users, st.services.Surveys, models.RegisterRequest{
		Name:     seedName,
		Email:    seedEmail,
		Password: seedPassword,
	})
}
