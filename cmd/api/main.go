package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/exonizer/internal/config"
	"github.com/zhouzirui/exonizer/internal/handler"
	"github.com/zhouzirui/exonizer/internal/logging"
	"github.com/zhouzirui/exonizer/internal/metrics"
	"github.com/zhouzirui/exonizer/internal/service/form"
	"github.com/zhouzirui/exonizer/internal/service/humanize"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.GetLogger().Fatalf("failed to load configuration: %v", err)
	}

	log := logging.InitLogger(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		log.Debugf("no .env file loaded (%v), using system environment variables only", envErr)
	}
	middleware.DefaultLogger = middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log, NoColor: true})

	if cfg.Humanize.APIBaseURL == "" {
		log.Warn("HUMANIZE_API_URL 未配置，请求将发送到相对路径 \"humanize\"")
	}

	m := metrics.New()
	client := humanize.NewClient(cfg.Humanize, humanize.WithRecorder(m), humanize.WithLogger(log))
	formSvc := form.NewService(client,
		form.WithObserver(m),
		form.WithTTL(cfg.Session.TTL),
		form.WithMaxSessions(cfg.Session.MaxSessions),
	)
	go formSvc.Run(ctx, cfg.Session.SweepInterval)

	log.WithField("upstream", client.URL()).Info("humanize client initialized")

	router := handler.NewRouter(formSvc, m)

	startServer(ctx, log, cfg.Server, router)
}

func startServer(ctx context.Context, log *logrus.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Infof("Exonizer listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
