package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/zhouzirui/exonizer/internal/config"
	"github.com/zhouzirui/exonizer/internal/handler/stub"
	"github.com/zhouzirui/exonizer/internal/logging"
	"github.com/zhouzirui/exonizer/internal/service/rewrite"
)

// humanizestub serves POST /humanize locally so the form can be exercised
// without the hosted API.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.GetLogger()

	if err := godotenv.Load(); err != nil {
		log.Warnf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	serverCfg, err := config.LoadServerConfig("STUB_PORT", "9090")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var rewriter rewrite.Rewriter = rewrite.Echo{}
	if cfg.AI.Enabled() {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Fatalf("failed to create chat model: %v", err)
		}
		svc, err := rewrite.NewService(ctx, chatModel)
		if err != nil {
			log.Fatalf("failed to initialize rewrite service: %v", err)
		}
		rewriter = svc
		log.Info("rewrite chain initialized with Ark model")
	} else {
		log.Info("Ark 凭证未配置，humanize 桩将原样返回输入文本")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	stub.New(rewriter, cfg.Humanize.APIKey).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infof("humanize stub listening on %s", serverCfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
