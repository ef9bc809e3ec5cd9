// Command server runs the waypost service: Google login in front of an
// ownership-scoped CRUD surface over an encrypted sqlite database.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/waypost/waypost/internal/auth"
	"github.com/waypost/waypost/internal/config"
	"github.com/waypost/waypost/internal/metrics"
	"github.com/waypost/waypost/internal/obs"
	"github.com/waypost/waypost/internal/ratelimit"
	"github.com/waypost/waypost/internal/store"
	"github.com/waypost/waypost/internal/web"
)

func main() {
	obs.Init()
	log := obs.Pkg("main")

	addr, reset := config.ParseFlags()
	cfg, err := config.Load(addr, reset)
	if err != nil {
		log.Error("loading configuration", "err", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DatabasePath, cfg.DatabaseKey)
	if err != nil {
		log.Error("opening database", "path", cfg.DatabasePath, "err", err)
		os.Exit(1)
	}
	defer st.Close()

	if cfg.Reset {
		log.Warn("resetting database schema", "path", cfg.DatabasePath)
		err = st.Reset()
	} else {
		err = st.EnsureSchema()
	}
	if err != nil {
		log.Error("preparing schema", "err", err)
		os.Exit(1)
	}

	m := metrics.New()
	sessions := auth.NewSessionStore()
	google := auth.NewGoogleClient(auth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	broker := auth.NewBroker(google)
	authHandler := auth.NewHandler(broker, sessions, st, m)
	dataHandler := web.NewHandler(st, m)

	limiter := ratelimit.New(cfg.RateLimit)
	defer limiter.Stop()

	mux := http.NewServeMux()

	// Login surface: unauthenticated, rate limited per client IP.
	authMux := http.NewServeMux()
	authHandler.RegisterRoutes(authMux)
	mux.Handle("/auth/google/", ratelimit.Middleware(limiter, authMux))
	mux.Handle("GET /auth/logout", auth.RequireSession(sessions, http.HandlerFunc(authHandler.HandleLogout)))

	// Data surface: everything behind the session gate.
	dataMux := http.NewServeMux()
	dataHandler.RegisterRoutes(dataMux)
	mux.Handle("/data/", auth.RequireSession(sessions, dataMux))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	handler := obs.RequestContextMiddleware(obs.AccessLogMiddleware("http", m, mux))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.ListenAddr, "base_url", cfg.BaseURL)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown", "err", err)
		}
	}
}
