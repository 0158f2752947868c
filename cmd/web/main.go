package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tomz197/lanerunner/internal/config"
	"github.com/tomz197/lanerunner/internal/logging"
	"github.com/tomz197/lanerunner/internal/sim"
	"github.com/tomz197/lanerunner/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	log := logging.New(logging.Options{
		File:  config.GetEnv("GAME_LOG", ""),
		Debug: config.GetEnv("GAME_DEBUG", "") != "",
	})
	defer logging.Sync(log)

	var origins []string
	if v := config.GetEnv("WEB_ORIGINS", ""); v != "" {
		origins = strings.Split(v, ",")
	}

	stats := &sim.Stats{}
	games := web.NewServer(web.Options{
		Stats:   stats,
		Logger:  log,
		Seed:    config.GetEnvInt64("GAME_SEED", 0),
		Origins: origins,
	})

	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)
	mux := games.Handler()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("starting web server", "url", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infow("shutting down", "connections", games.Active(), "stats", stats.Snapshot())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("shutdown error", "error", err)
	}
	games.Close()
}
