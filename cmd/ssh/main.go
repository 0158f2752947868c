package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishlogging "github.com/charmbracelet/wish/logging"
	"go.uber.org/zap"

	"github.com/tomz197/lanerunner/internal/config"
	"github.com/tomz197/lanerunner/internal/draw"
	"github.com/tomz197/lanerunner/internal/logging"
	"github.com/tomz197/lanerunner/internal/loop"
	"github.com/tomz197/lanerunner/internal/sim"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"

	playerDrainTimeout = 15 * time.Second
	serverStopTimeout  = 5 * time.Second
)

func main() {
	log := logging.New(logging.Options{
		File:  config.GetEnv("GAME_LOG", ""),
		Debug: config.GetEnv("GAME_DEBUG", "") != "",
	})
	defer logging.Sync(log)

	if err := run(log); err != nil {
		log.Errorw("ssh server failed", "error", err)
		logging.Sync(log)
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	addr := net.JoinHostPort(
		config.GetEnv("SSH_HOST", defaultHost),
		config.GetEnv("SSH_PORT", defaultPort),
	)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	seed := config.GetEnvInt64("GAME_SEED", 0)

	stats := &sim.Stats{}
	registry := loop.NewRegistry(log, stats)

	opts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithMiddleware(
			gameMiddleware(registry, stats, seed, log),
			activeterm.Middleware(),
			wishlogging.Middleware(),
		),
		// Game input is a trickle of single bytes.
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("starting ssh server", "addr", addr, "host_key", hostKeyPath)
		serveErr <- s.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	case <-quit:
	}

	log.Infow("shutting down", "players", registry.Count(), "stats", stats.Snapshot())
	registry.Shutdown(playerDrainTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), serverStopTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// gameMiddleware runs one independent game per SSH session.
func gameMiddleware(registry *loop.Registry, stats *sim.Stats, seed int64, log *zap.SugaredLogger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			size := &ptySize{}
			size.set(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					size.set(win.Width, win.Height)
				}
			}()

			log.Debugw("pty", "user", sess.User(), "term", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			err := loop.Run(bufio.NewReader(sess), sess, loop.Options{
				TermSizeFunc: size.get,
				Username:     sess.User(),
				Seed:         seed,
				Registry:     registry,
				Stats:        stats,
				Logger:       log,
			})
			if err != nil {
				log.Warnw("game error", "user", sess.User(), "error", err)
			}

			next(sess)
		}
	}
}

// ptySize holds the latest window size reported by the client, packed as
// width<<32 | height.
type ptySize struct {
	packed atomic.Uint64
}

func (p *ptySize) set(width, height int) {
	p.packed.Store(uint64(uint32(width))<<32 | uint64(uint32(height)))
}

func (p *ptySize) get() (int, int, error) {
	v := p.packed.Load()
	return int(uint32(v >> 32)), int(uint32(v)), nil
}

var _ draw.TermSizeFunc = (*ptySize)(nil).get
