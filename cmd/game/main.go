package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/tomz197/lanerunner/internal/config"
	"github.com/tomz197/lanerunner/internal/logging"
	"github.com/tomz197/lanerunner/internal/loop"
)

func main() {
	// The terminal is the screen, so only log when a file is given.
	log := logging.Nop()
	if path := config.GetEnv("GAME_LOG", ""); path != "" {
		log = logging.New(logging.Options{File: path, Debug: config.GetEnv("GAME_DEBUG", "") != ""})
	}
	defer logging.Sync(log)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(reader, os.Stdout, loop.Options{
		Username: config.GetEnv("USER", "local"),
		Seed:     config.GetEnvInt64("GAME_SEED", 0),
		Logger:   log,
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
