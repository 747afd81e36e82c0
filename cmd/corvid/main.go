package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/uci"
)

const (
	name    = "Corvid"
	author  = "corvidchess"
	version = "dev"
)

func main() {
	hashMB := flag.Int("hash", 16, "transposition table size in megabytes")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
	log.Logger = logger

	logger.Info().
		Str("version", version).
		Str("go", runtime.Version()).
		Int("num_cpu", runtime.NumCPU()).
		Int("hash_mb", *hashMB).
		Msg("starting engine")

	eng := engine.NewEngine(*hashMB)
	protocol := uci.New(name, author, version, eng, logger)
	protocol.Run()
}
