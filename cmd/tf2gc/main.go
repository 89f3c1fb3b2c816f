// tf2gc - Game Coordinator session inspector.
//
// Replays a capture of client-to-GC envelopes through the session
// engine, prints the decoded message stream and the resulting backpack
// state, and can keep serving the replayed session over the
// introspection API.
//
// Capture format: a flat file of envelopes, each prefixed with a
// little-endian uint32 length, body being the serialized outer
// client-to-GC protobuf envelope.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	tf2 "github.com/Gobot1234/steam-ext-tf2"
	"github.com/Gobot1234/steam-ext-tf2/internal/api"
	"github.com/Gobot1234/steam-ext-tf2/internal/config"
	"github.com/Gobot1234/steam-ext-tf2/internal/telemetry"
	"github.com/Gobot1234/steam-ext-tf2/internal/util"
)

const (
	AppName    = "tf2gc"
	AppVersion = "1.0.0"
)

func main() {
	var (
		configPath  = flag.String("config", "", "config file path (defaults used when empty)")
		capturePath = flag.String("capture", "", "capture file to replay")
		serve       = flag.Bool("serve", false, "keep serving the replayed session over the introspection API")
		showItems   = flag.Bool("items", true, "print the backpack table after replay")
		showStream  = flag.Bool("stream", false, "print every decoded message while replaying")
	)
	flag.Parse()

	if err := util.InitLogger(util.DefaultLogConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info().
		Str("version", AppVersion).
		Str("platform", runtime.GOOS).
		Msg("starting tf2gc")

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load configuration")
		}
		cfg = loaded
	}
	if err := util.InitLogger(util.LogConfig{
		Level:     cfg.ApplicationData.Logging.Level,
		Directory: cfg.ApplicationData.Logging.Directory,
		Console:   cfg.ApplicationData.Logging.Console,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to reconfigure logger")
	}

	if *capturePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	session, err := replayCapture(ctx, cfg, *capturePath, *showStream)
	if err != nil {
		log.Fatal().Err(err).Msg("replay failed")
	}

	printSummary(session)
	if *showItems {
		printBackpack(session)
	}

	if *serve {
		srv := api.NewServer(cfg, session.state)
		if cfg.ApplicationData.MQTT.Enabled {
			if pub, err := telemetry.NewPublisher(cfg, session.client.Bus()); err == nil {
				go func() {
					if err := pub.Start(ctx); err != nil {
						log.Warn().Err(err).Msg("telemetry stopped")
					}
				}()
			}
		}
		if err := srv.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("API server failed")
		}
	}
}

// replaySession bundles the engine built for one capture.
type replaySession struct {
	client   *tf2.Client
	state    *tf2.GCState
	messages []messageRecord
	elapsed  time.Duration
}
