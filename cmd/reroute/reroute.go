package main

import (
	"os"
	"time"

	"github.com/reroute-fukuoka/reroute/pkg/api"
	"github.com/reroute-fukuoka/reroute/pkg/challenges"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("REROUTE_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("REROUTE_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "reroute",
		Description: "Plans 24 hour bus pass challenges around Fukuoka and serves them over HTTP",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			challenges.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
