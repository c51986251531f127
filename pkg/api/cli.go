package api

import (
	"github.com/reroute-fukuoka/reroute/pkg/api/routes"
	"github.com/reroute-fukuoka/reroute/pkg/challenges"
	"github.com/reroute-fukuoka/reroute/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the challenge web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					var service routes.PlanService
					if planService, err := challenges.NewServiceFromConfig(cfg); err != nil {
						log.Error().Err(err).Msg("Planner unavailable, serving fallback challenges only")
					} else {
						service = planService
					}

					log.Info().Str("listen", c.String("listen")).Str("data", cfg.DataDir).Msg("Starting web API")

					return SetupServer(c.String("listen"), service)
				},
			},
		},
	}
}
