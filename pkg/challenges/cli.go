package challenges

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/reroute-fukuoka/reroute/pkg/config"
	"github.com/reroute-fukuoka/reroute/pkg/realtime"
	"github.com/reroute-fukuoka/reroute/pkg/transit"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var errRealtimeDisabled = errors.New("realtime is disabled or missing credentials")

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "challenges",
		Usage: "Plans the free pass challenges from the local data directory",
		Subcommands: []*cli.Command{
			{
				Name:  "plan",
				Usage: "plan every challenge once and print the result",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "only print the challenge with this id",
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "dump the plans as Go values instead of JSON",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					service, err := NewServiceFromConfig(cfg)
					if err != nil {
						return err
					}

					var output interface{}
					if id := c.String("id"); id != "" {
						plan, err := service.Plan(c.Context, id)
						if err != nil {
							return fmt.Errorf("challenge %s: %w", id, err)
						}
						output = plan
					} else {
						plans, err := service.Plans(c.Context)
						if err != nil {
							return err
						}
						output = plans
					}

					if c.Bool("debug") {
						pretty.Println(output)
						return nil
					}

					encoder := json.NewEncoder(os.Stdout)
					encoder.SetIndent("", "  ")
					if err := encoder.Encode(output); err != nil {
						log.Error().Err(err).Msg("Failed to encode plans")
						return err
					}
					return nil
				},
			},
			{
				Name:  "realtime",
				Usage: "fetch realtime patches once and report how they change the timetable",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "line",
						Usage: "only fetch these lines, defaults to every eligible line",
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "dump the patched edges",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					source := realtimeSource(cfg)
					if source == nil {
						return errRealtimeDisabled
					}

					options, err := ServiceOptions(cfg)
					if err != nil {
						return err
					}

					dataset, err := Directory(cfg).Load(c.Context)
					if err != nil {
						return err
					}

					lines := c.StringSlice("line")
					if len(lines) == 0 {
						lines = dataset.EligibleLines
					}

					manager := realtime.NewManager(source, cfg.Realtime.CacheTTL)
					manager.LoadStaticEdges(dataset.Edges)
					if err := manager.Refresh(c.Context, lines, false); err != nil {
						return fmt.Errorf("%s refresh: %w", source.Name(), err)
					}

					start := options.StartMinutes
					edges := manager.EdgesForWindow(c.Context, start, start+transit.MinutesPerDay, lines, false)

					log.Info().
						Str("source", source.Name()).
						Int("lines", len(lines)).
						Int("static_edges", len(dataset.Edges)).
						Int("window_edges", len(edges)).
						Msg("Fetched realtime patches")

					if c.Bool("debug") {
						pretty.Println(edges)
					}
					return nil
				},
			},
		},
	}
}
