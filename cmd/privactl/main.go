package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AdamBeresnev/privas/internal/config"
	"github.com/AdamBeresnev/privas/internal/db"
	"github.com/AdamBeresnev/privas/internal/priva"
	"github.com/AdamBeresnev/privas/internal/rules"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app := &cli.App{
		Name:  "privactl",
		Usage: "run privas from the command line",
		Commands: []*cli.Command{
			newSimulateCommand(),
			newRulesCommand(),
			newMigrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("privactl failed", "error", err)
		os.Exit(1)
	}
}

func newSimulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play a priva with generated players and print its report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Value: string(priva.KindTenWins), Usage: "priva type"},
			&cli.IntFlag{Name: "goal", Value: 10, Usage: "win goal for n_wins"},
			&cli.IntFlag{Name: "players", Value: 10, Usage: "number of players"},
			&cli.IntFlag{Name: "battles", Value: 30, Usage: "maximum number of battles"},
			&cli.Uint64Flag{Name: "seed", Usage: "random seed, 0 picks one"},
			&cli.StringFlag{Name: "outcome", Value: "random", Usage: "A, B, alternate or random"},
			&cli.StringFlag{Name: "lang", Value: rules.DefaultLocale, Usage: "report locale"},
			&cli.StringFlag{Name: "format", Value: "json", Usage: "json or yaml"},
		},
		Action: func(c *cli.Context) error {
			sim := simulation{
				Kind:    priva.Kind(c.String("type")),
				Goal:    c.Int("goal"),
				Players: c.Int("players"),
				Battles: c.Int("battles"),
				Seed:    c.Uint64("seed"),
				Outcome: c.String("outcome"),
			}
			inst, err := sim.run()
			if err != nil {
				return err
			}
			slog.Info("simulation finished", "priva", inst.String())
			return writeReport(c.App.Writer, c.String("format"), inst.Report(c.String("lang")))
		},
	}
}

func newRulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "print the rules of a priva type",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Value: string(priva.KindTenWins), Usage: "priva type"},
			&cli.StringFlag{Name: "lang", Value: rules.DefaultLocale, Usage: "rules locale"},
		},
		Action: func(c *cli.Context) error {
			args := []int(nil)
			if priva.Kind(c.String("type")) == priva.KindNWins {
				args = []int{10}
			}
			inst, err := priva.New(priva.Kind(c.String("type")), args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, inst.Rules(c.String("lang")))
			return err
		},
	}
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending database migrations",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			database, err := db.InitDB(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.RunMigrations(database.DB, cfg.MigrationsURL); err != nil {
				return err
			}
			slog.Info("migrations applied", "path", cfg.DatabasePath)
			return nil
		},
	}
}

func writeReport(w io.Writer, format string, report priva.Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		// Round trip through JSON so the yaml keys follow the json tags.
		data, err := json.Marshal(report)
		if err != nil {
			return err
		}
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
