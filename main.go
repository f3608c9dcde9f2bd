package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/splatgo/errors"
	"github.com/pontaoski/splatgo/harness"
	"github.com/pontaoski/splatgo/splat"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

// fatal prints err and exits. Faults get a one-line message; anything else
// is printed with its stack and source.
func fatal(err error) {
	if phase := errors.PhaseOf(err); phase != errors.PhaseNone {
		fmt.Fprintf(os.Stderr, "%s error: %s\n", phase, err)
		os.Exit(1)
	}
	tracerr.PrintSourceColor(err)
	os.Exit(1)
}

func loadConfig(c *cli.Context) harness.Config {
	cfg, err := harness.LoadConfig(c.String("config"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

func options(c *cli.Context, filename string) splat.Options {
	cfg := loadConfig(c)

	opts := splat.Options{
		Filename:     filename,
		MaxCallDepth: cfg.MaxCallDepth,
	}
	if c.IsSet("max-call-depth") {
		opts.MaxCallDepth = c.Int("max-call-depth")
	}
	if c.Bool("trace") {
		opts.Logger = log.New(os.Stderr, "splatgo: ", 0)
	}
	return opts
}

func openSource(c *cli.Context) (*os.File, string) {
	file := c.Args().First()
	if file == "" {
		fmt.Fprintln(os.Stderr, "no source file provided")
		os.Exit(1)
	}
	handle, err := os.Open(file)
	if err != nil {
		fatal(tracerr.Wrap(err))
	}
	return handle, file
}

func main() {
	app := &cli.App{
		Name:  "splatgo",
		Usage: "SPLAT interpreter",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: harness.ConfigFile,
				Usage: "project configuration file",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "log each phase to stderr",
			},
		},
		ExitErrHandler: func(context *cli.Context, err error) {
			if err != nil {
				log.Fatalf("error with splatgo: %s", err)
			}
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "write a default " + harness.ConfigFile,
				Action: func(c *cli.Context) error {
					path := c.String("config")
					if _, err := os.Stat(path); err == nil {
						fmt.Fprintf(os.Stderr, "%s already exists\n", path)
						os.Exit(1)
					}
					return harness.WriteConfig(path, harness.DefaultConfig())
				},
			},
			{
				Name:      "run",
				Usage:     "check and execute a program",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-call-depth",
						Usage: "fault once calls nest deeper than this (0 is unbounded)",
					},
				},
				Action: func(c *cli.Context) error {
					handle, file := openSource(c)
					defer handle.Close()

					if err := splat.Run(handle, os.Stdout, options(c, file)); err != nil {
						fatal(err)
					}
					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "lex, parse and analyze a program without running it",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					handle, file := openSource(c)
					defer handle.Close()

					if _, err := splat.Check(handle, options(c, file)); err != nil {
						fatal(err)
					}
					fmt.Printf("%s: ok\n", file)
					return nil
				},
			},
			{
				Name:      "tokens",
				Usage:     "dump the tokens of a program",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					handle, file := openSource(c)
					defer handle.Close()

					toks, err := splat.Tokenize(handle, options(c, file))
					if err != nil {
						fatal(err)
					}
					repr.Println(toks)
					return nil
				},
			},
			{
				Name:      "ast",
				Usage:     "print the syntax tree of a program",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dump",
						Value: false,
						Usage: "dump the raw tree instead of rendering source",
					},
				},
				Action: func(c *cli.Context) error {
					handle, file := openSource(c)
					defer handle.Close()

					prog, err := splat.Parse(handle, options(c, file))
					if err != nil {
						fatal(err)
					}
					if c.Bool("dump") {
						repr.Println(prog)
						return nil
					}
					fmt.Print(prog.String())
					return nil
				},
			},
			{
				Name:      "test",
				Usage:     "run a directory of conformance cases",
				ArgsUsage: "[DIR]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-call-depth",
						Usage: "fault once calls nest deeper than this (0 is unbounded)",
					},
				},
				Action: func(c *cli.Context) error {
					cfg := loadConfig(c)
					dir := c.Args().First()
					if dir == "" {
						dir = cfg.Tests
					}

					opts := harness.Options{Options: options(c, ""), Verbose: cfg.Verbose}
					report, err := harness.Run(dir, opts, os.Stdout)
					if err != nil {
						fatal(err)
					}
					if report.Passed() != len(report.Results) {
						os.Exit(1)
					}
					return nil
				},
			},
			{
				Name:  "fetch",
				Usage: "clone or update the conformance suite named in " + harness.ConfigFile,
				Action: func(c *cli.Context) error {
					cfg := loadConfig(c)
					if cfg.Suite == nil {
						fmt.Fprintf(os.Stderr, "no suite configured in %s\n", c.String("config"))
						os.Exit(1)
					}

					hash, err := harness.FetchSuite(c.Context, *cfg.Suite)
					if err != nil {
						fatal(tracerr.Wrap(err))
					}
					fmt.Printf("%s checked out at %s\n", cfg.Suite.Dir, hash)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		io.WriteString(os.Stderr, err.Error()+"\n")
		os.Exit(1)
	}
}
