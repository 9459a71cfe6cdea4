package main

import (
	"fmt"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ironsheep/glyphseg/internal/classify"
	"github.com/ironsheep/glyphseg/internal/config"
	"github.com/ironsheep/glyphseg/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// newClassifier builds the classifier used by the run command.
var newClassifier = func(whitelist string) classify.Classifier {
	return classify.NewTesseract(whitelist)
}

func init() {
	// stdout carries JSON lines and the MCP protocol, so logs go to stderr.
	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	cfg := config.Default()

	app := &cli.App{
		Name:    "glyphseg",
		Usage:   "segment scanned pages into character glyphs",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML settings file",
				EnvVars: []string{"GLYPHSEG_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "log level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"GLYPHSEG_LOG_LEVEL"},
			},
		},

		Before: func(c *cli.Context) error {
			level, err := log.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			log.SetLevel(level)

			loaded, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			*cfg = *loaded
			log.WithField("config", c.String("config")).Debug("settings loaded")
			return nil
		},

		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "segment, classify and write annotated copies of images",
				ArgsUsage: "IMAGE...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "model",
						Aliases: []string{"m"},
						Usage:   "Tesseract .traineddata model (default: classifier.model from the config)",
					},
					&cli.StringFlag{
						Name:  "whitelist",
						Usage: "characters the classifier may return",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "annotated output image (default: output.path from the config)",
					},
					&cli.BoolFlag{
						Name:  "boxes",
						Usage: "outline each glyph box in the output",
					},
					&cli.IntFlag{
						Name:    "jobs",
						Aliases: []string{"j"},
						Usage:   "images processed in parallel",
						Value:   1,
					},
					dilateFlag(),
				},
				Action: func(c *cli.Context) error {
					opts := runOptions{
						model:     cfg.Classifier.Model,
						whitelist: cfg.Classifier.Whitelist,
						out:       cfg.Output.Path,
						drawBoxes: cfg.Output.DrawBoxes || c.Bool("boxes"),
					}
					if c.IsSet("model") {
						opts.model = c.String("model")
					}
					if c.IsSet("whitelist") {
						opts.whitelist = c.String("whitelist")
					}
					if c.IsSet("out") {
						opts.out = c.String("out")
					}
					return runImages(c.Context, newBatch(c, cfg), opts)
				},
			},
			{
				Name:      "boxes",
				Usage:     "print glyph boxes as JSON lines",
				ArgsUsage: "IMAGE...",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "images processed in parallel", Value: 1},
					dilateFlag(),
				},
				Action: func(c *cli.Context) error {
					return printBoxes(c.Context, newBatch(c, cfg), c.App.Writer)
				},
			},
			{
				Name:      "tiles",
				Usage:     "write every glyph tile as a PNG file",
				ArgsUsage: "IMAGE...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "output directory", Required: true},
					&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "images processed in parallel", Value: 1},
					dilateFlag(),
				},
				Action: func(c *cli.Context) error {
					return writeTiles(c.Context, newBatch(c, cfg), c.String("dir"))
				},
			},
			{
				Name:      "config",
				Usage:     "write the effective settings to a YAML file",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected one output file, got %d arguments", c.NArg())
					}
					return config.Write(cfg, c.Args().First())
				},
			},
			{
				Name:  "serve",
				Usage: "run the MCP server on stdin/stdout",
				Action: func(c *cli.Context) error {
					log.WithField("version", Version).Info("MCP server starting")
					return server.New(cfg, log.StandardLogger()).Run(c.Context)
				},
			},
			{
				Name:  "version",
				Usage: "print build information",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "glyphseg %s\n", Version)
					fmt.Fprintf(c.App.Writer, "  Build time: %s\n", BuildTime)
					fmt.Fprintf(c.App.Writer, "  Git commit: %s\n", GitCommit)
					return nil
				},
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	return app
}

func dilateFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "dilate",
		Usage: "dilate the mask after erosion to join broken strokes",
	}
}
