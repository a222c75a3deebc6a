// Command boa runs coalgebraic partition refinement over .boa/.boa.txt/.aut
// files: convert between the three formats, or compute the coarsest
// bisimulation partition with either the naive or nlogn driver.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fjl/memsize"
	"github.com/urfave/cli/v2"

	"github.com/coalg/boa"
	"github.com/coalg/boa/format"
)

var logger *slog.Logger

func main() {
	app := &cli.App{
		Name:  "boa",
		Usage: "binary coalgebraic partition refinement",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelInfo
			if c.Bool("debug") {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			return nil
		},
		Commands: []*cli.Command{
			convertCmd,
			naiveCmd,
			nlognCmd,
			statsCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "boa: %v\n", err)
		os.Exit(1)
	}
}

var convertCmd = &cli.Command{
	Name:      "convert",
	Usage:     "convert between .boa, .boa.txt and .aut",
	ArgsUsage: "<file>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "codec", Value: "none", Usage: "compression codec for .boa output: none, zstd, xz, bzip2"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("convert requires exactly one file argument", 1)
		}
		codec, err := parseCodec(c.String("codec"))
		if err != nil {
			return err
		}
		filename := c.Args().Get(0)
		logger.Info("converting", "file", filename, "codec", codec)
		return format.ConvertFile(filename, codec)
	},
}

var naiveCmd = &cli.Command{
	Name:      "naive",
	Usage:     "run the naive fixed-point driver",
	ArgsUsage: "<file.boa>",
	Flags:     driverFlags,
	Action: func(c *cli.Context) error {
		return runDriver(c, false)
	},
}

var nlognCmd = &cli.Command{
	Name:      "nlogn",
	Usage:     "run the O((n+m) log n) worklist driver",
	ArgsUsage: "<file.boa>",
	Flags:     driverFlags,
	Action: func(c *cli.Context) error {
		return runDriver(c, true)
	},
}

var driverFlags = []cli.Flag{
	&cli.Uint64Flag{Name: "seed", Value: 0, Usage: "hash seed for node signatures"},
	&cli.IntFlag{Name: "max-iterations", Value: 0, Usage: "naive driver iteration cap (0 = default)"},
	&cli.BoolFlag{Name: "mem-report", Usage: "print a memsize breakdown of the in-memory coalgebra after loading"},
}

func runDriver(c *cli.Context, nlogn bool) error {
	if c.NArg() != 1 {
		return cli.Exit("requires exactly one .boa file argument", 1)
	}
	filename := c.Args().Get(0)

	start := time.Now()
	data, dict, err := format.ReadBoa(filename)
	if err != nil {
		return err
	}
	logger.Info("loaded", "file", filename, "bytes", len(data), "parse_time", time.Since(start))

	if c.Bool("mem-report") {
		report := memsize.Scan(data)
		logger.Info("mem-report", "data", report.Total, "report", report.Report())
	}

	opts := []boa.Option{boa.WithSeed(c.Uint64("seed")), boa.WithLogger(logger)}
	if n := c.Int("max-iterations"); n > 0 {
		opts = append(opts, boa.WithMaxIterations(n))
	}

	start = time.Now()
	var ids []uint32
	dec := boa.NewDecoder(&dict)
	if nlogn {
		ix, err := boa.NewIndex(data, dict)
		if err != nil {
			return err
		}
		logger.Info("indexed", "states", ix.NumStates(), "backrefs", len(ix.Backrefs))
		ids, err = boa.RunNlogn(ix, opts...)
		if err != nil {
			return err
		}
	} else {
		ids, err = boa.RunNaive(dec, data, opts...)
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	maxID := uint32(0)
	for _, id := range ids {
		if id > maxID {
			maxID = id
		}
	}
	logger.Info("done", "states", len(ids), "blocks", maxID+1, "compute_time", elapsed)
	return nil
}

var statsCmd = &cli.Command{
	Name:      "stats",
	Usage:     "print size and backref statistics for a .boa file without refining it",
	ArgsUsage: "<file.boa>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("stats requires exactly one .boa file argument", 1)
		}
		data, dict, err := format.ReadBoa(c.Args().Get(0))
		if err != nil {
			return err
		}
		ix, err := boa.NewIndex(data, dict)
		if err != nil {
			return err
		}
		fmt.Printf("states: %d\n", ix.NumStates())
		fmt.Printf("bytes: %d\n", len(data))
		fmt.Printf("backrefs: %d\n", len(ix.Backrefs))
		return nil
	},
}

func parseCodec(s string) (format.Codec, error) {
	switch s {
	case "none":
		return format.CodecNone, nil
	case "zstd":
		return format.CodecZSTD, nil
	case "xz":
		return format.CodecXZ, nil
	case "bzip2":
		return format.CodecBZip2, nil
	default:
		return 0, fmt.Errorf("unknown codec %q", s)
	}
}
