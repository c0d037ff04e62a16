package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/tzresolve/class"
	"github.com/jonwraymond/tzresolve/resolver"
	"github.com/jonwraymond/tzresolve/tzdb"
	"github.com/jonwraymond/tzresolve/zone"
)

var (
	// Global flags
	dbRoot      string
	verbose     bool
	withMetrics bool
	maskFlags   []string

	logger        *zap.Logger
	meterProvider *sdkmetric.MeterProvider
)

var rootCmd = &cobra.Command{
	Use:   "tzresolve",
	Short: "Resolve and classify time zones against a compiled database",
	Long: `tzresolve resolves textual time-zone identifiers ("Europe/Warsaw",
"UTC+02:00") into validated zone objects, enforcing a class mask over which
kinds of zone are acceptable: fixed, variable, standard, legacy.

A compiled database is a directory of per-zone binary files built from a
YAML source list with "tzresolve build".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if withMetrics {
			exporter, err := stdoutmetric.New()
			if err != nil {
				return fmt.Errorf("failed to initialize metrics exporter: %w", err)
			}
			meterProvider = sdkmetric.NewMeterProvider(
				sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
			)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if meterProvider != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = meterProvider.Shutdown(ctx)
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var buildCmd = &cobra.Command{
	Use:   "build SOURCE",
	Short: "Compile a YAML zone source list into a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		src, err := tzdb.LoadSource(f)
		if err != nil {
			return err
		}
		start := time.Now()
		if err := src.Compile(dbRoot); err != nil {
			return err
		}
		logger.Info("database compiled",
			zap.String("root", dbRoot),
			zap.Int("zones", len(src.Zones)),
			zap.Duration("elapsed", time.Since(start)))
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup NAME",
	Short: "Resolve a zone name and print its offset and class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mask, err := parseMask(maskFlags)
		if err != nil {
			return err
		}
		r, err := newResolver(1)
		if err != nil {
			return err
		}

		name := args[0]
		logger.Debug("resolving", zap.String("name", name), zap.String("mask", mask.String()))
		z, err := r.Resolve(0, name, mask)
		if err != nil {
			return err
		}

		c := zoneClass(z)
		fmt.Printf("name:  %s\n", z.Name())
		fmt.Printf("kind:  %s\n", z.Kind())
		fmt.Printf("class: %s\n", c)
		switch v := z.(type) {
		case *zone.Fixed:
			fmt.Printf("offset: %s\n", v.Offset())
		case *zone.Variable:
			now := time.Now().UTC()
			tr := v.Lookup(now)
			fmt.Printf("offset: %s (%s, as of %s)\n", tr.Offset, tr.Abbrev, now.Format(time.RFC3339))
			fmt.Printf("transitions: %d\n", v.Len())
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check NAME...",
	Short: "Report whether each name resolves under the mask",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mask, err := parseMask(maskFlags)
		if err != nil {
			return err
		}
		// One worker per name keeps cache tables exclusively owned.
		r, err := newResolver(len(args))
		if err != nil {
			return err
		}

		results := make([]bool, len(args))
		g, _ := errgroup.WithContext(cmd.Context())
		for i, name := range args {
			g.Go(func() error {
				ok, err := r.Exists(i, name, mask)
				if err != nil {
					return fmt.Errorf("check %q: %w", name, err)
				}
				results[i] = ok
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for i, name := range args {
			fmt.Printf("%s: %v\n", name, results[i])
		}
		return nil
	},
}

// zoneClass re-derives the display class for a resolved zone: grammar names
// are structurally fixed, database names carry stored provenance.
func zoneClass(z zone.Zone) class.Class {
	if !tzdb.Known(dbRoot, z.Name()) {
		return class.Structural(z)
	}
	path, err := tzdb.PathFor(dbRoot, z.Name())
	if err != nil {
		return class.Structural(z)
	}
	if _, c, err := tzdb.Decode(path, z.Name()); err == nil {
		return c
	}
	return class.Structural(z)
}

var maskNames = map[string]class.Class{
	"fixed":    class.Fixed,
	"variable": class.Variable,
	"standard": class.Standard,
	"legacy":   class.Legacy,
	"default":  class.Default,
	"all":      class.All,
}

func parseMask(flags []string) (class.Class, error) {
	if len(flags) == 0 {
		return class.Default, nil
	}
	m := class.None
	for _, f := range flags {
		c, ok := maskNames[strings.ToLower(f)]
		if !ok {
			known := make([]string, 0, len(maskNames))
			for k := range maskNames {
				known = append(known, k)
			}
			sort.Strings(known)
			return class.None, fmt.Errorf("unknown mask flag %q (known: %s)", f, strings.Join(known, ", "))
		}
		m = m.Union(c)
	}
	return m, nil
}

func newResolver(workers int) (*resolver.Resolver, error) {
	var meter metric.Meter
	if meterProvider != nil {
		meter = meterProvider.Meter("tzresolve")
	}
	return resolver.New(resolver.Config{
		Root:    dbRoot,
		Workers: workers,
		Meter:   meter,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbRoot, "root", "tzdb", "compiled database root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&withMetrics, "metrics", false, "dump resolution metrics to stdout on exit")
	lookupCmd.Flags().StringSliceVar(&maskFlags, "mask", nil, "permitted classes (fixed, variable, standard, legacy, default, all)")
	checkCmd.Flags().StringSliceVar(&maskFlags, "mask", nil, "permitted classes (fixed, variable, standard, legacy, default, all)")

	rootCmd.AddCommand(buildCmd, lookupCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
