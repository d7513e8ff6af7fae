package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/hstrat"
	"github.com/hupe1980/hstrat/differentia"
	"github.com/hupe1980/hstrat/policy"
	"github.com/hupe1980/hstrat/records"
)

func newSimulateCmd(root *rootFlags) *cobra.Command {
	var (
		configPath string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Evolve populations of columns and write them as records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := root.logger(cmd)
			if err != nil {
				return err
			}

			cfg := defaultSimConfig()
			if configPath != "" {
				if cfg, err = loadSimConfig(configPath); err != nil {
					return err
				}
			} else if err := cfg.validate(); err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			written, err := simulate(cmd.Context(), cfg, outDir, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d columns to %s\n", written, outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "simulation config (YAML)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")

	return cmd
}

// simulate runs every replicate and writes its extant population to outDir.
// Replicates are independent and deterministic in (seed, replicate index).
func simulate(ctx context.Context, cfg simConfig, outDir string, logger *hstrat.Logger) (int64, error) {
	p, err := cfg.policy()
	if err != nil {
		return 0, err
	}

	logger = logger.WithPolicy(p.Spec().String()).WithWidth(cfg.DifferentiaBitWidth)

	var written atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}

	for rep := range cfg.Replicates {
		g.Go(func() error {
			logger := logger.WithName(fmt.Sprintf("rep%03d", rep))

			pop, err := evolve(ctx, p, cfg, uint64(rep), logger)
			if err != nil {
				return err
			}

			for i, c := range pop {
				data, err := records.Marshal(records.FromColumn(c), cfg.recordsOptions()...)
				if err != nil {
					return err
				}

				name := filepath.Join(outDir, fmt.Sprintf("rep%03d_%04d.json", rep, i))
				if err := os.WriteFile(name, data, 0o644); err != nil {
					return err
				}
				written.Add(1)
			}

			logger.InfoContext(ctx, "replicate done",
				"replicate", rep,
				"population", len(pop),
				"generations", cfg.Generations,
			)
			return nil
		})
	}

	err = g.Wait()
	return written.Load(), err
}

// evolve grows a fixed-size asexual population. Each generation every slot
// is filled by a descendant of a parent chosen uniformly at random.
func evolve(ctx context.Context, p policy.Policy, cfg simConfig, rep uint64, logger *hstrat.Logger) ([]*hstrat.Column, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, rep))
	gen := differentia.NewGenerator(cfg.Seed ^ (rep+1)*0x9e3779b97f4a7c15)

	founder := hstrat.NewColumn(p,
		hstrat.WithGenerator(gen),
		hstrat.WithDifferentiaBitWidth(cfg.DifferentiaBitWidth),
		hstrat.WithLogger(logger),
	)

	pop := make([]*hstrat.Column, cfg.Population)
	for i := range pop {
		pop[i] = founder.Clone()
	}

	for range cfg.Generations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next := make([]*hstrat.Column, len(pop))
		for i := range next {
			next[i] = pop[rng.IntN(len(pop))].MakeDescendant()
		}
		pop = next
	}

	return pop, nil
}
