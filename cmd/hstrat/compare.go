package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/hstrat"
	"github.com/hupe1980/hstrat/codec"
	"github.com/hupe1980/hstrat/records"
)

type compareResult struct {
	A                 string     `json:"a"`
	B                 string     `json:"b"`
	HasCommonAncestor bool       `json:"has_common_ancestor"`
	LastCommonality   *uint64    `json:"last_commonality"`
	FirstDisparity    *uint64    `json:"first_disparity"`
	MRCABounds        *[2]uint64 `json:"mrca_bounds"`
	MRCAUncertainty   *uint64    `json:"mrca_uncertainty"`
}

func newCompareCmd(root *rootFlags) *cobra.Command {
	var (
		codecName string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "compare A B",
		Short: "Estimate the most recent common ancestor of two saved columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger(cmd)
			if err != nil {
				return err
			}

			cd, ok := codec.ByName(codecName)
			if !ok {
				return fmt.Errorf("unknown codec %q", codecName)
			}
			opts := []records.Option{records.WithCodec(cd), records.WithLogger(logger)}

			a, err := loadSpecimen(args[0], opts)
			if err != nil {
				return err
			}
			b, err := loadSpecimen(args[1], opts)
			if err != nil {
				return err
			}

			res := newCompareResult(args[0], args[1], hstrat.Compare(a, b, hstrat.WithLogger(logger)))

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := cd.Marshal(res)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			fmt.Fprintf(out, "common ancestor:   %t\n", res.HasCommonAncestor)
			fmt.Fprintf(out, "last commonality:  %s\n", optional(res.LastCommonality))
			fmt.Fprintf(out, "first disparity:   %s\n", optional(res.FirstDisparity))
			if res.MRCABounds != nil {
				fmt.Fprintf(out, "mrca bounds:       [%d, %d)\n", res.MRCABounds[0], res.MRCABounds[1])
			} else {
				fmt.Fprintln(out, "mrca bounds:       -")
			}
			fmt.Fprintf(out, "mrca uncertainty:  %s\n", optional(res.MRCAUncertainty))

			return nil
		},
	}
	cmd.Flags().StringVar(&codecName, "codec", codec.Default.Name(), "records codec")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

func loadSpecimen(path string, opts []records.Option) (*hstrat.Specimen, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r, err := records.Unmarshal(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records.ToSpecimen(r, opts...)
}

func newCompareResult(a, b string, c hstrat.Comparison) compareResult {
	res := compareResult{A: a, B: b, HasCommonAncestor: c.HasCommonAncestor}
	if c.HasLastCommonality {
		res.LastCommonality = &c.LastCommonality
	}
	if c.HasFirstDisparity {
		res.FirstDisparity = &c.FirstDisparity
	}
	if c.HasMRCABounds {
		res.MRCABounds = &[2]uint64{c.MRCALower, c.MRCAUpper}
		res.MRCAUncertainty = &c.MRCAUncertainty
	}
	return res
}

func optional(v *uint64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
