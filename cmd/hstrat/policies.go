package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/hstrat/policy"
)

// samplePolicies holds one representative parameterization per algorithm.
var samplePolicies = map[policy.Algo]uint64{
	policy.AlgoFixedResolution:          10,
	policy.AlgoDepthProportional:        8,
	policy.AlgoDepthProportionalTapered: 8,
	policy.AlgoRecencyProportional:      4,
	policy.AlgoRecencyProportionalCurb:  64,
	policy.AlgoGeomSeqNthRoot:           4,
	policy.AlgoGeomSeqNthRootTapered:    4,
	policy.AlgoStochastic:               1,
}

func newPoliciesCmd() *cobra.Command {
	var n uint64

	cmd := &cobra.Command{
		Use:   "policies",
		Short: "List retention algorithms and their footprint after n deposits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SPEC\tPARAM\tRETAINED\tMAX UNCERTAINTY\tCLOSED FORM")

			for _, algo := range policy.Algorithms() {
				p, err := policy.New(policy.Spec{Algo: algo, Param: samplePolicies[algo]})
				if err != nil {
					return err
				}

				param := "-"
				if algo.HasParam() {
					param = algo.ParamName()
				}

				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%t\n",
					p.Spec(), param,
					p.UpperBoundRetained(n),
					p.UpperBoundMRCAUncertainty(n, n, policy.UnknownRank),
					p.HasClosedForm())
			}

			return w.Flush()
		},
	}
	cmd.Flags().Uint64Var(&n, "n", 1000, "number of deposits")

	return cmd
}
