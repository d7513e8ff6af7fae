package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("every algorithm builds", func(t *testing.T) {
		for _, algo := range Algorithms() {
			spec := Spec{Algo: algo}
			switch algo {
			case AlgoRecencyProportionalCurb:
				spec.Param = 10
			case AlgoPerfect, AlgoNominal, AlgoRecencyProportional, AlgoStochastic:
			default:
				spec.Param = 3
			}

			p, err := New(spec)
			require.NoError(t, err, algo)
			assert.Equal(t, spec, p.Spec())
			assert.Equal(t, algo != AlgoStochastic, p.HasClosedForm())

			parsed, err := ParseSpec(spec.String())
			require.NoError(t, err)
			assert.Equal(t, spec, parsed)
		}
	})

	t.Run("specs are value equal", func(t *testing.T) {
		assert.Equal(t, FixedResolution(4).Spec(), MustNew(Spec{Algo: AlgoFixedResolution, Param: 4}).Spec())
		assert.NotEqual(t, FixedResolution(4).Spec(), DepthProportional(4).Spec())
		assert.Equal(t, "fixed_resolution:4", FixedResolution(4).Spec().String())
		assert.Equal(t, "perfect", Perfect().Spec().String())
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		_, err := ParseAlgo("bogus")
		assert.ErrorIs(t, err, ErrUnknownAlgo)

		_, err = New(Spec{Algo: "bogus"})
		assert.ErrorIs(t, err, ErrUnknownAlgo)
	})

	t.Run("invalid params", func(t *testing.T) {
		for _, spec := range []Spec{
			{Algo: AlgoFixedResolution},
			{Algo: AlgoDepthProportional},
			{Algo: AlgoDepthProportionalTapered},
			{Algo: AlgoRecencyProportionalCurb, Param: 7},
			{Algo: AlgoGeomSeqNthRoot},
			{Algo: AlgoGeomSeqNthRootTapered, Param: 65},
			{Algo: AlgoPerfect, Param: 1},
		} {
			_, err := New(spec)

			var target *ErrInvalidParam
			require.True(t, errors.As(err, &target), spec.String())
			assert.Equal(t, spec.Algo, target.Algo)
		}
	})

	t.Run("constructors panic", func(t *testing.T) {
		assert.Panics(t, func() { FixedResolution(0) })
		assert.Panics(t, func() { RecencyProportionalCurbed(7) })
		assert.Panics(t, func() { GeomSeqNthRoot(0) })
		assert.Panics(t, func() { MustNew(Spec{Algo: "bogus"}) })
	})

	t.Run("param names", func(t *testing.T) {
		assert.False(t, AlgoPerfect.HasParam())
		assert.Equal(t, "resolution", AlgoFixedResolution.ParamName())
		assert.Equal(t, "size_curb", AlgoRecencyProportionalCurb.ParamName())
		assert.Equal(t, "degree", AlgoGeomSeqNthRoot.ParamName())
		assert.Equal(t, "seed", AlgoStochastic.ParamName())
	})

	t.Run("parse spec errors", func(t *testing.T) {
		_, err := ParseSpec("fixed_resolution")
		assert.Error(t, err)
		_, err = ParseSpec("nominal_resolution:3")
		assert.Error(t, err)
		_, err = ParseSpec("fixed_resolution:x")
		assert.Error(t, err)
	})

	t.Run("long-form aliases", func(t *testing.T) {
		algo, err := ParseAlgo("perfect_resolution")
		require.NoError(t, err)
		assert.Equal(t, AlgoPerfect, algo)

		spec, err := ParseSpec("nominal_resolution")
		require.NoError(t, err)
		assert.Equal(t, Nominal().Spec(), spec)
		assert.Equal(t, "nominal", spec.String())
	})

	t.Run("short tags", func(t *testing.T) {
		algo, err := ParseAlgo("perfect")
		require.NoError(t, err)
		assert.Equal(t, AlgoPerfect, algo)

		spec, err := ParseSpec("nominal")
		require.NoError(t, err)
		assert.Equal(t, Spec{Algo: AlgoNominal}, spec)
	})

	t.Run("bare stochastic is seed zero", func(t *testing.T) {
		spec, err := ParseSpec("stochastic")
		require.NoError(t, err)
		assert.Equal(t, Stochastic(0).Spec(), spec)
	})
}
