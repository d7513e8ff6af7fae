package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordShape mirrors the records wire layout without importing it.
type recordShape struct {
	PolicyAlgo          string   `json:"policy_algo"`
	PolicyParam         *uint64  `json:"policy_param"`
	DifferentiaBitWidth int      `json:"differentia_bit_width"`
	NumStrataDeposited  uint64   `json:"num_strata_deposited"`
	Differentiae        string   `json:"differentiae"`
	StratumRanks        []uint64 `json:"stratum_ranks"`
	HstratVersion       string   `json:"hstrat_version"`
}

func sampleRecord(ranks int) recordShape {
	param := uint64(10)
	r := recordShape{
		PolicyAlgo:          "fixed_resolution",
		PolicyParam:         &param,
		DifferentiaBitWidth: 64,
		Differentiae:        strings.Repeat("0123456789abcdef", ranks),
		HstratVersion:       "0.3.0",
	}
	for i := range ranks {
		r.StratumRanks = append(r.StratumRanks, uint64(i*10))
	}
	r.NumStrataDeposited = uint64(ranks * 10)
	return r
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAgree(t *testing.T) {
	in := sampleRecord(8)

	a, err := JSON{}.Marshal(in)
	require.NoError(t, err)
	b, err := GoJSON{}.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))

	var out recordShape
	require.NoError(t, GoJSON{}.Unmarshal(a, &out))
	assert.Equal(t, in, out)

	appended, err := GoJSON{}.Append([]byte("x"), in)
	require.NoError(t, err)
	assert.Equal(t, "x"+string(b), string(appended))
}

func TestMustMarshalPanics(t *testing.T) {
	assert.NotEmpty(t, MustMarshal(nil, sampleRecord(1)))
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}
