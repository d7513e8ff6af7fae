package policy

import (
	"fmt"
	"strconv"
	"strings"
)

// Algo is the stable tag of a retention algorithm.
type Algo string

const (
	AlgoPerfect                  Algo = "perfect"
	AlgoNominal                  Algo = "nominal"
	AlgoFixedResolution          Algo = "fixed_resolution"
	AlgoDepthProportional        Algo = "depth_proportional_resolution"
	AlgoDepthProportionalTapered Algo = "depth_proportional_resolution_tapered"
	AlgoRecencyProportional      Algo = "recency_proportional_resolution"
	AlgoRecencyProportionalCurb  Algo = "recency_proportional_resolution_curbed"
	AlgoGeomSeqNthRoot           Algo = "geom_seq_nth_root"
	AlgoGeomSeqNthRootTapered    Algo = "geom_seq_nth_root_tapered"
	AlgoStochastic               Algo = "stochastic"
)

var algorithms = []Algo{
	AlgoPerfect,
	AlgoNominal,
	AlgoFixedResolution,
	AlgoDepthProportional,
	AlgoDepthProportionalTapered,
	AlgoRecencyProportional,
	AlgoRecencyProportionalCurb,
	AlgoGeomSeqNthRoot,
	AlgoGeomSeqNthRootTapered,
	AlgoStochastic,
}

// algoAliases maps the long-form names older records carry.
var algoAliases = map[string]Algo{
	"perfect_resolution": AlgoPerfect,
	"nominal_resolution": AlgoNominal,
}

// Algorithms returns every registered algorithm tag.
func Algorithms() []Algo {
	return append([]Algo(nil), algorithms...)
}

// ParseAlgo validates a tag, resolving aliases to the canonical tag.
func ParseAlgo(s string) (Algo, error) {
	for _, a := range algorithms {
		if string(a) == s {
			return a, nil
		}
	}
	if a, ok := algoAliases[s]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgo, s)
}

// HasParam reports whether the algorithm takes a parameter.
func (a Algo) HasParam() bool {
	return a.ParamName() != ""
}

// ParamName names the algorithm's parameter, or "" if it takes none.
func (a Algo) ParamName() string {
	switch a {
	case AlgoFixedResolution, AlgoDepthProportional, AlgoDepthProportionalTapered, AlgoRecencyProportional:
		return "resolution"
	case AlgoRecencyProportionalCurb:
		return "size_curb"
	case AlgoGeomSeqNthRoot, AlgoGeomSeqNthRootTapered:
		return "degree"
	case AlgoStochastic:
		return "seed"
	default:
		return ""
	}
}

func (a Algo) String() string { return string(a) }

// Spec identifies a policy. Equal specs denote interchangeable policies.
type Spec struct {
	Algo Algo
	// Param is the algorithm's parameter; zero for algorithms without one.
	Param uint64
}

// String renders the spec as "algo" or "algo:param".
func (s Spec) String() string {
	if !s.Algo.HasParam() {
		return string(s.Algo)
	}
	return string(s.Algo) + ":" + strconv.FormatUint(s.Param, 10)
}

// ParseSpec is the inverse of Spec.String. A bare "stochastic" means seed 0.
func ParseSpec(s string) (Spec, error) {
	name, param, hasParam := strings.Cut(strings.TrimSpace(s), ":")

	algo, err := ParseAlgo(name)
	if err != nil {
		return Spec{}, err
	}

	spec := Spec{Algo: algo}
	switch {
	case algo == AlgoStochastic && !hasParam:
	case algo.HasParam() && !hasParam:
		return Spec{}, fmt.Errorf("policy: %s requires a %s", algo, algo.ParamName())
	case !algo.HasParam() && hasParam:
		return Spec{}, fmt.Errorf("policy: %s takes no parameter", algo)
	case hasParam:
		v, err := strconv.ParseUint(param, 10, 64)
		if err != nil {
			return Spec{}, fmt.Errorf("policy: parse %s: %w", algo.ParamName(), err)
		}
		spec.Param = v
	}

	return spec, validate(spec)
}

// New builds the policy identified by spec.
func New(spec Spec) (Policy, error) {
	if err := validate(spec); err != nil {
		return nil, err
	}

	switch spec.Algo {
	case AlgoPerfect:
		return Perfect(), nil
	case AlgoNominal:
		return Nominal(), nil
	case AlgoFixedResolution:
		return FixedResolution(spec.Param), nil
	case AlgoDepthProportional:
		return DepthProportional(spec.Param), nil
	case AlgoDepthProportionalTapered:
		return DepthProportionalTapered(spec.Param), nil
	case AlgoRecencyProportional:
		return RecencyProportional(spec.Param), nil
	case AlgoRecencyProportionalCurb:
		return RecencyProportionalCurbed(spec.Param), nil
	case AlgoGeomSeqNthRoot:
		return GeomSeqNthRoot(spec.Param), nil
	case AlgoGeomSeqNthRootTapered:
		return GeomSeqNthRootTapered(spec.Param), nil
	case AlgoStochastic:
		return Stochastic(spec.Param), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgo, spec.Algo)
	}
}

// MustNew is like New but panics on error.
func MustNew(spec Spec) Policy {
	p, err := New(spec)
	if err != nil {
		panic(err)
	}
	return p
}

const (
	// minCurb is the smallest size curb the curbed recency policy accepts.
	minCurb = 8
	// maxRecencyParam keeps 2R+1 block arithmetic inside 64 bits.
	maxRecencyParam = 1 << 32
)

func validate(spec Spec) error {
	invalid := func(reason string) error {
		return &ErrInvalidParam{Algo: spec.Algo, Param: spec.Param, Reason: reason}
	}

	switch spec.Algo {
	case AlgoPerfect, AlgoNominal:
		if spec.Param != 0 {
			return invalid("takes no parameter")
		}
	case AlgoStochastic:
		return nil
	case AlgoRecencyProportional:
		if spec.Param > maxRecencyParam {
			return invalid("too large")
		}
	case AlgoFixedResolution, AlgoDepthProportional, AlgoDepthProportionalTapered:
		if spec.Param < 1 {
			return invalid("must be at least 1")
		}
	case AlgoRecencyProportionalCurb:
		if spec.Param < minCurb {
			return invalid("must be at least 8")
		}
		if spec.Param > maxRecencyParam {
			return invalid("too large")
		}
	case AlgoGeomSeqNthRoot, AlgoGeomSeqNthRootTapered:
		if spec.Param < 1 {
			return invalid("must be at least 1")
		}
		if spec.Param > maxDegree {
			return invalid("must be at most 64")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAlgo, spec.Algo)
	}
	return nil
}

func mustValidate(spec Spec) {
	if err := validate(spec); err != nil {
		panic(err)
	}
}
