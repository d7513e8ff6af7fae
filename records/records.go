package records

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hupe1980/hstrat"
	"github.com/hupe1980/hstrat/differentia"
	"github.com/hupe1980/hstrat/policy"
)

// Records is the flat form of a column or specimen.
type Records struct {
	PolicyAlgo          string   `json:"policy_algo" validate:"required,policyalgo"`
	PolicyParam         *uint64  `json:"policy_param"`
	DifferentiaBitWidth int      `json:"differentia_bit_width" validate:"min=1,max=65536"`
	NumStrataDeposited  uint64   `json:"num_strata_deposited"`
	Differentiae        string   `json:"differentiae" validate:"omitempty,hexadecimal"`
	StratumRanks        []uint64 `json:"stratum_ranks"`
	HstratVersion       string   `json:"hstrat_version"`
}

// MaxBitWidth is the widest differentia a record may declare.
const MaxBitWidth = 1 << 16

var recordsValidate *validator.Validate

func init() {
	recordsValidate = validator.New()

	recordsValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	_ = recordsValidate.RegisterValidation("policyalgo", func(fl validator.FieldLevel) bool {
		_, err := policy.ParseAlgo(fl.Field().String())
		return err == nil
	})
}

// FromColumn flattens c.
func FromColumn(c *hstrat.Column) *Records {
	return FromSpecimen(c.Specimen(), c.Policy().Spec())
}

// FromSpecimen flattens s, tagging it with the policy it was captured under.
func FromSpecimen(s *hstrat.Specimen, spec policy.Spec) *Records {
	r := &Records{
		PolicyAlgo:          string(spec.Algo),
		DifferentiaBitWidth: s.DifferentiaBitWidth(),
		NumStrataDeposited:  s.NumStrataDeposited(),
		Differentiae:        differentia.EncodeHex(s.DifferentiaBitWidth(), s.Differentiae()),
		StratumRanks:        s.Ranks(),
		HstratVersion:       hstrat.Version,
	}
	if spec.Algo.HasParam() {
		param := spec.Param
		r.PolicyParam = &param
	}

	return r
}

// Spec returns the policy identity carried by r.
func (r *Records) Spec() (policy.Spec, error) {
	algo, err := policy.ParseAlgo(r.PolicyAlgo)
	if err != nil {
		return policy.Spec{}, fieldErr("policy_algo", "unknown algorithm", err)
	}

	spec := policy.Spec{Algo: algo}
	switch {
	case algo == policy.AlgoStochastic && r.PolicyParam == nil:
		// unseeded
	case algo.HasParam() && r.PolicyParam == nil:
		return policy.Spec{}, fieldErr("policy_param", "required by "+string(algo), nil)
	case !algo.HasParam() && r.PolicyParam != nil:
		return policy.Spec{}, fieldErr("policy_param", "must be null for "+string(algo), nil)
	case r.PolicyParam != nil:
		spec.Param = *r.PolicyParam
	}

	return spec, nil
}

// Validate checks that the fields of r are mutually consistent.
func (r *Records) Validate() error {
	_, err := r.decode()
	return err
}

func (r *Records) decode() (*hstrat.Specimen, error) {
	if err := recordsValidate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fieldErr(verrs[0].Field(), "failed "+verrs[0].Tag(), nil)
		}
		return nil, fieldErr("records", "validation", err)
	}

	if _, err := r.Spec(); err != nil {
		return nil, err
	}

	if n := len(r.StratumRanks); n > 0 && r.DifferentiaBitWidth > (math.MaxInt-7)/n {
		return nil, fieldErr("differentia_bit_width",
			fmt.Sprintf("width %d overflows the payload size for %d ranks", r.DifferentiaBitWidth, n), nil)
	}

	if want := 2 * differentia.PackedLen(r.DifferentiaBitWidth, len(r.StratumRanks)); len(r.Differentiae) != want {
		return nil, fieldErr("differentiae",
			fmt.Sprintf("%d hex digits for %d ranks at width %d, want %d",
				len(r.Differentiae), len(r.StratumRanks), r.DifferentiaBitWidth, want), nil)
	}

	ds, err := differentia.DecodeHex(r.DifferentiaBitWidth, len(r.StratumRanks), r.Differentiae)
	if err != nil {
		return nil, fieldErr("differentiae", "malformed payload", err)
	}

	s, err := hstrat.NewSpecimen(r.DifferentiaBitWidth, r.NumStrataDeposited, r.StratumRanks, ds)
	if err != nil {
		return nil, fieldErr("stratum_ranks", "inconsistent with num_strata_deposited", err)
	}

	return s, nil
}

// ToSpecimen validates r and rebuilds the specimen it describes. A version
// other than hstrat.Version is logged and tolerated.
func ToSpecimen(r *Records, optFns ...Option) (*hstrat.Specimen, error) {
	o := applyOptions(optFns)
	return toSpecimen(r, o)
}

func toSpecimen(r *Records, o options) (*hstrat.Specimen, error) {
	if r.HstratVersion != hstrat.Version {
		o.logger.LogVersionMismatch(context.Background(), hstrat.Version, r.HstratVersion)
	}

	s, err := r.decode()
	o.metricsCollector.RecordRecordsIngest(err)

	return s, err
}

// ToColumn rebuilds a live column from r. The policy named by r must retain
// exactly the ranks r lists.
func ToColumn(r *Records, optFns ...Option) (*hstrat.Column, error) {
	o := applyOptions(optFns)

	s, err := toSpecimen(r, o)
	if err != nil {
		return nil, err
	}

	spec, err := r.Spec()
	if err != nil {
		return nil, err
	}

	p, err := policy.New(spec)
	if err != nil {
		return nil, fieldErr("policy_param", "rejected by policy", err)
	}

	columnOpts := append([]hstrat.Option{hstrat.WithLogger(o.logger)}, o.columnOptions...)

	c, err := hstrat.RestoreColumn(p, s, columnOpts...)
	if err != nil {
		return nil, fieldErr("stratum_ranks", "do not match policy", err)
	}

	return c, nil
}

// Marshal encodes r with the configured codec, wrapping it in an envelope
// when WithCompression is given.
func Marshal(r *Records, optFns ...Option) ([]byte, error) {
	o := applyOptions(optFns)

	data, err := o.codec.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("records: %s marshal: %w", o.codec.Name(), err)
	}

	if !o.envelope {
		return data, nil
	}

	return Compress(data, o.compression)
}

// Unmarshal decodes and validates records produced by Marshal. Enveloped
// input is detected and unwrapped.
func Unmarshal(data []byte, optFns ...Option) (*Records, error) {
	o := applyOptions(optFns)

	if IsEnveloped(data) {
		var err error
		if data, err = Decompress(data); err != nil {
			return nil, err
		}
	}

	r := &Records{}
	if err := o.codec.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("%w: %s unmarshal: %w", ErrInvalidRecords, o.codec.Name(), err)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}
