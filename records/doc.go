// Package records converts columns and specimens to and from the flat
// records form used for exchange and persistence.
//
// A record carries the policy identity, the differentia width, the deposit
// count, the retained ranks, and every retained fingerprint packed
// most-significant-bit first and hex encoded:
//
//	{
//	  "policy_algo": "fixed_resolution",
//	  "policy_param": 10,
//	  "differentia_bit_width": 64,
//	  "num_strata_deposited": 36,
//	  "differentiae": "…",
//	  "stratum_ranks": [0, 10, 20, 30, 35],
//	  "hstrat_version": "0.3.0"
//	}
//
// Marshal and Unmarshal go through a codec.Codec and may wrap the payload in
// a checksummed, optionally compressed envelope. Unmarshal detects the
// envelope on its own.
package records
