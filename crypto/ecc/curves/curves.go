package curves

import (
	"fmt"

	"github.com/Web3StudyGroup/SecretPlatform/crypto/ecc"
	"github.com/Web3StudyGroup/SecretPlatform/crypto/ecc/bjj"
	"github.com/Web3StudyGroup/SecretPlatform/crypto/ecc/bn254"
)

const (
	// CurveTypeBabyJubJub is the BabyJubJub twisted edwards curve.
	CurveTypeBabyJubJub = bjj.CurveType
	// CurveTypeBN254 is the BN254 G1 group, the default curve.
	CurveTypeBN254 = bn254.CurveType
)

// New creates a new instance of a curve Point implementation based on the
// provided type string. The supported types are defined as constants in this
// package. If the type is not supported, it will panic.
func New(curveType string) ecc.Point {
	switch curveType {
	case CurveTypeBN254:
		return new(bn254.G1).New()
	case CurveTypeBabyJubJub:
		return bjj.New()
	default:
		panic(fmt.Sprintf("unsupported curve type: %s", curveType))
	}
}
