package bjj

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sync"

	"github.com/fxamacker/cbor/v2"

	curve "github.com/Web3StudyGroup/SecretPlatform/crypto/ecc"
	"github.com/Web3StudyGroup/SecretPlatform/types"

	babyjubjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
)

const CurveType = "bjj"

var Params babyjubjub.CurveParams

func init() {
	Params = babyjubjub.GetEdwardsCurve()
}

// BJJ is the affine representation of a BabyJubJub group element.
type BJJ struct {
	inner *babyjubjub.PointAffine
	lock  sync.Mutex
}

// New creates a new BJJ point set to the identity element.
func New() curve.Point {
	p := &BJJ{inner: new(babyjubjub.PointAffine)}
	p.SetZero()
	return p
}

func (g *BJJ) New() curve.Point {
	return New()
}

// Order returns the order of the BabyJubJub curve subgroup.
func (g *BJJ) Order() *big.Int {
	return new(big.Int).Set(&Params.Order)
}

func (g *BJJ) Add(a, b curve.Point) {
	g.inner.Add(a.(*BJJ).inner, b.(*BJJ).inner)
}

func (g *BJJ) SafeAdd(a, b curve.Point) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.Add(a, b)
}

func (g *BJJ) ScalarMult(a curve.Point, scalar *big.Int) {
	g.inner.ScalarMultiplication(a.(*BJJ).inner, scalar)
}

func (g *BJJ) ScalarBaseMult(scalar *big.Int) {
	g.SetGenerator()
	g.ScalarMult(g, scalar)
}

func (g *BJJ) Marshal() []byte {
	b := g.inner.Marshal()
	return b[:]
}

func (g *BJJ) Unmarshal(buf []byte) error {
	return g.inner.Unmarshal(buf)
}

func (g *BJJ) MarshalJSON() ([]byte, error) {
	x, y := g.Point()
	xi := types.BigInt(*x)
	yi := types.BigInt(*y)
	return json.Marshal([]*types.BigInt{&xi, &yi})
}

func (g *BJJ) UnmarshalJSON(buf []byte) error {
	if g.inner == nil {
		g.inner = new(babyjubjub.PointAffine)
	}
	var coords []*types.BigInt
	if err := json.Unmarshal(buf, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("expected 2 coordinates, got %d", len(coords))
	}
	g.inner.X.SetBigInt(coords[0].MathBigInt())
	g.inner.Y.SetBigInt(coords[1].MathBigInt())
	return nil
}

func (g *BJJ) MarshalCBOR() ([]byte, error) {
	x, y := g.Point()
	return cbor.Marshal([]*big.Int{x, y})
}

func (g *BJJ) UnmarshalCBOR(buf []byte) error {
	if g.inner == nil {
		g.inner = new(babyjubjub.PointAffine)
	}
	var coords []*big.Int
	if err := cbor.Unmarshal(buf, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("expected 2 coordinates, got %d", len(coords))
	}
	g.inner.X.SetBigInt(coords[0])
	g.inner.Y.SetBigInt(coords[1])
	return nil
}

func (g *BJJ) Equal(a curve.Point) bool {
	return g.inner.Equal(a.(*BJJ).inner)
}

func (g *BJJ) Neg(a curve.Point) {
	g.inner.Neg(a.(*BJJ).inner)
}

// SetZero sets the point to the identity element (0, 1).
func (g *BJJ) SetZero() {
	g.inner.X.SetZero()
	g.inner.Y.SetOne()
}

func (g *BJJ) Set(a curve.Point) {
	g.inner.Set(a.(*BJJ).inner)
}

func (g *BJJ) SetGenerator() {
	g.inner.Set(&Params.Base)
}

func (g *BJJ) String() string {
	return fmt.Sprintf("%x", g.Marshal())
}

func (g *BJJ) Point() (*big.Int, *big.Int) {
	return g.inner.X.BigInt(new(big.Int)), g.inner.Y.BigInt(new(big.Int))
}

func (g *BJJ) SetPoint(x, y *big.Int) curve.Point {
	g = &BJJ{inner: new(babyjubjub.PointAffine)}
	g.inner.X.SetBigInt(x)
	g.inner.Y.SetBigInt(y)
	return g
}

func (g *BJJ) Type() string {
	return CurveType
}
