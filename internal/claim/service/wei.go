package service

import (
	"math"
	"math/big"

	dErrors "zenith/pkg/domain-errors"
)

// weiPerUnit is 10^18, the native currency's smallest-unit scale.
var weiPerUnit = new(big.Float).SetPrec(256).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// ToWei converts a USD amount to the native currency's smallest unit at
// unitPrice USD per unit, rounding down.
func ToWei(usd, unitPrice float64) (*big.Int, error) {
	if usd < 0 || math.IsNaN(usd) || math.IsInf(usd, 0) {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "invalid usd amount %v", usd)
	}
	if usd == 0 {
		return new(big.Int), nil
	}
	if !(unitPrice > 0) || math.IsInf(unitPrice, 0) {
		return nil, dErrors.Newf(dErrors.CodePriceUnavailable, "invalid unit price %v", unitPrice)
	}
	units := new(big.Float).SetPrec(256).SetFloat64(usd)
	units.Mul(units, weiPerUnit)
	units.Quo(units, new(big.Float).SetPrec(256).SetFloat64(unitPrice))
	wei, _ := units.Int(nil) // truncates toward zero; units is positive
	return wei, nil
}
