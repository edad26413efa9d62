package common

import (
	"fmt"
	"math/big"
	"strings"
)

func pow10(decimal uint64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimal)), nil)
}

// FloatStringToBig parses a decimal string such as "0.5" into its integer
// representation with the given number of decimals. Digits beyond the
// precision are truncated.
func FloatStringToBig(value string, decimal uint64) (*big.Int, error) {
	r, success := new(big.Rat).SetString(strings.TrimSpace(value))
	if !success {
		return nil, fmt.Errorf("couldn't parse %q as a number", value)
	}
	r.Mul(r, new(big.Rat).SetInt(pow10(decimal)))
	return new(big.Int).Quo(r.Num(), r.Denom()), nil
}

// BigToFloatString renders value with the given decimals, trimming
// trailing zeros: BigToFloatString(5e17, 18) = "0.5".
func BigToFloatString(value *big.Int, decimal uint64) string {
	if value == nil {
		return "0"
	}
	text := new(big.Rat).SetFrac(value, pow10(decimal)).FloatString(int(decimal))
	if strings.Contains(text, ".") {
		text = strings.TrimRight(text, "0")
		text = strings.TrimSuffix(text, ".")
	}
	return text
}
