package utils

import (
	"fmt"

	"lukechampine.com/uint128"
)

// atomic units per XMR
const xmrDenomination = 1000000000000

func XMRUnits(v uint64) string {
	return fmt.Sprintf("%d.%012d", v/xmrDenomination, v%xmrDenomination)
}

// XMRUnits128 formats tallies that may exceed 64 bits
func XMRUnits128(v uint128.Uint128) string {
	q, r := v.QuoRem64(xmrDenomination)
	return fmt.Sprintf("%s.%012d", q.String(), r)
}
