package evm

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// EthDecimals 原生币 wei 精度
	EthDecimals = 18
	// USDCDecimals 稳定币最小单位精度
	USDCDecimals = 6
)

// ToBaseUnits 展示单位 -> 最小单位，向下取整 (绝不授权超过用户输入的金额)
func ToBaseUnits(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Floor().BigInt()
}

// FromBaseUnits 最小单位 -> 展示单位
func FromBaseUnits(base *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(base, 0).Shift(-decimals)
}

// ShortenAddress "0x1234abcd...5678" 形式的展示缩写
func ShortenAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
