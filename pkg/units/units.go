// Package units 在 VET (VTHO) 与最小单位 wei 之间换算，1 VET = 10^18 wei。
package units

import (
	"math/big"

	"github.com/shopspring/decimal"

	"thor-wallet-core/pkg/errno"
)

// Decimals VET 与 VTHO 的小数位数
const Decimals = 18

// ParseUnits 将十进制字符串按 decimals 位小数转换为整数
func ParseUnits(value string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, errno.New(errno.ErrIllegalArgument, "units.ParseUnits", "invalid decimal",
			map[string]any{"value": value}, err)
	}
	if d.IsNegative() {
		return nil, errno.New(errno.ErrIllegalArgument, "units.ParseUnits", "negative amount",
			map[string]any{"value": value}, nil)
	}

	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, errno.New(errno.ErrIllegalArgument, "units.ParseUnits", "too many decimal places",
			map[string]any{"value": value, "decimals": decimals}, nil)
	}
	return scaled.BigInt(), nil
}

// FormatUnits 将整数按 decimals 位小数格式化，去掉末尾的 0
func FormatUnits(value *big.Int, decimals int32) string {
	return decimal.NewFromBigInt(value, -decimals).String()
}

// ParseVET "1.5" -> 1500000000000000000
func ParseVET(value string) (*big.Int, error) {
	return ParseUnits(value, Decimals)
}

// FormatVET 1500000000000000000 -> "1.5"
func FormatVET(wei *big.Int) string {
	return FormatUnits(wei, Decimals)
}
