// Package datamodel 定义值类型 (助记词、地址等) 共享的能力接口。
//
// 某些类型在语义上不支持其中的部分能力，此时方法返回
// errno.ErrUnsupportedOperation 而不是被省略，调用方拿到统一的契约。
package datamodel

import (
	"math/big"

	"thor-wallet-core/pkg/errno"
)

// Model 是值类型的能力接口
type Model interface {
	// BigInt 返回大整数表示
	BigInt() (*big.Int, error)
	// Number 返回浮点数表示
	Number() (float64, error)
	// Bytes 返回字节表示
	Bytes() ([]byte, error)
	// Compare 返回 -1 / 0 / 1
	Compare(other Model) (int, error)
	// IsEqual 判断是否相等
	IsEqual(other Model) (bool, error)
}

// Unsupported 构造一个 "不支持的操作" 错误。
// typeName 与 method 只描述类型和方法名，不包含值本身。
func Unsupported(typeName, method string) error {
	return errno.New(errno.ErrUnsupportedOperation, typeName+"."+method,
		"operation is not supported by "+typeName, nil, nil)
}
