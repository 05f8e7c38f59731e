package service

import (
	"thor-wallet-core/pkg/address"
	"thor-wallet-core/pkg/transaction"
)

type AddressService interface {
	// Address 返回派生路径上的地址
	// path: 相对 m/44'/818'/0'/0 的路径，如 "m/0"
	Address(path string) (address.Address, error)
}

type SignService interface {
	// SignAsSender 以 path 上的私钥作为发送方签名
	SignAsSender(tx *transaction.Transaction, path string) (*transaction.Transaction, error)
	// SignAsGasPayer 以 path 上的私钥为代付交易追加 gas payer 签名
	SignAsGasPayer(tx *transaction.Transaction, path string) (*transaction.Transaction, error)
}
