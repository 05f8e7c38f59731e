// Package signer 为交易附加发送方与 gas payer 签名，并从签名恢复身份。
//
// 状态转换: 未签名 -> 发送方已签名 -> (代付交易) 发送方与 gas payer 均已签名。
// 每一步都返回新的交易，输入交易不被修改。
package signer

import (
	"encoding/hex"

	"go.uber.org/zap"

	"thor-wallet-core/pkg/address"
	"thor-wallet-core/pkg/crypto_util"
	"thor-wallet-core/pkg/errno"
	"thor-wallet-core/pkg/logger"
	"thor-wallet-core/pkg/secp256k1"
	"thor-wallet-core/pkg/transaction"
)

// SignAsSender 用发送方私钥签名未签名交易
func SignAsSender(tx *transaction.Transaction, senderKey []byte) (*transaction.Transaction, error) {
	if len(tx.Signature()) != 0 {
		return nil, errno.New(errno.ErrInvalidTransactionField, "signer.SignAsSender",
			"transaction is already signed", map[string]any{"field": "signature"}, nil)
	}

	// 1. 计算签名哈希
	hash, err := tx.SigningHash()
	if err != nil {
		return nil, err
	}

	// 2. ECDSA 签名
	sig, err := secp256k1.Sign(hash, senderKey)
	if err != nil {
		return nil, err
	}

	signed, err := tx.WithSignature(sig)
	if err != nil {
		return nil, err
	}
	logger.Debug("transaction signed by sender",
		zap.String("type", tx.Type().String()),
		zap.Bool("delegated", tx.IsDelegated()))
	return signed, nil
}

// SignAsGasPayer 为发送方已签名的代付交易追加 gas payer 签名。
// sender 是发送方地址，gas payer 签名的消息为 blake2b256(signingHash || sender)。
func SignAsGasPayer(tx *transaction.Transaction, sender address.Address, gasPayerKey []byte) (*transaction.Transaction, error) {
	if !tx.IsDelegated() {
		return nil, errno.New(errno.ErrInvalidTransactionField, "signer.SignAsGasPayer",
			"transaction is not delegated", map[string]any{"field": "reserved"}, nil)
	}
	senderSig := tx.Signature()
	if len(senderSig) != secp256k1.SignatureLength {
		return nil, errno.New(errno.ErrInvalidTransactionField, "signer.SignAsGasPayer",
			"transaction must carry exactly the sender signature",
			map[string]any{"field": "signature", "length": len(senderSig)}, nil)
	}

	hash, err := tx.GasPayerSigningHash(sender)
	if err != nil {
		return nil, err
	}
	sig, err := secp256k1.Sign(hash, gasPayerKey)
	if err != nil {
		return nil, err
	}

	signed, err := tx.WithSignature(append(senderSig, sig...))
	if err != nil {
		return nil, err
	}
	logger.Debug("transaction signed by gas payer", zap.String("sender", sender.String()))
	return signed, nil
}

// SignAsSenderAndGasPayer 依次完成发送方与 gas payer 签名
func SignAsSenderAndGasPayer(tx *transaction.Transaction, senderKey, gasPayerKey []byte) (*transaction.Transaction, error) {
	sender, err := address.OfPrivateKey(senderKey)
	if err != nil {
		return nil, err
	}
	signed, err := SignAsSender(tx, senderKey)
	if err != nil {
		return nil, err
	}
	return SignAsGasPayer(signed, sender, gasPayerKey)
}

// Origin 从发送方签名恢复发送方地址
func Origin(tx *transaction.Transaction) (address.Address, error) {
	sig, err := tx.SenderSignature()
	if err != nil {
		return address.Address{}, err
	}
	hash, err := tx.SigningHash()
	if err != nil {
		return address.Address{}, err
	}
	pub, err := secp256k1.Recover(hash, sig)
	if err != nil {
		return address.Address{}, err
	}
	return address.OfPublicKey(pub)
}

// GasPayer 从第二个签名恢复 gas payer 地址
func GasPayer(tx *transaction.Transaction) (address.Address, error) {
	sig, err := tx.GasPayerSignature()
	if err != nil {
		return address.Address{}, err
	}
	origin, err := Origin(tx)
	if err != nil {
		return address.Address{}, err
	}
	hash, err := tx.GasPayerSigningHash(origin)
	if err != nil {
		return address.Address{}, err
	}
	pub, err := secp256k1.Recover(hash, sig)
	if err != nil {
		return address.Address{}, err
	}
	return address.OfPublicKey(pub)
}

// ID 返回交易 ID: blake2b256(signingHash || origin)
func ID(tx *transaction.Transaction) ([]byte, error) {
	origin, err := Origin(tx)
	if err != nil {
		return nil, err
	}
	hash, err := tx.SigningHash()
	if err != nil {
		return nil, err
	}
	id := crypto_util.Blake2b256(hash, origin[:])
	logger.Debug("transaction id computed",
		zap.String("id", "0x"+hex.EncodeToString(id)),
		zap.String("origin", origin.String()))
	return id, nil
}
