package service

import (
	"go.uber.org/zap"

	"thor-wallet-core/pkg/address"
	"thor-wallet-core/pkg/bip32"
	"thor-wallet-core/pkg/bip39"
	"thor-wallet-core/pkg/keystore"
	"thor-wallet-core/pkg/logger"
	"thor-wallet-core/pkg/signer"
	"thor-wallet-core/pkg/transaction"
)

// Wallet 持有解密后的助记词，私钥只在签名时临时派生
type Wallet struct {
	words bip39.Mnemonic
}

var (
	_ AddressService = (*Wallet)(nil)
	_ SignService    = (*Wallet)(nil)
)

// NewWallet 由助记词创建钱包
func NewWallet(words bip39.Mnemonic) (*Wallet, error) {
	if err := bip32.ValidateMnemonic(words); err != nil {
		return nil, err
	}
	return &Wallet{words: append(bip39.Mnemonic{}, words...)}, nil
}

// Unlock 解密 Keystore 并创建钱包
func Unlock(keyJSON *keystore.EncryptedKeyJSON, password string) (*Wallet, error) {
	words, err := keystore.DecryptMnemonic(keyJSON, password)
	if err != nil {
		return nil, err
	}
	logger.Debug("keystore unlocked", zap.String("id", keyJSON.Id), zap.String("address", keyJSON.Address))
	return &Wallet{words: words}, nil
}

func (w *Wallet) Address(path string) (address.Address, error) {
	return address.OfMnemonic(w.words, path)
}

func (w *Wallet) SignAsSender(tx *transaction.Transaction, path string) (*transaction.Transaction, error) {
	key, err := bip39.DerivePrivateKey(w.words, path)
	if err != nil {
		return nil, err
	}
	defer clear(key)
	return signer.SignAsSender(tx, key)
}

// SignAsGasPayer 发送方地址从交易的第一个签名恢复
func (w *Wallet) SignAsGasPayer(tx *transaction.Transaction, path string) (*transaction.Transaction, error) {
	origin, err := signer.Origin(tx)
	if err != nil {
		return nil, err
	}
	key, err := bip39.DerivePrivateKey(w.words, path)
	if err != nil {
		return nil, err
	}
	defer clear(key)
	return signer.SignAsGasPayer(tx, origin, key)
}

// Mnemonic 返回助记词副本 (用于备份展示)
func (w *Wallet) Mnemonic() bip39.Mnemonic {
	return append(bip39.Mnemonic{}, w.words...)
}
