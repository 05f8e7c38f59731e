package bip39

import (
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicService 提供面向短语字符串的助记词功能 (CLI 使用)
type MnemonicService struct{}

// NewMnemonicService 创建一个新的助记词服务实例
func NewMnemonicService() *MnemonicService {
	return &MnemonicService{}
}

// GenerateMnemonic 生成一个新的随机助记词 (BIP-39)。
// bitSize: 熵的位数，128 (12个单词) 到 256 (24个单词)，步长 32。
func (s *MnemonicService) GenerateMnemonic(bitSize int) (string, error) {
	m, err := Generate(bitSize/32*3, nil)
	if err != nil {
		return "", err
	}
	return m.Phrase(), nil
}

// ValidateMnemonic 验证助记词是否有效。
func (s *MnemonicService) ValidateMnemonic(mnemonic string) bool {
	return IsValid(mnemonic)
}

// MnemonicToSeed 将助记词转换为种子 (BIP-39 Seed)。
// password: 可选的密码 (Passphrase)，不需要时传空字符串 ""。
func (s *MnemonicService) MnemonicToSeed(mnemonic string, password string) []byte {
	return bip39.NewSeed(mnemonic, password)
}

// DerivePrivateKey 从短语派生 VET 私钥，path 相对 VET 账户节点
func (s *MnemonicService) DerivePrivateKey(mnemonic, path string) ([]byte, error) {
	return DerivePrivateKey(strings.Fields(mnemonic), path)
}
