// Package bip39 提供助记词的生成、校验以及从助记词派生私钥。
//
// 助记词属于敏感数据: 本包返回的错误与 Mnemonic 的字符串形式都不包含任何单词。
package bip39

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"thor-wallet-core/pkg/bip32"
	"thor-wallet-core/pkg/datamodel"
	"thor-wallet-core/pkg/errno"
)

// DefaultPath 是相对 VET 账户节点 (m/44'/818'/0'/0) 的默认派生路径，即第一个地址
const DefaultPath = "m/0"

// RandomGenerator 返回 n 个随机字节，仅用于测试中注入确定性熵
type RandomGenerator func(n int) ([]byte, error)

// Mnemonic 是有序的助记词单词列表
type Mnemonic []string

var _ datamodel.Model = Mnemonic(nil)

// WordsNoToStrength 将单词数量映射为熵的位数: 12/15/18/21/24 -> 128/160/192/224/256
func WordsNoToStrength(wordsNo int) (int, error) {
	switch wordsNo {
	case 12, 15, 18, 21, 24:
		return wordsNo / 3 * 32, nil
	default:
		return 0, errno.New(errno.ErrInvalidDataType, "bip39.WordsNoToStrength",
			"words number must be one of 12, 15, 18, 21, 24", map[string]any{"words": wordsNo}, nil)
	}
}

// Generate 生成 wordsNo 个单词的助记词。
// gen 为 nil 时使用 CSPRNG，否则从 gen 读取 strength/8 字节熵 (只应在测试中使用)。
func Generate(wordsNo int, gen RandomGenerator) (Mnemonic, error) {
	strength, err := WordsNoToStrength(wordsNo)
	if err != nil {
		return nil, err
	}

	// 1. 生成熵
	var entropy []byte
	if gen != nil {
		entropy, err = gen(strength / 8)
		if err == nil && len(entropy) != strength/8 {
			err = fmt.Errorf("generator returned %d bytes, want %d", len(entropy), strength/8)
		}
	} else {
		entropy, err = bip39.NewEntropy(strength)
	}
	if err != nil {
		return nil, errno.New(errno.ErrInvalidHDKeyMnemonic, "bip39.Generate", "生成熵失败",
			map[string]any{"words": wordsNo}, err)
	}

	// 2. 从熵生成助记词
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, errno.New(errno.ErrInvalidHDKeyMnemonic, "bip39.Generate", "生成助记词失败",
			map[string]any{"words": wordsNo}, err)
	}

	return Mnemonic(strings.Fields(phrase)), nil
}

// IsValid 按 BIP-39 校验单词数量、词表和校验位。
// 既接受单个空格分隔的短语，也接受单词列表。
func IsValid(words ...string) bool {
	return bip32.ValidateMnemonic(words) == nil
}

// DerivePrivateKey 从助记词派生私钥。
// path 相对 VET 账户节点 m/44'/818'/0'/0，为空时使用 DefaultPath。
func DerivePrivateKey(words []string, path string) ([]byte, error) {
	if path == "" {
		path = DefaultPath
	}

	// 1. 助记词 -> 种子 -> VET 账户节点
	account, err := bip32.FromMnemonic(words, bip32.VETDerivationPath)
	if err != nil {
		return nil, err
	}

	// 2. 沿 path 派生
	node, err := account.Derive(path)
	if err != nil {
		return nil, errno.New(errno.ErrInvalidHDKey, "bip39.DerivePrivateKey", "derivation failed",
			map[string]any{"path": path}, err)
	}
	return node.PrivateKey(), nil
}

// Phrase 返回空格连接的小写短语
func (m Mnemonic) Phrase() string {
	return bip32.NormalizeMnemonic(m)
}

// String 不输出单词，避免助记词被 %v 打进日志
func (m Mnemonic) String() string {
	return fmt.Sprintf("Mnemonic(%d words)", len(m))
}

func (m Mnemonic) BigInt() (*big.Int, error) {
	return nil, datamodel.Unsupported("Mnemonic", "BigInt")
}

func (m Mnemonic) Number() (float64, error) {
	return 0, datamodel.Unsupported("Mnemonic", "Number")
}

func (m Mnemonic) Bytes() ([]byte, error) {
	return nil, datamodel.Unsupported("Mnemonic", "Bytes")
}

func (m Mnemonic) Compare(datamodel.Model) (int, error) {
	return 0, datamodel.Unsupported("Mnemonic", "Compare")
}

func (m Mnemonic) IsEqual(datamodel.Model) (bool, error) {
	return false, datamodel.Unsupported("Mnemonic", "IsEqual")
}
