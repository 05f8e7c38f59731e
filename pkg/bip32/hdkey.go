package bip32

import (
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"

	"thor-wallet-core/pkg/errno"
	"thor-wallet-core/pkg/secp256k1"
)

const (
	// VETDerivationPath 是 VET 账户节点的 BIP-44 路径 (coin type 818)
	VETDerivationPath = "m/44'/818'/0'/0"

	// HardenedKeyStart 之后的索引为强化派生
	HardenedKeyStart = hdkeychain.HardenedKeyStart

	ChainCodeLength = 32
)

// 扩展密钥序列化 (xprv / xpub) 使用主网版本字节
var network = &chaincfg.MainNetParams

// HDKey 是 BIP-32 树上的一个节点，封装了 hdkeychain.ExtendedKey。
// 只含公钥的节点仍可派生 (非强化) 子节点，但 PrivateKey() 始终返回 nil。
type HDKey struct {
	key *hdkeychain.ExtendedKey
}

// FromSeed 使用 BIP-39 种子生成主节点 (m)
func FromSeed(seed []byte) (*HDKey, error) {
	if len(seed) < hdkeychain.MinSeedBytes || len(seed) > hdkeychain.MaxSeedBytes {
		return nil, errno.New(errno.ErrInvalidHDKey, "HDKey.FromSeed", "invalid seed",
			map[string]any{"length": len(seed)}, ErrInvalidSeed)
	}

	master, err := hdkeychain.NewMaster(seed, network)
	if err != nil {
		return nil, errno.New(errno.ErrInvalidHDKey, "HDKey.FromSeed", "unusable seed", nil, err)
	}
	return &HDKey{key: master}, nil
}

// FromMnemonic 由助记词生成主节点并沿 path 派生 (path 为空时使用 VETDerivationPath)
func FromMnemonic(words []string, path string) (*HDKey, error) {
	seed, err := SeedFromMnemonic(words)
	if err != nil {
		return nil, err
	}
	master, err := FromSeed(seed)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = VETDerivationPath
	}
	return master.Derive(path)
}

// FromPrivateKey 由 32 字节私钥和 32 字节链码构造一个根节点
func FromPrivateKey(privateKey, chainCode []byte) (*HDKey, error) {
	if len(chainCode) != ChainCodeLength {
		return nil, errno.New(errno.ErrInvalidHDKey, "HDKey.FromPrivateKey", "chain code must be 32 bytes",
			map[string]any{"length": len(chainCode)}, nil)
	}
	if !secp256k1.IsValidPrivateKey(privateKey) {
		return nil, errno.New(errno.ErrInvalidPrivateKey, "HDKey.FromPrivateKey", "invalid private key",
			map[string]any{"length": len(privateKey)}, nil)
	}

	key := hdkeychain.NewExtendedKey(network.HDPrivateKeyID[:], clone(privateKey), clone(chainCode),
		[]byte{0, 0, 0, 0}, 0, 0, true)
	return &HDKey{key: key}, nil
}

// FromPublicKey 由公钥 (33 或 65 字节) 和链码构造一个只读根节点
func FromPublicKey(publicKey, chainCode []byte) (*HDKey, error) {
	if len(chainCode) != ChainCodeLength {
		return nil, errno.New(errno.ErrInvalidHDKey, "HDKey.FromPublicKey", "chain code must be 32 bytes",
			map[string]any{"length": len(chainCode)}, nil)
	}
	compressed, err := secp256k1.CompressPublicKey(publicKey)
	if err != nil {
		return nil, err
	}

	key := hdkeychain.NewExtendedKey(network.HDPublicKeyID[:], compressed, clone(chainCode),
		[]byte{0, 0, 0, 0}, 0, 0, false)
	return &HDKey{key: key}, nil
}

// DeriveChild 派生第 index 个子节点，index >= HardenedKeyStart 时为强化派生 (需要私钥)
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	child, err := k.key.Derive(index)
	if err != nil {
		return nil, errno.New(errno.ErrInvalidHDKey, "HDKey.DeriveChild", "child derivation failed",
			map[string]any{"index": index}, err)
	}
	return &HDKey{key: child}, nil
}

// Derive 解析路径并逐级派生
// 支持格式: m/44'/818'/0'/0/0、m/44h/818h/0h/0/0 或 0/1/2 (相对当前节点)
func (k *HDKey) Derive(path string) (*HDKey, error) {
	indexes, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	current := k
	for _, index := range indexes {
		next, err := current.key.Derive(index)
		if err != nil {
			return nil, errno.New(errno.ErrInvalidHDKey, "HDKey.Derive", "derivation failed",
				map[string]any{"path": path}, err)
		}
		current = &HDKey{key: next}
	}
	return current, nil
}

// PrivateKey 返回 32 字节私钥，公钥节点返回 nil
func (k *HDKey) PrivateKey() []byte {
	if !k.key.IsPrivate() {
		return nil
	}
	priv, err := k.key.ECPrivKey()
	if err != nil {
		return nil
	}
	return priv.Serialize()
}

// PublicKey 返回 33 字节压缩公钥
func (k *HDKey) PublicKey() []byte {
	pub, err := k.key.ECPubKey()
	if err != nil {
		return nil
	}
	return pub.SerializeCompressed()
}

// PublicKeyUncompressed 返回 65 字节非压缩公钥
func (k *HDKey) PublicKeyUncompressed() []byte {
	pub, err := k.key.ECPubKey()
	if err != nil {
		return nil
	}
	return pub.SerializeUncompressed()
}

func (k *HDKey) ChainCode() []byte {
	return clone(k.key.ChainCode())
}

func (k *HDKey) Depth() uint8 {
	return k.key.Depth()
}

// Index 返回本节点在父节点下的索引
func (k *HDKey) Index() uint32 {
	return k.key.ChildIndex()
}

func (k *HDKey) ParentFingerprint() uint32 {
	return k.key.ParentFingerprint()
}

func (k *HDKey) IsPrivate() bool {
	return k.key.IsPrivate()
}

// Neuter 返回对应的公钥节点
func (k *HDKey) Neuter() (*HDKey, error) {
	pub, err := k.key.Neuter()
	if err != nil {
		return nil, errno.New(errno.ErrInvalidHDKey, "HDKey.Neuter", "neuter failed", nil, err)
	}
	return &HDKey{key: pub}, nil
}

// String 返回 Base58 编码的扩展密钥 (xprv... / xpub...)
func (k *HDKey) String() string {
	return k.key.String()
}

// NormalizeMnemonic 将单词列表 (或单个空格分隔的短语) 规范化为小写、单空格连接的短语
func NormalizeMnemonic(words []string) string {
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		for _, f := range strings.Fields(w) {
			normalized = append(normalized, strings.ToLower(f))
		}
	}
	return strings.Join(normalized, " ")
}

// errUnknownWord 替换 go-bip39 中包含单词原文的错误
var errUnknownWord = errors.New("word not found in wordlist")

// ValidateMnemonic 按 BIP-39 校验单词数量、词表和校验位。
// 返回的错误不会包含任何单词。
func ValidateMnemonic(words []string) error {
	phrase := NormalizeMnemonic(words)
	if _, err := bip39.EntropyFromMnemonic(phrase); err != nil {
		cause := err
		if !errors.Is(err, bip39.ErrInvalidMnemonic) && !errors.Is(err, bip39.ErrChecksumIncorrect) {
			cause = errUnknownWord
		}
		return errno.New(errno.ErrInvalidHDKeyMnemonic, "bip39.Validate", "invalid mnemonic",
			map[string]any{"words": len(strings.Fields(phrase))}, cause)
	}
	return nil
}

// SeedFromMnemonic 校验助记词并派生 64 字节种子 (无密码)
func SeedFromMnemonic(words []string) ([]byte, error) {
	if err := ValidateMnemonic(words); err != nil {
		return nil, err
	}
	return bip39.NewSeed(NormalizeMnemonic(words), ""), nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
