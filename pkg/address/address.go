// Package address 实现 VeChain Thor 地址: 20 字节，文本形式为带校验大小写的 0x 十六进制。
package address

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"thor-wallet-core/pkg/bip32"
	"thor-wallet-core/pkg/crypto_util"
	"thor-wallet-core/pkg/datamodel"
	"thor-wallet-core/pkg/errno"
	"thor-wallet-core/pkg/secp256k1"
)

// Length 地址字节长度
const Length = 20

// DefaultMnemonicPath 相对 VET 账户节点的默认路径
const DefaultMnemonicPath = "m/0"

// Address 是 20 字节账户地址
type Address [Length]byte

var _ datamodel.Model = Address{}

// maxExpressionLength 超过该长度的字符串不写入错误 (可能是误传的私钥)
const maxExpressionLength = hexDigitsLength + 2

// Of 将 *big.Int、整数、十六进制字符串、字节切片或 Address 转换为地址。
// 不足 20 字节的输入左侧补零。
func Of(exp any) (Address, error) {
	switch v := exp.(type) {
	case Address:
		return v, nil
	case *Address:
		if v == nil {
			return Address{}, illegal(exp, "nil address")
		}
		return *v, nil
	case *big.Int:
		if v == nil || v.Sign() < 0 || v.BitLen() > Length*8 {
			return Address{}, illegal(exp, "integer out of address range")
		}
		var a Address
		v.FillBytes(a[:])
		return a, nil
	case uint64:
		return Of(new(big.Int).SetUint64(v))
	case uint32:
		return Of(uint64(v))
	case uint:
		return Of(uint64(v))
	case int64:
		return Of(big.NewInt(v))
	case int:
		return Of(big.NewInt(int64(v)))
	case string:
		return ofHex(v)
	case []byte:
		if len(v) > Length {
			return Address{}, errno.New(errno.ErrIllegalArgument, "Address.Of", "too many bytes",
				map[string]any{"length": len(v)}, nil)
		}
		var a Address
		copy(a[Length-len(v):], v)
		return a, nil
	default:
		return Address{}, errno.New(errno.ErrIllegalArgument, "Address.Of", "unsupported expression type",
			map[string]any{"type": fmt.Sprintf("%T", exp)}, nil)
	}
}

func ofHex(s string) (Address, error) {
	digits := trimHexPrefix(strings.TrimSpace(s))
	if digits == "" || len(digits) > hexDigitsLength || !isHexDigits(digits) {
		return Address{}, illegal(s, "expect at most 40 hex digits")
	}

	digits = strings.Repeat("0", hexDigitsLength-len(digits)) + digits
	var a Address
	if _, err := hex.Decode(a[:], []byte(digits)); err != nil {
		return Address{}, errno.New(errno.ErrIllegalArgument, "Address.Of", "invalid hex", nil, err)
	}
	return a, nil
}

func illegal(exp any, msg string) error {
	data := map[string]any{"expression": exp}
	if s, ok := exp.(string); ok && len(s) > maxExpressionLength {
		data = map[string]any{"length": len(s)}
	}
	return errno.New(errno.ErrIllegalArgument, "Address.Of", msg, data, nil)
}

// OfPublicKey 由公钥 (33 或 65 字节) 计算地址:
// Keccak256(去掉 0x04 前缀的 64 字节) 的后 20 字节
func OfPublicKey(publicKey []byte) (Address, error) {
	// 1. 解压为 65 字节
	full, err := secp256k1.InflatePublicKey(publicKey)
	if err != nil {
		return Address{}, err
	}

	// 2. Keccak-256 哈希并取后 20 字节
	var a Address
	copy(a[:], crypto_util.Keccak256(full[1:])[12:])
	return a, nil
}

// OfPrivateKey 由私钥计算地址
func OfPrivateKey(privateKey []byte) (Address, error) {
	pub, err := secp256k1.DerivePublicKey(privateKey, true)
	if err != nil {
		return Address{}, err
	}
	return OfPublicKey(pub)
}

// OfMnemonic 由助记词计算地址，path 相对 VET 账户节点，为空时使用 m/0
func OfMnemonic(words []string, path string) (Address, error) {
	if path == "" {
		path = DefaultMnemonicPath
	}

	account, err := bip32.FromMnemonic(words, bip32.VETDerivationPath)
	if err != nil {
		return Address{}, err
	}
	node, err := account.Derive(path)
	if err != nil {
		return Address{}, errno.New(errno.ErrIllegalArgument, "Address.OfMnemonic", "derivation failed",
			map[string]any{"path": path}, err)
	}
	return OfPublicKey(node.PublicKey())
}

// String 返回带校验大小写的 0x 地址
func (a Address) String() string {
	return "0x" + toChecksumAddress(hex.EncodeToString(a[:]))
}

// Hex 返回小写 0x 地址
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) Bytes() ([]byte, error) {
	return bytes.Clone(a[:]), nil
}

func (a Address) BigInt() (*big.Int, error) {
	return new(big.Int).SetBytes(a[:]), nil
}

// Number 不支持: 160 位整数超出 float64 精度
func (a Address) Number() (float64, error) {
	return 0, datamodel.Unsupported("Address", "Number")
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) Compare(other datamodel.Model) (int, error) {
	b, err := other.Bytes()
	if err != nil {
		return 0, err
	}
	o, err := Of(b)
	if err != nil {
		return 0, err
	}
	return bytes.Compare(a[:], o[:]), nil
}

func (a Address) IsEqual(other datamodel.Model) (bool, error) {
	c, err := a.Compare(other)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	v, err := Of(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
