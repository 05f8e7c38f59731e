// Package secp256k1 封装 secp256k1 曲线上的密钥派生、签名与公钥恢复。
//
// 签名格式为 65 字节 r || s || v，v 为恢复 ID (0 或 1)。
package secp256k1

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"thor-wallet-core/pkg/errno"
	"thor-wallet-core/pkg/safe_random"
)

const (
	PrivateKeyLength            = 32
	MessageHashLength           = 32
	CompressedPublicKeyLength   = 33
	UncompressedPublicKeyLength = 65
	SignatureLength             = 65
	DefaultRandomBytesLength    = 32

	compactSigMagicOffset         = 27
	compactSigCompPubKey          = 4
	uncompressedPublicKeyPrefix   = 0x04
	compressedPublicKeyPrefixEven = 0x02
	compressedPublicKeyPrefixOdd  = 0x03
)

// IsValidPrivateKey 检查私钥长度为 32 且取值在 (0, N) 内。
func IsValidPrivateKey(privateKey []byte) bool {
	if len(privateKey) != PrivateKeyLength {
		return false
	}
	var s btcec.ModNScalar
	if overflow := s.SetByteSlice(privateKey); overflow {
		return false
	}
	return !s.IsZero()
}

// IsValidMessageHash 检查消息哈希长度为 32。
func IsValidMessageHash(hash []byte) bool {
	return len(hash) == MessageHashLength
}

func parsePrivateKey(method string, privateKey []byte) (*btcec.PrivateKey, error) {
	if !IsValidPrivateKey(privateKey) {
		// 不能把私钥写进错误，只记录长度
		return nil, errno.New(errno.ErrInvalidPrivateKey, method, "invalid private key",
			map[string]any{"length": len(privateKey)}, nil)
	}
	priv, _ := btcec.PrivKeyFromBytes(privateKey)
	return priv, nil
}

// DerivePublicKey 从私钥派生公钥 (compressed=true 时为 33 字节，否则 65 字节)。
func DerivePublicKey(privateKey []byte, compressed bool) ([]byte, error) {
	priv, err := parsePrivateKey("secp256k1.DerivePublicKey", privateKey)
	if err != nil {
		return nil, err
	}
	defer priv.Zero()

	if compressed {
		return priv.PubKey().SerializeCompressed(), nil
	}
	return priv.PubKey().SerializeUncompressed(), nil
}

func parsePublicKey(method string, publicKey []byte) (*btcec.PublicKey, error) {
	data := map[string]any{"length": len(publicKey)}
	switch len(publicKey) {
	case CompressedPublicKeyLength:
		if publicKey[0] != compressedPublicKeyPrefixEven && publicKey[0] != compressedPublicKeyPrefixOdd {
			return nil, errno.New(errno.ErrIllegalArgument, method, "invalid compressed public key prefix", data, nil)
		}
	case UncompressedPublicKeyLength:
		if publicKey[0] != uncompressedPublicKeyPrefix {
			return nil, errno.New(errno.ErrIllegalArgument, method, "invalid uncompressed public key prefix", data, nil)
		}
	default:
		return nil, errno.New(errno.ErrIllegalArgument, method, "invalid public key length", data, nil)
	}

	pub, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return nil, errno.New(errno.ErrIllegalArgument, method, "public key is not on curve", data, err)
	}
	return pub, nil
}

// CompressPublicKey 将公钥转换为 33 字节压缩格式 (已压缩的输入原样校验后返回)。
func CompressPublicKey(publicKey []byte) ([]byte, error) {
	pub, err := parsePublicKey("secp256k1.CompressPublicKey", publicKey)
	if err != nil {
		return nil, err
	}
	return pub.SerializeCompressed(), nil
}

// InflatePublicKey 将公钥转换为 65 字节非压缩格式 (0x04 前缀)。
func InflatePublicKey(publicKey []byte) ([]byte, error) {
	pub, err := parsePublicKey("secp256k1.InflatePublicKey", publicKey)
	if err != nil {
		return nil, err
	}
	return pub.SerializeUncompressed(), nil
}

// IsValidPublicKey 检查公钥格式与曲线点合法性。
func IsValidPublicKey(publicKey []byte) bool {
	_, err := parsePublicKey("", publicKey)
	return err == nil
}

// Sign 对 32 字节消息哈希做确定性 (RFC6979) ECDSA 签名，返回 r || s || v。
func Sign(messageHash, privateKey []byte) ([]byte, error) {
	if !IsValidMessageHash(messageHash) {
		return nil, errno.New(errno.ErrInvalidMessageHash, "secp256k1.Sign", "message hash must be 32 bytes",
			map[string]any{"length": len(messageHash)}, nil)
	}
	priv, err := parsePrivateKey("secp256k1.Sign", privateKey)
	if err != nil {
		return nil, err
	}
	defer priv.Zero()

	// compact 格式: [27 + recid + 4] || r || s
	compact := ecdsa.SignCompact(priv, messageHash, true)

	sig := make([]byte, SignatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0] - compactSigMagicOffset - compactSigCompPubKey
	return sig, nil
}

// Recover 从签名恢复 65 字节非压缩公钥。
func Recover(messageHash, signature []byte) ([]byte, error) {
	if !IsValidMessageHash(messageHash) {
		return nil, errno.New(errno.ErrInvalidMessageHash, "secp256k1.Recover", "message hash must be 32 bytes",
			map[string]any{"length": len(messageHash)}, nil)
	}
	if len(signature) != SignatureLength {
		return nil, errno.New(errno.ErrInvalidSignature, "secp256k1.Recover", "signature must be 65 bytes",
			map[string]any{"length": len(signature)}, nil)
	}
	recid := signature[64]
	if recid > 3 {
		return nil, errno.New(errno.ErrInvalidSignature, "secp256k1.Recover", "invalid recovery id",
			map[string]any{"recovery": recid}, nil)
	}

	compact := make([]byte, SignatureLength)
	compact[0] = compactSigMagicOffset + compactSigCompPubKey + recid
	copy(compact[1:], signature[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, messageHash)
	if err != nil {
		return nil, errno.New(errno.ErrInvalidSignature, "secp256k1.Recover", "unrecoverable signature", nil, err)
	}
	return pub.SerializeUncompressed(), nil
}

// RandomBytes 从 CSPRNG 读取 n 个字节，n <= 0 时读取 32 字节。
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		n = DefaultRandomBytesLength
	}
	b, err := safe_random.GenerateRandomBytes(n)
	if err != nil {
		return nil, errno.New(errno.InternalServerError, "secp256k1.RandomBytes", "csprng failure", nil, err)
	}
	return b, nil
}

// GeneratePrivateKey 生成一个合法的随机私钥。
func GeneratePrivateKey() ([]byte, error) {
	for {
		b, err := RandomBytes(PrivateKeyLength)
		if err != nil {
			return nil, err
		}
		if IsValidPrivateKey(b) {
			return b, nil
		}
	}
}
