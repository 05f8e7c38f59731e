package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/scrypt"

	"thor-wallet-core/pkg/address"
	"thor-wallet-core/pkg/bip39"
	"thor-wallet-core/pkg/crypto_util"
	"thor-wallet-core/pkg/errno"
	"thor-wallet-core/pkg/safe_random"
)

// EncryptedKeyJSON 遵循 Ethereum Keystore V3 的结构风格
// 但存储的是助记词 (Mnemonic) 而不是单个私钥，Address 为 m/0 地址，便于不解密时展示
type EncryptedKeyJSON struct {
	Address string     `json:"address"`
	Crypto  CryptoJSON `json:"crypto"`
	Id      string     `json:"id"`      // UUID
	Version int        `json:"version"` // 3
}

type CryptoJSON struct {
	Cipher       string       `json:"cipher"`       // "aes-256-gcm"
	CipherText   string       `json:"ciphertext"`   // Hex string
	CipherParams CipherParams `json:"cipherparams"` // IV
	KDF          string       `json:"kdf"`          // "scrypt"
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          string       `json:"mac"` // Hex string
}

type CipherParams struct {
	IV string `json:"iv"` // Hex string
}

type KDFParams struct {
	DKLen int    `json:"dklen"` // Derived Key Length (32)
	N     int    `json:"n"`     // Scrypt N (262144)
	R     int    `json:"r"`     // Scrypt r (8)
	P     int    `json:"p"`     // Scrypt p (1)
	Salt  string `json:"salt"`  // Hex string
}

// ScryptParams scrypt 参数
type ScryptParams struct {
	N int
	R int
	P int
}

const (
	scryptDKLen = 32
	cipherName  = "aes-256-gcm"
	kdfName     = "scrypt"
	version     = 3
)

var (
	// StandardScrypt 默认参数
	StandardScrypt = ScryptParams{N: 262144, R: 8, P: 1}
	// LightScrypt 低内存参数 (测试或低配设备)
	LightScrypt = ScryptParams{N: 4096, R: 8, P: 6}
)

// EncryptMnemonic 使用默认 scrypt 参数加密助记词
func EncryptMnemonic(words bip39.Mnemonic, password string) (*EncryptedKeyJSON, error) {
	return EncryptMnemonicWithParams(words, password, StandardScrypt)
}

// EncryptMnemonicWithParams 将助记词使用密码加密为 JSON 结构
func EncryptMnemonicWithParams(words bip39.Mnemonic, password string, params ScryptParams) (*EncryptedKeyJSON, error) {
	// 1. 只接受合法助记词，同时计算展示地址
	addr, err := address.OfMnemonic(words, bip39.DefaultPath)
	if err != nil {
		return nil, err
	}

	// 2. 生成随机 Salt 并使用 Scrypt 派生密钥
	salt, err := safe_random.GenerateRandomBytes(32)
	if err != nil {
		return nil, errno.New(errno.InternalServerError, "keystore.Encrypt", "generate salt failed", nil, err)
	}
	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, scryptDKLen)
	if err != nil {
		return nil, errno.New(errno.ErrIllegalArgument, "keystore.Encrypt", "invalid scrypt params",
			map[string]any{"n": params.N, "r": params.R, "p": params.P}, err)
	}

	// 3. 使用 AES-256-GCM 加密
	gcm, err := newGCM(derivedKey)
	if err != nil {
		return nil, err
	}
	nonce, err := safe_random.GenerateRandomBytes(gcm.NonceSize())
	if err != nil {
		return nil, errno.New(errno.InternalServerError, "keystore.Encrypt", "generate nonce failed", nil, err)
	}
	ciphertext := gcm.Seal(nil, nonce, []byte(words.Phrase()), nil)

	// 4. MAC = keccak256(derivedKey[16:32] || ciphertext)
	mac := crypto_util.Keccak256(derivedKey[16:32], ciphertext)

	id, err := generateUUID()
	if err != nil {
		return nil, err
	}

	// 5. 构造 JSON
	return &EncryptedKeyJSON{
		Address: addr.String(),
		Version: version,
		Id:      id,
		Crypto: CryptoJSON{
			Cipher:     cipherName,
			CipherText: hex.EncodeToString(ciphertext),
			CipherParams: CipherParams{
				IV: hex.EncodeToString(nonce),
			},
			KDF: kdfName,
			KDFParams: KDFParams{
				DKLen: scryptDKLen,
				N:     params.N,
				R:     params.R,
				P:     params.P,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac),
		},
	}, nil
}

// DecryptMnemonic 解密 Keystore JSON 获取助记词
func DecryptMnemonic(keyJSON *EncryptedKeyJSON, password string) (bip39.Mnemonic, error) {
	if keyJSON.Version != version || keyJSON.Crypto.Cipher != cipherName || keyJSON.Crypto.KDF != kdfName {
		return nil, errno.New(errno.ErrInvalidKeystore, "keystore.Decrypt", "unsupported keystore",
			map[string]any{"version": keyJSON.Version, "cipher": keyJSON.Crypto.Cipher, "kdf": keyJSON.Crypto.KDF}, nil)
	}

	// 1. 解析 Hex 参数
	salt, err := parseHex("salt", keyJSON.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, err
	}
	nonce, err := parseHex("iv", keyJSON.Crypto.CipherParams.IV)
	if err != nil {
		return nil, err
	}
	ciphertext, err := parseHex("ciphertext", keyJSON.Crypto.CipherText)
	if err != nil {
		return nil, err
	}
	mac, err := parseHex("mac", keyJSON.Crypto.MAC)
	if err != nil {
		return nil, err
	}

	// 2. 重新派生密钥
	params := keyJSON.Crypto.KDFParams
	if params.DKLen != scryptDKLen {
		return nil, errno.New(errno.ErrInvalidKeystore, "keystore.Decrypt", "unsupported dklen",
			map[string]any{"dklen": params.DKLen}, nil)
	}
	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errno.New(errno.ErrInvalidKeystore, "keystore.Decrypt", "invalid scrypt params", nil, err)
	}

	// 3. 验证 MAC
	calculatedMAC := crypto_util.Keccak256(derivedKey[16:32], ciphertext)
	if subtle.ConstantTimeCompare(mac, calculatedMAC) != 1 {
		return nil, errno.New(errno.ErrKeystoreDecrypt, "keystore.Decrypt",
			"invalid password or corrupted data (MAC mismatch)", nil, nil)
	}

	// 4. 解密
	gcm, err := newGCM(derivedKey)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errno.New(errno.ErrInvalidKeystore, "keystore.Decrypt", "invalid iv length",
			map[string]any{"length": len(nonce)}, nil)
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errno.New(errno.ErrKeystoreDecrypt, "keystore.Decrypt", "decryption failed", nil, err)
	}

	words := bip39.Mnemonic(strings.Fields(string(plaintext)))
	if !bip39.IsValid(words...) {
		return nil, errno.New(errno.ErrInvalidKeystore, "keystore.Decrypt", "decrypted content is not a valid mnemonic", nil, nil)
	}
	return words, nil
}

// SaveToFile 保存到文件
func (k *EncryptedKeyJSON) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600) // 0600 is important
}

// LoadFromFile 从文件加载
func LoadFromFile(filename string) (*EncryptedKeyJSON, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var k EncryptedKeyJSON
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, errno.New(errno.ErrInvalidKeystore, "keystore.LoadFromFile", "invalid json",
			map[string]any{"file": filename}, err)
	}
	return &k, nil
}

// --- Helpers ---

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errno.New(errno.InternalServerError, "keystore.newGCM", "aes init failed", nil, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errno.New(errno.InternalServerError, "keystore.newGCM", "gcm init failed", nil, err)
	}
	return gcm, nil
}

func parseHex(field, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errno.New(errno.ErrInvalidKeystore, "keystore.Decrypt", "invalid "+field, nil, err)
	}
	return b, nil
}

func generateUUID() (string, error) {
	b, err := safe_random.GenerateRandomBytes(16)
	if err != nil {
		return "", errno.New(errno.InternalServerError, "keystore.generateUUID", "generate id failed", nil, err)
	}
	// RFC 4122 version 4
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:]), nil
}
