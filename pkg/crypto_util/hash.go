package crypto_util

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// Keccak256 计算输入的 Keccak256 哈希值 (多段输入按顺序拼接)。
// 地址派生和地址校验和使用这个算法。
func Keccak256(data ...[]byte) []byte {
	hash := sha3.NewLegacyKeccak256()
	for _, d := range data {
		hash.Write(d)
	}
	return hash.Sum(nil)
}

// Blake2b256 计算输入的 BLAKE2b-256 哈希值。
// 交易签名哈希与交易 ID 使用这个算法。
func Blake2b256(data ...[]byte) []byte {
	hash, _ := blake2b.New256(nil) // 无 key 时不会返回错误
	for _, d := range data {
		hash.Write(d)
	}
	return hash.Sum(nil)
}

// Blake3 计算输入的 Blake3-256 哈希值。
func Blake3(data []byte) []byte {
	hash := blake3.Sum256(data)
	return hash[:]
}

// Algorithm 哈希算法名称
type Algorithm string

const (
	AlgoKeccak256  Algorithm = "keccak256"
	AlgoBlake2b256 Algorithm = "blake2b256"
	AlgoBlake3     Algorithm = "blake3"
)

// Sum 按算法名称计算哈希，返回 0x 前缀的 Hex 字符串。
func Sum(algo Algorithm, data []byte) (string, error) {
	var digest []byte
	switch Algorithm(strings.ToLower(string(algo))) {
	case AlgoKeccak256:
		digest = Keccak256(data)
	case AlgoBlake2b256:
		digest = Blake2b256(data)
	case AlgoBlake3:
		digest = Blake3(data)
	default:
		return "", fmt.Errorf("不支持的哈希算法: %s", algo)
	}
	return "0x" + hex.EncodeToString(digest), nil
}
