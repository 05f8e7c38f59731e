package address

import (
	"encoding/hex"
	"strings"

	"thor-wallet-core/pkg/crypto_util"
	"thor-wallet-core/pkg/errno"
)

const hexDigitsLength = Length * 2

// Checksum 对 40 位十六进制地址计算混合大小写校验 (可带 0x 前缀)。
// 哈希的是小写十六进制字符串的 UTF-8 字节，而不是 20 字节原始地址。
func Checksum(hexDigits string) (string, error) {
	digits := trimHexPrefix(hexDigits)
	if len(digits) != hexDigitsLength || !isHexDigits(digits) {
		return "", errno.New(errno.ErrIllegalArgument, "Address.Checksum", "expect 40 hex digits",
			map[string]any{"length": len(digits)}, nil)
	}
	return "0x" + toChecksumAddress(digits), nil
}

// IsValid 仅当输入为 0x + 40 位十六进制时返回 true
func IsValid(exp string) bool {
	return len(exp) == hexDigitsLength+2 && strings.HasPrefix(exp, "0x") && isHexDigits(exp[2:])
}

// toChecksumAddress 按 hash 的第 i 个半字节决定第 i 位的大小写
func toChecksumAddress(address string) string {
	address = strings.ToLower(address)
	hexHash := hex.EncodeToString(crypto_util.Keccak256([]byte(address)))

	var sb strings.Builder
	sb.Grow(len(address))
	for i := 0; i < len(address); i++ {
		char := address[i]
		// 检查 hash 的第 i 位是否 >= 8
		if hexCharToInt(hexHash[i]) >= 8 {
			sb.WriteString(strings.ToUpper(string(char)))
		} else {
			sb.WriteByte(char)
		}
	}
	return sb.String()
}

func hexCharToInt(c byte) byte {
	if c >= '0' && c <= '9' {
		return c - '0'
	}
	if c >= 'a' && c <= 'f' {
		return c - 'a' + 10
	}
	return 0
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
