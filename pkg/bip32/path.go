package bip32

import (
	"errors"
	"strconv"
	"strings"

	"thor-wallet-core/pkg/errno"
)

var (
	ErrInvalidSeed = errors.New("无效的种子")
	ErrInvalidPath = errors.New("无效的派生路径")
)

// ParsePath 将派生路径解析为索引序列
// 支持格式: m/44'/818'/0'/0/0、m/44h/818h/0h/0/0、0/1 (无 m 前缀)
// "m" 或空串表示当前节点本身
func ParsePath(path string) ([]uint32, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "m" {
		return nil, nil
	}

	segments := strings.Split(strings.TrimPrefix(trimmed, "m/"), "/")
	indexes := make([]uint32, 0, len(segments))

	for _, segment := range segments {
		isHardened := false
		if strings.HasSuffix(segment, "'") || strings.HasSuffix(segment, "h") {
			isHardened = true
			segment = segment[:len(segment)-1]
		}

		// 只接受十进制数字，拒绝 "+1"、" 1" 等
		if segment == "" || strings.TrimLeft(segment, "0123456789") != "" {
			return nil, invalidPath(path)
		}
		val, err := strconv.ParseUint(segment, 10, 32)
		if err != nil || val >= HardenedKeyStart {
			return nil, invalidPath(path)
		}
		index := uint32(val)

		if isHardened {
			index += HardenedKeyStart
		}
		indexes = append(indexes, index)
	}

	return indexes, nil
}

func invalidPath(path string) error {
	return errno.New(errno.ErrInvalidHDKey, "bip32.ParsePath", "invalid derivation path",
		map[string]any{"path": path}, ErrInvalidPath)
}
