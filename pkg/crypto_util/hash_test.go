package crypto_util

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashes(t *testing.T) {
	// 空输入的标准向量
	assert.Equal(t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(Keccak256(nil)))
	assert.Equal(t,
		"0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
		hex.EncodeToString(Blake2b256(nil)))
	assert.Len(t, Blake3([]byte("hello world")), 32)

	// 分段输入等价于拼接输入
	assert.Equal(t, Keccak256([]byte("hello world")), Keccak256([]byte("hello "), []byte("world")))
	assert.Equal(t, Blake2b256([]byte("hello world")), Blake2b256([]byte("hello"), []byte(" world")))
}

func TestSum(t *testing.T) {
	for _, algo := range []Algorithm{AlgoKeccak256, AlgoBlake2b256, AlgoBlake3, "KECCAK256"} {
		s, err := Sum(algo, []byte("hello world"))
		require.NoError(t, err)
		assert.Len(t, s, 66, "算法 %s", algo)
	}

	_, err := Sum("md5", nil)
	assert.Error(t, err)
}
