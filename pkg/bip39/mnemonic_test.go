package bip39

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thor-wallet-core/pkg/errno"
)

const testMnemonic = "ignore empty bird silly journey junior ripple have guard waste between tenant"

func TestWordsNoToStrength(t *testing.T) {
	for words, want := range map[int]int{12: 128, 15: 160, 18: 192, 21: 224, 24: 256} {
		got, err := WordsNoToStrength(words)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, words := range []int{0, 11, 13, 25, -12} {
		_, err := WordsNoToStrength(words)
		assert.True(t, errors.Is(err, errno.ErrInvalidDataType), "单词数 %d 应该无效", words)
	}
}

func TestGenerate(t *testing.T) {
	for _, n := range []int{12, 15, 18, 21, 24} {
		m, err := Generate(n, nil)
		if err != nil {
			t.Fatalf("生成 %d 词助记词失败: %v", n, err)
		}
		assert.Len(t, m, n)
		assert.True(t, IsValid(m...))
		assert.True(t, IsValid(m.Phrase()))
	}
}

func TestGenerateWithGenerator(t *testing.T) {
	zero := func(n int) ([]byte, error) { return make([]byte, n), nil }

	m, err := Generate(12, zero)
	require.NoError(t, err)
	assert.Equal(t, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", m.Phrase())

	short := func(n int) ([]byte, error) { return make([]byte, n-1), nil }
	_, err = Generate(12, short)
	assert.True(t, errors.Is(err, errno.ErrInvalidHDKeyMnemonic))

	failing := func(int) ([]byte, error) { return nil, fmt.Errorf("entropy source closed") }
	_, err = Generate(24, failing)
	assert.True(t, errors.Is(err, errno.ErrInvalidHDKeyMnemonic))

	_, err = Generate(13, zero)
	assert.True(t, errors.Is(err, errno.ErrInvalidDataType))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(testMnemonic))
	assert.True(t, IsValid(strings.Fields(testMnemonic)...))
	assert.True(t, IsValid(strings.ToUpper(testMnemonic)))

	assert.False(t, IsValid("hello world invalid mnemonic phrase designed to fail validation check"))
	assert.False(t, IsValid(strings.Fields(testMnemonic)[:11]...))
	assert.False(t, IsValid())
}

func TestDerivePrivateKey(t *testing.T) {
	words := strings.Fields(testMnemonic)

	tests := []struct {
		path string
		want string
	}{
		{"m/0", "27196338e7d0b5e7bf1be1c0327c53a244a18ef0b102976980e341500f492425"},
		{"", "27196338e7d0b5e7bf1be1c0327c53a244a18ef0b102976980e341500f492425"},
		{"0", "27196338e7d0b5e7bf1be1c0327c53a244a18ef0b102976980e341500f492425"},
		{"m/0/1/4/2/4/3", "66962cecff67bea483935c87fd33c6b6a524f06cc46430fa9591350bbd9f4999"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			key, err := DerivePrivateKey(words, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(key))

			// 确定性
			again, err := DerivePrivateKey(words, tt.path)
			require.NoError(t, err)
			assert.Equal(t, key, again)
		})
	}
}

func TestDerivePrivateKeyInvalidPath(t *testing.T) {
	words := strings.Fields(testMnemonic)

	_, err := DerivePrivateKey(words, "m/0/x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrInvalidHDKey))
	assert.Contains(t, err.Error(), "m/0/x")
	for _, w := range words {
		assert.NotContains(t, err.Error(), w)
	}

	var e *errno.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "m/0/x", e.Data["path"])
}

func TestDerivePrivateKeyNoLeak(t *testing.T) {
	zero := func(n int) ([]byte, error) { return make([]byte, n), nil }
	m, err := Generate(12, zero)
	require.NoError(t, err)

	// 替换最后一个单词，使校验位不匹配
	broken := append(Mnemonic{}, m...)
	broken[11] = "abandon"
	require.False(t, IsValid(broken...))

	_, err = DerivePrivateKey(broken, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrInvalidHDKeyMnemonic))

	msg := err.Error()
	for _, w := range m {
		assert.NotContains(t, msg, w, "错误信息泄露了助记词")
	}
	code, decoded := errno.Decode(err)
	assert.Equal(t, errno.ErrInvalidHDKeyMnemonic.Code, code)
	assert.NotContains(t, decoded, "abandon")

	// 词表外的单词同样不能出现
	unknown := append(Mnemonic{}, m...)
	unknown[5] = "zzzqqq"
	_, err = DerivePrivateKey(unknown, "")
	assert.True(t, errors.Is(err, errno.ErrInvalidHDKeyMnemonic))
	assert.NotContains(t, err.Error(), "zzzqqq")
}

func TestMnemonicUnsupported(t *testing.T) {
	m := Mnemonic(strings.Fields(testMnemonic))

	_, err := m.BigInt()
	assert.True(t, errors.Is(err, errno.ErrUnsupportedOperation))
	_, err = m.Number()
	assert.True(t, errors.Is(err, errno.ErrUnsupportedOperation))
	_, err = m.Bytes()
	assert.True(t, errors.Is(err, errno.ErrUnsupportedOperation))
	_, err = m.Compare(m)
	assert.True(t, errors.Is(err, errno.ErrUnsupportedOperation))
	_, err = m.IsEqual(m)
	assert.True(t, errors.Is(err, errno.ErrUnsupportedOperation))

	// %v 不输出单词
	assert.Equal(t, "Mnemonic(12 words)", fmt.Sprintf("%v", m))
}
