package bip32

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thor-wallet-core/pkg/errno"
)

const testMnemonic = "ignore empty bird silly journey junior ripple have guard waste between tenant"

func testWords() []string {
	return strings.Fields(testMnemonic)
}

func TestFromSeedVector(t *testing.T) {
	// BIP-32 测试向量 1
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")

	master, err := FromSeed(seed)
	if err != nil {
		t.Fatalf("生成主密钥失败: %v", err)
	}
	assert.Equal(t, "e8f32e723decf4051aefac8e2c93c9c5b214313817cdb01a1494b917c8436b35", hex.EncodeToString(master.PrivateKey()))
	assert.Equal(t, "873dff81c02f525623fd1fe5167eac3a55a049de3d314bb42ee227ffed37d508", hex.EncodeToString(master.ChainCode()))
	assert.True(t, strings.HasPrefix(master.String(), "xprv"))
	assert.Equal(t, uint8(0), master.Depth())

	child, err := master.Derive("m/0'")
	if err != nil {
		t.Fatalf("派生路径 m/0' 失败: %v", err)
	}
	assert.Equal(t, "edb2e14f9ee77d26dd93b4ecede8d16ed408ce149b6cd80b0715a2d911a0afea", hex.EncodeToString(child.PrivateKey()))
	assert.Equal(t, "47fdacbd0f1097043b78c63c20c34ef4ed9a111d980047ad16282c7ae6236141", hex.EncodeToString(child.ChainCode()))
	assert.Equal(t, uint32(HardenedKeyStart), child.Index())
	assert.Equal(t, uint8(1), child.Depth())

	_, err = FromSeed(seed[:15])
	assert.True(t, errors.Is(err, errno.ErrInvalidHDKey))
	assert.True(t, errors.Is(err, ErrInvalidSeed))
}

func TestFromMnemonic(t *testing.T) {
	node, err := FromMnemonic(testWords(), "")
	require.NoError(t, err)
	assert.Equal(t, uint8(4), node.Depth())

	explicit, err := FromMnemonic(testWords(), VETDerivationPath)
	require.NoError(t, err)
	assert.Equal(t, node.String(), explicit.String())

	child, err := node.DeriveChild(0)
	require.NoError(t, err)
	assert.Equal(t, "27196338e7d0b5e7bf1be1c0327c53a244a18ef0b102976980e341500f492425", hex.EncodeToString(child.PrivateKey()))

	// 大小写与多余空白不影响结果
	mixed, err := FromMnemonic([]string{"  IGNORE empty bird silly journey junior ripple have guard waste between Tenant "}, "")
	require.NoError(t, err)
	assert.Equal(t, node.String(), mixed.String())
}

func TestFromMnemonicInvalid(t *testing.T) {
	words := testWords()

	// 错误单词不能出现在错误信息中
	bad := append([]string{}, words...)
	bad[3] = "qwertyuiop"
	_, err := FromMnemonic(bad, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrInvalidHDKeyMnemonic))
	assert.NotContains(t, err.Error(), "qwertyuiop")
	for _, w := range words {
		assert.NotContains(t, err.Error(), w)
	}

	// 校验位错误
	_, err = FromMnemonic(strings.Fields(strings.Repeat("abandon ", 12)), "")
	assert.True(t, errors.Is(err, errno.ErrInvalidHDKeyMnemonic))

	// 单词数量错误
	_, err = FromMnemonic(words[:11], "")
	assert.True(t, errors.Is(err, errno.ErrInvalidHDKeyMnemonic))
}

func TestHDConsistency(t *testing.T) {
	root, err := FromMnemonic(testWords(), "")
	require.NoError(t, err)

	fromPriv, err := FromPrivateKey(root.PrivateKey(), root.ChainCode())
	require.NoError(t, err)
	fromPub, err := FromPublicKey(root.PublicKeyUncompressed(), root.ChainCode())
	require.NoError(t, err)
	assert.False(t, fromPub.IsPrivate())
	assert.Nil(t, fromPub.PrivateKey())

	for i := uint32(0); i < 5; i++ {
		want, err := root.DeriveChild(i)
		require.NoError(t, err)

		got, err := fromPriv.DeriveChild(i)
		require.NoError(t, err)
		assert.Equal(t, want.PrivateKey(), got.PrivateKey())
		assert.Equal(t, want.PublicKey(), got.PublicKey())

		pubChild, err := fromPub.DeriveChild(i)
		require.NoError(t, err)
		assert.Equal(t, want.PublicKey(), pubChild.PublicKey())
		assert.Equal(t, want.PublicKeyUncompressed(), pubChild.PublicKeyUncompressed())
		assert.Nil(t, pubChild.PrivateKey())
	}

	// 公钥节点不能做强化派生
	_, err = fromPub.DeriveChild(HardenedKeyStart)
	assert.True(t, errors.Is(err, errno.ErrInvalidHDKey))
}

func TestFromKeyErrors(t *testing.T) {
	root, err := FromMnemonic(testWords(), "")
	require.NoError(t, err)

	_, err = FromPrivateKey(root.PrivateKey(), root.ChainCode()[:31])
	assert.True(t, errors.Is(err, errno.ErrInvalidHDKey))

	_, err = FromPrivateKey(make([]byte, 32), root.ChainCode())
	assert.True(t, errors.Is(err, errno.ErrInvalidPrivateKey))

	_, err = FromPublicKey(root.PublicKey()[:32], root.ChainCode())
	assert.True(t, errors.Is(err, errno.ErrIllegalArgument))
}

func TestNeuter(t *testing.T) {
	root, err := FromMnemonic(testWords(), "")
	require.NoError(t, err)

	pub, err := root.Neuter()
	if err != nil {
		t.Fatalf("转换为扩展公钥失败: %v", err)
	}
	if pub.IsPrivate() {
		t.Errorf("Neuter() 应该返回公钥，但 IsPrivate() 返回 true")
	}
	assert.True(t, strings.HasPrefix(pub.String(), "xpub"))
	assert.Equal(t, root.PublicKey(), pub.PublicKey())
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		path string
		want []uint32
		ok   bool
	}{
		{"m", nil, true},
		{"", nil, true},
		{"m/0", []uint32{0}, true},
		{"m/44'/818'/0'/0", []uint32{44 + HardenedKeyStart, 818 + HardenedKeyStart, HardenedKeyStart, 0}, true},
		{"m/44h/818h/0h/0/0", []uint32{44 + HardenedKeyStart, 818 + HardenedKeyStart, HardenedKeyStart, 0, 0}, true},
		{"0/1/4", []uint32{0, 1, 4}, true},
		{"m/", nil, false},
		{"m/a", nil, false},
		{"m/-1", nil, false},
		{"m/+1", nil, false},
		{"m/0//1", nil, false},
		{"m/2147483648", nil, false},
		{"m/0''", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ParsePath(tt.path)
			if !tt.ok {
				assert.True(t, errors.Is(err, ErrInvalidPath), "路径 %q 应该无效", tt.path)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePathErrorKeepsInput(t *testing.T) {
	_, err := ParsePath("m/0/x")
	require.Error(t, err)

	var e *errno.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "m/0/x", e.Data["path"])
}
