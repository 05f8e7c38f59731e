package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thor-wallet-core/pkg/address"
	"thor-wallet-core/pkg/bip39"
	"thor-wallet-core/pkg/crypto_util"
	"thor-wallet-core/pkg/keystore"
	"thor-wallet-core/pkg/wallet/types"
)

const (
	testMnemonic = "ignore empty bird silly journey junior ripple have guard waste between tenant"
	testPassword = "password123"
)

// execute 在临时目录中运行命令，返回标准输出
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func writeKeystore(t *testing.T, path string) {
	t.Helper()
	keyJSON, err := keystore.EncryptMnemonicWithParams(bip39.Mnemonic(strings.Fields(testMnemonic)), testPassword, keystore.LightScrypt)
	require.NoError(t, err)
	require.NoError(t, keyJSON.SaveToFile(path))
}

func TestChecksumCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "checksum", "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	require.NoError(t, err)

	want, err := address.Checksum("7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(out))

	_, err = execute(t, "checksum", "0x1234")
	assert.Error(t, err)
}

func TestHashCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "hash", "--algo", "blake3", "--hex=false", "hello")
	require.NoError(t, err)
	want, err := crypto_util.Sum(crypto_util.AlgoBlake3, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(out))

	out, err = execute(t, "hash", "--algo", "keccak256", "--hex", "0x0102")
	require.NoError(t, err)
	want, err = crypto_util.Sum(crypto_util.AlgoKeccak256, []byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(out))

	_, err = execute(t, "hash", "--algo", "md5", "--hex=false", "x")
	assert.Error(t, err)
}

func TestAddressCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("WALLET_PASSWORD", testPassword)
	writeKeystore(t, filepath.Join(dir, "wallet.json"))

	out, err := execute(t, "address", "--keystore", "wallet.json", "--path", "m/1")
	require.NoError(t, err)
	want, err := address.OfMnemonic(strings.Fields(testMnemonic), "m/1")
	require.NoError(t, err)
	assert.Equal(t, want.String(), strings.TrimSpace(out))

	// 私钥文件
	keyFile := filepath.Join(dir, "key.txt")
	require.NoError(t, os.WriteFile(keyFile, []byte("0000000000000000000000000000000000000000000000000000000000000001\n"), 0600))
	out, err = execute(t, "address", "--private-key-file", keyFile)
	require.NoError(t, err)
	assert.Equal(t, "0x7e5f4552091a69125d5dfcb7b8c2659029395bdf", strings.ToLower(strings.TrimSpace(out)))
	require.NoError(t, os.Remove(keyFile))

	// 错误密码
	t.Setenv("WALLET_PASSWORD", "wrong-password")
	_, err = execute(t, "address", "--private-key-file", "", "--keystore", "wallet.json", "--path", "m/0")
	assert.Error(t, err)
}

func TestDelegatedSigningFlow(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("WALLET_PASSWORD", testPassword)
	writeKeystore(t, filepath.Join(dir, "wallet.json"))
	words := strings.Fields(testMnemonic)

	// 1. 构造代付交易
	_, err := execute(t, "build-tx",
		"--to", "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed",
		"--amount", "1.5",
		"--chain-tag", "39",
		"--block-ref", "0x0011223344556677",
		"--nonce", "42",
		"--delegated",
		"--path", "m/0",
		"-o", "unsigned.json")
	require.NoError(t, err)

	var unsigned types.UnsignedTransaction
	require.NoError(t, readJSON("unsigned.json", &unsigned))
	assert.Equal(t, uint8(39), unsigned.ChainTag)
	assert.Equal(t, "1500000000000000000", unsigned.Clauses[0].Value)
	assert.True(t, unsigned.Delegated)
	assert.Equal(t, uint64(21000), unsigned.Gas)

	// 2. 发送方签名 (m/0)
	_, err = execute(t, "sign", "-i", "unsigned.json", "-o", "signed.json", "-k", "wallet.json")
	require.NoError(t, err)

	var partial types.SignedTransaction
	require.NoError(t, readJSON("signed.json", &partial))
	sender, err := address.OfMnemonic(words, "m/0")
	require.NoError(t, err)
	assert.Equal(t, sender.String(), partial.Origin)
	assert.False(t, partial.Complete)
	assert.Empty(t, partial.GasPayer)

	// 3. gas payer 签名 (m/1)
	_, err = execute(t, "delegate", "-i", "signed.json", "-o", "delegated.json", "-k", "wallet.json", "--path", "m/1")
	require.NoError(t, err)

	var full types.SignedTransaction
	require.NoError(t, readJSON("delegated.json", &full))
	payer, err := address.OfMnemonic(words, "m/1")
	require.NoError(t, err)
	assert.True(t, full.Complete)
	assert.Equal(t, sender.String(), full.Origin)
	assert.Equal(t, payer.String(), full.GasPayer)
	assert.Equal(t, partial.ID, full.ID)

	// 4. 解码
	out, err := execute(t, "decode", full.RawTx)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, full.ID, decoded["id"])
	assert.Equal(t, payer.String(), decoded["gas_payer"])

	// 输出中不包含助记词
	for _, f := range []string{"unsigned.json", "signed.json", "delegated.json"} {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.NotContains(t, string(data), testMnemonic)
	}
}

func TestDelegateRejectsNonDelegated(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("WALLET_PASSWORD", testPassword)
	writeKeystore(t, filepath.Join(dir, "wallet.json"))

	_, err := execute(t, "build-tx",
		"--to", "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed",
		"--amount", "1",
		"--nonce", "1",
		"--delegated=false",
		"-o", "unsigned.json")
	require.NoError(t, err)
	_, err = execute(t, "sign", "-i", "unsigned.json", "-o", "signed.json", "-k", "wallet.json")
	require.NoError(t, err)

	var signed types.SignedTransaction
	require.NoError(t, readJSON("signed.json", &signed))
	assert.True(t, signed.Complete)

	_, err = execute(t, "delegate", "-i", "signed.json", "-o", "delegated.json", "-k", "wallet.json")
	assert.Error(t, err)
}
