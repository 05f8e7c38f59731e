package bip39

import (
	"encoding/hex"
	"testing"
)

func TestGenerateMnemonic(t *testing.T) {
	service := NewMnemonicService()

	// 测试 12 个单词 (128 bits)
	mnemonic12, err := service.GenerateMnemonic(128)
	if err != nil {
		t.Fatalf("生成 12 词助记词失败: %v", err)
	}

	// 验证生成的助记词是否有效
	if !service.ValidateMnemonic(mnemonic12) {
		t.Errorf("生成的 12 词助记词无效")
	}

	// 测试 24 个单词 (256 bits)
	mnemonic24, err := service.GenerateMnemonic(256)
	if err != nil {
		t.Fatalf("生成 24 词助记词失败: %v", err)
	}

	if !service.ValidateMnemonic(mnemonic24) {
		t.Errorf("生成的 24 词助记词无效")
	}

	if _, err := service.GenerateMnemonic(100); err == nil {
		t.Errorf("期望 100 位熵失败，但成功了")
	}
}

func TestMnemonicToSeed(t *testing.T) {
	service := NewMnemonicService()

	// 已知的测试向量 (Test Vector)
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	expectedSeedHex := "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"

	if !service.ValidateMnemonic(mnemonic) {
		t.Fatalf("测试向量助记词无效")
	}

	seedHex := hex.EncodeToString(service.MnemonicToSeed(mnemonic, ""))
	if seedHex != expectedSeedHex {
		t.Errorf("Seed 生成不匹配。\n预期: %s\n实际: %s", expectedSeedHex, seedHex)
	}
}

func TestServiceDerivePrivateKey(t *testing.T) {
	service := NewMnemonicService()

	key, err := service.DerivePrivateKey(testMnemonic, "m/0")
	if err != nil {
		t.Fatalf("派生私钥失败: %v", err)
	}
	if got := hex.EncodeToString(key); got != "27196338e7d0b5e7bf1be1c0327c53a244a18ef0b102976980e341500f492425" {
		t.Errorf("私钥不匹配: %s", got)
	}
}
