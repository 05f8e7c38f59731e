package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"thor-wallet-core/internal/service"
	"thor-wallet-core/pkg/config"
	"thor-wallet-core/pkg/keystore"
)

const minPasswordLength = 6

// readPassword 优先使用配置中的密码 (WALLET_PASSWORD)，否则从终端读取且不回显
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if config.Global.Wallet.Password != "" {
		return config.Global.Wallet.Password, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	return string(b), nil
}

// readNewPassword 读取并确认新密码
func readNewPassword(cmd *cobra.Command) (string, error) {
	password, err := readPassword(cmd, "输入密码: ")
	if err != nil {
		return "", err
	}
	if config.Global.Wallet.Password == "" {
		confirm, err := readPassword(cmd, "确认密码: ")
		if err != nil {
			return "", err
		}
		if password != confirm {
			return "", errors.New("两次输入的密码不一致")
		}
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("密码长度至少需要 %d 位", minPasswordLength)
	}
	return password, nil
}

// keystorePath 返回 --keystore 标志，未指定时使用配置
func keystorePath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("keystore"); path != "" {
		return path
	}
	return config.Global.Wallet.KeystorePath
}

// derivationPath 返回 --path 标志，未指定时使用 fallback 或配置
func derivationPath(cmd *cobra.Command, fallback string) string {
	if path, _ := cmd.Flags().GetString("path"); path != "" {
		return path
	}
	if fallback != "" {
		return fallback
	}
	return config.Global.Wallet.DerivationPath
}

// unlockKeystore 加载 Keystore 并用密码解密
func unlockKeystore(cmd *cobra.Command) (*service.Wallet, error) {
	path := keystorePath(cmd)
	encrypted, err := keystore.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("加载 Keystore 失败: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Keystore: %s (%s)\n", path, encrypted.Address)

	password, err := readPassword(cmd, "请输入 Keystore 密码: ")
	if err != nil {
		return nil, err
	}
	wallet, err := service.Unlock(encrypted, password)
	if err != nil {
		return nil, fmt.Errorf("解密失败 (密码错误?): %w", err)
	}
	return wallet, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("解析文件失败: %w", err)
	}
	return nil
}

// writeJSON 写入文件，path 为 "-" 时写到标准输出
func writeJSON(out io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "-" || path == "" {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("保存失败: %w", err)
	}
	return nil
}

// readInput 读取参数或标准输入 (参数为 "-" 或缺省时)
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
