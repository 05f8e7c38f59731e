package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"thor-wallet-core/pkg/address"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "计算 VET 地址",
	Long: `由公钥、私钥文件或 Keystore + 派生路径计算带校验和的地址。
私钥只从文件读取，不接受命令行参数。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		publicKey, _ := cmd.Flags().GetString("public-key")
		keyFile, _ := cmd.Flags().GetString("private-key-file")

		var (
			addr address.Address
			err  error
		)
		switch {
		case publicKey != "":
			pub, decodeErr := hexutil.Decode(publicKey)
			if decodeErr != nil {
				return fmt.Errorf("公钥格式错误: %w", decodeErr)
			}
			addr, err = address.OfPublicKey(pub)
		case keyFile != "":
			addr, err = addressFromKeyFile(keyFile)
		default:
			wallet, unlockErr := unlockKeystore(cmd)
			if unlockErr != nil {
				return unlockErr
			}
			addr, err = wallet.Address(derivationPath(cmd, ""))
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), addr)
		return nil
	},
}

// addressFromKeyFile 读取 Hex 私钥文件。错误信息不包含文件内容。
func addressFromKeyFile(path string) (address.Address, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return address.Address{}, fmt.Errorf("读取私钥文件失败: %w", err)
	}
	s := strings.TrimSpace(string(data))
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	priv, err := hexutil.Decode(s)
	if err != nil {
		return address.Address{}, errors.New("私钥文件格式错误")
	}
	return address.OfPrivateKey(priv)
}

var checksumCmd = &cobra.Command{
	Use:   "checksum <address>",
	Short: "输出带大小写校验和的地址",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		checksummed, err := address.Checksum(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), checksummed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
	addressCmd.Flags().String("public-key", "", "公钥 (33 或 65 字节 Hex)")
	addressCmd.Flags().String("private-key-file", "", "包含 Hex 私钥的文件")
	addressCmd.Flags().StringP("keystore", "k", "", "Keystore 文件路径 (默认使用配置)")
	addressCmd.Flags().String("path", "", "派生路径，相对 m/44'/818'/0'/0 (默认使用配置)")

	rootCmd.AddCommand(checksumCmd)
}
