package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"thor-wallet-core/pkg/address"
	"thor-wallet-core/pkg/bip32"
	"thor-wallet-core/pkg/bip39"
	"thor-wallet-core/pkg/keystore"
)

// newCmd 代表 new 命令
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "创建一个新的钱包",
	Long:  `生成一个新的随机 BIP-39 助记词，显示 VET 账户节点的扩展公钥和默认地址，可选择加密保存为 Keystore。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		wordsNo, _ := cmd.Flags().GetInt("words")
		save, _ := cmd.Flags().GetBool("save")
		path := derivationPath(cmd, "")
		out := cmd.OutOrStdout()

		// 1. 生成助记词
		words, err := bip39.Generate(wordsNo, nil)
		if err != nil {
			return fmt.Errorf("生成助记词失败: %w", err)
		}

		// 2. VET 账户节点 m/44'/818'/0'/0
		node, err := bip32.FromMnemonic(words, bip32.VETDerivationPath)
		if err != nil {
			return fmt.Errorf("派生账户节点失败: %w", err)
		}
		xpub, err := node.Neuter()
		if err != nil {
			return err
		}

		// 3. 派生地址
		addr, err := address.OfMnemonic(words, path)
		if err != nil {
			return fmt.Errorf("派生地址失败: %w", err)
		}

		fmt.Fprintln(out, "---------------------------------------------------")
		fmt.Fprintf(out, "助记词 (Mnemonic): \n%s\n", words.Phrase())
		fmt.Fprintln(out, "---------------------------------------------------")
		fmt.Fprintf(out, "账户公钥 (xpub) [%s]: %s\n", bip32.VETDerivationPath, xpub.String())
		fmt.Fprintf(out, "VET Address [%s]: %s\n", path, addr)
		fmt.Fprintln(out, "---------------------------------------------------")

		// 4. 可选: 加密保存
		if save {
			output := keystorePath(cmd)
			password, err := readNewPassword(cmd)
			if err != nil {
				return err
			}
			encrypted, err := keystore.EncryptMnemonic(words, password)
			if err != nil {
				return fmt.Errorf("加密失败: %w", err)
			}
			if err := encrypted.SaveToFile(output); err != nil {
				return fmt.Errorf("保存文件失败: %w", err)
			}
			fmt.Fprintf(out, "Keystore 已保存: %s (ID: %s)\n", output, encrypted.Id)
		}

		fmt.Fprintln(out, "请妥善保管您的助记词！任何拥有助记词的人都可以控制该钱包的所有资产。")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().Int("words", 24, "助记词单词数 (12/15/18/21/24)")
	newCmd.Flags().String("path", "", "地址派生路径，相对 m/44'/818'/0'/0 (默认使用配置)")
	newCmd.Flags().Bool("save", false, "加密保存为 Keystore")
	newCmd.Flags().StringP("keystore", "k", "", "Keystore 输出文件 (默认使用配置)")
}
