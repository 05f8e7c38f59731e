package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"thor-wallet-core/pkg/bip39"
	"thor-wallet-core/pkg/keystore"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "初始化一个新的钱包 (生成助记词并加密保存)",
	Long:  `生成新的 BIP-39 助记词，并使用用户输入的密码进行加密，保存为 Keystore 文件。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile := keystorePath(cmd)
		wordsNo, _ := cmd.Flags().GetInt("words")
		out := cmd.OutOrStdout()

		if _, err := os.Stat(outputFile); err == nil {
			return fmt.Errorf("文件 %s 已存在。请先删除或指定其他文件名", outputFile)
		}

		fmt.Fprintln(out, "正在初始化新钱包...")
		fmt.Fprintln(out, "请设置一个强密码来保护您的助记词。")

		// 1. 输入密码
		password, err := readNewPassword(cmd)
		if err != nil {
			return err
		}

		// 2. 生成助记词
		words, err := bip39.Generate(wordsNo, nil)
		if err != nil {
			return fmt.Errorf("生成助记词失败: %w", err)
		}

		// 3. 加密
		encryptedKey, err := keystore.EncryptMnemonic(words, password)
		if err != nil {
			return fmt.Errorf("加密失败: %w", err)
		}

		// 4. 保存
		if err := encryptedKey.SaveToFile(outputFile); err != nil {
			return fmt.Errorf("保存文件失败: %w", err)
		}

		fmt.Fprintf(out, "\n✅ 钱包已初始化！\n")
		fmt.Fprintf(out, "文件位置: %s\n", outputFile)
		fmt.Fprintf(out, "地址 (m/0): %s\n", encryptedKey.Address)
		fmt.Fprintf(out, "您的 ID: %s\n", encryptedKey.Id)
		fmt.Fprintln(out, "\n⚠️  警告: 请务必记住您的密码！如果丢失密码，您将无法恢复钱包。")

		// 询问是否显示助记词以便备份
		fmt.Fprint(out, "\n是否需要现在显示助记词以便备份? (y/N): ")
		input, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		input = strings.TrimSpace(strings.ToLower(input))

		if input == "y" || input == "yes" {
			fmt.Fprintln(out, "\n---------------------------------------------------")
			fmt.Fprintln(out, "助记词 (请抄写在纸上并安全保管):")
			fmt.Fprintln(out, words.Phrase())
			fmt.Fprintln(out, "---------------------------------------------------")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("keystore", "k", "", "输出的 Keystore 文件名 (默认使用配置)")
	initCmd.Flags().Int("words", 12, "助记词单词数")
}
