package cmd

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"thor-wallet-core/pkg/units"
	"thor-wallet-core/pkg/wallet/types"
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "离线签名交易 (Offline Signing)",
	Long:  `读取未签名的交易 JSON 文件，使用 Keystore 以发送方身份签名，并输出已签名的交易 (Raw Tx)。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, _ := cmd.Flags().GetString("input")
		outputFile, _ := cmd.Flags().GetString("output")

		// 1. 读取未签名交易
		var unsignedTx types.UnsignedTransaction
		if err := readJSON(inputFile, &unsignedTx); err != nil {
			return err
		}
		tx, err := unsignedTx.Build()
		if err != nil {
			return fmt.Errorf("交易无效: %w", err)
		}
		path := derivationPath(cmd, unsignedTx.DerivationPath)

		// 显示交易详情供用户确认 (Verify on Screen)
		printSummary(cmd, unsignedTx, path)

		// 2. 加载 Keystore 并解密
		wallet, err := unlockKeystore(cmd)
		if err != nil {
			return err
		}

		// 3. 派生私钥并签名
		signed, err := wallet.SignAsSender(tx, path)
		if err != nil {
			return fmt.Errorf("签名失败: %w", err)
		}

		// 4. 输出结果
		result, err := types.NewSignedTransaction(signed)
		if err != nil {
			return err
		}
		if err := writeJSON(cmd.OutOrStdout(), outputFile, result); err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "\n✅ 签名成功!\nID: %s\nOrigin: %s\n", result.ID, result.Origin)
		if !result.Complete {
			fmt.Fprintln(cmd.ErrOrStderr(), "该交易请求 gas 代付，请将输出交给 gas payer 执行 delegate。")
		}
		return nil
	},
}

func printSummary(cmd *cobra.Command, u types.UnsignedTransaction, path string) {
	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, "\n================ 待签名交易 ================")
	fmt.Fprintf(out, "Type:       %s (chain tag 0x%02x)\n", u.Type, u.ChainTag)
	for i, c := range u.Clauses {
		to := "(合约部署)"
		if c.To != nil {
			to = c.To.String()
		}
		amount := c.Value
		if v, ok := new(big.Int).SetString(c.Value, 0); ok {
			amount = units.FormatVET(v) + " VET"
		}
		fmt.Fprintf(out, "Clause %d:   %s %s (%d bytes data)\n", i, to, amount, len(c.Data))
	}
	fmt.Fprintf(out, "Gas:        %d\n", u.Gas)
	fmt.Fprintf(out, "Delegated:  %t\n", u.Delegated)
	fmt.Fprintf(out, "Path:       %s\n", path)
	fmt.Fprintln(out, "============================================")
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().StringP("input", "i", "unsigned.json", "未签名的交易文件路径")
	signCmd.Flags().StringP("output", "o", "signed.json", "签名后的输出文件路径 (- 表示标准输出)")
	signCmd.Flags().StringP("keystore", "k", "", "Keystore 文件路径 (默认使用配置)")
	signCmd.Flags().String("path", "", "覆盖交易文件中的派生路径")
}
