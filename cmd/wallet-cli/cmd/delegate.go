package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"thor-wallet-core/pkg/signer"
	"thor-wallet-core/pkg/wallet/types"
)

var delegateCmd = &cobra.Command{
	Use:   "delegate",
	Short: "以 gas payer 身份为代付交易签名",
	Long:  `读取发送方已签名的代付交易 (signed.json)，使用 gas payer 的 Keystore 追加第二个签名。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, _ := cmd.Flags().GetString("input")
		outputFile, _ := cmd.Flags().GetString("output")

		// 1. 读取发送方已签名交易
		var partial types.SignedTransaction
		if err := readJSON(inputFile, &partial); err != nil {
			return err
		}
		tx, err := partial.Transaction()
		if err != nil {
			return fmt.Errorf("交易无效: %w", err)
		}
		if !tx.IsDelegated() {
			return errors.New("交易未请求 gas 代付")
		}
		origin, err := signer.Origin(tx)
		if err != nil {
			return fmt.Errorf("需要发送方先签名: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Origin: %s\n", origin)

		// 2. 解密 gas payer 的 Keystore
		wallet, err := unlockKeystore(cmd)
		if err != nil {
			return err
		}

		// 3. 签名
		signed, err := wallet.SignAsGasPayer(tx, derivationPath(cmd, ""))
		if err != nil {
			return fmt.Errorf("签名失败: %w", err)
		}

		result, err := types.NewSignedTransaction(signed)
		if err != nil {
			return err
		}
		if err := writeJSON(cmd.OutOrStdout(), outputFile, result); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "\n✅ 代付签名成功!\nID: %s\nGas payer: %s\n", result.ID, result.GasPayer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(delegateCmd)
	delegateCmd.Flags().StringP("input", "i", "signed.json", "发送方已签名的交易文件")
	delegateCmd.Flags().StringP("output", "o", "delegated.json", "输出文件 (- 表示标准输出)")
	delegateCmd.Flags().StringP("keystore", "k", "", "gas payer 的 Keystore 文件路径 (默认使用配置)")
	delegateCmd.Flags().String("path", "", "gas payer 派生路径，相对 m/44'/818'/0'/0 (默认使用配置)")
}
