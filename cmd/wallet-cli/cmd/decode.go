package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"thor-wallet-core/pkg/transaction"
	"thor-wallet-core/pkg/wallet/types"
)

// decodedTransaction 是 decode 命令的输出
type decodedTransaction struct {
	Body         types.UnsignedTransaction `json:"body"`
	SigningHash  string                    `json:"signing_hash"`
	IntrinsicGas uint64                    `json:"intrinsic_gas"`
	Signature    hexutil.Bytes             `json:"signature,omitempty"`
	types.SignedTransaction
}

var decodeCmd = &cobra.Command{
	Use:   "decode [raw]",
	Short: "解码网络字节为 JSON",
	Long:  `解码 0x Hex 交易字节 (参数或标准输入)。默认按已签名交易解码，--unsigned 时按未签名交易解码。`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unsigned, _ := cmd.Flags().GetBool("unsigned")

		input, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		raw, err := hexutil.Decode(input)
		if err != nil {
			return fmt.Errorf("hex 格式错误: %w", err)
		}

		tx, err := transaction.Decode(raw, !unsigned)
		if err != nil {
			return err
		}

		hash, err := tx.SigningHash()
		if err != nil {
			return err
		}
		envelope, err := types.NewSignedTransaction(tx)
		if err != nil {
			return err
		}

		return writeJSON(cmd.OutOrStdout(), "-", decodedTransaction{
			Body:              types.FromBody(tx.Body()),
			SigningHash:       hexutil.Encode(hash),
			IntrinsicGas:      tx.IntrinsicGas(),
			Signature:         tx.Signature(),
			SignedTransaction: envelope,
		})
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().Bool("unsigned", false, "输入为未签名交易")
}
