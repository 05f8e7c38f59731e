package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"thor-wallet-core/pkg/crypto_util"
)

var hashCmd = &cobra.Command{
	Use:   "hash [data]",
	Short: "计算哈希 (keccak256 / blake2b256 / blake3)",
	Long:  `对参数或标准输入计算哈希。--hex 时输入按 0x Hex 解码，否则按 UTF-8 文本处理。`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		algo, _ := cmd.Flags().GetString("algo")
		isHex, _ := cmd.Flags().GetBool("hex")

		input, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		data := []byte(input)
		if isHex {
			if data, err = hexutil.Decode(input); err != nil {
				return fmt.Errorf("hex 格式错误: %w", err)
			}
		}

		digest, err := crypto_util.Sum(crypto_util.Algorithm(algo), data)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), digest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
	hashCmd.Flags().StringP("algo", "a", string(crypto_util.AlgoBlake2b256), "哈希算法")
	hashCmd.Flags().Bool("hex", false, "输入为 0x Hex")
}
