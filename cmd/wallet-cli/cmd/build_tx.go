package cmd

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"thor-wallet-core/pkg/address"
	"thor-wallet-core/pkg/config"
	"thor-wallet-core/pkg/transaction"
	"thor-wallet-core/pkg/units"
	"thor-wallet-core/pkg/wallet/types"
)

// buildTxCmd 模拟 Online 端的 "构造交易"
var buildTxCmd = &cobra.Command{
	Use:   "build-tx",
	Short: "构造未签名交易 (Online)",
	Long: `构造一笔单 clause 的未签名交易，输出 unsigned.json。
金额以 VET 为单位 (18 位小数)；不指定 --to 时为合约部署。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		to, _ := flags.GetString("to")
		amount, _ := flags.GetString("amount")
		data, _ := flags.GetString("data")
		blockRef, _ := flags.GetString("block-ref")
		gas, _ := flags.GetUint64("gas")
		dependsOn, _ := flags.GetString("depends-on")
		delegated, _ := flags.GetBool("delegated")
		outputFile, _ := flags.GetString("output")

		// 默认值来自配置，命令行显式指定时覆盖
		chainTag := config.Global.Network.ChainTag
		if flags.Changed("chain-tag") {
			chainTag, _ = flags.GetUint8("chain-tag")
		}
		expiration := config.Global.Tx.Expiration
		if flags.Changed("expiration") {
			expiration, _ = flags.GetUint32("expiration")
		}
		dynamicFee := config.Global.Tx.DynamicFee
		if flags.Changed("dynamic-fee") {
			dynamicFee, _ = flags.GetBool("dynamic-fee")
		}

		// 1. 交易类型与费用
		var b transaction.Builder
		if dynamicFee {
			maxFeeStr, _ := flags.GetString("max-fee")
			maxPriorityStr, _ := flags.GetString("max-priority-fee")
			maxFee, err := parseWei(maxFeeStr)
			if err != nil {
				return fmt.Errorf("max-fee: %w", err)
			}
			maxPriority, err := parseWei(maxPriorityStr)
			if err != nil {
				return fmt.Errorf("max-priority-fee: %w", err)
			}
			b = transaction.NewBuilder(transaction.TypeDynamicFee).
				WithMaxFeePerGas(maxFee).
				WithMaxPriorityFeePerGas(maxPriority)
		} else {
			coef := config.Global.Tx.GasPriceCoef
			if flags.Changed("gas-price-coef") {
				coef, _ = flags.GetUint8("gas-price-coef")
			}
			b = transaction.NewBuilder(transaction.TypeLegacy).WithGasPriceCoef(coef)
		}

		// 2. clause
		var recipient *address.Address
		if to != "" {
			a, err := address.Of(to)
			if err != nil {
				return err
			}
			recipient = &a
		}
		value, err := units.ParseVET(amount)
		if err != nil {
			return err
		}
		var payload []byte
		if data != "" {
			if payload, err = hexutil.Decode(data); err != nil {
				return fmt.Errorf("data: %w", err)
			}
		}
		b = b.WithClause(transaction.NewClause(recipient).WithValue(value).WithData(payload))

		// 3. 其余字段
		ref, err := hexutil.Decode(blockRef)
		if err != nil || len(ref) != 8 {
			return errors.New("block-ref 必须是 8 字节 Hex")
		}
		var refArr [8]byte
		copy(refArr[:], ref)

		b = b.WithChainTag(chainTag).
			WithBlockRef(refArr).
			WithExpiration(expiration).
			WithGas(gas).
			WithDelegation(delegated)
		if flags.Changed("nonce") {
			nonce, _ := flags.GetUint64("nonce")
			b = b.WithNonce(nonce)
		}
		if dependsOn != "" {
			id, err := hexutil.Decode(dependsOn)
			if err != nil || len(id) != 32 {
				return errors.New("depends-on 必须是 32 字节 Hex")
			}
			var idArr [32]byte
			copy(idArr[:], id)
			b = b.WithDependsOn(&idArr)
		}

		tx, err := b.Build()
		if err != nil {
			return err
		}

		unsigned := types.FromBody(tx.Body())
		unsigned.DerivationPath = derivationPath(cmd, "")

		if err := writeJSON(cmd.OutOrStdout(), outputFile, unsigned); err != nil {
			return err
		}
		if outputFile != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "✅ 未签名交易已构造! 固有 gas: %d\n文件: %s\n", tx.IntrinsicGas(), outputFile)
		}
		return nil
	},
}

// parseWei 解析 wei 数值 (十进制或 0x)
func parseWei(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("无效的数值 %q", s)
	}
	return n, nil
}

func init() {
	rootCmd.AddCommand(buildTxCmd)

	buildTxCmd.Flags().String("to", "", "接收方地址 (为空时部署合约)")
	buildTxCmd.Flags().String("amount", "0", "金额 (VET)")
	buildTxCmd.Flags().String("data", "", "调用数据 (0x Hex)")
	buildTxCmd.Flags().Uint8("chain-tag", 0, "Chain tag (默认按配置网络: main=0x4a, test=0x27)")
	buildTxCmd.Flags().String("block-ref", "0x0000000000000000", "引用区块 (8 字节 Hex)")
	buildTxCmd.Flags().Uint32("expiration", 0, "过期区块数 (默认使用配置)")
	buildTxCmd.Flags().Uint64("gas", 0, "Gas 上限 (0 表示使用固有 gas)")
	buildTxCmd.Flags().Uint8("gas-price-coef", 0, "Gas 价格系数 (legacy)")
	buildTxCmd.Flags().Bool("dynamic-fee", false, "构造动态费用交易 (0x51)")
	buildTxCmd.Flags().String("max-fee", "0", "maxFeePerGas (wei)")
	buildTxCmd.Flags().String("max-priority-fee", "0", "maxPriorityFeePerGas (wei)")
	buildTxCmd.Flags().String("depends-on", "", "依赖的交易 ID (32 字节 Hex)")
	buildTxCmd.Flags().Uint64("nonce", 0, "Nonce (默认随机)")
	buildTxCmd.Flags().Bool("delegated", false, "请求 gas 代付")
	buildTxCmd.Flags().String("path", "", "签名私钥派生路径，相对 m/44'/818'/0'/0 (默认使用配置)")
	buildTxCmd.Flags().StringP("output", "o", "unsigned.json", "输出文件 (- 表示标准输出)")
}
