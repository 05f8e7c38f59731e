package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"thor-wallet-core/pkg/config"
	"thor-wallet-core/pkg/logger"
)

var cfgFile string

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "wallet-cli",
	Short: "VeChainThor 离线钱包命令行工具",
	Long: `一个用 Go 语言编写的 VeChainThor 冷钱包工具。
支持生成 BIP-39 助记词、派生 VET 地址 (m/44'/818'/0'/0)、构造与离线签名交易 (含 gas 代付)。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 0. 初始化 Config
		if cfgFile != "" {
			cfg, err := config.LoadFile(cfgFile)
			if err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}
			config.Global = cfg
		} else if err := config.Init(); err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		// 1. 初始化 Logger
		return logger.Init(config.Global.App.Env)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件 (默认查找 ./config.yaml 与 ./config/config.yaml)")
}
