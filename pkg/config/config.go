package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Network NetworkConfig `mapstructure:"network"`
	Tx      TxConfig      `mapstructure:"tx"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

// NetworkConfig 描述目标网络
type NetworkConfig struct {
	Name     string `mapstructure:"name"`      // main / test / solo
	ChainTag uint8  `mapstructure:"chain_tag"` // 主网 0x4a，测试网 0x27
}

// TxConfig 构建交易时的默认值
type TxConfig struct {
	Expiration   uint32 `mapstructure:"expiration"`     // 区块数
	GasPriceCoef uint8  `mapstructure:"gas_price_coef"` // legacy 交易
	DynamicFee   bool   `mapstructure:"dynamic_fee"`    // 默认构建 0x51 交易
}

type WalletConfig struct {
	DerivationPath string `mapstructure:"derivation_path"` // 相对 m/44'/818'/0'/0 的路径
	KeystorePath   string `mapstructure:"keystore_path"`   // 本地 Keystore 文件路径
	Password       string `mapstructure:"password"`        // Keystore 密码 (通常通过环境变量 WALLET_PASSWORD 传入)
}

// 已知网络的 chain tag
var chainTags = map[string]uint8{
	"main": 0x4a,
	"test": 0x27,
	"solo": 0xf6,
}

var Global Config

// Init 读取 config.yaml (., ./config) 与环境变量 (如 WALLET_KEYSTORE_PATH)，结果写入 Global
func Init() error {
	v := viper.New()
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
	v.AddConfigPath(".")      // optionally look for config in the working directory
	v.AddConfigPath("./config")

	cfg, err := load(v)
	if err != nil {
		return err
	}
	Global = cfg
	return nil
}

// LoadFile 读取指定配置文件
func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (Config, error) {
	// 环境变量设置
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	// 未显式配置 chain tag 时按网络名推导
	if !v.IsSet("network.chain_tag") {
		if tag, ok := chainTags[cfg.Network.Name]; ok {
			cfg.Network.ChainTag = tag
		}
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")

	v.SetDefault("network.name", "main")

	v.SetDefault("tx.expiration", 720)
	v.SetDefault("tx.gas_price_coef", 0)
	v.SetDefault("tx.dynamic_fee", false)

	v.SetDefault("wallet.derivation_path", "m/0")
	v.SetDefault("wallet.keystore_path", "wallet.json")
	v.SetDefault("wallet.password", "") // 注册 key，使 WALLET_PASSWORD 能被 Unmarshal 读取
}
