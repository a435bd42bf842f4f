package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL      string
	Manager     string
	ChainID     uint64
	Currency0   string
	Currency1   string
	Decimals0   uint8
	Decimals1   uint8
	Fee         uint32
	TickSpacing int
	Hooks       string
	AmountIn    string
	ZeroForOne  bool
	Block       uint64
	Calldata    string
	LogLevel    string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("QUOTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain-id", uint64(1))
	v.SetDefault("decimals0", uint(18))
	v.SetDefault("decimals1", uint(18))
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("quoter")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:      v.GetString("rpc"),
		Manager:     v.GetString("manager"),
		ChainID:     v.GetUint64("chain-id"),
		Currency0:   v.GetString("currency0"),
		Currency1:   v.GetString("currency1"),
		Decimals0:   uint8(v.GetUint("decimals0")),
		Decimals1:   uint8(v.GetUint("decimals1")),
		Fee:         uint32(v.GetUint("fee")),
		TickSpacing: v.GetInt("tick-spacing"),
		Hooks:       v.GetString("hooks"),
		AmountIn:    v.GetString("amount-in"),
		ZeroForOne:  v.GetBool("zero-for-one"),
		Block:       v.GetUint64("block"),
		Calldata:    v.GetString("calldata"),
		LogLevel:    v.GetString("log-level"),
	}

	return cfg, nil
}
