package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL         string
	BatchQuery     string
	Factories      []string
	Pivot          string
	Denylist       []string
	BatchSize      uint64
	MaxBatches     int
	LiquidityFloor string
	Protocol       string
	PGDSN          string
	PairsFile      string
	SyncInterval   time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	LogLevel       string
}

// Mainnet defaults: WETH pivot, the deployed flash query contract, and
// the Uniswap and Sushiswap V2 factories.
const (
	defaultPivot      = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	defaultBatchQuery = "0x5EF1009b9FCD4fec3094a5564047e190D72Bd511"
)

var defaultFactories = []string{
	"0x5C69bEE701ef814a2B6a3EDD4B1652CB9cc8aa6f",
	"0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac",
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MARKETGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("batch-query", defaultBatchQuery)
	v.SetDefault("pivot", defaultPivot)
	v.SetDefault("factory", defaultFactories)
	v.SetDefault("batch-size", uint64(1000))
	v.SetDefault("max-batches", 100)
	v.SetDefault("liquidity-floor", "2000000000000000000")
	v.SetDefault("protocol", "uniswap-v2")
	v.SetDefault("pairs-file", "./data/pairs.jsonl")
	v.SetDefault("sync-interval", 12*time.Second)
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
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
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:         v.GetString("rpc"),
		BatchQuery:     v.GetString("batch-query"),
		Factories:      getStringSlice(v, "factory"),
		Pivot:          v.GetString("pivot"),
		Denylist:       getStringSlice(v, "denylist"),
		BatchSize:      v.GetUint64("batch-size"),
		MaxBatches:     v.GetInt("max-batches"),
		LiquidityFloor: v.GetString("liquidity-floor"),
		Protocol:       v.GetString("protocol"),
		PGDSN:          v.GetString("pg-dsn"),
		PairsFile:      v.GetString("pairs-file"),
		SyncInterval:   v.GetDuration("sync-interval"),
		MaxRetries:     v.GetInt("max-retries"),
		RetryBackoff:   v.GetDuration("retry-backoff"),
		LogLevel:       v.GetString("log-level"),
	}

	return cfg, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
