// Command quoter derives pool ids, quotes swaps against a live node and
// decodes router action calldata.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/defistate/uniswapv4-client-go/entities"
	"github.com/defistate/uniswapv4-client-go/extensions"
	"github.com/defistate/uniswapv4-client-go/planner"
)

func main() {
	root := &cobra.Command{
		Use:          "quoter",
		Short:        "Uniswap v4 pool inspection and swap quoting",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	poolIDCmd := &cobra.Command{
		Use:   "pool-id",
		Short: "Derive the pool id for a currency pair",
		RunE:  runPoolID,
	}
	addPoolFlags(poolIDCmd)
	root.AddCommand(poolIDCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Simulate a swap against live pool state",
		RunE:  runQuote,
	}
	addPoolFlags(quoteCmd)
	quoteCmd.Flags().String("rpc", "", "Ethereum RPC URL")
	quoteCmd.Flags().String("manager", "", "pool manager contract address")
	quoteCmd.Flags().String("amount-in", "", "input amount in raw units")
	quoteCmd.Flags().Bool("zero-for-one", true, "swap currency0 for currency1")
	quoteCmd.Flags().Uint64("block", 0, "block number, 0 means latest")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(quoteCmd)

	parseCmd := &cobra.Command{
		Use:   "parse",
		Short: "Decode an encoded action envelope",
		RunE:  runParse,
	}
	parseCmd.Flags().String("calldata", "", "hex-encoded action envelope")
	root.AddCommand(parseCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPoolFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("chain-id", 1, "chain id")
	cmd.Flags().String("currency0", "", "first currency address, zero address for native")
	cmd.Flags().String("currency1", "", "second currency address, zero address for native")
	cmd.Flags().Uint("decimals0", 18, "first currency decimals")
	cmd.Flags().Uint("decimals1", 18, "second currency decimals")
	cmd.Flags().Uint("fee", 0, "pool fee in pips")
	cmd.Flags().Int("tick-spacing", 0, "pool tick spacing")
	cmd.Flags().String("hooks", "", "hooks contract address, empty for none")
}

func loadConfig(cmd *cobra.Command) (Config, error) {
	cfgFile, _ := cmd.Root().PersistentFlags().GetString("config")
	return Load(cfgFile, cmd.Flags())
}

func currencyPair(cfg Config) (entities.Currency, entities.Currency, error) {
	c0, err := parseCurrency(cfg, cfg.Currency0, cfg.Decimals0)
	if err != nil {
		return entities.Currency{}, entities.Currency{}, fmt.Errorf("currency0: %w", err)
	}
	c1, err := parseCurrency(cfg, cfg.Currency1, cfg.Decimals1)
	if err != nil {
		return entities.Currency{}, entities.Currency{}, fmt.Errorf("currency1: %w", err)
	}
	return c0, c1, nil
}

func parseCurrency(cfg Config, value string, decimals uint8) (entities.Currency, error) {
	if value == "" {
		return entities.Currency{}, fmt.Errorf("currency address is required")
	}
	if !common.IsHexAddress(value) {
		return entities.Currency{}, fmt.Errorf("invalid address %q", value)
	}
	address := common.HexToAddress(value)
	if address == (common.Address{}) {
		return entities.NativeOnChain(cfg.ChainID), nil
	}
	return entities.NewToken(cfg.ChainID, address, decimals, "", ""), nil
}

func runPoolID(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c0, c1, err := currencyPair(cfg)
	if err != nil {
		return err
	}

	id, err := entities.GetPoolID(c0, c1, cfg.Fee, cfg.TickSpacing, common.HexToAddress(cfg.Hooks))
	if err != nil {
		return err
	}
	fmt.Println(id.Hex())
	return nil
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.Manager == "" {
		return fmt.Errorf("pool manager address is required")
	}
	amountIn, ok := new(big.Int).SetString(cfg.AmountIn, 10)
	if !ok || amountIn.Sign() <= 0 {
		return fmt.Errorf("amount-in must be a positive integer, got %q", cfg.AmountIn)
	}
	c0, c1, err := currencyPair(cfg)
	if err != nil {
		return err
	}

	zapLogger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()
	logger := &sugaredLogger{zapLogger.Sugar()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer client.Close()

	lens, err := extensions.NewPoolManagerLens(&extensions.PoolManagerLensConfig{
		Manager:  common.HexToAddress(cfg.Manager),
		Caller:   client,
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	poolID, err := entities.GetPoolID(c0, c1, cfg.Fee, cfg.TickSpacing, common.HexToAddress(cfg.Hooks))
	if err != nil {
		return err
	}

	var blockNumber *big.Int
	if cfg.Block != 0 {
		blockNumber = new(big.Int).SetUint64(cfg.Block)
	}

	slot0, err := lens.GetSlot0(ctx, poolID, blockNumber)
	if err != nil {
		return err
	}
	if slot0.SqrtPriceX96.Sign() == 0 {
		return fmt.Errorf("pool %s is not initialized", poolID.Hex())
	}
	liquidity, err := lens.GetLiquidity(ctx, poolID, blockNumber)
	if err != nil {
		return err
	}
	logger.Info("pool state", "pool", poolID.Hex(), "sqrtPriceX96", slot0.SqrtPriceX96.String(), "tick", slot0.Tick, "liquidity", liquidity.String())

	provider := extensions.NewRPCTickDataProvider(lens, poolID, blockNumber)
	pool, err := entities.NewPoolWithTickDataProvider(c0, c1, cfg.Fee, cfg.TickSpacing, common.HexToAddress(cfg.Hooks), slot0.SqrtPriceX96, liquidity, provider)
	if err != nil {
		return err
	}

	inputCurrency := pool.Currency0
	if !cfg.ZeroForOne {
		inputCurrency = pool.Currency1
	}
	amountOut, _, err := pool.GetOutputAmount(ctx, entities.NewCurrencyAmount(inputCurrency, amountIn), nil)
	if err != nil {
		return err
	}

	fmt.Printf("amount in:  %s\n", amountIn.String())
	fmt.Printf("amount out: %s\n", amountOut.Quotient().String())
	return nil
}

func runParse(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := hexutil.Decode(cfg.Calldata)
	if err != nil {
		return fmt.Errorf("calldata: %w", err)
	}

	call, err := planner.ParseCalldata(data)
	if err != nil {
		return err
	}

	type decoded struct {
		Command string         `json:"command"`
		Kind    string         `json:"kind"`
		Params  planner.Action `json:"params"`
	}
	out := make([]decoded, len(call.Actions))
	for i, action := range call.Actions {
		out[i] = decoded{
			Command: fmt.Sprintf("0x%02x", action.Command),
			Kind:    action.Action.Kind().String(),
			Params:  action.Action,
		}
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// sugaredLogger adapts a zap sugared logger to the extensions Logger
// interface.
type sugaredLogger struct {
	sugar *zap.SugaredLogger
}

func (l *sugaredLogger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l *sugaredLogger) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *sugaredLogger) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *sugaredLogger) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }
