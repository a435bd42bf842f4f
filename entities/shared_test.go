package entities

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/defistate/uniswapv4-client-go/calculator/sqrtpricemath"
	"github.com/defistate/uniswapv4-client-go/calculator/tickmath"
)

// Shared fixtures for the entities tests. Mainnet addresses make the pool id
// and ordering assertions concrete.
var (
	testEther = NativeOnChain(1)
	testWETH  = testEther.Wrapped()
	testUSDC  = NewToken(1, common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), 6, "USDC", "USD Coin")
	testDAI   = NewToken(1, common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), 18, "DAI", "DAI Stablecoin")

	testToken0 = NewToken(1, common.HexToAddress("0x0000000000000000000000000000000000000001"), 18, "t0", "token0")
	testToken1 = NewToken(1, common.HexToAddress("0x0000000000000000000000000000000000000002"), 18, "t1", "token1")
	testToken2 = NewToken(1, common.HexToAddress("0x0000000000000000000000000000000000000003"), 18, "t2", "token2")
	testToken3 = NewToken(1, common.HexToAddress("0x0000000000000000000000000000000000000004"), 18, "t3", "token3")

	oneEther    = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	sqrtRatio11 = sqrtpricemath.EncodeSqrtRatioX96(big.NewInt(1), big.NewInt(1))
)

const (
	feeLowest uint32 = 100
	feeMedium uint32 = 3000
)

// fullRangeTicks is a flat tick range holding one ether of liquidity across
// the whole usable tick space at the given spacing.
func fullRangeTicks(t *testing.T, tickSpacing int) []Tick {
	t.Helper()
	lower, err := tickmath.NearestUsableTick(tickmath.MIN_TICK, tickSpacing)
	require.NoError(t, err)
	upper, err := tickmath.NearestUsableTick(tickmath.MAX_TICK, tickSpacing)
	require.NoError(t, err)
	return []Tick{
		{Index: lower, LiquidityGross: new(big.Int).Set(oneEther), LiquidityNet: new(big.Int).Set(oneEther)},
		{Index: upper, LiquidityGross: new(big.Int).Set(oneEther), LiquidityNet: new(big.Int).Neg(oneEther)},
	}
}

// newLiquidPool builds a pool with a full-range tick list so swaps can run.
func newLiquidPool(t *testing.T, currencyA, currencyB Currency, fee uint32, sqrtRatioX96, liquidity *big.Int) *Pool {
	t.Helper()
	provider, err := NewTickListDataProvider(fullRangeTicks(t, 10), 10)
	require.NoError(t, err)
	pool, err := NewPoolWithTickDataProvider(currencyA, currencyB, fee, 10, common.Address{}, sqrtRatioX96, liquidity, provider)
	require.NoError(t, err)
	return pool
}

func mustFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok)
	return n
}
