package entities

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defistate/uniswapv4-client-go/calculator/sqrtpricemath"
)

// testRoutePools builds a 0-1 pool priced at 0.2 and a 1-2 pool priced at 0.5.
func testRoutePools(t *testing.T) (pool01, pool12 *Pool) {
	t.Helper()
	pool01, err := NewPool(testToken0, testToken1, feeMedium, 60, common.Address{},
		sqrtpricemath.EncodeSqrtRatioX96(big.NewInt(1), big.NewInt(5)), big.NewInt(0))
	require.NoError(t, err)
	pool12, err = NewPool(testToken1, testToken2, feeMedium, 60, common.Address{},
		sqrtpricemath.EncodeSqrtRatioX96(big.NewInt(15), big.NewInt(30)), big.NewInt(0))
	require.NoError(t, err)
	return pool01, pool12
}

func TestNewRoute(t *testing.T) {
	pool01, pool12 := testRoutePools(t)

	t.Run("builds the currency path", func(t *testing.T) {
		route, err := NewRoute([]*Pool{pool01, pool12}, testToken0, testToken2)
		require.NoError(t, err)
		path := route.CurrencyPath()
		require.Len(t, path, 3)
		assert.True(t, path[0].Equals(testToken0))
		assert.True(t, path[1].Equals(testToken1))
		assert.True(t, path[2].Equals(testToken2))
		assert.Equal(t, uint64(1), route.ChainID())
	})

	t.Run("rejects an empty pool list", func(t *testing.T) {
		_, err := NewRoute(nil, testToken0, testToken2)
		assert.ErrorIs(t, err, ErrEmptyPools)
	})

	t.Run("panics on a broken chain", func(t *testing.T) {
		pool23, err := NewPool(testToken2, testToken3, feeMedium, 60, common.Address{}, sqrtRatio11, big.NewInt(0))
		require.NoError(t, err)
		assert.Panics(t, func() {
			NewRoute([]*Pool{pool01, pool23}, testToken0, testToken3)
		})
	})

	t.Run("rejects an output currency outside the last pool", func(t *testing.T) {
		_, err := NewRoute([]*Pool{pool01}, testToken0, testToken2)
		assert.ErrorIs(t, err, ErrInvalidCurrency)
	})

	t.Run("panics when the walk misses the output currency", func(t *testing.T) {
		assert.Panics(t, func() {
			NewRoute([]*Pool{pool01, pool12}, testToken0, testToken1)
		})
	})

	t.Run("keeps native endpoints while routing through the wrapped pool", func(t *testing.T) {
		wethPool, err := NewPool(testWETH, testUSDC, feeMedium, 60, common.Address{}, sqrtRatio11, big.NewInt(0))
		require.NoError(t, err)
		route, err := NewRoute([]*Pool{wethPool}, testEther, testUSDC)
		require.NoError(t, err)
		assert.True(t, route.Input.Equals(testEther))
		assert.True(t, route.PathInput.Equals(testWETH))
		assert.True(t, route.CurrencyPath()[0].Equals(testWETH))
	})
}

func TestRouteMidPrice(t *testing.T) {
	pool01, pool12 := testRoutePools(t)

	t.Run("chains pool prices", func(t *testing.T) {
		route, err := NewRoute([]*Pool{pool01, pool12}, testToken0, testToken2)
		require.NoError(t, err)
		mid, err := route.MidPrice()
		require.NoError(t, err)
		assert.Equal(t, "0.1000", mid.ToFixed(4))
		assert.True(t, mid.Base.Equals(testToken0))
		assert.True(t, mid.Quote.Equals(testToken2))
	})

	t.Run("inverts with the route direction", func(t *testing.T) {
		route, err := NewRoute([]*Pool{pool12, pool01}, testToken2, testToken0)
		require.NoError(t, err)
		mid, err := route.MidPrice()
		require.NoError(t, err)
		assert.Equal(t, "10.0000", mid.ToFixed(4))
	})

	t.Run("memoizes", func(t *testing.T) {
		route, err := NewRoute([]*Pool{pool01, pool12}, testToken0, testToken2)
		require.NoError(t, err)
		first, err := route.MidPriceCached()
		require.NoError(t, err)
		second, err := route.MidPriceCached()
		require.NoError(t, err)
		assert.Zero(t, first.Fraction.Cmp(second.Fraction))
	})
}
