// Package extensions reads live pool state from a v4 pool manager over RPC.
// The pool manager keeps pool state in internal mappings with no public
// getters; PoolManagerLens derives the storage slots locally and reads them
// through the manager's extsload function, so no lens contract deployment is
// needed.
package extensions

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Storage layout of the pool manager: _pools lives at slot 6, and within a
// pool's state struct the ticks mapping is at offset 4 and the tick bitmap
// at offset 5.
const (
	poolsSlot        = 6
	slot0Offset      = 0
	liquidityOffset  = 3
	ticksOffset      = 4
	tickBitmapOffset = 5
)

var extsloadSelector = crypto.Keccak256([]byte("extsload(bytes32)"))[:4]

// PoolManagerLensConfig holds the lens dependencies.
type PoolManagerLensConfig struct {
	// Manager is the pool manager contract address.
	Manager common.Address
	// Caller executes the read-only extsload calls; an ethclient satisfies it.
	Caller ethereum.ContractCaller

	Registry prometheus.Registerer
	Logger   Logger
}

func (c *PoolManagerLensConfig) validate() error {
	if c.Caller == nil {
		return errors.New("config: Caller cannot be nil")
	}
	if c.Registry == nil {
		return errors.New("config: Registry cannot be nil")
	}
	if c.Logger == nil {
		return errors.New("config: Logger cannot be nil")
	}
	return nil
}

// PoolManagerLens reads pool manager storage through extsload.
type PoolManagerLens struct {
	manager common.Address
	caller  ethereum.ContractCaller
	metrics *Metrics
	logger  Logger
}

// NewPoolManagerLens constructs a lens from a configuration, returning an
// error if the config is invalid.
func NewPoolManagerLens(cfg *PoolManagerLensConfig) (*PoolManagerLens, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &PoolManagerLens{
		manager: cfg.Manager,
		caller:  cfg.Caller,
		metrics: NewMetrics(cfg.Registry),
		logger:  cfg.Logger,
	}, nil
}

// GetTickBitmap retrieves one 256-bit word of a pool's tick bitmap. wordPos
// is the word index, i.e. the tick compressed by the pool's tick spacing and
// shifted right by 8. A nil blockNumber reads the latest state.
func (l *PoolManagerLens) GetTickBitmap(ctx context.Context, poolID common.Hash, wordPos int, blockNumber *big.Int) (*uint256.Int, error) {
	value, err := l.extsload(ctx, tickBitmapSlot(poolID, wordPos), blockNumber, "tick_bitmap")
	if err != nil {
		return nil, err
	}
	word := new(uint256.Int).SetBytes(value[:])
	return word, nil
}

// GetTickLiquidity retrieves the liquidity stored at one tick of a pool: the
// gross liquidity referencing the tick and the net liquidity change when the
// tick is crossed left to right. The tick's storage word packs the signed
// net amount into the top 16 bytes and the gross amount into the bottom 16.
func (l *PoolManagerLens) GetTickLiquidity(ctx context.Context, poolID common.Hash, tick int, blockNumber *big.Int) (liquidityGross, liquidityNet *big.Int, err error) {
	value, err := l.extsload(ctx, tickInfoSlot(poolID, tick), blockNumber, "tick_info")
	if err != nil {
		return nil, nil, err
	}
	liquidityGross = new(big.Int).SetBytes(value[16:32])
	liquidityNet = new(big.Int).SetBytes(value[0:16])
	if value[0]&0x80 != 0 {
		liquidityNet.Sub(liquidityNet, int128Modulus)
	}
	return liquidityGross, liquidityNet, nil
}

var int128Modulus = new(big.Int).Lsh(big.NewInt(1), 128)

// Slot0 is the unpacked first word of a pool's state: the current sqrt
// price, tick and fees.
type Slot0 struct {
	SqrtPriceX96 *big.Int
	Tick         int
	ProtocolFee  uint32
	LpFee        uint32
}

// GetSlot0 retrieves and unpacks a pool's slot0 word. The word packs, from
// the low bits up, a uint160 sqrt price, an int24 tick, a uint24 protocol
// fee and a uint24 lp fee.
func (l *PoolManagerLens) GetSlot0(ctx context.Context, poolID common.Hash, blockNumber *big.Int) (Slot0, error) {
	slot := poolStateSlot(poolID)
	slot.Add(slot, big.NewInt(slot0Offset))
	value, err := l.extsload(ctx, common.BigToHash(slot), blockNumber, "slot0")
	if err != nil {
		return Slot0{}, err
	}

	word := new(big.Int).SetBytes(value[:])
	sqrtPriceX96 := new(big.Int).And(word, new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1)))
	tick := new(big.Int).And(new(big.Int).Rsh(word, 160), big.NewInt(0xffffff)).Int64()
	if tick >= 1<<23 {
		tick -= 1 << 24
	}
	protocolFee := uint32(new(big.Int).And(new(big.Int).Rsh(word, 184), big.NewInt(0xffffff)).Uint64())
	lpFee := uint32(new(big.Int).And(new(big.Int).Rsh(word, 208), big.NewInt(0xffffff)).Uint64())

	return Slot0{
		SqrtPriceX96: sqrtPriceX96,
		Tick:         int(tick),
		ProtocolFee:  protocolFee,
		LpFee:        lpFee,
	}, nil
}

// GetLiquidity retrieves a pool's current in-range liquidity.
func (l *PoolManagerLens) GetLiquidity(ctx context.Context, poolID common.Hash, blockNumber *big.Int) (*big.Int, error) {
	slot := poolStateSlot(poolID)
	slot.Add(slot, big.NewInt(liquidityOffset))
	value, err := l.extsload(ctx, common.BigToHash(slot), blockNumber, "liquidity")
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(value[16:32]), nil
}

func (l *PoolManagerLens) extsload(ctx context.Context, slot common.Hash, blockNumber *big.Int, kind string) (common.Hash, error) {
	timer := prometheus.NewTimer(l.metrics.loadDuration.WithLabelValues(kind))
	defer timer.ObserveDuration()

	data := make([]byte, 0, 4+32)
	data = append(data, extsloadSelector...)
	data = append(data, slot[:]...)

	start := time.Now()
	out, err := l.caller.CallContract(ctx, ethereum.CallMsg{To: &l.manager, Data: data}, blockNumber)
	if err != nil {
		l.metrics.loadErrors.WithLabelValues(kind).Inc()
		return common.Hash{}, fmt.Errorf("extsload %s: %w", slot, err)
	}
	if len(out) != 32 {
		l.metrics.loadErrors.WithLabelValues(kind).Inc()
		return common.Hash{}, fmt.Errorf("extsload %s: unexpected return length %d", slot, len(out))
	}
	l.metrics.loads.WithLabelValues(kind).Inc()
	l.logger.Debug("extsload", "slot", slot.Hex(), "kind", kind, "took", time.Since(start))
	return common.BytesToHash(out), nil
}

// poolStateSlot is keccak256(abi.encode(poolId, poolsSlot)), the base slot
// of one pool's state struct.
func poolStateSlot(poolID common.Hash) *big.Int {
	var buf [64]byte
	copy(buf[0:32], poolID[:])
	buf[63] = poolsSlot
	return new(big.Int).SetBytes(crypto.Keccak256(buf[:]))
}

func tickBitmapSlot(poolID common.Hash, wordPos int) common.Hash {
	mapping := poolStateSlot(poolID)
	mapping.Add(mapping, big.NewInt(tickBitmapOffset))
	return mappingSlot(big.NewInt(int64(wordPos)), mapping)
}

func tickInfoSlot(poolID common.Hash, tick int) common.Hash {
	mapping := poolStateSlot(poolID)
	mapping.Add(mapping, big.NewInt(ticksOffset))
	return mappingSlot(big.NewInt(int64(tick)), mapping)
}

// mappingSlot is keccak256(abi.encode(key, slot)) with the key sign-extended
// to a full word.
func mappingSlot(key, slot *big.Int) common.Hash {
	var buf [64]byte
	copy(buf[0:32], math.U256Bytes(key))
	copy(buf[32:64], math.U256Bytes(slot))
	return crypto.Keccak256Hash(buf[:])
}
