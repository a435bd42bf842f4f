package planner

import (
	"math/big"

	"github.com/defistate/uniswapv4-client-go/entities"
)

// EncodeRouteToPath converts a route into the path keys a multi-hop swap
// action carries. For exact input each key names the currency a hop arrives
// at; for exact output each key names the currency a hop starts from, with
// the keys ordered from route input to output either way.
func EncodeRouteToPath(route *entities.Route, exactOutput bool) []PathKey {
	pathKeys := make([]PathKey, 0, len(route.Pools))

	if !exactOutput {
		current := route.PathInput
		for _, pool := range route.Pools {
			next := pool.Currency1
			if current.Equals(pool.Currency1) {
				next = pool.Currency0
			}
			pathKeys = append(pathKeys, PathKey{
				IntermediateCurrency: next.ProtocolAddress(),
				Fee:                  new(big.Int).SetUint64(uint64(pool.Fee)),
				TickSpacing:          big.NewInt(int64(pool.TickSpacing)),
				Hooks:                pool.Hooks,
				HookData:             []byte{},
			})
			current = next
		}
		return pathKeys
	}

	current := route.PathOutput
	for i := len(route.Pools) - 1; i >= 0; i-- {
		pool := route.Pools[i]
		previous := pool.Currency0
		if current.Equals(pool.Currency0) {
			previous = pool.Currency1
		}
		pathKeys = append(pathKeys, PathKey{
			IntermediateCurrency: previous.ProtocolAddress(),
			Fee:                  new(big.Int).SetUint64(uint64(pool.Fee)),
			TickSpacing:          big.NewInt(int64(pool.TickSpacing)),
			Hooks:                pool.Hooks,
			HookData:             []byte{},
		})
		current = previous
	}

	// reverse into input-to-output order
	for i, j := 0, len(pathKeys)-1; i < j; i, j = i+1, j-1 {
		pathKeys[i], pathKeys[j] = pathKeys[j], pathKeys[i]
	}
	return pathKeys
}
