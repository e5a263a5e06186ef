package ps

import (
	"math/big"
	"sync"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

// objectPool recycles the scratch values that dominate allocations in the
// multi-scalar paths: big.Int temporaries and G1 Jacobian accumulators.
type objectPool struct {
	bigIntPool sync.Pool
	g1JacPool  sync.Pool
}

var defaultPool = &objectPool{
	bigIntPool: sync.Pool{
		New: func() interface{} {
			return new(big.Int)
		},
	},
	g1JacPool: sync.Pool{
		New: func() interface{} {
			return new(bn254.G1Jac)
		},
	},
}

// getBigInt gets a zeroed big.Int from the pool.
func getBigInt() *big.Int {
	return defaultPool.bigIntPool.Get().(*big.Int).SetInt64(0)
}

// putBigInt returns a big.Int to the pool.
func putBigInt(i *big.Int) {
	if i != nil {
		defaultPool.bigIntPool.Put(i)
	}
}

// getG1Jac gets a G1 Jacobian scratch point from the pool.
func getG1Jac() *bn254.G1Jac {
	return defaultPool.g1JacPool.Get().(*bn254.G1Jac)
}

// putG1Jac returns a G1 Jacobian point to the pool.
func putG1Jac(p *bn254.G1Jac) {
	if p != nil {
		defaultPool.g1JacPool.Put(p)
	}
}
