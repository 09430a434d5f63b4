// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fees

import (
	"bytes"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Jeff-CCH/composable-router-go/router"
)

// Binding identifies one calculator registration.
type Binding struct {
	Selector [4]byte
	Target   common.Address
}

// Registry maps (selector, target) pairs to fee calculators and holds the
// per-router native calculator and fee collector. It implements
// router.FeeRegistry. Mutation is reserved to the dispatcher; agents only
// read.
type Registry struct {
	mu          sync.RWMutex
	calculators map[Binding]router.FeeCalculator
	native      router.FeeCalculator
	collector   common.Address
}

// NewRegistry creates a registry with the given fee collector.
func NewRegistry(collector common.Address) *Registry {
	return &Registry{
		calculators: make(map[Binding]router.FeeCalculator),
		collector:   collector,
	}
}

// SetFeeCalculator binds a calculator to a (selector, target) pair,
// replacing any previous binding. A nil calculator removes the binding.
func (r *Registry) SetFeeCalculator(selector [4]byte, target common.Address, calculator router.FeeCalculator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	binding := Binding{Selector: selector, Target: target}
	if calculator == nil {
		delete(r.calculators, binding)
		return
	}
	r.calculators[binding] = calculator
}

// SetNativeFeeCalculator installs the calculator applied once per batch to
// the aggregate native inflow.
func (r *Registry) SetNativeFeeCalculator(calculator router.FeeCalculator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.native = calculator
}

// SetFeeCollector changes the fee sink address.
func (r *Registry) SetFeeCollector(collector common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collector = collector
}

func (r *Registry) FeeCalculator(selector [4]byte, target common.Address) (router.FeeCalculator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	calculator, ok := r.calculators[Binding{Selector: selector, Target: target}]
	return calculator, ok
}

func (r *Registry) NativeFeeCalculator() (router.FeeCalculator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.native, r.native != nil
}

func (r *Registry) FeeCollector() common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collector
}

// Bindings lists all registered (selector, target) pairs in a stable order.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bindings := maps.Keys(r.calculators)
	slices.SortFunc(bindings, func(a, b Binding) int {
		if c := bytes.Compare(a.Selector[:], b.Selector[:]); c != 0 {
			return c
		}
		return bytes.Compare(a.Target[:], b.Target[:])
	})
	return bindings
}
