// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package agent implements the per-owner execution engine of the composable
// router. An agent runs one instruction batch at a time on behalf of its
// owner: it resolves input amounts, wraps and unwraps the native asset,
// grants one-time unlimited approvals to spenders, performs the external
// calls, gates the single re-entrant callback path, charges protocol fees,
// and sweeps leftover assets back to the owner. Any failure unwinds the
// whole batch; only approvals granted along the way survive, since they are
// idempotent.
package agent

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Jeff-CCH/composable-router-go/router"
)

var (
	depositSelector  = crypto.Keccak256([]byte("deposit()"))[:4]
	withdrawSelector = crypto.Keccak256([]byte("withdraw(uint256)"))[:4]
)

// callbackGate is the single-slot state machine authorizing at most one
// pending re-entrant call during an instruction's external call. It is
// either idle or armed for exactly one caller, and never survives a batch.
type callbackGate struct {
	armed  bool
	caller common.Address
}

func (g *callbackGate) arm(caller common.Address) {
	g.armed = true
	g.caller = caller
}

func (g *callbackGate) disarm() {
	*g = callbackGate{}
}

func (g *callbackGate) isArmed() bool {
	return g.armed
}

func (g *callbackGate) matches(caller common.Address) bool {
	return g.armed && g.caller == caller
}

type approvalKey struct {
	token   common.Address
	spender common.Address
}

// Agent executes instruction batches for a single owner. It is exclusively
// driven by its router, except for the callback entry point. Approvals are
// granted monotonically and never revoked or rotated; this is a trust
// assumption on the approval targets.
type Agent struct {
	world         router.WorldState
	registry      router.FeeRegistry
	addr          common.Address
	routerAddr    common.Address
	wrappedNative common.Address
	owner         common.Address
	initialized   bool
	approved      map[approvalKey]struct{}
	granted       []approvalKey // approvals granted by the running batch
	gate          callbackGate
}

// New creates an agent bound to its router. The agent is unusable until
// Initialize has been called with its owner.
func New(world router.WorldState, registry router.FeeRegistry, addr, routerAddr, wrappedNative common.Address) *Agent {
	return &Agent{
		world:         world,
		registry:      registry,
		addr:          addr,
		routerAddr:    routerAddr,
		wrappedNative: wrappedNative,
		approved:      make(map[approvalKey]struct{}),
	}
}

// Initialize records the owner leftover assets are swept to. It may be
// called exactly once.
func (a *Agent) Initialize(owner common.Address) error {
	if a.initialized {
		return router.ErrAlreadyInitialized
	}
	a.initialized = true
	a.owner = owner
	return nil
}

// Address returns the account the agent holds balances under.
func (a *Agent) Address() common.Address {
	return a.addr
}

// Router returns the only address allowed to drive this agent.
func (a *Agent) Router() common.Address {
	return a.routerAddr
}

// Owner returns the owner recorded at initialization.
func (a *Agent) Owner() common.Address {
	return a.owner
}

// WrappedNative returns the fungible representation of the native asset.
func (a *Agent) WrappedNative() common.Address {
	return a.wrappedNative
}

// Execute runs an instruction batch and sweeps the full remaining balance
// of every token in sweepTokens to the owner. Only the router may call it,
// and only while no callback is pending. A failure at any step unwinds the
// batch and surfaces the cause unmodified.
func (a *Agent) Execute(from common.Address, logics []router.Logic, sweepTokens []common.Address) error {
	if err := a.checkRouter(from); err != nil {
		return err
	}
	if err := validateLogics(logics); err != nil {
		return err
	}
	snapshot := a.world.CreateSnapshot()
	a.granted = nil
	if err := a.runLogics(logics, false); err != nil {
		a.unwind(snapshot)
		return err
	}
	if err := a.sweep(sweepTokens); err != nil {
		a.unwind(snapshot)
		return err
	}
	return nil
}

// ExecuteWithFee is Execute preceded by fee charging: every fee is
// transferred to the router's fee collector and reported as a Charged
// record. Batches that would complete an instruction with the callback
// slot still armed are rejected, since an unauthenticated actor could
// otherwise manipulate the balances the fee charge was computed from.
func (a *Agent) ExecuteWithFee(from common.Address, logics []router.Logic, fees []router.Fee, sweepTokens []common.Address) ([]router.Charged, error) {
	if err := a.checkRouter(from); err != nil {
		return nil, err
	}
	if err := validateLogics(logics); err != nil {
		return nil, err
	}
	snapshot := a.world.CreateSnapshot()
	a.granted = nil
	charged, err := a.chargeFees(fees)
	if err != nil {
		a.unwind(snapshot)
		return nil, err
	}
	if err := a.runLogics(logics, true); err != nil {
		a.unwind(snapshot)
		return nil, err
	}
	if err := a.sweep(sweepTokens); err != nil {
		a.unwind(snapshot)
		return nil, err
	}
	return charged, nil
}

// ExecuteByCallback is the one re-entrant path into a running batch. It is
// callable exactly once, only by the address the current instruction armed
// the gate for; the permission is consumed on entry. Failures propagate to
// the outer batch, which unwinds as a whole.
func (a *Agent) ExecuteByCallback(from common.Address, logics []router.Logic) error {
	if !a.gate.matches(from) {
		return router.ErrNotCallback
	}
	if err := validateLogics(logics); err != nil {
		return err
	}
	a.gate.disarm()
	return a.runLogics(logics, false)
}

// checkRouter admits only the owning router, and only while no callback is
// pending; a batch with an armed gate can be entered solely through the
// callback path.
func (a *Agent) checkRouter(from common.Address) error {
	if from != a.routerAddr || a.gate.isArmed() {
		return router.ErrNotRouter
	}
	return nil
}

// unwind restores the entry snapshot and re-grants the approvals the failed
// batch had issued, so that they persist as granted-at-most-once state. An
// approval that cannot be re-granted is forgotten.
func (a *Agent) unwind(snapshot router.Snapshot) {
	a.world.RestoreSnapshot(snapshot)
	for _, key := range a.granted {
		if err := a.world.Approve(key.token, a.addr, key.spender, router.MaxApproval); err != nil {
			delete(a.approved, key)
		}
	}
	a.granted = nil
	a.gate.disarm()
}
