// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package agent

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"pgregory.net/rand"

	"github.com/Jeff-CCH/composable-router-go/router"
	"github.com/Jeff-CCH/composable-router-go/routertest"
)

// capture records the last call a target received.
type capture struct {
	input []byte
	value *uint256.Int
	calls int
}

func captureTarget(world *routertest.World, target common.Address) *capture {
	c := &capture{}
	world.RegisterHandler(target, func(w *routertest.World, p router.CallParameters) ([]byte, error) {
		c.input = append([]byte(nil), p.Input...)
		c.value = new(uint256.Int).Set(p.Value)
		c.calls++
		return nil, nil
	})
	return c
}

func TestExecution_FixedAmountsAreTakenVerbatim(t *testing.T) {
	world := routertest.NewWorld()
	world.SetBalance(router.NativeToken, agentAddr, uint256.NewInt(1_000))
	a := newTestAgent(t, world)

	target := common.Address{0x60}
	c := captureTarget(world, target)

	logics := []router.Logic{{
		To:     target,
		Data:   []byte{0xde, 0xad, 0xbe, 0xef},
		Inputs: []router.Input{{Token: router.NativeToken, AmountOrOffset: uint256.NewInt(600)}},
	}}
	require.NoError(t, a.Execute(routerAddr, logics, nil))
	require.Equal(t, uint256.NewInt(600), c.value)
	require.Equal(t, uint256.NewInt(600), world.BalanceOf(router.NativeToken, target))
	require.Equal(t, uint256.NewInt(400), world.BalanceOf(router.NativeToken, agentAddr))
}

func TestExecution_ProportionalAmountsRoundDown(t *testing.T) {
	tests := map[string]struct {
		balance uint64
		bps     uint64
		want    uint64
	}{
		"half":            {balance: 1_000, bps: 5_000, want: 500},
		"half rounds":     {balance: 1_001, bps: 5_000, want: 500},
		"third of little": {balance: 3, bps: 3_333, want: 0},
		"full balance":    {balance: 77, bps: 10_000, want: 77},
		"one bps":         {balance: 9_999, bps: 1, want: 0},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			world := routertest.NewWorld()
			world.SetBalance(tokenA, agentAddr, uint256.NewInt(test.balance))
			a := newTestAgent(t, world)

			target := common.Address{0x60}
			c := captureTarget(world, target)

			data := make([]byte, 68)
			logics := []router.Logic{{
				To:     target,
				Data:   data,
				Inputs: []router.Input{{Token: tokenA, BalanceBps: test.bps, AmountOrOffset: uint256.NewInt(36)}},
			}}
			require.NoError(t, a.Execute(routerAddr, logics, nil))

			patched := new(uint256.Int).SetBytes(c.input[36:68])
			require.Equal(t, uint256.NewInt(test.want), patched)
		})
	}
}

func TestExecution_SkipOffsetLeavesPayloadUntouched(t *testing.T) {
	world := routertest.NewWorld()
	world.SetBalance(tokenA, agentAddr, uint256.NewInt(1_000))
	a := newTestAgent(t, world)

	target := common.Address{0x60}
	c := captureTarget(world, target)

	data := []byte{0xde, 0xad, 0xbe, 0xef, 0x42}
	logics := []router.Logic{{
		To:     target,
		Data:   append([]byte(nil), data...),
		Inputs: []router.Input{{Token: tokenA, BalanceBps: 5_000, AmountOrOffset: router.SkipOffset}},
	}}
	require.NoError(t, a.Execute(routerAddr, logics, nil))
	require.Equal(t, data, c.input)
}

func TestExecution_ComplementarySharesCoverBalance(t *testing.T) {
	rng := rand.New(1)
	for i := 0; i < 100; i++ {
		balance := rng.Uint64n(1_000_000_000_000) + 1
		bps := rng.Uint64n(router.BpsBase-1) + 1

		world := routertest.NewWorld()
		world.SetBalance(tokenA, agentAddr, uint256.NewInt(balance))
		a := newTestAgent(t, world)

		target := common.Address{0x60}
		c := captureTarget(world, target)

		data := make([]byte, 68)
		logics := []router.Logic{{
			To:   target,
			Data: data,
			Inputs: []router.Input{
				{Token: tokenA, BalanceBps: bps, AmountOrOffset: uint256.NewInt(4)},
				{Token: tokenA, BalanceBps: router.BpsBase - bps, AmountOrOffset: uint256.NewInt(36)},
			},
		}}
		require.NoError(t, a.Execute(routerAddr, logics, nil))

		first := new(uint256.Int).SetBytes(c.input[4:36]).Uint64()
		second := new(uint256.Int).SetBytes(c.input[36:68]).Uint64()
		sum := first + second
		require.LessOrEqual(t, sum, balance, "balance %d bps %d", balance, bps)
		require.LessOrEqual(t, balance-sum, uint64(1), "balance %d bps %d", balance, bps)
	}
}

func TestExecution_WrapUnwrapRoundTrip(t *testing.T) {
	world := routertest.NewWorld()
	world.RegisterWrappedNative(wrappedNative)
	world.SetBalance(router.NativeToken, agentAddr, uint256.NewInt(1_000))
	a := newTestAgent(t, world)

	target := common.Address{0x60}
	captureTarget(world, target)

	logics := []router.Logic{
		{
			To:       target,
			Data:     []byte{0xde, 0xad, 0xbe, 0xef},
			WrapMode: router.WrapBefore,
			Inputs:   []router.Input{{Token: router.NativeToken, BalanceBps: router.BpsBase, AmountOrOffset: router.SkipOffset}},
		},
		{
			To:       target,
			Data:     []byte{0xde, 0xad, 0xbe, 0xef},
			WrapMode: router.UnwrapAfter,
		},
	}
	require.NoError(t, a.Execute(routerAddr, logics, nil))
	require.Equal(t, uint256.NewInt(1_000), world.BalanceOf(router.NativeToken, agentAddr))
	require.True(t, world.BalanceOf(wrappedNative, agentAddr).IsZero())
}

func TestExecution_WrapBeforeFundsTheCall(t *testing.T) {
	world := routertest.NewWorld()
	world.RegisterWrappedNative(wrappedNative)
	world.SetBalance(router.NativeToken, agentAddr, uint256.NewInt(500))
	a := newTestAgent(t, world)

	target := common.Address{0x60}
	c := captureTarget(world, target)

	logics := []router.Logic{{
		To:       target,
		Data:     []byte{0xde, 0xad, 0xbe, 0xef},
		WrapMode: router.WrapBefore,
		Inputs:   []router.Input{{Token: router.NativeToken, AmountOrOffset: uint256.NewInt(500)}},
	}}
	require.NoError(t, a.Execute(routerAddr, logics, nil))

	// The native amount was wrapped, not carried as call value, and the
	// spender was approved for the wrapped token.
	require.True(t, c.value.IsZero())
	require.Equal(t, uint256.NewInt(500), world.BalanceOf(wrappedNative, agentAddr))
	require.Equal(t, router.MaxApproval, world.Allowance(wrappedNative, agentAddr, target))
}

// approvalCounter counts approval grants passing through the world.
type approvalCounter struct {
	*routertest.World
	grants int
}

func (w *approvalCounter) Approve(token, owner, spender common.Address, amount *uint256.Int) error {
	w.grants++
	return w.World.Approve(token, owner, spender, amount)
}

func TestExecution_ApprovalGrantedAtMostOncePerPair(t *testing.T) {
	world := &approvalCounter{World: routertest.NewWorld()}
	a := newTestAgent(t, world)

	target := common.Address{0x60}
	logics := []router.Logic{{
		To:     target,
		Data:   []byte{0xde, 0xad, 0xbe, 0xef},
		Inputs: []router.Input{{Token: tokenA, AmountOrOffset: uint256.NewInt(100)}},
	}}

	require.NoError(t, a.Execute(routerAddr, logics, nil))
	require.Equal(t, 1, world.grants)

	// A second batch over the same (token, spender) pair grants nothing.
	require.NoError(t, a.Execute(routerAddr, logics, nil))
	require.Equal(t, 1, world.grants)

	// A different spender for the same token gets its own grant.
	other := []router.Logic{{
		To:        target,
		Data:      []byte{0xde, 0xad, 0xbe, 0xef},
		ApproveTo: common.Address{0x61},
		Inputs:    []router.Input{{Token: tokenA, AmountOrOffset: uint256.NewInt(100)}},
	}}
	require.NoError(t, a.Execute(routerAddr, other, nil))
	require.Equal(t, 2, world.grants)
}

func TestExecution_ZeroAmountNeedsNoApproval(t *testing.T) {
	world := &approvalCounter{World: routertest.NewWorld()}
	a := newTestAgent(t, world)

	target := common.Address{0x60}
	logics := []router.Logic{{
		To:     target,
		Data:   []byte{0xde, 0xad, 0xbe, 0xef},
		Inputs: []router.Input{{Token: tokenA, AmountOrOffset: new(uint256.Int)}},
	}}
	require.NoError(t, a.Execute(routerAddr, logics, nil))
	require.Equal(t, 0, world.grants)
}
