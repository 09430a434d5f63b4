// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package sighash

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/Jeff-CCH/composable-router-go/router"
)

func testDomain() Domain {
	return Domain{
		Name:      "Composable Router",
		Version:   "1",
		ChainID:   1,
		Verifying: common.Address{0x01},
	}
}

func testBatch() router.LogicBatch {
	return router.LogicBatch{
		Logics: []router.Logic{{
			To:       common.Address{0x0a},
			Data:     []byte{0xde, 0xad, 0xbe, 0xef},
			Inputs:   []router.Input{{Token: common.Address{0x0b}, BalanceBps: 5_000, AmountOrOffset: router.SkipOffset}},
			WrapMode: router.WrapBefore,
			Callback: common.Address{0x0c},
		}},
		Fees: []router.Fee{{
			Token:    common.Address{0x0b},
			Amount:   amount(100),
			Metadata: common.Hash{0x01},
		}},
		Referral: common.Hash{0x02},
		Deadline: 1_700_000_000,
	}
}

func amount(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func TestBatchHash_IsDeterministic(t *testing.T) {
	first := BatchHash(testBatch())
	second := BatchHash(testBatch())
	require.Equal(t, first, second)
	require.NotEqual(t, common.Hash{}, first)
}

func TestBatchHash_EveryFieldIsBound(t *testing.T) {
	tests := map[string]func(batch *router.LogicBatch){
		"target":        func(b *router.LogicBatch) { b.Logics[0].To = common.Address{0xff} },
		"payload":       func(b *router.LogicBatch) { b.Logics[0].Data[0] ^= 0x01 },
		"input token":   func(b *router.LogicBatch) { b.Logics[0].Inputs[0].Token = common.Address{0xff} },
		"input bps":     func(b *router.LogicBatch) { b.Logics[0].Inputs[0].BalanceBps = 1 },
		"input amount":  func(b *router.LogicBatch) { b.Logics[0].Inputs[0].AmountOrOffset = amount(1) },
		"wrap mode":     func(b *router.LogicBatch) { b.Logics[0].WrapMode = router.UnwrapAfter },
		"approval":      func(b *router.LogicBatch) { b.Logics[0].ApproveTo = common.Address{0xff} },
		"callback":      func(b *router.LogicBatch) { b.Logics[0].Callback = common.Address{} },
		"fee token":     func(b *router.LogicBatch) { b.Fees[0].Token = common.Address{0xff} },
		"fee amount":    func(b *router.LogicBatch) { b.Fees[0].Amount = amount(1) },
		"fee metadata":  func(b *router.LogicBatch) { b.Fees[0].Metadata = common.Hash{0xff} },
		"referral":      func(b *router.LogicBatch) { b.Referral = common.Hash{0xff} },
		"deadline":      func(b *router.LogicBatch) { b.Deadline++ },
		"added logic":   func(b *router.LogicBatch) { b.Logics = append(b.Logics, router.Logic{}) },
		"added fee":     func(b *router.LogicBatch) { b.Fees = append(b.Fees, router.Fee{}) },
		"dropped input": func(b *router.LogicBatch) { b.Logics[0].Inputs = nil },
	}
	reference := BatchHash(testBatch())
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			batch := testBatch()
			mutate(&batch)
			require.NotEqual(t, reference, BatchHash(batch))
		})
	}
}

func TestBatchHash_NilAmountHashesLikeZero(t *testing.T) {
	withNil := testBatch()
	withNil.Logics[0].Inputs[0].AmountOrOffset = nil
	withZero := testBatch()
	withZero.Logics[0].Inputs[0].AmountOrOffset = amount(0)
	require.Equal(t, BatchHash(withZero), BatchHash(withNil))
}

func TestDigest_BindsTheDomain(t *testing.T) {
	structHash := BatchHash(testBatch())
	base := testDomain()

	variants := map[string]Domain{
		"name":     {Name: "Other", Version: base.Version, ChainID: base.ChainID, Verifying: base.Verifying},
		"version":  {Name: base.Name, Version: "2", ChainID: base.ChainID, Verifying: base.Verifying},
		"chain":    {Name: base.Name, Version: base.Version, ChainID: 250, Verifying: base.Verifying},
		"deployed": {Name: base.Name, Version: base.Version, ChainID: base.ChainID, Verifying: common.Address{0xff}},
	}
	reference := Digest(base.Separator(), structHash)
	for name, domain := range variants {
		t.Run(name, func(t *testing.T) {
			require.NotEqual(t, reference, Digest(domain.Separator(), structHash))
		})
	}
}

func TestAuthorizer_AcceptsValidSignature(t *testing.T) {
	authorizer, err := NewAuthorizer(testDomain())
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	batch := testBatch()
	signature, err := crypto.Sign(authorizer.Digest(batch).Bytes(), key)
	require.NoError(t, err)

	require.NoError(t, authorizer.Verify(batch, signature, signer, batch.Deadline-1))
	// The deadline itself is still valid.
	require.NoError(t, authorizer.Verify(batch, signature, signer, batch.Deadline))
}

func TestAuthorizer_RejectsExpiredBatch(t *testing.T) {
	authorizer, err := NewAuthorizer(testDomain())
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	batch := testBatch()
	signature, err := crypto.Sign(authorizer.Digest(batch).Bytes(), key)
	require.NoError(t, err)

	err = authorizer.Verify(batch, signature, signer, batch.Deadline+1)
	require.ErrorIs(t, err, router.ErrExpiredBatch)
}

func TestAuthorizer_RejectsForeignSignature(t *testing.T) {
	authorizer, err := NewAuthorizer(testDomain())
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	batch := testBatch()
	signature, err := crypto.Sign(authorizer.Digest(batch).Bytes(), otherKey)
	require.NoError(t, err)

	err = authorizer.Verify(batch, signature, signer, 0)
	require.ErrorIs(t, err, router.ErrInvalidSignature)
}

func TestAuthorizer_RejectsTamperedBatch(t *testing.T) {
	authorizer, err := NewAuthorizer(testDomain())
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	batch := testBatch()
	signature, err := crypto.Sign(authorizer.Digest(batch).Bytes(), key)
	require.NoError(t, err)

	batch.Fees[0].Amount = amount(1)
	err = authorizer.Verify(batch, signature, signer, 0)
	require.ErrorIs(t, err, router.ErrInvalidSignature)
}

func TestAuthorizer_RejectsMalformedSignature(t *testing.T) {
	authorizer, err := NewAuthorizer(testDomain())
	require.NoError(t, err)

	err = authorizer.Verify(testBatch(), []byte{0x01, 0x02}, common.Address{0x01}, 0)
	require.ErrorIs(t, err, router.ErrInvalidSignature)
}

func TestAuthorizer_CachesVerifiedDigests(t *testing.T) {
	authorizer, err := NewAuthorizer(testDomain())
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	batch := testBatch()
	signature, err := crypto.Sign(authorizer.Digest(batch).Bytes(), key)
	require.NoError(t, err)
	require.NoError(t, authorizer.Verify(batch, signature, signer, 0))

	// A resubmission passes even with a garbage signature since the digest
	// and signer are remembered, but only for that signer.
	require.NoError(t, authorizer.Verify(batch, []byte{0xff}, signer, 0))
	err = authorizer.Verify(batch, []byte{0xff}, common.Address{0x42}, 0)
	require.ErrorIs(t, err, router.ErrInvalidSignature)
}
