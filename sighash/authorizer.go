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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Jeff-CCH/composable-router-go/router"
)

// verifiedCacheSize bounds the number of (digest, signer) pairs remembered
// across batches. Resubmissions of an already-verified batch skip the
// signature recovery.
const verifiedCacheSize = 1024

// Authorizer verifies detached signatures over logic batches for one
// protocol domain.
type Authorizer struct {
	domain    Domain
	separator common.Hash
	verified  *lru.Cache[common.Hash, common.Address]
}

// NewAuthorizer creates an authorizer for the given domain.
func NewAuthorizer(domain Domain) (*Authorizer, error) {
	verified, err := lru.New[common.Hash, common.Address](verifiedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create verification cache: %w", err)
	}
	return &Authorizer{
		domain:    domain,
		separator: domain.Separator(),
		verified:  verified,
	}, nil
}

// Domain returns the authorizer's protocol domain.
func (a *Authorizer) Domain() Domain {
	return a.domain
}

// Digest returns the signable digest of a batch under this domain.
func (a *Authorizer) Digest(batch router.LogicBatch) common.Hash {
	return Digest(a.separator, BatchHash(batch))
}

// Verify checks that signature is a valid signature of batch by signer and
// that the batch deadline has not passed at the given unix time. The
// signature is the 65-byte [R || S || V] form with a 0/1 recovery id.
func (a *Authorizer) Verify(batch router.LogicBatch, signature []byte, signer common.Address, now uint64) error {
	if batch.Deadline < now {
		return router.ErrExpiredBatch
	}
	digest := a.Digest(batch)
	if cached, ok := a.verified.Get(digest); ok && cached == signer {
		return nil
	}
	public, err := crypto.SigToPub(digest.Bytes(), signature)
	if err != nil {
		return router.ErrInvalidSignature
	}
	if crypto.PubkeyToAddress(*public) != signer {
		return router.ErrInvalidSignature
	}
	a.verified.Add(digest, signer)
	return nil
}
