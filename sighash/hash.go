// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package sighash computes the canonical, domain-separated digest of a
// logic batch and verifies the detached signatures authorizing delegated
// execution. The encoding follows the EIP-712 typed-data scheme: every
// struct is hashed under its type hash, dynamic byte strings and arrays are
// hashed before inclusion, and the final digest binds the batch to one
// protocol deployment on one chain.
package sighash

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/Jeff-CCH/composable-router-go/router"
)

const (
	domainType = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"
	feeType    = "Fee(address token,uint256 amount,bytes32 metadata)"
	inputType  = "Input(address token,uint256 balanceBps,uint256 amountOrOffset)"
	logicType  = "Logic(address to,bytes data,Input[] inputs,uint8 wrapMode,address approveTo,address callback)"
	batchType  = "LogicBatch(Logic[] logics,Fee[] fees,bytes32 referral,uint256 deadline)"
)

// Referenced types are appended to the referencing type string in
// alphabetical order before hashing, as EIP-712 prescribes.
var (
	domainTypeHash = crypto.Keccak256Hash([]byte(domainType))
	feeTypeHash    = crypto.Keccak256Hash([]byte(feeType))
	inputTypeHash  = crypto.Keccak256Hash([]byte(inputType))
	logicTypeHash  = crypto.Keccak256Hash([]byte(logicType + inputType))
	batchTypeHash  = crypto.Keccak256Hash([]byte(batchType + feeType + inputType + logicType))
)

// Domain identifies one protocol deployment. Digests computed under
// different domains never collide.
type Domain struct {
	Name      string
	Version   string
	ChainID   uint64
	Verifying common.Address
}

// Separator returns the domain separator hash.
func (d Domain) Separator() common.Hash {
	return crypto.Keccak256Hash(
		domainTypeHash.Bytes(),
		crypto.Keccak256([]byte(d.Name)),
		crypto.Keccak256([]byte(d.Version)),
		uintWord(d.ChainID),
		addressWord(d.Verifying),
	)
}

// BatchHash returns the struct hash of a logic batch.
func BatchHash(batch router.LogicBatch) common.Hash {
	logicHashes := make([]byte, 0, len(batch.Logics)*common.HashLength)
	for i := range batch.Logics {
		logicHashes = append(logicHashes, logicHash(&batch.Logics[i]).Bytes()...)
	}
	feeHashes := make([]byte, 0, len(batch.Fees)*common.HashLength)
	for i := range batch.Fees {
		feeHashes = append(feeHashes, feeHash(&batch.Fees[i]).Bytes()...)
	}
	return crypto.Keccak256Hash(
		batchTypeHash.Bytes(),
		crypto.Keccak256(logicHashes),
		crypto.Keccak256(feeHashes),
		batch.Referral.Bytes(),
		uintWord(batch.Deadline),
	)
}

// Digest binds a struct hash to a domain separator, producing the value a
// detached signature is taken over.
func Digest(separator, structHash common.Hash) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{0x19, 0x01})
	h.Write(separator.Bytes())
	h.Write(structHash.Bytes())
	var digest common.Hash
	h.Sum(digest[:0])
	return digest
}

func logicHash(logic *router.Logic) common.Hash {
	inputHashes := make([]byte, 0, len(logic.Inputs)*common.HashLength)
	for i := range logic.Inputs {
		inputHashes = append(inputHashes, inputHash(&logic.Inputs[i]).Bytes()...)
	}
	return crypto.Keccak256Hash(
		logicTypeHash.Bytes(),
		addressWord(logic.To),
		crypto.Keccak256(logic.Data),
		crypto.Keccak256(inputHashes),
		uintWord(uint64(logic.WrapMode)),
		addressWord(logic.ApproveTo),
		addressWord(logic.Callback),
	)
}

func inputHash(input *router.Input) common.Hash {
	return crypto.Keccak256Hash(
		inputTypeHash.Bytes(),
		addressWord(input.Token),
		uintWord(input.BalanceBps),
		amountWord(input.AmountOrOffset),
	)
}

func feeHash(fee *router.Fee) common.Hash {
	return crypto.Keccak256Hash(
		feeTypeHash.Bytes(),
		addressWord(fee.Token),
		amountWord(fee.Amount),
		fee.Metadata.Bytes(),
	)
}

func addressWord(address common.Address) []byte {
	return common.LeftPadBytes(address.Bytes(), common.HashLength)
}

func uintWord(value uint64) []byte {
	b := uint256.NewInt(value).Bytes32()
	return b[:]
}

func amountWord(value *uint256.Int) []byte {
	if value == nil {
		return make([]byte, common.HashLength)
	}
	b := value.Bytes32()
	return b[:]
}
