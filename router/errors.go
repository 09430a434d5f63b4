// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package router

// ConstError is an error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	// ErrAlreadyInitialized is returned by a second initialization attempt
	// on an agent.
	ErrAlreadyInitialized = ConstError("agent already initialized")

	// ErrNotRouter is returned when anyone but the owning router invokes an
	// agent's execution entry points, or when the router re-enters an agent
	// with a callback pending.
	ErrNotRouter = ConstError("caller is not the router")

	// ErrNotCallback is returned when the callback entry point is invoked
	// with no callback armed, or by an address other than the armed one.
	ErrNotCallback = ConstError("caller is not the armed callback")

	// ErrInvalidBps is returned for inputs with a balance share above
	// BpsBase.
	ErrInvalidBps = ConstError("balance bps above base")

	// ErrInvalidOffset is returned for a payload patch offset that does not
	// leave room for a 32-byte word inside the payload.
	ErrInvalidOffset = ConstError("patch offset out of payload range")

	// ErrUnresetCallbackWithCharge is returned by the fee-charging path for
	// batches that would complete with the callback slot still armed.
	ErrUnresetCallbackWithCharge = ConstError("callback not reset under fee charge")

	// ErrExpiredBatch is returned when a signed batch is submitted after
	// its deadline.
	ErrExpiredBatch = ConstError("batch deadline expired")

	// ErrInvalidSignature is returned when a batch signature does not
	// recover to the claimed signer.
	ErrInvalidSignature = ConstError("signature does not match signer")

	// ErrInvalidSigner is returned when the claimed signer is not
	// registered with the router.
	ErrInvalidSigner = ConstError("signer not registered")

	// ErrPaused is returned by router entry points while the router is
	// paused.
	ErrPaused = ConstError("router is paused")
)
