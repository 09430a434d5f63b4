// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// routercli inspects logic batches described in YAML: it computes the
// signable digest of a batch for a given deployment and previews the fees a
// transfer-rate calculator would charge.
package main

import (
	"fmt"
	"os"

	"github.com/dsnet/golib/unitconv"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/Jeff-CCH/composable-router-go/fees"
	"github.com/Jeff-CCH/composable-router-go/router"
	"github.com/Jeff-CCH/composable-router-go/sighash"
)

var (
	chainIDFlag = &cli.Uint64Flag{
		Name:  "chain-id",
		Usage: "chain the deployment lives on",
		Value: 1,
	}
	routerFlag = &cli.StringFlag{
		Name:     "router",
		Usage:    "address of the router deployment",
		Required: true,
	}
	rateFlag = &cli.Uint64Flag{
		Name:  "rate-bps",
		Usage: "fee rate in basis points",
		Value: 20,
	}
	metadataFlag = &cli.StringFlag{
		Name:  "metadata",
		Usage: "32-byte fee metadata, hex",
		Value: common.Hash{}.Hex(),
	}
)

func main() {
	app := &cli.App{
		Name:  "routercli",
		Usage: "inspect logic batches",
		Commands: []*cli.Command{
			{
				Name:      "hash",
				Usage:     "compute the signable digest of a batch",
				ArgsUsage: "<batch.yml>",
				Flags:     []cli.Flag{chainIDFlag, routerFlag},
				Action:    hashBatch,
			},
			{
				Name:      "fees",
				Usage:     "preview transfer fees for a batch",
				ArgsUsage: "<batch.yml>",
				Flags:     []cli.Flag{rateFlag, metadataFlag},
				Action:    previewFees,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "routercli: %v\n", err)
		os.Exit(1)
	}
}

func hashBatch(context *cli.Context) error {
	batch, err := loadBatch(context.Args().First())
	if err != nil {
		return err
	}
	routerAddr, err := parseAddress(context.String(routerFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid router address: %w", err)
	}
	domain := sighash.Domain{
		Name:      "Composable Router",
		Version:   "1",
		ChainID:   context.Uint64(chainIDFlag.Name),
		Verifying: routerAddr,
	}
	structHash := sighash.BatchHash(batch)
	fmt.Printf("logics:           %d\n", len(batch.Logics))
	fmt.Printf("payload bytes:    %sB\n", unitconv.FormatPrefix(float64(payloadBytes(batch)), unitconv.SI, 2))
	fmt.Printf("domain separator: %s\n", domain.Separator())
	fmt.Printf("batch hash:       %s\n", structHash)
	fmt.Printf("digest:           %s\n", sighash.Digest(domain.Separator(), structHash))
	return nil
}

func previewFees(context *cli.Context) error {
	batch, err := loadBatch(context.Args().First())
	if err != nil {
		return err
	}
	metadata, err := parseHash(context.String(metadataFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid metadata: %w", err)
	}
	calculator, err := fees.NewTransferCalculator(context.Uint64(rateFlag.Name), metadata)
	if err != nil {
		return fmt.Errorf("invalid fee rate: %w", err)
	}
	for i := range batch.Logics {
		logic := &batch.Logics[i]
		if router.Selector(logic.Data) != fees.TransferSelector {
			continue
		}
		charged, err := calculator.Fees(logic.To, logic.Data)
		if err != nil {
			return fmt.Errorf("logic %d: %w", i, err)
		}
		for _, fee := range charged {
			fmt.Printf("logic %d: %s of token %s\n", i, fee.Amount.Dec(), fee.Token)
		}
	}
	return nil
}

// batchFile is the YAML shape of a logic batch.
type batchFile struct {
	Logics []struct {
		To        string `yaml:"to"`
		Data      string `yaml:"data"`
		WrapMode  string `yaml:"wrapMode"`
		ApproveTo string `yaml:"approveTo"`
		Callback  string `yaml:"callback"`
		Inputs    []struct {
			Token          string `yaml:"token"`
			BalanceBps     uint64 `yaml:"balanceBps"`
			AmountOrOffset string `yaml:"amountOrOffset"`
		} `yaml:"inputs"`
	} `yaml:"logics"`
	Fees []struct {
		Token    string `yaml:"token"`
		Amount   string `yaml:"amount"`
		Metadata string `yaml:"metadata"`
	} `yaml:"fees"`
	Referral string `yaml:"referral"`
	Deadline uint64 `yaml:"deadline"`
}

func loadBatch(path string) (router.LogicBatch, error) {
	if path == "" {
		return router.LogicBatch{}, fmt.Errorf("missing batch file argument")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return router.LogicBatch{}, fmt.Errorf("failed to read batch file: %w", err)
	}
	var file batchFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return router.LogicBatch{}, fmt.Errorf("failed to parse batch file: %w", err)
	}
	return convertBatch(file)
}

func convertBatch(file batchFile) (router.LogicBatch, error) {
	batch := router.LogicBatch{Deadline: file.Deadline}
	for i, entry := range file.Logics {
		logic := router.Logic{}
		var err error
		if logic.To, err = parseAddress(entry.To); err != nil {
			return batch, fmt.Errorf("logic %d: invalid target: %w", i, err)
		}
		if entry.Data != "" {
			if logic.Data, err = hexutil.Decode(entry.Data); err != nil {
				return batch, fmt.Errorf("logic %d: invalid payload: %w", i, err)
			}
		}
		if logic.WrapMode, err = parseWrapMode(entry.WrapMode); err != nil {
			return batch, fmt.Errorf("logic %d: %w", i, err)
		}
		if entry.ApproveTo != "" {
			if logic.ApproveTo, err = parseAddress(entry.ApproveTo); err != nil {
				return batch, fmt.Errorf("logic %d: invalid spender: %w", i, err)
			}
		}
		if entry.Callback != "" {
			if logic.Callback, err = parseAddress(entry.Callback); err != nil {
				return batch, fmt.Errorf("logic %d: invalid callback: %w", i, err)
			}
		}
		for j, input := range entry.Inputs {
			parsed := router.Input{BalanceBps: input.BalanceBps}
			if parsed.Token, err = parseAddress(input.Token); err != nil {
				return batch, fmt.Errorf("logic %d input %d: invalid token: %w", i, j, err)
			}
			if parsed.AmountOrOffset, err = parseAmount(input.AmountOrOffset); err != nil {
				return batch, fmt.Errorf("logic %d input %d: %w", i, j, err)
			}
			logic.Inputs = append(logic.Inputs, parsed)
		}
		batch.Logics = append(batch.Logics, logic)
	}
	for i, entry := range file.Fees {
		fee := router.Fee{}
		var err error
		if fee.Token, err = parseAddress(entry.Token); err != nil {
			return batch, fmt.Errorf("fee %d: invalid token: %w", i, err)
		}
		if fee.Amount, err = parseAmount(entry.Amount); err != nil {
			return batch, fmt.Errorf("fee %d: %w", i, err)
		}
		if entry.Metadata != "" {
			if fee.Metadata, err = parseHash(entry.Metadata); err != nil {
				return batch, fmt.Errorf("fee %d: invalid metadata: %w", i, err)
			}
		}
		batch.Fees = append(batch.Fees, fee)
	}
	if file.Referral != "" {
		var err error
		if batch.Referral, err = parseHash(file.Referral); err != nil {
			return batch, fmt.Errorf("invalid referral: %w", err)
		}
	}
	return batch, nil
}

func parseAddress(value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%q is not a hex address", value)
	}
	return common.HexToAddress(value), nil
}

func parseHash(value string) (common.Hash, error) {
	raw, err := hexutil.Decode(value)
	if err != nil {
		return common.Hash{}, err
	}
	if len(raw) != common.HashLength {
		return common.Hash{}, fmt.Errorf("expected %d bytes, got %d", common.HashLength, len(raw))
	}
	return common.BytesToHash(raw), nil
}

// parseAmount accepts a decimal amount or offset, the literal "skip" for the
// patch-skipping sentinel, or an empty string for zero.
func parseAmount(value string) (*uint256.Int, error) {
	switch value {
	case "":
		return new(uint256.Int), nil
	case "skip":
		return router.SkipOffset, nil
	}
	amount, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return amount, nil
}

func parseWrapMode(value string) (router.WrapMode, error) {
	switch value {
	case "", router.WrapNone.String():
		return router.WrapNone, nil
	case router.WrapBefore.String():
		return router.WrapBefore, nil
	case router.UnwrapAfter.String():
		return router.UnwrapAfter, nil
	}
	return router.WrapNone, fmt.Errorf("unknown wrap mode %q", value)
}

func payloadBytes(batch router.LogicBatch) int {
	total := 0
	for i := range batch.Logics {
		total += len(batch.Logics[i].Data)
	}
	return total
}
