package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-rawtx-go/internal/aws"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/config"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/digestSigner"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/digestSigner/awsKmsDigestSigner"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/digestSigner/inMemoryDigestSigner"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/rawTransaction"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/txBuilder"
)

func parseConfig(c *cli.Context, withSigner bool) (*config.RawTxConfig, error) {
	cfg := &config.RawTxConfig{
		ChainID: config.ChainId(c.Uint64("chain-id")),
		Debug:   c.Bool("debug"),
	}
	if withSigner {
		cfg.Signer = &config.SignerConfig{
			Type:                 config.SignerType(c.String("signer-type")),
			PrivateKey:           c.String("private-key"),
			KMSKeyId:             c.String("kms-key-id"),
			AWSRegion:            c.String("aws-region"),
			KMSRequestsPerSecond: c.Float64("kms-rate-limit"),
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readInput returns the file contents if input names an existing file,
// otherwise input itself.
func readInput(input string) ([]byte, error) {
	if _, statErr := os.Stat(input); statErr == nil {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", input, err)
		}
		return data, nil
	}
	return []byte(input), nil
}

func readTransaction(input string) (*rawTransaction.Transaction, error) {
	data, err := readInput(input)
	if err != nil {
		return nil, err
	}
	var tx rawTransaction.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func writeResult(outputFile string, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if outputFile != "" {
		if err := os.WriteFile(outputFile, append(out, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write to file: %w", err)
		}
		fmt.Printf("✅ Signed transaction written to: %s\n", outputFile)
		return nil
	}
	fmt.Println(string(out))
	return nil
}

// hashCommand handles the hash subcommand
func hashCommand(c *cli.Context) error {
	cfg, err := parseConfig(c, false)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	tx, err := readTransaction(c.String("tx"))
	if err != nil {
		return err
	}

	chainID := uint64(cfg.ChainID)
	if c.Bool("payload") {
		fmt.Printf("Payload: %s\n", hexutil.Encode(tx.SigningPayload(chainID)))
	}
	fmt.Printf("Signing hash (%s): %s\n", cfg.ChainID.Name(), tx.SigningHash(chainID).Hex())
	return nil
}

// assembleCommand handles the assemble subcommand
func assembleCommand(c *cli.Context) error {
	cfg, err := parseConfig(c, false)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	tx, err := readTransaction(c.String("tx"))
	if err != nil {
		return err
	}

	sig, err := hexutil.Decode(c.String("signature"))
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", err)
	}

	signed, err := txBuilder.NewSignedTransaction(tx, sig, uint64(cfg.ChainID))
	if err != nil {
		return fmt.Errorf("failed to assemble transaction: %w", err)
	}
	return writeResult(c.String("output"), signed)
}

// signCommand handles the sign subcommand
func signCommand(c *cli.Context) error {
	cfg, err := parseConfig(c, true)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	tx, err := readTransaction(c.String("tx"))
	if err != nil {
		return err
	}

	signer, err := createSigner(c, cfg.Signer, l)
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}

	builder, err := txBuilder.NewBuilder(cfg.ChainID, signer, l)
	if err != nil {
		return err
	}

	signed, err := builder.Build(c.Context, tx)
	if err != nil {
		return err
	}
	return writeResult(c.String("output"), signed)
}

func createSigner(c *cli.Context, cfg *config.SignerConfig, l *zap.Logger) (digestSigner.IDigestSigner, error) {
	switch cfg.Type {
	case config.SignerType_PrivateKey:
		return inMemoryDigestSigner.NewInMemoryDigestSignerFromHex(cfg.PrivateKey, l)
	case config.SignerType_AWSKMS:
		awsCfg, err := aws.LoadAWSConfig(c.Context, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		if identity, err := aws.GetCallerIdentity(c.Context, awsCfg); err != nil {
			l.Sugar().Warnw("Could not resolve AWS caller identity", "error", err)
		} else {
			l.Debug("Using AWS identity", zap.Stringp("arn", identity.Arn), zap.Stringp("account", identity.Account))
		}
		return awsKmsDigestSigner.NewAWSKMSDigestSigner(c.Context, awsCfg, &awsKmsDigestSigner.AWSKMSDigestSignerConfig{
			KeyId:             cfg.KMSKeyId,
			RequestsPerSecond: cfg.KMSRequestsPerSecond,
			Burst:             config.DefaultKMSBurst,
		}, l)
	default:
		return nil, fmt.Errorf("unsupported signer type: %s", cfg.Type)
	}
}

// inspectCommand handles the inspect subcommand
func inspectCommand(c *cli.Context) error {
	cfg, err := parseConfig(c, false)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	input, err := readInput(c.String("raw"))
	if err != nil {
		return err
	}
	raw, err := hexutil.Decode(strings.TrimSpace(string(input)))
	if err != nil {
		return fmt.Errorf("failed to decode raw transaction: %w", err)
	}

	var tx types.Transaction
	if err := tx.UnmarshalBinary(raw); err != nil {
		return fmt.Errorf("failed to decode transaction: %w", err)
	}
	if tx.Type() != types.LegacyTxType {
		return fmt.Errorf("unsupported transaction type %d, only legacy transactions are supported", tx.Type())
	}

	to := "(contract creation)"
	if tx.To() != nil {
		to = tx.To().Hex()
	}
	v, r, s := tx.RawSignatureValues()

	fmt.Printf("Hash:      %s\n", tx.Hash().Hex())
	fmt.Printf("Nonce:     %d\n", tx.Nonce())
	fmt.Printf("To:        %s\n", to)
	fmt.Printf("Value:     %s\n", tx.Value())
	fmt.Printf("Gas price: %s\n", tx.GasPrice())
	fmt.Printf("Gas:       %d\n", tx.Gas())
	fmt.Printf("Data:      %s\n", hexutil.Encode(tx.Data()))
	fmt.Printf("Chain ID:  %s\n", tx.ChainId())
	fmt.Printf("V:         %s\n", v)
	fmt.Printf("R:         %s\n", hexutil.EncodeBig(r))
	fmt.Printf("S:         %s\n", hexutil.EncodeBig(s))

	if tx.ChainId().Cmp(new(big.Int).SetUint64(uint64(cfg.ChainID))) != 0 {
		return fmt.Errorf("transaction is signed for chain %s, expected %d", tx.ChainId(), cfg.ChainID)
	}
	from, err := types.Sender(types.NewEIP155Signer(tx.ChainId()), &tx)
	if err != nil {
		return fmt.Errorf("failed to recover sender: %w", err)
	}
	fmt.Printf("From:      %s\n", from.Hex())
	return nil
}
