package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/config"
)

func main() {
	app := &cli.App{
		Name:  "rawtx",
		Usage: "Build, sign and inspect legacy EIP-155 Ethereum transactions",
		Description: `Encodes legacy transactions to RLP and produces signed payloads.

Transactions are JSON objects with the keys nonce, to, value, gasPrice, gas
and data. Quantities are 0x-prefixed hex; omit "to" for contract creation.
The --tx flag accepts either a path to a JSON file or the JSON itself.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:     "chain-id",
				Aliases:  []string{"chain"},
				Usage:    "EIP-155 chain ID, e.g. " + config.GetSupportedChainIDsString(),
				EnvVars:  []string{config.EnvRawTxChainID},
				Required: true,
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				EnvVars: []string{config.EnvRawTxDebug},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "hash",
				Usage: "Print the EIP-155 signing hash of a transaction",
				Flags: []cli.Flag{
					txFlag(),
					&cli.BoolFlag{
						Name:  "payload",
						Usage: "Also print the RLP pre-image that is hashed",
					},
				},
				Action: hashCommand,
			},
			{
				Name:  "assemble",
				Usage: "Combine a transaction with an externally produced signature",
				Flags: []cli.Flag{
					txFlag(),
					&cli.StringFlag{
						Name:     "signature",
						Usage:    "65-byte signature as hex, laid out as recovery_id || r || s",
						Required: true,
					},
					outputFlag(),
				},
				Action: assembleCommand,
			},
			{
				Name:  "sign",
				Usage: "Sign a transaction with a private key or AWS KMS key",
				Flags: []cli.Flag{
					txFlag(),
					&cli.StringFlag{
						Name:    "signer-type",
						Usage:   "Signer backend: private-key or aws-kms",
						Value:   string(config.SignerType_PrivateKey),
						EnvVars: []string{config.EnvRawTxSignerType},
					},
					&cli.StringFlag{
						Name:    "private-key",
						Usage:   "Hex-encoded secp256k1 private key (private-key signer)",
						EnvVars: []string{config.EnvRawTxPrivateKey},
					},
					&cli.StringFlag{
						Name:    "kms-key-id",
						Usage:   "KMS key ID, ARN or alias (aws-kms signer)",
						EnvVars: []string{config.EnvRawTxKMSKeyId},
					},
					&cli.StringFlag{
						Name:    "aws-region",
						Usage:   "AWS region override (aws-kms signer)",
						EnvVars: []string{config.EnvRawTxAWSRegion},
					},
					&cli.Float64Flag{
						Name:    "kms-rate-limit",
						Usage:   "Maximum KMS Sign requests per second, 0 for unlimited",
						Value:   config.DefaultKMSRateLimit,
						EnvVars: []string{config.EnvRawTxKMSRateLimit},
					},
					outputFlag(),
				},
				Action: signCommand,
			},
			{
				Name:  "inspect",
				Usage: "Decode a signed legacy transaction and recover its sender",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "raw",
						Usage:    "Signed transaction as hex, or path to a file containing it",
						Required: true,
					},
				},
				Action: inspectCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func txFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "tx",
		Usage:    "Transaction JSON, or path to a JSON file",
		Required: true,
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "output",
		Usage: "Output file for the signed transaction JSON",
		Value: "",
	}
}
