package config

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for rawtx configuration
const (
	EnvRawTxChainID       = "RAWTX_CHAIN_ID"
	EnvRawTxSignerType    = "RAWTX_SIGNER_TYPE"
	EnvRawTxPrivateKey    = "RAWTX_PRIVATE_KEY"
	EnvRawTxKMSKeyId      = "RAWTX_KMS_KEY_ID"
	EnvRawTxAWSRegion     = "RAWTX_AWS_REGION"
	EnvRawTxKMSRateLimit  = "RAWTX_KMS_RATE_LIMIT"
	EnvRawTxDebug         = "RAWTX_DEBUG"
	DefaultKMSRateLimit   = 10.0
	DefaultKMSBurst       = 1
	privateKeyHexLength   = 64
	unknownChainNameLabel = "unknown"
)

type ChainId uint64

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_EthereumAnvil   ChainId = 31337
)

type ChainName string

const (
	ChainName_EthereumMainnet ChainName = "mainnet"
	ChainName_EthereumSepolia ChainName = "sepolia"
	ChainName_EthereumAnvil   ChainName = "devnet"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_EthereumMainnet: ChainName_EthereumMainnet,
	ChainId_EthereumSepolia: ChainName_EthereumSepolia,
	ChainId_EthereumAnvil:   ChainName_EthereumAnvil,
}

// Name returns the well-known name of the chain, or "unknown". Any chain id
// is signable; the name is only used for display and logging.
func (c ChainId) Name() ChainName {
	if name, ok := ChainIdToName[c]; ok {
		return name
	}
	return unknownChainNameLabel
}

// GetSupportedChainIDsString returns well-known chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (mainnet), %d (sepolia), %d (anvil)",
		ChainId_EthereumMainnet, ChainId_EthereumSepolia, ChainId_EthereumAnvil)
}

type SignerType string

const (
	SignerType_PrivateKey SignerType = "private-key"
	SignerType_AWSKMS     SignerType = "aws-kms"
)

type SignerConfig struct {
	Type       SignerType `json:"type" yaml:"type"`
	PrivateKey string     `json:"privateKey" yaml:"privateKey"`

	KMSKeyId             string  `json:"kmsKeyId" yaml:"kmsKeyId"`
	AWSRegion            string  `json:"awsRegion" yaml:"awsRegion"`
	KMSRequestsPerSecond float64 `json:"kmsRequestsPerSecond" yaml:"kmsRequestsPerSecond"`
}

func (sc *SignerConfig) Validate() error {
	return sc.validate(field.NewPath("signer")).ToAggregate()
}

func (sc *SignerConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	switch sc.Type {
	case SignerType_PrivateKey:
		key := strings.TrimPrefix(sc.PrivateKey, "0x")
		if key == "" {
			allErrors = append(allErrors, field.Required(path.Child("privateKey"), "privateKey is required"))
		} else if len(key) != privateKeyHexLength {
			allErrors = append(allErrors, field.Invalid(path.Child("privateKey"), "<redacted>",
				fmt.Sprintf("must be 32 bytes (64 hex chars), got %d chars", len(key))))
		}
	case SignerType_AWSKMS:
		if sc.KMSKeyId == "" {
			allErrors = append(allErrors, field.Required(path.Child("kmsKeyId"), "kmsKeyId is required"))
		}
		if sc.KMSRequestsPerSecond < 0 {
			allErrors = append(allErrors, field.Invalid(path.Child("kmsRequestsPerSecond"), sc.KMSRequestsPerSecond, "must not be negative"))
		}
	case "":
		allErrors = append(allErrors, field.Required(path.Child("type"), "type is required"))
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), sc.Type,
			[]SignerType{SignerType_PrivateKey, SignerType_AWSKMS}))
	}
	return allErrors
}

// RawTxConfig is the configuration for building and signing transactions
type RawTxConfig struct {
	ChainID ChainId       `json:"chain_id"`
	Signer  *SignerConfig `json:"signer,omitempty"`
	Debug   bool          `json:"debug"`
}

// Validate validates the configuration. Signer is optional for commands that
// only hash or assemble.
func (c *RawTxConfig) Validate() error {
	var allErrors field.ErrorList
	if c.ChainID == 0 {
		allErrors = append(allErrors, field.Required(field.NewPath("chainId"), "chainId is required"))
	}
	if c.Signer != nil {
		allErrors = append(allErrors, c.Signer.validate(field.NewPath("signer"))...)
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}
