package awsKmsDigestSigner

import (
	"context"
	cryptoEcdsa "crypto/ecdsa"
	"encoding/asn1"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/rawTransaction"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// secp256k1 curve order for malleability protection
	secp256k1N, _  = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)
	secp256k1HalfN = new(big.Int).Rsh(secp256k1N, 1)
)

// kmsAPI is the subset of *kms.Client used for signing.
type kmsAPI interface {
	GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error)
	Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error)
}

type AWSKMSDigestSignerConfig struct {
	KeyId string
	// RequestsPerSecond throttles Sign calls; zero disables throttling.
	RequestsPerSecond float64
	Burst             int
}

type AWSKMSDigestSigner struct {
	logger    *zap.Logger
	kmsClient kmsAPI
	keyId     string
	limiter   *rate.Limiter
	publicKey *cryptoEcdsa.PublicKey
	address   common.Address
}

func NewAWSKMSDigestSigner(ctx context.Context, awsCfg aws.Config, cfg *AWSKMSDigestSignerConfig, logger *zap.Logger) (*AWSKMSDigestSigner, error) {
	return newAWSKMSDigestSigner(ctx, kms.NewFromConfig(awsCfg), cfg, logger)
}

func newAWSKMSDigestSigner(ctx context.Context, client kmsAPI, cfg *AWSKMSDigestSignerConfig, logger *zap.Logger) (*AWSKMSDigestSigner, error) {
	if cfg.KeyId == "" {
		return nil, errors.New("kms key id cannot be empty")
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	s := &AWSKMSDigestSigner{
		logger:    logger,
		kmsClient: client,
		keyId:     cfg.KeyId,
		limiter:   rate.NewLimiter(limit, burst),
	}

	pubKey, err := s.getPublicKey(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load public key for key %s", cfg.KeyId)
	}
	s.publicKey = pubKey
	s.address = crypto.PubkeyToAddress(*pubKey)

	logger.Info("Loaded AWS KMS signing key",
		zap.String("keyId", cfg.KeyId),
		zap.String("address", s.address.Hex()),
	)
	return s, nil
}

func (s *AWSKMSDigestSigner) GetAddress() common.Address {
	return s.address
}

// SignDigest signs digest in KMS and converts the DER result into a
// low-S [recovery_id ‖ r ‖ s] signature.
func (s *AWSKMSDigestSigner) SignDigest(ctx context.Context, digest common.Hash) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "kms rate limiter")
	}

	signOutput, err := s.kmsClient.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(s.keyId),
		Message:          digest[:],
		SigningAlgorithm: types.SigningAlgorithmSpecEcdsaSha256,
		MessageType:      types.MessageTypeDigest,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sign digest with key %s", s.keyId)
	}

	r, sVal, err := parseDERSignature(signOutput.Signature)
	if err != nil {
		return nil, err
	}

	if sVal.Cmp(secp256k1HalfN) > 0 {
		sVal = new(big.Int).Sub(secp256k1N, sVal)
	}

	sig := &rawTransaction.Signature{}
	r.FillBytes(sig.R[:])
	sVal.FillBytes(sig.S[:])

	// KMS does not return a recovery id; find the one that yields our key.
	for recoveryId := byte(0); recoveryId < 2; recoveryId++ {
		sig.RecoveryId = recoveryId
		recovered, err := crypto.SigToPub(digest[:], sig.RSV())
		if err != nil {
			s.logger.Debug("Ecrecover failed",
				zap.Uint8("recoveryId", recoveryId),
				zap.Error(err))
			continue
		}
		if recovered.X.Cmp(s.publicKey.X) == 0 && recovered.Y.Cmp(s.publicKey.Y) == 0 {
			return sig.Bytes(), nil
		}
	}

	return nil, fmt.Errorf("could not determine valid recovery ID - signature recovery failed")
}

func (s *AWSKMSDigestSigner) getPublicKey(ctx context.Context) (*cryptoEcdsa.PublicKey, error) {
	out, err := s.kmsClient.GetPublicKey(ctx, &kms.GetPublicKeyInput{
		KeyId: aws.String(s.keyId),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}
	if out.KeySpec != "" && out.KeySpec != types.KeySpecEccSecgP256k1 {
		return nil, fmt.Errorf("unsupported key spec %s, want %s", out.KeySpec, types.KeySpecEccSecgP256k1)
	}
	return parseECDSAPublicKey(out.PublicKey)
}

// parseECDSAPublicKey parses the DER-encoded public key from KMS
func parseECDSAPublicKey(derBytes []byte) (*cryptoEcdsa.PublicKey, error) {
	var asn1pubk asn1EcPublicKey
	_, err := asn1.Unmarshal(derBytes, &asn1pubk)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ASN.1 public key: %w", err)
	}

	return crypto.UnmarshalPubkey(asn1pubk.PublicKey.Bytes)
}

func parseDERSignature(der []byte) (*big.Int, *big.Int, error) {
	var sigAsn1 asn1EcSig
	if _, err := asn1.Unmarshal(der, &sigAsn1); err != nil {
		return nil, nil, fmt.Errorf("failed to parse ASN.1 signature: %w", err)
	}
	r := new(big.Int).SetBytes(sigAsn1.R.Bytes)
	s := new(big.Int).SetBytes(sigAsn1.S.Bytes)
	if r.Sign() == 0 || s.Sign() == 0 || r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 {
		return nil, nil, fmt.Errorf("signature values out of range")
	}
	return r, s, nil
}

type asn1EcSig struct {
	R asn1.RawValue
	S asn1.RawValue
}

type asn1EcPublicKey struct {
	EcPublicKeyInfo asn1EcPublicKeyInfo
	PublicKey       asn1.BitString
}

type asn1EcPublicKeyInfo struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.ObjectIdentifier
}
