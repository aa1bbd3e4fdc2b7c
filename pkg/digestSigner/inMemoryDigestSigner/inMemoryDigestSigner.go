package inMemoryDigestSigner

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/rawTransaction"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

type InMemoryDigestSigner struct {
	logger     *zap.Logger
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewInMemoryDigestSignerFromHex loads a hex private key, with or without
// the 0x prefix.
func NewInMemoryDigestSignerFromHex(privateKeyHex string, logger *zap.Logger) (*InMemoryDigestSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("error loading private key: %w", err)
	}
	return NewInMemoryDigestSigner(key, logger), nil
}

func NewInMemoryDigestSigner(privateKey *ecdsa.PrivateKey, logger *zap.Logger) *InMemoryDigestSigner {
	return &InMemoryDigestSigner{
		logger:     logger,
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}
}

func (s *InMemoryDigestSigner) SignDigest(_ context.Context, digest common.Hash) ([]byte, error) {
	rsv, err := crypto.Sign(digest[:], s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}

	sig, err := rawTransaction.SignatureFromRSV(rsv)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Signed digest with in-memory key",
		zap.String("address", s.address.Hex()),
		zap.String("digest", digest.Hex()),
	)
	return sig.Bytes(), nil
}

func (s *InMemoryDigestSigner) GetAddress() common.Address {
	return s.address
}
