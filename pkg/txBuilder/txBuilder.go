package txBuilder

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/config"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/digestSigner"
	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/rawTransaction"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SignedTransaction is a legacy transaction ready for eth_sendRawTransaction.
type SignedTransaction struct {
	Raw         hexutil.Bytes  `json:"raw"`
	Hash        common.Hash    `json:"hash"`
	SigningHash common.Hash    `json:"signingHash"`
	From        common.Address `json:"from"`
	V           *hexutil.Big   `json:"v"`
	R           hexutil.Bytes  `json:"r"`
	S           hexutil.Bytes  `json:"s"`
}

type Builder struct {
	logger  *zap.Logger
	signer  digestSigner.IDigestSigner
	chainID config.ChainId
}

func NewBuilder(chainID config.ChainId, signer digestSigner.IDigestSigner, logger *zap.Logger) (*Builder, error) {
	if chainID == 0 {
		return nil, fmt.Errorf("chain id cannot be zero")
	}
	if signer == nil {
		return nil, fmt.Errorf("signer cannot be nil")
	}
	return &Builder{
		logger:  logger,
		signer:  signer,
		chainID: chainID,
	}, nil
}

func (b *Builder) ChainID() config.ChainId {
	return b.chainID
}

// Build hashes tx for the builder's chain, obtains a signature from the
// signer and assembles the signed payload. The signature is checked against
// the signer's address before anything is returned.
func (b *Builder) Build(ctx context.Context, tx *rawTransaction.Transaction) (*SignedTransaction, error) {
	requestId := uuid.New().String()
	chainID := uint64(b.chainID)
	signingHash := tx.SigningHash(chainID)

	b.logger.Debug("Build: requesting signature",
		zap.String("requestId", requestId),
		zap.Uint64("chainId", chainID),
		zap.String("chainName", string(b.chainID.Name())),
		zap.String("signingHash", signingHash.Hex()),
		zap.Bool("contractCreation", tx.IsContractCreation()),
	)

	sigBytes, err := b.signer.SignDigest(ctx, signingHash)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return b.assemble(requestId, tx, sigBytes)
}

// Assemble builds the signed payload from a signature obtained out of band.
// The recovered sender must match the builder's signer.
func (b *Builder) Assemble(tx *rawTransaction.Transaction, signature []byte) (*SignedTransaction, error) {
	return b.assemble(uuid.New().String(), tx, signature)
}

func (b *Builder) assemble(requestId string, tx *rawTransaction.Transaction, sigBytes []byte) (*SignedTransaction, error) {
	signed, err := NewSignedTransaction(tx, sigBytes, uint64(b.chainID))
	if err != nil {
		return nil, err
	}

	expected := b.signer.GetAddress()
	if signed.From != expected {
		b.logger.Error("Build: signature does not match signer",
			zap.String("requestId", requestId),
			zap.String("expected", expected.Hex()),
			zap.String("recovered", signed.From.Hex()),
		)
		return nil, fmt.Errorf("signature recovers to %s, expected %s", signed.From.Hex(), expected.Hex())
	}

	b.logger.Info("Build: transaction signed",
		zap.String("requestId", requestId),
		zap.String("from", signed.From.Hex()),
		zap.String("txHash", signed.Hash.Hex()),
		zap.Int("size", len(signed.Raw)),
	)
	return signed, nil
}

// NewSignedTransaction assembles the signed payload for a raw
// [recovery_id ‖ r ‖ s] signature and recovers its sender.
func NewSignedTransaction(tx *rawTransaction.Transaction, signature []byte, chainID uint64) (*SignedTransaction, error) {
	sig, err := rawTransaction.ParseSignature(signature)
	if err != nil {
		return nil, err
	}

	signingHash := tx.SigningHash(chainID)
	from, err := rawTransaction.RecoverSender(signingHash, sig)
	if err != nil {
		return nil, err
	}

	raw := tx.EncodeSigned(sig, chainID)
	return &SignedTransaction{
		Raw:         raw,
		Hash:        crypto.Keccak256Hash(raw),
		SigningHash: signingHash,
		From:        from,
		V:           (*hexutil.Big)(sig.V(chainID).ToBig()),
		R:           sig.CanonicalR(),
		S:           sig.CanonicalS(),
	}, nil
}
