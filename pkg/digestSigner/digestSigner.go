package digestSigner

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// IDigestSigner signs 32-byte transaction signing hashes on behalf of a single
// account.
type IDigestSigner interface {
	// SignDigest returns a 65-byte [recovery_id ‖ r ‖ s] signature over digest,
	// with recovery_id in {0, 1}.
	SignDigest(ctx context.Context, digest common.Hash) ([]byte, error)

	// GetAddress returns the address whose key produces the signatures
	GetAddress() common.Address
}
