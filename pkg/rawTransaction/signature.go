package rawTransaction

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

const (
	// SignatureLength is the size of a raw signature: recovery id, r, s.
	SignatureLength = 1 + 2*ScalarLength
	ScalarLength    = 32

	eip155Offset = 35
)

var (
	ErrInvalidSignatureLength = errors.New("invalid signature length")
	ErrInvalidRecoveryId      = errors.New("invalid signature recovery id")
)

// Signature is a parsed [recovery_id ‖ r ‖ s] signature.
type Signature struct {
	RecoveryId byte
	R          [ScalarLength]byte
	S          [ScalarLength]byte
}

// ParseSignature splits a 65-byte [recovery_id ‖ r ‖ s] signature. The input
// is copied, never retained.
func ParseSignature(sig []byte) (*Signature, error) {
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSignatureLength, len(sig), SignatureLength)
	}

	s := &Signature{RecoveryId: sig[0]}
	copy(s.R[:], sig[1:1+ScalarLength])
	copy(s.S[:], sig[1+ScalarLength:])
	return s, nil
}

// SignatureFromRSV converts the [r ‖ s ‖ v] layout produced by
// go-ethereum's crypto.Sign into a Signature. v may be 0/1 or 27/28.
func SignatureFromRSV(sig []byte) (*Signature, error) {
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSignatureLength, len(sig), SignatureLength)
	}

	v := sig[2*ScalarLength]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRecoveryId, sig[2*ScalarLength])
	}

	s := &Signature{RecoveryId: v}
	copy(s.R[:], sig[:ScalarLength])
	copy(s.S[:], sig[ScalarLength:2*ScalarLength])
	return s, nil
}

// Bytes returns the 65-byte [recovery_id ‖ r ‖ s] form.
func (s *Signature) Bytes() []byte {
	out := make([]byte, 0, SignatureLength)
	out = append(out, s.RecoveryId)
	out = append(out, s.R[:]...)
	return append(out, s.S[:]...)
}

// RSV returns the [r ‖ s ‖ recovery_id] form expected by crypto.Ecrecover.
func (s *Signature) RSV() []byte {
	out := make([]byte, 0, SignatureLength)
	out = append(out, s.R[:]...)
	out = append(out, s.S[:]...)
	return append(out, s.RecoveryId)
}

// V returns recovery_id + chainID*2 + 35.
func (s *Signature) V(chainID uint64) *uint256.Int {
	v := new(uint256.Int).SetUint64(chainID)
	v.Lsh(v, 1)
	return v.AddUint64(v, eip155Offset+uint64(s.RecoveryId))
}

func (s *Signature) CanonicalR() []byte {
	return canonicalScalar(s.R[:])
}

func (s *Signature) CanonicalS() []byte {
	return canonicalScalar(s.S[:])
}

// canonicalScalar returns the minimal big-endian suffix of b. An all-zero
// input yields an empty slice.
func canonicalScalar(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return b[i:]
}

// BuildSigned returns the RLP-encoded signed transaction for the given raw
// [recovery_id ‖ r ‖ s] signature.
func (tx *Transaction) BuildSigned(signature []byte, chainID uint64) ([]byte, error) {
	sig, err := ParseSignature(signature)
	if err != nil {
		return nil, err
	}
	return tx.EncodeSigned(sig, chainID), nil
}

// EncodeSigned is BuildSigned for an already parsed signature.
func (tx *Transaction) EncodeSigned(sig *Signature, chainID uint64) []byte {
	w := rlp.NewEncoderBuffer(nil)
	l := w.List()
	tx.EncodeFields(w)
	w.WriteUint256(sig.V(chainID))
	w.WriteBytes(sig.CanonicalR())
	w.WriteBytes(sig.CanonicalS())
	w.ListEnd(l)
	return w.ToBytes()
}

// RecoverSender returns the address whose key produced sig over hash.
func RecoverSender(hash common.Hash, sig *Signature) (common.Address, error) {
	pub, err := crypto.SigToPub(hash[:], sig.RSV())
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
