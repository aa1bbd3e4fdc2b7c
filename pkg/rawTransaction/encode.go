package rawTransaction

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// EncodeFields appends the six body fields, in wire order, to w. The caller
// owns the surrounding list.
func (tx *Transaction) EncodeFields(w rlp.EncoderBuffer) {
	w.WriteUint256(&tx.Nonce)
	w.WriteUint256(&tx.GasPrice)
	w.WriteUint256(&tx.Gas)
	if tx.To != nil {
		w.WriteBytes(tx.To.Bytes())
	} else {
		w.WriteBytes(nil)
	}
	w.WriteUint256(&tx.Value)
	w.WriteBytes(tx.Data)
}

// SigningPayload returns the EIP-155 pre-image: the body fields followed by
// chainID and two empty placeholders for r and s.
func (tx *Transaction) SigningPayload(chainID uint64) []byte {
	w := rlp.NewEncoderBuffer(nil)
	l := w.List()
	tx.EncodeFields(w)
	w.WriteUint64(chainID)
	w.WriteUint64(0)
	w.WriteUint64(0)
	w.ListEnd(l)
	return w.ToBytes()
}

// SigningHash returns the digest an external signer must sign to authorize
// the transaction on chainID.
func (tx *Transaction) SigningHash(chainID uint64) common.Hash {
	return crypto.Keccak256Hash(tx.SigningPayload(chainID))
}
