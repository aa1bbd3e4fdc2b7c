package rawTransaction

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// signedEnvelope mirrors the signed legacy list. Decoding into *big.Int
// rejects non-canonical integers.
type signedEnvelope struct {
	Nonce    *big.Int
	GasPrice *big.Int
	Gas      *big.Int
	To       []byte
	Value    *big.Int
	Data     []byte
	V, R, S  *big.Int
}

func fuzzTransaction(nonce uint64, gasPrice []byte, to []byte, data []byte) *Transaction {
	if len(gasPrice) > 32 {
		gasPrice = gasPrice[:32]
	}
	if len(data) > 4096 {
		data = data[:4096]
	}
	tx := &Transaction{Data: data}
	tx.Nonce.SetUint64(nonce)
	tx.GasPrice.SetBytes(gasPrice)
	tx.Gas.SetUint64(nonce ^ 0x5208)
	tx.Value.SetBytes(gasPrice)
	if len(to) > 0 {
		addr := common.BytesToAddress(to)
		tx.To = &addr
	}
	return tx
}

func FuzzBuildSigned(f *testing.F) {
	f.Add(uint64(0), []byte{}, []byte{}, []byte{}, make([]byte, SignatureLength), uint64(1))
	f.Add(uint64(9), []byte{0x04, 0xa8, 0x17, 0xc8, 0x00}, []byte{0x35}, []byte{0xde, 0xad}, make([]byte, 64), uint64(31337))
	f.Add(^uint64(0), []byte{0xff}, make([]byte, 20), []byte{0x00}, append([]byte{0x01}, make([]byte, 64)...), ^uint64(0))

	f.Fuzz(func(t *testing.T, nonce uint64, gasPrice []byte, to []byte, data []byte, sigBytes []byte, chainID uint64) {
		tx := fuzzTransaction(nonce, gasPrice, to, data)

		raw, err := tx.BuildSigned(sigBytes, chainID)
		if len(sigBytes) != SignatureLength {
			require.ErrorIs(t, err, ErrInvalidSignatureLength)
			require.Nil(t, raw)
			return
		}
		require.NoError(t, err)

		var env signedEnvelope
		require.NoError(t, rlp.DecodeBytes(raw, &env))

		requireBigEqual(t, tx.Nonce.ToBig(), env.Nonce)
		requireBigEqual(t, tx.GasPrice.ToBig(), env.GasPrice)
		requireBigEqual(t, tx.Gas.ToBig(), env.Gas)
		requireBigEqual(t, tx.Value.ToBig(), env.Value)
		if tx.To == nil {
			require.Empty(t, env.To)
		} else {
			require.Equal(t, tx.To.Bytes(), env.To)
		}
		require.Equal(t, len(tx.Data), len(env.Data))

		sig, err := ParseSignature(sigBytes)
		require.NoError(t, err)
		requireBigEqual(t, sig.V(chainID).ToBig(), env.V)
		requireBigEqual(t, new(big.Int).SetBytes(sig.R[:]), env.R)
		requireBigEqual(t, new(big.Int).SetBytes(sig.S[:]), env.S)
	})
}

func FuzzSigningPayload(f *testing.F) {
	f.Add(uint64(0), []byte{}, []byte{}, []byte{}, uint64(1))
	f.Add(uint64(42), []byte{0x01, 0x00}, []byte{0xab, 0xcd}, []byte("hello"), uint64(11155111))

	f.Fuzz(func(t *testing.T, nonce uint64, gasPrice []byte, to []byte, data []byte, chainID uint64) {
		tx := fuzzTransaction(nonce, gasPrice, to, data)

		payload := tx.SigningPayload(chainID)
		require.Equal(t, payload, tx.SigningPayload(chainID))
		require.Equal(t, tx.SigningHash(chainID), tx.SigningHash(chainID))

		items := splitStrings(t, payload)
		require.Len(t, items, 9)
		require.Equal(t, new(uint256.Int).SetUint64(chainID).Bytes(), items[6])
		require.Empty(t, items[7])
		require.Empty(t, items[8])
	})
}
