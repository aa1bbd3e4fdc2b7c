package rawTransaction

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

// splitStrings returns the string items of an RLP list.
func splitStrings(t *testing.T, encoded []byte) [][]byte {
	t.Helper()
	content, rest, err := rlp.SplitList(encoded)
	require.NoError(t, err)
	require.Empty(t, rest)

	var items [][]byte
	for len(content) > 0 {
		var item []byte
		item, content, err = rlp.SplitString(content)
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}

func requireBigEqual(t *testing.T, expected, actual *big.Int) {
	t.Helper()
	require.NotNil(t, actual)
	require.Zero(t, expected.Cmp(actual), "expected %s, got %s", expected, actual)
}

func encodeFieldsList(tx *Transaction) []byte {
	w := rlp.NewEncoderBuffer(nil)
	l := w.List()
	tx.EncodeFields(w)
	w.ListEnd(l)
	return w.ToBytes()
}

func sampleTransaction() *Transaction {
	to := common.HexToAddress("0x3535353535353535353535353535353535353535")
	tx := &Transaction{
		To:   &to,
		Data: []byte{0xde, 0xad, 0xbe, 0xef},
	}
	tx.Nonce.SetUint64(9)
	tx.GasPrice.SetUint64(20_000_000_000)
	tx.Gas.SetUint64(21_000)
	tx.Value.SetUint64(1_000_000_000_000_000_000)
	return tx
}

func Test_EncodeFields_Order(t *testing.T) {
	tx := sampleTransaction()
	items := splitStrings(t, encodeFieldsList(tx))
	require.Len(t, items, 6)

	require.Equal(t, tx.Nonce.Bytes(), items[0])
	require.Equal(t, tx.GasPrice.Bytes(), items[1])
	require.Equal(t, tx.Gas.Bytes(), items[2])
	require.Equal(t, tx.To.Bytes(), items[3])
	require.Equal(t, tx.Value.Bytes(), items[4])
	require.Equal(t, tx.Data, items[5])
}

func Test_EncodeFields_MinimalIntegers(t *testing.T) {
	values := []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(1),
		uint256.NewInt(0x7f),
		uint256.NewInt(0x80),
		uint256.NewInt(0x100),
		uint256.NewInt(^uint64(0)),
		new(uint256.Int).Lsh(uint256.NewInt(1), 255),
		new(uint256.Int).SetAllOne(),
	}

	for _, v := range values {
		t.Run(v.Hex(), func(t *testing.T) {
			tx := &Transaction{Nonce: *v, Value: *v}
			items := splitStrings(t, encodeFieldsList(tx))

			for _, idx := range []int{0, 4} {
				if v.IsZero() {
					require.Empty(t, items[idx])
					continue
				}
				require.NotZero(t, items[idx][0], "leading zero byte in integer encoding")
				requireBigEqual(t, v.ToBig(), new(big.Int).SetBytes(items[idx]))
			}
		})
	}
}

func Test_EncodeFields_Recipient(t *testing.T) {
	t.Run("contract creation encodes empty string", func(t *testing.T) {
		tx := &Transaction{}
		require.True(t, tx.IsContractCreation())

		items := splitStrings(t, encodeFieldsList(tx))
		require.Empty(t, items[3])
	})

	t.Run("zero address encodes 20 zero bytes", func(t *testing.T) {
		tx := &Transaction{To: &common.Address{}}
		require.False(t, tx.IsContractCreation())

		items := splitStrings(t, encodeFieldsList(tx))
		require.Equal(t, make([]byte, common.AddressLength), items[3])
	})

	t.Run("encodings differ", func(t *testing.T) {
		require.NotEqual(t,
			encodeFieldsList(&Transaction{}),
			encodeFieldsList(&Transaction{To: &common.Address{}}),
		)
	})
}

func Test_SigningPayload_ZeroTransaction(t *testing.T) {
	tx := &Transaction{}
	payload := tx.SigningPayload(1)
	require.Equal(t, "c9808080808080018080", hex.EncodeToString(payload))

	h := sha3.NewLegacyKeccak256()
	h.Write(payload)
	require.Equal(t, h.Sum(nil), tx.SigningHash(1).Bytes())
}

func Test_SigningPayload_Layout(t *testing.T) {
	tx := sampleTransaction()
	items := splitStrings(t, tx.SigningPayload(11155111))
	require.Len(t, items, 9)

	require.Equal(t, splitStrings(t, encodeFieldsList(tx)), items[:6])
	require.Equal(t, new(big.Int).SetUint64(11155111).Bytes(), items[6])
	require.Empty(t, items[7])
	require.Empty(t, items[8])
}

func Test_SigningPayload_ZeroChainId(t *testing.T) {
	items := splitStrings(t, (&Transaction{}).SigningPayload(0))
	require.Len(t, items, 9)
	for _, item := range items {
		require.Empty(t, item)
	}
}

func Test_SigningHash_Deterministic(t *testing.T) {
	tx := sampleTransaction()
	require.Equal(t, tx.SigningHash(1), tx.SigningHash(1))
	require.NotEqual(t, tx.SigningHash(1), tx.SigningHash(5))

	other := sampleTransaction()
	other.Nonce.AddUint64(&other.Nonce, 1)
	require.NotEqual(t, tx.SigningHash(1), other.SigningHash(1))
}

func Test_SigningHash_MatchesEIP155Signer(t *testing.T) {
	to := common.HexToAddress("0x3535353535353535353535353535353535353535")
	cases := []struct {
		name    string
		tx      *Transaction
		chainID uint64
	}{
		{name: "transfer", tx: sampleTransaction(), chainID: 1},
		{name: "contract creation", tx: &Transaction{Gas: *uint256.NewInt(3_000_000), Data: []byte{0x60, 0x80, 0x60, 0x40}}, chainID: 31337},
		{name: "zero address", tx: &Transaction{To: &common.Address{}}, chainID: 11155111},
		{name: "large value", tx: &Transaction{To: &to, Value: *new(uint256.Int).SetAllOne()}, chainID: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signer := types.NewEIP155Signer(new(big.Int).SetUint64(tc.chainID))
			require.Equal(t, signer.Hash(toGethTransaction(tc.tx)), tc.tx.SigningHash(tc.chainID))
		})
	}
}

func toGethTransaction(tx *Transaction) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    tx.Nonce.Uint64(),
		GasPrice: tx.GasPrice.ToBig(),
		Gas:      tx.Gas.Uint64(),
		To:       tx.To,
		Value:    tx.Value.ToBig(),
		Data:     tx.Data,
	})
}
