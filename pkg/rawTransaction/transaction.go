package rawTransaction

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// Transaction is the legacy (pre-EIP-2718) transaction body. A nil To marks
// contract creation.
type Transaction struct {
	Nonce    uint256.Int
	To       *common.Address
	Value    uint256.Int
	GasPrice uint256.Int
	Gas      uint256.Int
	Data     []byte
}

// transactionJSON is the wire shape; gasPrice is the only key that differs
// from the field name.
type transactionJSON struct {
	Nonce    *hexutil.U256   `json:"nonce"`
	To       *common.Address `json:"to"`
	Value    *hexutil.U256   `json:"value"`
	GasPrice *hexutil.U256   `json:"gasPrice"`
	Gas      *hexutil.U256   `json:"gas"`
	Data     hexutil.Bytes   `json:"data"`
}

// IsContractCreation reports whether the transaction has no recipient.
func (tx *Transaction) IsContractCreation() bool {
	return tx.To == nil
}

func (tx Transaction) MarshalJSON() ([]byte, error) {
	data := tx.Data
	if data == nil {
		data = []byte{}
	}
	return json.Marshal(&transactionJSON{
		Nonce:    (*hexutil.U256)(&tx.Nonce),
		To:       tx.To,
		Value:    (*hexutil.U256)(&tx.Value),
		GasPrice: (*hexutil.U256)(&tx.GasPrice),
		Gas:      (*hexutil.U256)(&tx.Gas),
		Data:     data,
	})
}

func (tx *Transaction) UnmarshalJSON(input []byte) error {
	var dec transactionJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return fmt.Errorf("failed to decode transaction: %w", err)
	}

	*tx = Transaction{
		To:   dec.To,
		Data: dec.Data,
	}
	if dec.Nonce != nil {
		tx.Nonce = uint256.Int(*dec.Nonce)
	}
	if dec.Value != nil {
		tx.Value = uint256.Int(*dec.Value)
	}
	if dec.GasPrice != nil {
		tx.GasPrice = uint256.Int(*dec.GasPrice)
	}
	if dec.Gas != nil {
		tx.Gas = uint256.Int(*dec.Gas)
	}
	return nil
}
