package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"thor-wallet-core/pkg/errno"
	"thor-wallet-core/pkg/signer"
	"thor-wallet-core/pkg/transaction"
)

// NewSignedTransaction 由 (部分) 已签名交易生成输出结构，
// 发送方签名存在时附带 ID 与 Origin，gas payer 签名存在时附带 GasPayer。
func NewSignedTransaction(tx *transaction.Transaction) (SignedTransaction, error) {
	raw, err := tx.Encoded()
	if err != nil {
		return SignedTransaction{}, err
	}
	out := SignedTransaction{RawTx: hexutil.Encode(raw), Complete: tx.IsSigned()}
	if len(tx.Signature()) == 0 {
		return out, nil
	}

	origin, err := signer.Origin(tx)
	if err != nil {
		return SignedTransaction{}, err
	}
	id, err := signer.ID(tx)
	if err != nil {
		return SignedTransaction{}, err
	}
	out.Origin = origin.String()
	out.ID = hexutil.Encode(id)

	if tx.IsDelegated() && tx.IsSigned() {
		gasPayer, err := signer.GasPayer(tx)
		if err != nil {
			return SignedTransaction{}, err
		}
		out.GasPayer = gasPayer.String()
	}
	return out, nil
}

// Transaction 解码 RawTx。未签名的网络字节同样接受。
func (s SignedTransaction) Transaction() (*transaction.Transaction, error) {
	raw, err := hexutil.Decode(s.RawTx)
	if err != nil {
		return nil, errno.New(errno.ErrInvalidTransactionField, "types.SignedTransaction", "raw_tx is not 0x hex",
			map[string]any{"field": "raw_tx"}, err)
	}
	if tx, err := transaction.Decode(raw, true); err == nil {
		return tx, nil
	}
	return transaction.Decode(raw, false)
}
