package transaction

import (
	"context"

	"thor-wallet-core/pkg/errno"
)

// Submitter 把编码后的交易提交到网络，返回交易 ID。
// 网络传输不在本模块内实现。
type Submitter interface {
	Submit(ctx context.Context, raw []byte) (string, error)
}

// Send 编码完整签名的交易并提交
func Send(ctx context.Context, s Submitter, tx *Transaction) (string, error) {
	if !tx.IsSigned() {
		return "", errno.New(errno.ErrUnavailableTransactionField, "transaction.Send",
			"transaction is not fully signed", map[string]any{"field": "signature"}, nil)
	}
	raw, err := tx.Encoded()
	if err != nil {
		return "", err
	}
	return s.Submit(ctx, raw)
}
