// Package transaction 定义 Thor 交易体、编解码以及构建器。
//
// 两种交易类型: Legacy (gasPriceCoef) 与 DynamicFee (0x51，maxFeePerGas / maxPriorityFeePerGas)。
// 交易一旦构建即不可变，签名等操作都返回新的 *Transaction。
package transaction

import (
	"bytes"
	"math/big"

	"thor-wallet-core/pkg/address"
	"thor-wallet-core/pkg/errno"
	"thor-wallet-core/pkg/secp256k1"
)

// Type 交易类型
type Type uint8

const (
	TypeLegacy     Type = 0x00
	TypeDynamicFee Type = 0x51
)

func (t Type) String() string {
	switch t {
	case TypeLegacy:
		return "legacy"
	case TypeDynamicFee:
		return "dynamic-fee"
	}
	return "unknown"
}

// FeatureDelegated 表示交易由 gas payer 代付
const FeatureDelegated uint32 = 1

// Clause 是交易中的一个操作 (转账或合约调用)，To 为 nil 表示部署合约
type Clause struct {
	To    *address.Address
	Value *big.Int
	Data  []byte
}

// NewClause 创建 clause，to 可以为 nil
func NewClause(to *address.Address) Clause {
	return Clause{To: to, Value: new(big.Int)}
}

// WithValue 返回设置了转账金额的副本
func (c Clause) WithValue(value *big.Int) Clause {
	c.Value = new(big.Int).Set(value)
	return c
}

// WithData 返回设置了调用数据的副本
func (c Clause) WithData(data []byte) Clause {
	c.Data = bytes.Clone(data)
	return c
}

func (c Clause) clone() Clause {
	out := Clause{Data: bytes.Clone(c.Data)}
	if c.To != nil {
		to := *c.To
		out.To = &to
	}
	if c.Value != nil {
		out.Value = new(big.Int).Set(c.Value)
	}
	return out
}

// Reserved 保留字段: 第一个元素是特性位，其余元素原样保留
type Reserved struct {
	Features uint32
	Unused   [][]byte
}

// IsDelegated 特性位是否包含代付
func (r Reserved) IsDelegated() bool {
	return r.Features&FeatureDelegated == FeatureDelegated
}

func (r Reserved) clone() Reserved {
	out := Reserved{Features: r.Features}
	for _, u := range r.Unused {
		out.Unused = append(out.Unused, bytes.Clone(u))
	}
	return out
}

// Body 是交易体 (不含签名)
type Body struct {
	Type                 Type
	ChainTag             uint8
	BlockRef             [8]byte
	Expiration           uint32
	Clauses              []Clause
	GasPriceCoef         uint8
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	Gas                  uint64
	DependsOn            *[32]byte
	Nonce                uint64
	Reserved             Reserved
}

func (b Body) clone() Body {
	out := b
	out.Clauses = make([]Clause, len(b.Clauses))
	for i, c := range b.Clauses {
		out.Clauses[i] = c.clone()
	}
	if b.MaxFeePerGas != nil {
		out.MaxFeePerGas = new(big.Int).Set(b.MaxFeePerGas)
	}
	if b.MaxPriorityFeePerGas != nil {
		out.MaxPriorityFeePerGas = new(big.Int).Set(b.MaxPriorityFeePerGas)
	}
	if b.DependsOn != nil {
		d := *b.DependsOn
		out.DependsOn = &d
	}
	out.Reserved = b.Reserved.clone()
	return out
}

// Transaction 是不可变的交易: 交易体 + 签名
// 签名长度: 0 (未签名)，65 (发送方)，130 (发送方 || gas payer，仅代付交易)
type Transaction struct {
	body      Body
	signature []byte
}

// New 使用交易体创建未签名交易 (交易体会被复制)
func New(body Body) *Transaction {
	return &Transaction{body: body.clone()}
}

// Body 返回交易体副本
func (t *Transaction) Body() Body {
	return t.body.clone()
}

func (t *Transaction) Type() Type {
	return t.body.Type
}

func (t *Transaction) Signature() []byte {
	return bytes.Clone(t.signature)
}

// IsDelegated 交易是否请求 gas 代付
func (t *Transaction) IsDelegated() bool {
	return t.body.Reserved.IsDelegated()
}

// IsSigned 签名是否完整: 普通交易 65 字节，代付交易 130 字节
func (t *Transaction) IsSigned() bool {
	if t.IsDelegated() {
		return len(t.signature) == 2*secp256k1.SignatureLength
	}
	return len(t.signature) == secp256k1.SignatureLength
}

// WithSignature 返回附带签名的新交易
func (t *Transaction) WithSignature(signature []byte) (*Transaction, error) {
	if err := checkSignatureLength(t.IsDelegated(), signature, "Transaction.WithSignature"); err != nil {
		return nil, err
	}
	return &Transaction{body: t.body.clone(), signature: bytes.Clone(signature)}, nil
}

func checkSignatureLength(delegated bool, signature []byte, method string) error {
	switch len(signature) {
	case 0, secp256k1.SignatureLength:
		return nil
	case 2 * secp256k1.SignatureLength:
		if delegated {
			return nil
		}
	}
	return errno.New(errno.ErrInvalidTransactionField, method, "invalid signature length",
		map[string]any{"field": "signature", "length": len(signature), "delegated": delegated}, nil)
}

// SenderSignature 返回发送方签名
func (t *Transaction) SenderSignature() ([]byte, error) {
	if len(t.signature) < secp256k1.SignatureLength {
		return nil, errno.New(errno.ErrUnavailableTransactionField, "Transaction.SenderSignature",
			"transaction is not signed", map[string]any{"field": "signature"}, nil)
	}
	return bytes.Clone(t.signature[:secp256k1.SignatureLength]), nil
}

// GasPayerSignature 返回 gas payer 签名
func (t *Transaction) GasPayerSignature() ([]byte, error) {
	if !t.IsDelegated() || len(t.signature) != 2*secp256k1.SignatureLength {
		return nil, errno.New(errno.ErrUnavailableTransactionField, "Transaction.GasPayerSignature",
			"transaction has no gas payer signature", map[string]any{"field": "signature"}, nil)
	}
	return bytes.Clone(t.signature[secp256k1.SignatureLength:]), nil
}

// IntrinsicGas 返回交易的固有 gas
func (t *Transaction) IntrinsicGas() uint64 {
	return IntrinsicGas(t.body.Clauses...)
}
