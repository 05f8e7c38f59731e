package transaction

import (
	"math/big"

	"thor-wallet-core/pkg/errno"
	"thor-wallet-core/pkg/safe_random"
)

// Builder 以值语义构建交易: 每个 WithX 返回新的 Builder，不修改原值。
//
//	tx, err := transaction.NewBuilder(transaction.TypeLegacy).
//		WithChainTag(0x4a).
//		WithClause(transaction.NewClause(&to).WithValue(amount)).
//		WithGas(21000).
//		Build()
type Builder struct {
	body     Body
	nonceSet bool
}

// NewBuilder 创建指定类型的构建器
func NewBuilder(t Type) Builder {
	return Builder{body: Body{Type: t}}
}

func (b Builder) WithChainTag(tag uint8) Builder {
	b.body.ChainTag = tag
	return b
}

func (b Builder) WithBlockRef(ref [8]byte) Builder {
	b.body.BlockRef = ref
	return b
}

func (b Builder) WithExpiration(expiration uint32) Builder {
	b.body.Expiration = expiration
	return b
}

// WithClause 追加一个 clause
func (b Builder) WithClause(c Clause) Builder {
	clauses := make([]Clause, 0, len(b.body.Clauses)+1)
	clauses = append(clauses, b.body.Clauses...)
	b.body.Clauses = append(clauses, c.clone())
	return b
}

func (b Builder) WithGas(gas uint64) Builder {
	b.body.Gas = gas
	return b
}

func (b Builder) WithGasPriceCoef(coef uint8) Builder {
	b.body.GasPriceCoef = coef
	return b
}

func (b Builder) WithMaxFeePerGas(fee *big.Int) Builder {
	b.body.MaxFeePerGas = cloneBig(fee)
	return b
}

func (b Builder) WithMaxPriorityFeePerGas(fee *big.Int) Builder {
	b.body.MaxPriorityFeePerGas = cloneBig(fee)
	return b
}

func (b Builder) WithDependsOn(id *[32]byte) Builder {
	if id == nil {
		b.body.DependsOn = nil
		return b
	}
	d := *id
	b.body.DependsOn = &d
	return b
}

func (b Builder) WithNonce(nonce uint64) Builder {
	b.body.Nonce = nonce
	b.nonceSet = true
	return b
}

// WithDelegation 设置是否请求 gas 代付
func (b Builder) WithDelegation(delegated bool) Builder {
	b.body.Reserved = b.body.Reserved.clone()
	if delegated {
		b.body.Reserved.Features |= FeatureDelegated
	} else {
		b.body.Reserved.Features &^= FeatureDelegated
	}
	return b
}

// Build 校验字段并生成不可变交易。
// 未设置 nonce 时使用 8 字节随机数；未设置 gas 时使用固有 gas。
func (b Builder) Build() (*Transaction, error) {
	body := b.body.clone()

	// 1. 费用字段与交易类型必须一致
	switch body.Type {
	case TypeLegacy:
		if body.MaxFeePerGas != nil || body.MaxPriorityFeePerGas != nil {
			return nil, buildError("maxFeePerGas", "legacy transaction must not set dynamic fee fields")
		}
	case TypeDynamicFee:
		if body.GasPriceCoef != 0 {
			return nil, buildError("gasPriceCoef", "dynamic fee transaction must not set gasPriceCoef")
		}
		if body.MaxFeePerGas == nil || body.MaxPriorityFeePerGas == nil {
			return nil, buildError("maxFeePerGas", "dynamic fee transaction requires maxFeePerGas and maxPriorityFeePerGas")
		}
		if !fitsUint256(body.MaxFeePerGas) {
			return nil, buildError("maxFeePerGas", "out of range")
		}
		if !fitsUint256(body.MaxPriorityFeePerGas) {
			return nil, buildError("maxPriorityFeePerGas", "out of range")
		}
		if body.MaxPriorityFeePerGas.Cmp(body.MaxFeePerGas) > 0 {
			return nil, buildError("maxPriorityFeePerGas", "exceeds maxFeePerGas")
		}
	default:
		return nil, buildError("type", "unsupported transaction type")
	}

	// 2. clause 金额
	for i, c := range body.Clauses {
		if c.Value != nil && !fitsUint256(c.Value) {
			return nil, errno.New(errno.ErrInvalidTransactionField, "Builder.Build", "clause value out of range",
				map[string]any{"field": "clauses.value", "index": i}, nil)
		}
	}

	// 3. 默认值
	if body.Gas == 0 {
		body.Gas = IntrinsicGas(body.Clauses...)
	}
	if !b.nonceSet {
		nonce, err := safe_random.GenerateUint64()
		if err != nil {
			return nil, errno.New(errno.InternalServerError, "Builder.Build", "generate nonce failed", nil, err)
		}
		body.Nonce = nonce
	}

	return &Transaction{body: body}, nil
}

func buildError(field, msg string) error {
	return errno.New(errno.ErrInvalidTransactionField, "Builder.Build", msg, map[string]any{"field": field}, nil)
}

func fitsUint256(n *big.Int) bool {
	return n.Sign() >= 0 && n.BitLen() <= 256
}

func cloneBig(n *big.Int) *big.Int {
	if n == nil {
		return nil
	}
	return new(big.Int).Set(n)
}
