package transaction

import (
	"math/big"

	"thor-wallet-core/pkg/address"
	"thor-wallet-core/pkg/crypto_util"
	"thor-wallet-core/pkg/errno"
	"thor-wallet-core/pkg/rlp"
)

var clauseProfile = rlp.Struct("",
	rlp.OptionalFixedBlob("to", address.Length),
	rlp.Numeric("value", 32),
	rlp.Blob("data"),
)

func bodyFields(feeFields ...rlp.Field) []rlp.Field {
	fields := []rlp.Field{
		rlp.Numeric("chainTag", 1),
		rlp.CompactFixedBlob("blockRef", 8),
		rlp.Numeric("expiration", 4),
		rlp.List("clauses", clauseProfile),
	}
	fields = append(fields, feeFields...)
	return append(fields,
		rlp.Numeric("gas", 8),
		rlp.OptionalFixedBlob("dependsOn", 32),
		rlp.Numeric("nonce", 8),
		rlp.List("reserved", rlp.Buffer("")),
	)
}

func withSignature(fields []rlp.Field) []rlp.Field {
	out := append([]rlp.Field{}, fields...)
	return append(out, rlp.Buffer("signature"))
}

var (
	legacyFields     = bodyFields(rlp.Numeric("gasPriceCoef", 1))
	dynamicFeeFields = bodyFields(rlp.Numeric("maxPriorityFeePerGas", 32), rlp.Numeric("maxFeePerGas", 32))

	legacyUnsigned     = rlp.Profile{Name: "tx", Fields: legacyFields}
	legacySigned       = rlp.Profile{Name: "tx", Fields: withSignature(legacyFields)}
	dynamicFeeUnsigned = rlp.Profile{Name: "tx", Fields: dynamicFeeFields}
	dynamicFeeSigned   = rlp.Profile{Name: "tx", Fields: withSignature(dynamicFeeFields)}
)

func profileOf(t Type, signed bool) (rlp.Profile, error) {
	switch {
	case t == TypeLegacy && signed:
		return legacySigned, nil
	case t == TypeLegacy:
		return legacyUnsigned, nil
	case t == TypeDynamicFee && signed:
		return dynamicFeeSigned, nil
	case t == TypeDynamicFee:
		return dynamicFeeUnsigned, nil
	}
	return rlp.Profile{}, errno.New(errno.ErrInvalidTransactionField, "transaction.Codec", "unsupported transaction type",
		map[string]any{"field": "type", "type": uint8(t)}, nil)
}

// Encode 将交易编码为网络字节: [0x51 (动态费用)] + RLP。
// signed 为 true 时追加 signature 字段，此时交易必须已有签名。
func Encode(tx *Transaction, signed bool) ([]byte, error) {
	if signed && len(tx.signature) == 0 {
		return nil, errno.New(errno.ErrUnavailableTransactionField, "transaction.Encode",
			"transaction is not signed", map[string]any{"field": "signature"}, nil)
	}
	profile, err := profileOf(tx.body.Type, signed)
	if err != nil {
		return nil, err
	}

	record := tx.body.record()
	if signed {
		record["signature"] = tx.signature
	}

	data, err := rlp.Encode(profile, record)
	if err != nil {
		return nil, err
	}
	if tx.body.Type == TypeDynamicFee {
		return append([]byte{byte(TypeDynamicFee)}, data...), nil
	}
	return data, nil
}

// Decode 解码网络字节
func Decode(raw []byte, signed bool) (*Transaction, error) {
	if len(raw) == 0 {
		return nil, errno.New(errno.ErrInvalidRLP, "transaction.Decode", "empty input", nil, nil)
	}

	// 1. 识别类型前缀: RLP 列表以 0xc0 以上开头，否则第一个字节是类型
	txType := TypeLegacy
	if raw[0] < 0xc0 {
		if Type(raw[0]) != TypeDynamicFee {
			return nil, errno.New(errno.ErrInvalidTransactionField, "transaction.Decode", "unsupported transaction type",
				map[string]any{"field": "type", "type": raw[0]}, nil)
		}
		txType = TypeDynamicFee
		raw = raw[1:]
	}
	profile, err := profileOf(txType, signed)
	if err != nil {
		return nil, err
	}

	// 2. RLP 解码
	record, err := rlp.Decode(profile, raw)
	if err != nil {
		return nil, err
	}

	// 3. 转换为交易体
	body, err := bodyFromRecord(txType, record)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{body: body}
	if signed {
		sig := record["signature"].([]byte)
		if len(sig) == 0 {
			return nil, errno.New(errno.ErrInvalidTransactionField, "transaction.Decode", "empty signature",
				map[string]any{"field": "signature"}, nil)
		}
		if err := checkSignatureLength(body.Reserved.IsDelegated(), sig, "transaction.Decode"); err != nil {
			return nil, err
		}
		tx.signature = sig
	}
	return tx, nil
}

// Encoded 返回网络字节，有签名时包含签名
func (t *Transaction) Encoded() ([]byte, error) {
	return Encode(t, len(t.signature) > 0)
}

// SigningHash 是发送方签名的消息: blake2b256(未签名编码)
func (t *Transaction) SigningHash() ([]byte, error) {
	data, err := Encode(t, false)
	if err != nil {
		return nil, err
	}
	return crypto_util.Blake2b256(data), nil
}

// GasPayerSigningHash 是 gas payer 签名的消息: blake2b256(signingHash || sender)
func (t *Transaction) GasPayerSigningHash(sender address.Address) ([]byte, error) {
	hash, err := t.SigningHash()
	if err != nil {
		return nil, err
	}
	return crypto_util.Blake2b256(hash, sender[:]), nil
}

func (b Body) record() rlp.Record {
	clauses := make([]rlp.Record, len(b.Clauses))
	for i, c := range b.Clauses {
		var to []byte
		if c.To != nil {
			to = c.To[:]
		}
		clauses[i] = rlp.Record{"to": to, "value": c.Value, "data": c.Data}
	}

	var dependsOn []byte
	if b.DependsOn != nil {
		dependsOn = b.DependsOn[:]
	}

	r := rlp.Record{
		"chainTag":   b.ChainTag,
		"blockRef":   b.BlockRef[:],
		"expiration": b.Expiration,
		"clauses":    clauses,
		"gas":        b.Gas,
		"dependsOn":  dependsOn,
		"nonce":      b.Nonce,
		"reserved":   b.Reserved.items(),
	}
	if b.Type == TypeDynamicFee {
		r["maxPriorityFeePerGas"] = b.MaxPriorityFeePerGas
		r["maxFeePerGas"] = b.MaxFeePerGas
	} else {
		r["gasPriceCoef"] = b.GasPriceCoef
	}
	return r
}

// items 编码保留字段，去掉末尾的空元素
func (r Reserved) items() [][]byte {
	items := append([][]byte{new(big.Int).SetUint64(uint64(r.Features)).Bytes()}, r.Unused...)
	for len(items) > 0 && len(items[len(items)-1]) == 0 {
		items = items[:len(items)-1]
	}
	return items
}

func reservedFromItems(items []any) (Reserved, error) {
	if len(items) == 0 {
		return Reserved{}, nil
	}
	if len(items[len(items)-1].([]byte)) == 0 {
		return Reserved{}, fieldError("reserved", "trailing empty item")
	}

	features := items[0].([]byte)
	if len(features) > 4 || (len(features) > 0 && features[0] == 0) {
		return Reserved{}, fieldError("reserved.0", "invalid features")
	}
	r := Reserved{Features: uint32(new(big.Int).SetBytes(features).Uint64())}
	for _, item := range items[1:] {
		r.Unused = append(r.Unused, item.([]byte))
	}
	return r, nil
}

func fieldError(field, msg string) error {
	return errno.New(errno.ErrInvalidTransactionField, "transaction.Decode", msg,
		map[string]any{"field": field}, nil)
}

// bodyFromRecord 的数值范围已由 profile 的字节上限保证
func bodyFromRecord(t Type, r rlp.Record) (Body, error) {
	body := Body{
		Type:       t,
		ChainTag:   uint8(r["chainTag"].(*big.Int).Uint64()),
		Expiration: uint32(r["expiration"].(*big.Int).Uint64()),
		Gas:        r["gas"].(*big.Int).Uint64(),
		Nonce:      r["nonce"].(*big.Int).Uint64(),
	}
	copy(body.BlockRef[:], r["blockRef"].([]byte))

	if t == TypeDynamicFee {
		body.MaxPriorityFeePerGas = r["maxPriorityFeePerGas"].(*big.Int)
		body.MaxFeePerGas = r["maxFeePerGas"].(*big.Int)
	} else {
		body.GasPriceCoef = uint8(r["gasPriceCoef"].(*big.Int).Uint64())
	}

	if d := r["dependsOn"].([]byte); d != nil {
		var dependsOn [32]byte
		copy(dependsOn[:], d)
		body.DependsOn = &dependsOn
	}

	for _, item := range r["clauses"].([]any) {
		c := item.(rlp.Record)
		clause := Clause{Value: c["value"].(*big.Int), Data: c["data"].([]byte)}
		if to := c["to"].([]byte); to != nil {
			var a address.Address
			copy(a[:], to)
			clause.To = &a
		}
		body.Clauses = append(body.Clauses, clause)
	}

	reserved, err := reservedFromItems(r["reserved"].([]any))
	if err != nil {
		return Body{}, err
	}
	body.Reserved = reserved
	return body, nil
}
