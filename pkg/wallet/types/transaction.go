package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"thor-wallet-core/pkg/address"
	"thor-wallet-core/pkg/errno"
	"thor-wallet-core/pkg/transaction"
)

// Clause is the JSON form of a transaction clause.
type Clause struct {
	To    *address.Address `json:"to"`    // nil for contract deployment
	Value string           `json:"value"` // Amount in wei (decimal or 0x hex)
	Data  hexutil.Bytes    `json:"data"`  // Call data (Hex)
}

// UnsignedTransaction represents a transaction waiting to be signed.
// It contains all necessary fields for a cold wallet to sign, plus metadata for the user to verify.
type UnsignedTransaction struct {
	Type                 string         `json:"type"` // "legacy" or "dynamic-fee"
	ChainTag             uint8          `json:"chain_tag"`
	BlockRef             hexutil.Bytes  `json:"block_ref"`  // 8 bytes
	Expiration           uint32         `json:"expiration"` // Blocks
	Clauses              []Clause       `json:"clauses"`
	GasPriceCoef         uint8          `json:"gas_price_coef,omitempty"`
	MaxFeePerGas         string         `json:"max_fee_per_gas,omitempty"`
	MaxPriorityFeePerGas string         `json:"max_priority_fee_per_gas,omitempty"`
	Gas                  uint64         `json:"gas"`
	DependsOn            *hexutil.Bytes `json:"depends_on,omitempty"` // 32 bytes
	Nonce                hexutil.Uint64 `json:"nonce"`
	Delegated            bool           `json:"delegated"`

	// DerivationPath tells the signer which key to use,
	// relative to m/44'/818'/0'/0, e.g. "m/0"
	DerivationPath string `json:"derivation_path,omitempty"`
}

// SignedTransaction represents the result of the signing process.
type SignedTransaction struct {
	ID       string `json:"id,omitempty"`        // Transaction ID, present once the sender has signed
	Origin   string `json:"origin,omitempty"`    // Sender Address
	GasPayer string `json:"gas_payer,omitempty"` // Gas payer Address (delegated only)
	Complete bool   `json:"complete"`            // All required signatures present
	RawTx    string `json:"raw_tx"`              // Wire bytes Hex String (ready to broadcast when complete)
}

// FromBody converts a transaction body into its JSON form.
func FromBody(body transaction.Body) UnsignedTransaction {
	u := UnsignedTransaction{
		Type:         body.Type.String(),
		ChainTag:     body.ChainTag,
		BlockRef:     body.BlockRef[:],
		Expiration:   body.Expiration,
		GasPriceCoef: body.GasPriceCoef,
		Gas:          body.Gas,
		Nonce:        hexutil.Uint64(body.Nonce),
		Delegated:    body.Reserved.IsDelegated(),
		Clauses:      make([]Clause, 0, len(body.Clauses)),
	}
	if body.MaxFeePerGas != nil {
		u.MaxFeePerGas = body.MaxFeePerGas.String()
	}
	if body.MaxPriorityFeePerGas != nil {
		u.MaxPriorityFeePerGas = body.MaxPriorityFeePerGas.String()
	}
	if body.DependsOn != nil {
		d := hexutil.Bytes(body.DependsOn[:])
		u.DependsOn = &d
	}
	for _, c := range body.Clauses {
		value := "0"
		if c.Value != nil {
			value = c.Value.String()
		}
		u.Clauses = append(u.Clauses, Clause{To: c.To, Value: value, Data: c.Data})
	}
	return u
}

// Build validates the JSON fields and builds an unsigned transaction.
func (u UnsignedTransaction) Build() (*transaction.Transaction, error) {
	var b transaction.Builder
	switch u.Type {
	case "", "legacy":
		if u.MaxFeePerGas != "" {
			return nil, fieldError("max_fee_per_gas", "legacy transaction must not set dynamic fee fields")
		}
		if u.MaxPriorityFeePerGas != "" {
			return nil, fieldError("max_priority_fee_per_gas", "legacy transaction must not set dynamic fee fields")
		}
		b = transaction.NewBuilder(transaction.TypeLegacy).WithGasPriceCoef(u.GasPriceCoef)
	case "dynamic-fee":
		if u.MaxFeePerGas == "" {
			return nil, fieldError("max_fee_per_gas", "dynamic fee transaction requires max_fee_per_gas")
		}
		if u.MaxPriorityFeePerGas == "" {
			return nil, fieldError("max_priority_fee_per_gas", "dynamic fee transaction requires max_priority_fee_per_gas")
		}
		maxFee, err := parseAmount("max_fee_per_gas", u.MaxFeePerGas)
		if err != nil {
			return nil, err
		}
		maxPriority, err := parseAmount("max_priority_fee_per_gas", u.MaxPriorityFeePerGas)
		if err != nil {
			return nil, err
		}
		b = transaction.NewBuilder(transaction.TypeDynamicFee).
			WithMaxFeePerGas(maxFee).
			WithMaxPriorityFeePerGas(maxPriority)
	default:
		return nil, fieldError("type", "unknown transaction type")
	}

	if len(u.BlockRef) != 8 {
		return nil, fieldError("block_ref", "expect 8 bytes")
	}
	var ref [8]byte
	copy(ref[:], u.BlockRef)

	b = b.WithChainTag(u.ChainTag).
		WithBlockRef(ref).
		WithExpiration(u.Expiration).
		WithGas(u.Gas).
		WithNonce(uint64(u.Nonce)).
		WithDelegation(u.Delegated)

	if u.DependsOn != nil {
		if len(*u.DependsOn) != 32 {
			return nil, fieldError("depends_on", "expect 32 bytes")
		}
		var id [32]byte
		copy(id[:], *u.DependsOn)
		b = b.WithDependsOn(&id)
	}

	for _, c := range u.Clauses {
		value, err := parseAmount("clauses.value", c.Value)
		if err != nil {
			return nil, err
		}
		b = b.WithClause(transaction.NewClause(c.To).WithValue(value).WithData(c.Data))
	}
	return b.Build()
}

func parseAmount(field, s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(s, 0)
	if !ok || n.Sign() < 0 {
		return nil, fieldError(field, "invalid amount")
	}
	return n, nil
}

func fieldError(field, msg string) error {
	return errno.New(errno.ErrInvalidTransactionField, "types.UnsignedTransaction", msg,
		map[string]any{"field": field}, nil)
}
