package transaction

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thor-wallet-core/pkg/errno"
	"thor-wallet-core/pkg/safe_random"
)

func TestBuilderIsImmutable(t *testing.T) {
	to := testTo(t)
	base := NewBuilder(TypeLegacy).WithChainTag(0x4a).WithNonce(1)

	one := base.WithClause(NewClause(&to).WithValue(big.NewInt(1)))
	two := one.WithClause(NewClause(&to).WithValue(big.NewInt(2)))
	other := one.WithClause(NewClause(nil))

	txBase, err := base.Build()
	require.NoError(t, err)
	txOne, err := one.Build()
	require.NoError(t, err)
	txTwo, err := two.Build()
	require.NoError(t, err)
	txOther, err := other.Build()
	require.NoError(t, err)

	assert.Len(t, txBase.Body().Clauses, 0)
	assert.Len(t, txOne.Body().Clauses, 1)
	assert.Len(t, txTwo.Body().Clauses, 2)
	assert.NotNil(t, txTwo.Body().Clauses[1].To)
	assert.Nil(t, txOther.Body().Clauses[1].To)

	// 修改传入的值不影响已构建的交易
	value := big.NewInt(100)
	b := base.WithClause(NewClause(&to).WithValue(value))
	value.SetInt64(5)
	tx, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, int64(100), tx.Body().Clauses[0].Value.Int64())
}

func TestBuilderFeeInvariant(t *testing.T) {
	tests := []struct {
		name    string
		builder Builder
		field   string
	}{
		{"legacy with max fee", NewBuilder(TypeLegacy).WithMaxFeePerGas(big.NewInt(1)), "maxFeePerGas"},
		{"dynamic without fees", NewBuilder(TypeDynamicFee), "maxFeePerGas"},
		{"dynamic with coef", NewBuilder(TypeDynamicFee).WithGasPriceCoef(1).
			WithMaxFeePerGas(big.NewInt(1)).WithMaxPriorityFeePerGas(big.NewInt(1)), "gasPriceCoef"},
		{"priority above max", NewBuilder(TypeDynamicFee).
			WithMaxFeePerGas(big.NewInt(1)).WithMaxPriorityFeePerGas(big.NewInt(2)), "maxPriorityFeePerGas"},
		{"negative fee", NewBuilder(TypeDynamicFee).
			WithMaxFeePerGas(big.NewInt(-1)).WithMaxPriorityFeePerGas(big.NewInt(0)), "maxFeePerGas"},
		{"unknown type", NewBuilder(Type(0x52)), "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errno.ErrInvalidTransactionField))
			var e *errno.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.field, e.Data["field"])
		})
	}

	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err := NewBuilder(TypeLegacy).WithClause(NewClause(nil).WithValue(tooBig)).Build()
	assert.True(t, errors.Is(err, errno.ErrInvalidTransactionField))
}

func TestBuilderDefaults(t *testing.T) {
	orig := safe_random.Reader
	defer func() { safe_random.Reader = orig }()
	safe_random.Reader = bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8})

	to := testTo(t)
	tx, err := NewBuilder(TypeLegacy).WithClause(NewClause(&to)).Build()
	require.NoError(t, err)

	body := tx.Body()
	assert.Equal(t, uint64(0x0102030405060708), body.Nonce)
	assert.Equal(t, TxGas+ClauseGas, body.Gas)

	// 随机源失败
	safe_random.Reader = bytes.NewReader(nil)
	_, err = NewBuilder(TypeLegacy).Build()
	assert.True(t, errors.Is(err, errno.InternalServerError))
}

func TestIntrinsicGas(t *testing.T) {
	to := testTo(t)

	assert.Equal(t, uint64(21000), IntrinsicGas())
	assert.Equal(t, uint64(21000), IntrinsicGas(NewClause(&to)))
	assert.Equal(t, uint64(53000), IntrinsicGas(NewClause(nil)))
	assert.Equal(t, uint64(21000+4+68), IntrinsicGas(NewClause(&to).WithData([]byte{0, 1})))
	assert.Equal(t, uint64(5000+16000*2), IntrinsicGas(NewClause(&to), NewClause(&to)))
}

type fakeSubmitter struct {
	raw []byte
}

func (f *fakeSubmitter) Submit(_ context.Context, raw []byte) (string, error) {
	f.raw = raw
	return "0x01", nil
}

func TestSend(t *testing.T) {
	tx, err := legacyBuilder(t).Build()
	require.NoError(t, err)

	s := &fakeSubmitter{}
	_, err = Send(context.Background(), s, tx)
	assert.True(t, errors.Is(err, errno.ErrUnavailableTransactionField))
	assert.Nil(t, s.raw)

	signed, err := tx.WithSignature(make([]byte, 65))
	require.NoError(t, err)
	id, err := Send(context.Background(), s, signed)
	require.NoError(t, err)
	assert.Equal(t, "0x01", id)

	want, err := signed.Encoded()
	require.NoError(t, err)
	assert.Equal(t, want, s.raw)
}
