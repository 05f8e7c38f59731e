package units

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thor-wallet-core/pkg/errno"
)

func TestParseVET(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000000000"},
		{"1.5", "1500000000000000000"},
		{"0.000000000000000001", "1"},
		{"0", "0"},
		{"123456789.123456789", "123456789123456789000000000"},
	}
	for _, tt := range tests {
		got, err := ParseVET(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String(), tt.in)
	}

	for _, bad := range []string{"", "abc", "-1", "0.0000000000000000001"} {
		_, err := ParseVET(bad)
		assert.True(t, errors.Is(err, errno.ErrIllegalArgument), bad)
	}
}

func TestFormatVET(t *testing.T) {
	wei, _ := new(big.Int).SetString("1500000000000000000", 10)
	assert.Equal(t, "1.5", FormatVET(wei))
	assert.Equal(t, "0", FormatVET(big.NewInt(0)))
	assert.Equal(t, "0.000000000000000001", FormatVET(big.NewInt(1)))

	assert.Equal(t, "12.34", FormatUnits(big.NewInt(1234), 2))
	got, err := ParseUnits("12.34", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), got.Int64())
}
