package errno

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsKind(t *testing.T) {
	cause := errors.New("boom")
	err := New(ErrInvalidHDKey, "bip32.Derive", "invalid path", map[string]any{"path": "m/x"}, cause)

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidHDKey))
	assert.False(t, errors.Is(wrapped, ErrInvalidHDKeyMnemonic))
	assert.True(t, errors.Is(wrapped, cause))

	assert.Equal(t, "Invalid HD key [bip32.Derive]: invalid path (path=m/x): boom", err.Error())
}

func TestDecode(t *testing.T) {
	code, msg := Decode(nil)
	assert.Equal(t, OK.Code, code)
	assert.Equal(t, OK.Message, msg)

	code, _ = Decode(New(ErrInvalidRLP, "rlp.Decode", "", nil, nil))
	assert.Equal(t, ErrInvalidRLP.Code, code)

	code, msg = Decode(ErrUnsupportedOperation)
	assert.Equal(t, ErrUnsupportedOperation.Code, code)
	assert.Equal(t, ErrUnsupportedOperation.Message, msg)

	code, msg = Decode(errors.New("plain"))
	assert.Equal(t, InternalServerError.Code, code)
	assert.Equal(t, "plain", msg)
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("ctx: %w", New(ErrInvalidSignature, "", "", nil, nil))
	require.Equal(t, ErrInvalidSignature, KindOf(err))
	require.Equal(t, InternalServerError, KindOf(errors.New("x")))
}
