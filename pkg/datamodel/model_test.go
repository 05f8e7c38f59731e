package datamodel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"thor-wallet-core/pkg/errno"
)

func TestUnsupported(t *testing.T) {
	err := Unsupported("Mnemonic", "BigInt")
	assert.True(t, errors.Is(err, errno.ErrUnsupportedOperation))
	assert.Contains(t, err.Error(), "Mnemonic.BigInt")
}
