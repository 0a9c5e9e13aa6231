package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shabdashri/pkg/utils"
)

func TestNewRazorpayGateway_RequiresCredentials(t *testing.T) {
	_, err := NewRazorpayGateway(RazorpayConfig{KeySecret: "s"})
	assert.ErrorIs(t, err, utils.ErrMissingConfig)

	_, err = NewRazorpayGateway(RazorpayConfig{KeyID: "rzp_test_key"})
	assert.ErrorIs(t, err, utils.ErrMissingConfig)
}

func TestNewRazorpayGateway_ConfiguresClient(t *testing.T) {
	gw, err := NewRazorpayGateway(RazorpayConfig{KeyID: "rzp_test_key", KeySecret: "test_key_secret"})
	require.NoError(t, err)
	require.NotNil(t, gw)
}

func TestGatewayErrorDescription(t *testing.T) {
	err := errors.New(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Order amount less than minimum"}}`)
	assert.Equal(t, "Order amount less than minimum", gatewayErrorDescription(err, "fallback"))

	assert.Equal(t, "fallback", gatewayErrorDescription(errors.New("connection refused"), "fallback"))
	assert.Equal(t, "fallback", gatewayErrorDescription(errors.New(`{"error":{}}`), "fallback"))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(5000), asInt64(float64(5000)))
	assert.Equal(t, int64(5000), asInt64(int64(5000)))
	assert.Equal(t, int64(5000), asInt64(5000))
	assert.Equal(t, int64(0), asInt64("5000"))
	assert.Equal(t, int64(0), asInt64(nil))
}
