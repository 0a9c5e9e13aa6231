package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeSignature returns the hex-encoded HMAC-SHA256 of message keyed by secret.
// This is the exact scheme Razorpay uses both for checkout callback signatures
// (message = "<orderId>|<paymentId>") and webhook signatures (message = raw body).
func ComputeSignature(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignaturesEqual compares two hex signatures in constant time.
func SignaturesEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
