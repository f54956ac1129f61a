package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeGatewaySignature builds the checkout signature the gateway
// returns alongside a captured payment: hex HMAC-SHA256 over
// "<orderID>|<paymentID>" keyed with the key secret.
func ComputeGatewaySignature(orderID, paymentID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyGatewaySignature compares in constant time.
func VerifyGatewaySignature(orderID, paymentID, signature, secret string) bool {
	expected := ComputeGatewaySignature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
