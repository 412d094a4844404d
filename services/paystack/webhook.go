package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
)

// WebhookEvent is the envelope Paystack posts to the webhook URL. Only
// the fields we act on are decoded; the rest of the payload is ignored.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// EventChargeSuccess is the only event that settles an invoice.
const EventChargeSuccess = "charge.success"

// ValidSignature checks the x-paystack-signature header against an
// HMAC-SHA512 of the raw body keyed with the secret key. The raw body
// must be the exact bytes received, re-serialized JSON will not match.
func ValidSignature(secretKey string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhook decodes a verified webhook body.
func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
