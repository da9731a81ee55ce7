package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"testing"

	"stagelink/models"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "sk_test_abc123"
	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1"}}`)

	if !VerifyWebhookSignature(secret, body, sign(secret, body)) {
		t.Error("valid signature rejected")
	}
	if VerifyWebhookSignature(secret, body, sign("sk_other_key", body)) {
		t.Error("signature from the wrong key accepted")
	}
	if VerifyWebhookSignature(secret, []byte(`{"event":"tampered"}`), sign(secret, body)) {
		t.Error("signature over a different body accepted")
	}
	if VerifyWebhookSignature(secret, body, "") {
		t.Error("empty signature accepted")
	}
	if VerifyWebhookSignature("", body, sign("", body)) {
		t.Error("verification ran with no secret configured")
	}
}

func TestWebhookEventDecoding(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"ref_42","status":"success","amount":50000}}`)

	var evt models.PaystackWebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		t.Fatalf("failed to decode webhook payload: %v", err)
	}
	if evt.Event != "charge.success" {
		t.Errorf("event = %s, want charge.success", evt.Event)
	}
	var data struct {
		Reference string `json:"reference"`
	}
	if err := json.Unmarshal(evt.Data, &data); err != nil {
		t.Fatalf("failed to decode event data: %v", err)
	}
	if data.Reference != "ref_42" {
		t.Errorf("reference = %s, want ref_42", data.Reference)
	}
}
