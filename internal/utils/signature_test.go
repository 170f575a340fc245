package utils

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestSignatureRoundtrip(t *testing.T) {
    payload := []byte(`{"order_ref":"LAB-20260823-000001","status":"READY"}`)

    sig := GenerateSignature(payload, "nt_secret_abc")
    assert.Len(t, sig, 64)
    assert.True(t, VerifySignature(payload, sig, "nt_secret_abc"))
}

func TestSignatureRejectsWrongSecret(t *testing.T) {
    payload := []byte(`{"order_ref":"LAB-20260823-000001"}`)

    sig := GenerateSignature(payload, "nt_secret_abc")
    assert.False(t, VerifySignature(payload, sig, "nt_secret_other"))
}

func TestSignatureRejectsTamperedPayload(t *testing.T) {
    sig := GenerateSignature([]byte(`{"status":"READY"}`), "nt_secret_abc")
    assert.False(t, VerifySignature([]byte(`{"status":"REJECTED"}`), sig, "nt_secret_abc"))
}
