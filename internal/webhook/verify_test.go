package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"action":"submitted"}`)
	secret := "test-secret"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	valid := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	tests := []struct {
		name    string
		payload []byte
		header  string
		secret  string
		wantErr bool
	}{
		{
			name:    "valid signature",
			payload: payload,
			header:  valid,
			secret:  secret,
			wantErr: false,
		},
		{
			name:    "missing header",
			payload: payload,
			header:  "",
			secret:  secret,
			wantErr: true,
		},
		{
			name:    "wrong prefix",
			payload: payload,
			header:  "sha1=deadbeef",
			secret:  secret,
			wantErr: true,
		},
		{
			name:    "wrong secret",
			payload: payload,
			header:  valid,
			secret:  "other-secret",
			wantErr: true,
		},
		{
			name:    "tampered payload",
			payload: []byte(`{"action":"dismissed"}`),
			header:  valid,
			secret:  secret,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(tt.payload, tt.header, tt.secret)
			if (err != nil) != tt.wantErr {
				t.Errorf("VerifySignature() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
