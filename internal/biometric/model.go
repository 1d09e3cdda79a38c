package biometric

import (
	"encoding/json"
	"time"
)

// Credential is a stored WebAuthn public-key credential. The ID and public
// key are kept base64-encoded, matching what authenticators hand back.
type Credential struct {
	ID              string    `db:"id" json:"id"`
	MemberID        int       `db:"member_id" json:"member_id"`
	PublicKey       string    `db:"public_key" json:"-"`
	Counter         int64     `db:"counter" json:"counter"`
	Transports      *string   `db:"transports" json:"transports,omitempty"`
	AttestationType string    `db:"attestation_type" json:"attestation_type"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type OptionsRequest struct {
	MemberID int `json:"member_id" binding:"required"`
}

type VerifyRegistrationRequest struct {
	MemberID int             `json:"member_id" binding:"required"`
	Response json.RawMessage `json:"response" binding:"required"`
}

type VerifyAuthRequest struct {
	MemberID int             `json:"member_id" binding:"required"`
	Type     string          `json:"type" binding:"omitempty,oneof=in out"`
	Response json.RawMessage `json:"response" binding:"required"`
}

type VerifyResponse struct {
	Verified bool   `json:"verified"`
	Type     string `json:"type,omitempty"`
	Message  string `json:"message,omitempty"`
}
