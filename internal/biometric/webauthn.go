package biometric

import (
	"encoding/base64"
	"strconv"
	"strings"

	"gymdesk/internal/member"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// waUser adapts a gym member and their stored credentials to the
// webauthn.User interface the verifier library works against.
type waUser struct {
	member      *member.Member
	credentials []webauthn.Credential
}

func newWAUser(m *member.Member, creds []Credential) (*waUser, error) {
	u := &waUser{member: m}

	for _, c := range creds {
		wc, err := toLibraryCredential(c)
		if err != nil {
			return nil, err
		}
		u.credentials = append(u.credentials, *wc)
	}

	return u, nil
}

func (u *waUser) WebAuthnID() []byte {
	return []byte(strconv.Itoa(u.member.ID))
}

func (u *waUser) WebAuthnName() string {
	if u.member.Email != nil && *u.member.Email != "" {
		return *u.member.Email
	}
	return "member-" + strconv.Itoa(u.member.ID)
}

func (u *waUser) WebAuthnDisplayName() string {
	return u.member.FirstName + " " + u.member.LastName
}

func (u *waUser) WebAuthnCredentials() []webauthn.Credential {
	return u.credentials
}

func (u *waUser) WebAuthnIcon() string {
	return ""
}

func toLibraryCredential(c Credential) (*webauthn.Credential, error) {
	id, err := base64.RawURLEncoding.DecodeString(c.ID)
	if err != nil {
		return nil, err
	}

	publicKey, err := base64.StdEncoding.DecodeString(c.PublicKey)
	if err != nil {
		return nil, err
	}

	cred := &webauthn.Credential{
		ID:              id,
		PublicKey:       publicKey,
		AttestationType: c.AttestationType,
		Authenticator: webauthn.Authenticator{
			SignCount: uint32(c.Counter),
		},
	}

	if c.Transports != nil && *c.Transports != "" {
		for _, t := range strings.Split(*c.Transports, ",") {
			cred.Transport = append(cred.Transport, protocol.AuthenticatorTransport(t))
		}
	}

	return cred, nil
}

func toStoredCredential(memberID int, cred *webauthn.Credential) *Credential {
	stored := &Credential{
		ID:              base64.RawURLEncoding.EncodeToString(cred.ID),
		MemberID:        memberID,
		PublicKey:       base64.StdEncoding.EncodeToString(cred.PublicKey),
		Counter:         int64(cred.Authenticator.SignCount),
		AttestationType: cred.AttestationType,
	}

	if len(cred.Transport) > 0 {
		transports := make([]string, 0, len(cred.Transport))
		for _, t := range cred.Transport {
			transports = append(transports, string(t))
		}
		joined := strings.Join(transports, ",")
		stored.Transports = &joined
	}

	return stored
}
