package biometric

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gymdesk/internal/attendance"
	"gymdesk/internal/config"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/jmoiron/sqlx"
)

const challengeTTL = 5 * time.Minute

type Handler struct {
	wa             *webauthn.WebAuthn
	store          *ChallengeStore
	repo           *Repository
	memberRepo     *member.Repository
	attendanceRepo *attendance.Repository
}

func NewHandler(db *sqlx.DB, cfg *config.Config) (*Handler, error) {
	wa, err := webauthn.New(&webauthn.Config{
		RPDisplayName: cfg.RPName,
		RPID:          cfg.RPID,
		RPOrigins:     []string{cfg.RPOrigin},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create webauthn verifier: %w", err)
	}

	return &Handler{
		wa:             wa,
		store:          NewChallengeStore(challengeTTL),
		repo:           NewRepository(db),
		memberRepo:     member.NewRepository(db),
		attendanceRepo: attendance.NewRepository(db),
	}, nil
}

func regKey(memberID int) string {
	return fmt.Sprintf("reg-%d", memberID)
}

func authKey(memberID int) string {
	return fmt.Sprintf("auth-%d", memberID)
}

// RegisterOptions godoc
// @Summary      Begin fingerprint registration
// @Description  Generates WebAuthn registration options for a member and
// @Description  stores the challenge for the follow-up verify call.
// @Tags         biometrics
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      OptionsRequest  true  "Member"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/biometrics/register/options [post]
func (h *Handler) RegisterOptions(c *gin.Context) {
	var req OptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	m, err := h.memberRepo.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		logger.Errorf("Failed to load member %d: %v", req.MemberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	creds, err := h.repo.GetByMember(ctx, m.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	user, err := newWAUser(m, creds)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored credential is corrupt"})
		return
	}

	// Platform authenticator only: the kiosk flow targets the device's
	// built-in fingerprint sensor.
	options, session, err := h.wa.BeginRegistration(user,
		webauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
			AuthenticatorAttachment: protocol.Platform,
			ResidentKey:             protocol.ResidentKeyRequirementDiscouraged,
			UserVerification:        protocol.VerificationPreferred,
		}),
	)
	if err != nil {
		logger.Errorf("Failed to generate registration options for member %d: %v", m.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate options"})
		return
	}

	h.store.Put(regKey(m.ID), *session)

	c.JSON(http.StatusOK, options)
}

// RegisterVerify godoc
// @Summary      Finish fingerprint registration
// @Description  Verifies the authenticator's attestation response and
// @Description  persists the new credential. Challenges are single-use.
// @Tags         biometrics
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyRegistrationRequest  true  "Attestation response"
// @Success      200      {object}  VerifyResponse
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/biometrics/register/verify [post]
func (h *Handler) RegisterVerify(c *gin.Context) {
	var req VerifyRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	session, ok := h.store.Take(regKey(req.MemberID))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge expired or not found"})
		return
	}

	m, err := h.memberRepo.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		logger.Errorf("Failed to load member %d: %v", req.MemberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	creds, err := h.repo.GetByMember(ctx, m.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	user, err := newWAUser(m, creds)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored credential is corrupt"})
		return
	}

	parsed, err := protocol.ParseCredentialCreationResponseBody(bytes.NewReader(req.Response))
	if err != nil {
		metrics.RecordBiometricVerification("registration", "failed")
		c.JSON(http.StatusBadRequest, VerifyResponse{Verified: false, Message: "Verification failed"})
		return
	}

	credential, err := h.wa.CreateCredential(user, session, parsed)
	if err != nil {
		metrics.RecordBiometricVerification("registration", "failed")
		c.JSON(http.StatusBadRequest, VerifyResponse{Verified: false, Message: "Verification failed"})
		return
	}

	if err := h.repo.Create(ctx, toStoredCredential(m.ID, credential)); err != nil {
		logger.Errorf("Failed to store credential for member %d: %v", m.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store credential"})
		return
	}

	metrics.RecordBiometricVerification("registration", "verified")
	c.JSON(http.StatusOK, VerifyResponse{Verified: true})
}

// AuthOptions godoc
// @Summary      Begin fingerprint authentication
// @Description  Returns an allow-list of the member's credentials and a
// @Description  fresh challenge.
// @Tags         biometrics
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      OptionsRequest  true  "Member"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/biometrics/auth/options [post]
func (h *Handler) AuthOptions(c *gin.Context) {
	var req OptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	m, err := h.memberRepo.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		logger.Errorf("Failed to load member %d: %v", req.MemberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	creds, err := h.repo.GetByMember(ctx, m.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if len(creds) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fingerprints registered"})
		return
	}

	user, err := newWAUser(m, creds)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored credential is corrupt"})
		return
	}

	allowed := make([]protocol.CredentialDescriptor, 0, len(user.credentials))
	for _, cred := range user.credentials {
		allowed = append(allowed, protocol.CredentialDescriptor{
			Type:         protocol.PublicKeyCredentialType,
			CredentialID: cred.ID,
		})
	}

	options, session, err := h.wa.BeginLogin(user, webauthn.WithAllowedCredentials(allowed))
	if err != nil {
		logger.Errorf("Failed to generate auth options for member %d: %v", m.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate options"})
		return
	}

	h.store.Put(authKey(m.ID), *session)

	c.JSON(http.StatusOK, options)
}

// AuthVerify godoc
// @Summary      Finish fingerprint authentication
// @Description  Verifies the assertion, bumps the signature counter, and
// @Description  performs the requested check-in or check-out.
// @Tags         biometrics
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyAuthRequest  true  "Assertion response"
// @Success      200      {object}  VerifyResponse
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/biometrics/auth/verify [post]
func (h *Handler) AuthVerify(c *gin.Context) {
	var req VerifyAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	direction := req.Type
	if direction == "" {
		direction = attendance.DirectionIn
	}

	ctx := c.Request.Context()

	session, ok := h.store.Take(authKey(req.MemberID))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge expired"})
		return
	}

	m, err := h.memberRepo.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		logger.Errorf("Failed to load member %d: %v", req.MemberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	creds, err := h.repo.GetByMember(ctx, m.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	user, err := newWAUser(m, creds)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored credential is corrupt"})
		return
	}

	parsed, err := protocol.ParseCredentialRequestResponseBody(bytes.NewReader(req.Response))
	if err != nil {
		metrics.RecordBiometricVerification("authentication", "failed")
		c.JSON(http.StatusBadRequest, VerifyResponse{Verified: false})
		return
	}

	// The verifier checks the signature counter here, which is what
	// catches cloned authenticators.
	credential, err := h.wa.ValidateLogin(user, session, parsed)
	if err != nil {
		metrics.RecordBiometricVerification("authentication", "failed")
		c.JSON(http.StatusBadRequest, VerifyResponse{Verified: false})
		return
	}

	credID := base64.RawURLEncoding.EncodeToString(credential.ID)
	if err := h.repo.UpdateCounter(ctx, credID, int64(credential.Authenticator.SignCount)); err != nil {
		logger.Errorf("Failed to update counter for credential %s: %v", credID, err)
	}

	metrics.RecordBiometricVerification("authentication", "verified")

	today := attendance.LocalDate()
	message := ""

	if direction == attendance.DirectionIn {
		if _, err := h.attendanceRepo.CheckIn(ctx, m.ID, attendance.MethodFingerprint, today); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record check-in"})
			return
		}
		metrics.RecordCheckIn(attendance.MethodFingerprint)
	} else {
		err := h.attendanceRepo.CheckOut(ctx, m.ID, today)
		if err != nil && !errors.Is(err, attendance.ErrNoOpenCheckIn) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record check-out"})
			return
		}
		// A check-out with no open session still counts as a verified
		// scan; the caller only gets a note about it.
		if errors.Is(err, attendance.ErrNoOpenCheckIn) {
			message = "No active check-in found for today"
		}
	}

	c.JSON(http.StatusOK, VerifyResponse{Verified: true, Type: direction, Message: message})
}
