package token

import (
	"fmt"
	"time"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTTL  = time.Hour
	contentType = "twilio-fpa;v=1"
)

type Config struct {
	AccountSID     string
	APIKey         string
	APISecret      string
	ApplicationSID string
	TTL            time.Duration
}

// Issuer signs softphone access tokens carrying a voice grant, in the format
// the provider's client SDK expects.
//
// implements port.TokenIssuer
type Issuer struct {
	cfg Config
	now func() time.Time
}

func NewIssuer(cfg Config) *Issuer {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Issuer{cfg: cfg, now: time.Now}
}

type AccessClaims struct {
	jwt.RegisteredClaims
	Grants Grants `json:"grants"`
}

type Grants struct {
	Identity string      `json:"identity"`
	Voice    *VoiceGrant `json:"voice,omitempty"`
}

type VoiceGrant struct {
	Incoming *IncomingGrant `json:"incoming,omitempty"`
	Outgoing *OutgoingGrant `json:"outgoing,omitempty"`
}

type IncomingGrant struct {
	Allow bool `json:"allow"`
}

type OutgoingGrant struct {
	ApplicationSID string `json:"application_sid"`
}

func (i *Issuer) Issue(identity string) (domain.AccessToken, error) {
	if identity == "" {
		return domain.AccessToken{}, domain.ErrEmptyIdentity
	}

	now := i.now()
	expires := now.Add(i.cfg.TTL)

	voice := &VoiceGrant{Incoming: &IncomingGrant{Allow: true}}
	if i.cfg.ApplicationSID != "" {
		voice.Outgoing = &OutgoingGrant{ApplicationSID: i.cfg.ApplicationSID}
	}

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        fmt.Sprintf("%s-%d", i.cfg.APIKey, now.Unix()),
			Issuer:    i.cfg.APIKey,
			Subject:   i.cfg.AccountSID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Grants: Grants{Identity: identity, Voice: voice},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["cty"] = contentType

	signed, err := token.SignedString([]byte(i.cfg.APISecret))
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("signing access token: %w", err)
	}

	return domain.AccessToken{
		Identity:  identity,
		Token:     signed,
		ExpiresAt: expires.UTC(),
	}, nil
}
