package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skip2/go-qrcode"
)

const (
	pilotTokenExpiry = 12 * time.Hour
	pilotSubject     = "pilot"
	pairingSecretKey = "pairing_secret"
	qrSize           = 256
)

var ErrInvalidToken = errors.New("invalid pilot token")

// Pairing issues and checks the tokens that let one websocket client fly the
// local ship. Tokens are bound to the server instance through the audience claim.
type Pairing struct {
	secret    []byte
	instance  string
	publicURL string
	now       func() time.Time
}

// NewPairing creates a pairing authority. An empty secret is loaded from db
// settings, or generated and persisted when none is stored.
func NewPairing(secret, publicURL string, db *DB) (*Pairing, error) {
	key, err := loadOrCreateSecret(secret, db)
	if err != nil {
		return nil, err
	}
	return &Pairing{
		secret:    key,
		instance:  GenerateID(8),
		publicURL: publicURL,
		now:       time.Now,
	}, nil
}

func loadOrCreateSecret(secret string, db *DB) ([]byte, error) {
	if secret != "" {
		return []byte(secret), nil
	}
	if db != nil {
		if h := db.GetSetting(pairingSecretKey); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b, nil
			}
		}
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate pairing secret: %w", err)
	}
	if db != nil {
		if err := db.SetSetting(pairingSecretKey, hex.EncodeToString(key)); err != nil {
			return nil, fmt.Errorf("persist pairing secret: %w", err)
		}
	}
	return key, nil
}

// Issue returns a signed pilot token for this server instance
func (p *Pairing) Issue() (string, error) {
	now := p.now()
	claims := jwt.RegisteredClaims{
		Subject:   pilotSubject,
		Audience:  jwt.ClaimStrings{p.instance},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(pilotTokenExpiry)),
		ID:        GenerateID(6),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign pilot token: %w", err)
	}
	return s, nil
}

// Validate checks signature, expiry, subject and audience of a pilot token
func (p *Pairing) Validate(tokenStr string) error {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(p.instance),
		jwt.WithSubject(pilotSubject),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// URL returns the link a phone opens to pilot the ship
func (p *Pairing) URL(token string) string {
	base := p.publicURL
	if base == "" {
		base = "http://localhost:8080/"
	}
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// QRCode issues a fresh token and renders its pairing URL as a PNG
func (p *Pairing) QRCode() ([]byte, error) {
	token, err := p.Issue()
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(p.URL(token), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
