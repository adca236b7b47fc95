// Package invoice issues signed, self-contained invoice tokens for finished sessions.
package invoice

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"charginguu/backend/services/sessions-service/internal/engine"
	"charginguu/backend/services/sessions-service/internal/models"
)

// ErrInvalidToken is returned for tokens that fail signature or claim checks.
var ErrInvalidToken = errors.New("invoice: invalid token")

// Claims is the invoice payload carried inside the token.
type Claims struct {
	SessionID       string  `json:"sid"`
	SpotName        string  `json:"spot"`
	DurationSeconds int64   `json:"dur"`
	ChargingCost    float64 `json:"chg"`
	OvertimeCharge  float64 `json:"ovt"`
	TotalCost       float64 `json:"tot"`
	jwt.RegisteredClaims
}

// View is the rendered invoice.
type View struct {
	Number         string    `json:"number"`
	SessionID      string    `json:"session_id"`
	SpotName       string    `json:"spot_name"`
	Duration       string    `json:"duration"`
	ChargingCost   string    `json:"charging_cost"`
	OvertimeCharge string    `json:"overtime_charge"`
	TotalCost      string    `json:"total_cost"`
	IssuedAt       time.Time `json:"issued_at"`
}

// Issuer signs and verifies invoice tokens with HS256.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns configured issuer. A non-positive ttl defaults to 30 days.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an invoice for the summary.
func (i *Issuer) Issue(summary *models.SessionSummary) (string, error) {
	if summary == nil || summary.ID == "" {
		return "", errors.New("invoice: session id is required")
	}

	now := i.now().UTC()
	claims := Claims{
		SessionID:       summary.ID,
		SpotName:        summary.SpotName,
		DurationSeconds: summary.DurationSeconds,
		ChargingCost:    summary.ChargingCost,
		OvertimeCharge:  summary.OvertimeCharge,
		TotalCost:       summary.TotalCost,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "INV-" + summary.ID,
			Subject:   summary.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse verifies a token and decodes its claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invoice: unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Render turns verified claims into a printable invoice.
func Render(c *Claims) View {
	var issued time.Time
	if c.IssuedAt != nil {
		issued = c.IssuedAt.Time.UTC()
	}
	return View{
		Number:         c.ID,
		SessionID:      c.SessionID,
		SpotName:       c.SpotName,
		Duration:       engine.FormatDuration(c.DurationSeconds),
		ChargingCost:   engine.FormatCost(c.ChargingCost),
		OvertimeCharge: engine.FormatCost(c.OvertimeCharge),
		TotalCost:      engine.FormatCost(c.TotalCost),
		IssuedAt:       issued,
	}
}
