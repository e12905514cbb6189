package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fbrportal/pkg/models"
)

// Claims are the token claims the portal reads. The signature is not
// checked; the backend verifies tokens on every request.
type Claims struct {
	Subject   string
	TenantID  models.ID
	ExpiresAt time.Time // zero when the token carries no exp
}

var claimsParser = jwt.NewParser(jwt.WithJSONNumber())

// DecodeClaims reads the claims of token without verifying it.
func DecodeClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := claimsParser.ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("session: decode token: %w", err)
	}

	var c Claims
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("session: decode token: %w", err)
	}
	if exp != nil {
		c.ExpiresAt = exp.Time
	}

	switch tid := mc["tid"].(type) {
	case string:
		c.TenantID = models.ID(tid)
	case json.Number:
		c.TenantID = models.ID(tid.String())
	}
	return c, nil
}
