package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// InvoiceTokenManager signs short-lived tokens that authorize downloading a
// single order invoice without an active session. Links stay shareable but
// expire and are bound to one order/user pair.
type InvoiceTokenManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewInvoiceTokenManager(secret string, ttl time.Duration) *InvoiceTokenManager {
	return &InvoiceTokenManager{Secret: []byte(secret), TTL: ttl}
}

type InvoiceClaims struct {
	OrderID string `json:"oid"`
	UserID  string `json:"uid"`
	jwt.RegisteredClaims
}

func (m *InvoiceTokenManager) Generate(orderID, userID string) (string, time.Time, error) {
	exp := time.Now().Add(m.TTL)
	claims := &InvoiceClaims{
		OrderID: orderID,
		UserID:  userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *InvoiceTokenManager) Parse(tokenStr string) (*InvoiceClaims, error) {
	claims := &InvoiceClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
