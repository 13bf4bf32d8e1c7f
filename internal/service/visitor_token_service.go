package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// VisitorClaims 访客令牌声明
type VisitorClaims struct {
	VisitorID string `json:"visitor_id"`
	jwt.RegisteredClaims
}

// VisitorToken 签发结果
type VisitorToken struct {
	Token     string    `json:"token"`
	VisitorID string    `json:"visitor_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VisitorTokenService 匿名访客令牌签发与校验
type VisitorTokenService struct {
	secret      []byte
	expireHours int
}

// NewVisitorTokenService 创建访客令牌服务
func NewVisitorTokenService(secret string, expireHours int) *VisitorTokenService {
	if expireHours <= 0 {
		expireHours = 24 * 30
	}
	return &VisitorTokenService{secret: []byte(secret), expireHours: expireHours}
}

// Issue 签发令牌；visitorID 为空时生成新的访客 ID，否则续签
func (s *VisitorTokenService) Issue(visitorID string) (*VisitorToken, error) {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		visitorID = uuid.NewString()
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.expireHours) * time.Hour)
	claims := VisitorClaims{
		VisitorID: visitorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   visitorID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &VisitorToken{Token: tokenString, VisitorID: visitorID, ExpiresAt: expiresAt}, nil
}

// Parse 校验令牌并返回声明
func (s *VisitorTokenService) Parse(tokenString string) (*VisitorClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &VisitorClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrSessionInvalid, err)
	}
	if !token.Valid || strings.TrimSpace(claims.VisitorID) == "" {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}
