package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token emitidos. Um refresh token nunca é aceito como access token e vice-versa.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

const issuer = "WareHub-API"

// ErrWrongTokenType é retornado quando o token é válido mas de outro tipo.
var ErrWrongTokenType = errors.New("tipo de token inesperado")

// TokenService define o contrato para manipulação de JWTs.
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
	GenerateRefreshToken(userID string) (tokenString string, jti string, err error)
	ValidateToken(tokenString string) (*CustomClaims, error)
	ValidateRefreshToken(tokenString string) (*CustomClaims, error)
	AccessExpiry() time.Duration
	RefreshExpiry() time.Duration
}

// CustomClaims define as informações específicas que queremos armazenar no JWT.
type CustomClaims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Service implementa a interface TokenService com HS256.
type Service struct {
	secretKey     []byte
	expiry        time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewService cria uma nova instância do serviço Token.
func NewService(secretKey string, expiry, refreshExpiry time.Duration) *Service {
	return &Service{
		secretKey:     []byte(secretKey),
		expiry:        expiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}
}

func (s *Service) AccessExpiry() time.Duration  { return s.expiry }
func (s *Service) RefreshExpiry() time.Duration { return s.refreshExpiry }

// GenerateToken cria um novo access token assinado contendo o ID e a Role do usuário.
func (s *Service) GenerateToken(userID string, userRole string) (string, error) {
	return s.sign(CustomClaims{
		UserID:           userID,
		Role:             userRole,
		TokenType:        TypeAccess,
		RegisteredClaims: s.registered(userID, uuid.NewString(), s.expiry),
	})
}

// GenerateRefreshToken cria um refresh token e retorna também o seu JTI,
// usado como chave de revogação no armazenamento de sessões.
func (s *Service) GenerateRefreshToken(userID string) (string, string, error) {
	jti := uuid.NewString()
	tokenString, err := s.sign(CustomClaims{
		UserID:           userID,
		TokenType:        TypeRefresh,
		RegisteredClaims: s.registered(userID, jti, s.refreshExpiry),
	})
	return tokenString, jti, err
}

// ValidateToken valida um access token e retorna as claims se for válido.
func (s *Service) ValidateToken(tokenString string) (*CustomClaims, error) {
	return s.validate(tokenString, TypeAccess)
}

// ValidateRefreshToken valida um refresh token e retorna as claims se for válido.
func (s *Service) ValidateRefreshToken(tokenString string) (*CustomClaims, error) {
	return s.validate(tokenString, TypeRefresh)
}

func (s *Service) registered(subject, jti string, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		ID:        jti,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   subject,
	}
}

func (s *Service) sign(claims CustomClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}
	return tokenString, nil
}

func (s *Service) validate(tokenString, expectedType string) (*CustomClaims, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("token inválido: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token não é válido")
	}

	if claims.TokenType != expectedType {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}
