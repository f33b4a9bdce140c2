package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/repository"
	"github.com/fitbloom/fitbloom/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	PrincipalUser   = "user"
	PrincipalDoctor = "doctor"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Claims identifies the bearer of a verified token.
type Claims struct {
	Subject   string
	Principal string
}

type AuthService struct {
	userRepository repository.UserRepository
	emailService   *EmailService
	jwtSecret      string
	userExpiry     time.Duration
	doctorExpiry   time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	emailService *EmailService,
	jwtSecret string,
	userExpiry time.Duration,
	doctorExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		emailService:   emailService,
		jwtSecret:      jwtSecret,
		userExpiry:     userExpiry,
		doctorExpiry:   doctorExpiry,
	}
}

// Register creates an account and returns it with a fresh token.
func (s *AuthService) Register(name, email, password string) (*model.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	err := validateCredentials(name, email, password)
	if err != nil {
		return nil, "", err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateJWT(user.ID, PrincipalUser)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.emailService.SendWelcomeEmail(user.Email, user.Name)
	if err != nil {
		slog.Error("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	return user, token, nil
}

func (s *AuthService) Login(email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(user.ID, PrincipalUser)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateJWT signs a token for a user or a doctor. Doctor sessions last longer.
func (s *AuthService) GenerateJWT(subject, principal string) (string, error) {
	expiry := s.userExpiry
	if principal == PrincipalDoctor {
		expiry = s.doctorExpiry
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"type": principal,
		"exp":  now.Add(expiry).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	principal, _ := claims["type"].(string)
	if subject == "" || (principal != PrincipalUser && principal != PrincipalDoctor) {
		return nil, ErrInvalidToken
	}

	return &Claims{Subject: subject, Principal: principal}, nil
}

func validateCredentials(name, email, password string) error {
	err := validation.ValidateName(name)
	if err != nil {
		return invalid("name", "%s", capitalize(err.Error()))
	}

	err = validation.ValidateEmail(email)
	if err != nil {
		return invalid("email", "%s", capitalize(err.Error()))
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return invalid("password", "%s", capitalize(err.Error()))
	}

	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
