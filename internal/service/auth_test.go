package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServices(t)

	user, token, err := s.auth.Register(" Ann Lee ", "Ann@Example.com", "green-tea-42")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ann@example.com" || user.Name != "Ann Lee" {
		t.Errorf("user = %+v", user)
	}

	claims, err := s.auth.VerifyJWT(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != user.ID || claims.Principal != PrincipalUser {
		t.Errorf("claims = %+v", claims)
	}

	loggedIn, _, err := s.auth.Login("ANN@example.com", "green-tea-42")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("login returned %s, want %s", loggedIn.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServices(t)

	if _, _, err := s.auth.Register("Ann", "ann@example.com", "green-tea-42"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := s.auth.Register("Other Ann", "ANN@example.com", "green-tea-42")
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("err = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServices(t)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"short name", "A", "ann@example.com", "green-tea-42"},
		{"bad email", "Ann", "not-an-email", "green-tea-42"},
		{"short password", "Ann", "ann@example.com", "abc"},
		{"common password", "Ann", "ann@example.com", "mypassword1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.auth.Register(tt.userName, tt.email, tt.password)
			wantValidation(t, err, "")
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	s := newTestServices(t)
	if _, _, err := s.auth.Register("Ann", "ann@example.com", "green-tea-42"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := s.auth.Login("ann@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, _, err := s.auth.Login("nobody@example.com", "green-tea-42"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", err)
	}
}

func TestDoctorTokenExpiry(t *testing.T) {
	s := newTestServices(t)

	token, err := s.auth.GenerateJWT("doc-1", PrincipalDoctor)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := s.auth.VerifyJWT(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Principal != PrincipalDoctor {
		t.Errorf("principal = %q", claims.Principal)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		t.Fatalf("exp: %v", err)
	}
	if until := time.Until(exp.Time); until < 29*24*time.Hour {
		t.Errorf("doctor token expires in %v, want about 30 days", until)
	}
}

func TestVerifyJWTRejects(t *testing.T) {
	s := newTestServices(t)

	other := NewAuthService(s.users, nil, "another-secret", time.Hour, time.Hour)
	foreign, _ := other.GenerateJWT("user-1", PrincipalUser)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"type": PrincipalUser,
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})
	expiredToken, _ := expired.SignedString([]byte(testSecret))

	untyped := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	untypedToken, _ := untyped.SignedString([]byte(testSecret))

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": foreign,
		"expired":      expiredToken,
		"missing type": untypedToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.auth.VerifyJWT(token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	s := newTestServices(t)
	users := NewUserService(s.users)

	ann, _, _ := s.auth.Register("Ann", "ann@example.com", "green-tea-42")
	if _, _, err := s.auth.Register("Bob", "bob@example.com", "green-tea-42"); err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := users.UpdateProfile(ann.ID, ptr("Ann Marie"), nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Ann Marie" || updated.Email != "ann@example.com" {
		t.Errorf("updated = %+v", updated)
	}

	_, err = users.UpdateProfile(ann.ID, nil, ptr("bob@example.com"))
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("err = %v, want ErrEmailAlreadyExists", err)
	}
}
