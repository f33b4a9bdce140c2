package middleware

import (
	"net/http"
	"strings"

	"github.com/fitbloom/fitbloom/internal/ctxkeys"
	"github.com/fitbloom/fitbloom/internal/service"
)

// RequireUser rejects requests without a valid user token and stores the
// user's id in the request context.
func RequireUser(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return requirePrincipal(authService, service.PrincipalUser, func(r *http.Request, id string) *http.Request {
		return r.WithContext(ctxkeys.WithUserID(r.Context(), id))
	})
}

// RequireDoctor is RequireUser for doctor tokens.
func RequireDoctor(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return requirePrincipal(authService, service.PrincipalDoctor, func(r *http.Request, id string) *http.Request {
		return r.WithContext(ctxkeys.WithDoctorID(r.Context(), id))
	})
}

func requirePrincipal(authService *service.AuthService, principal string, attach func(*http.Request, string) *http.Request) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			claims, err := authService.VerifyJWT(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			if claims.Principal != principal {
				if principal == service.PrincipalDoctor {
					writeError(w, http.StatusForbidden, "Doctor access required")
				} else {
					writeError(w, http.StatusForbidden, "User access required")
				}
				return
			}

			next(w, attach(r, claims.Subject))
		}
	}
}

// bearerToken returns the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
