package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"lists-ms/pkg/auth"
	"lists-ms/pkg/common"
	pkgerrors "lists-ms/pkg/errors"
)

// Headers set by the Lambda entrypoint from API Gateway authorizer claims.
// The entrypoint strips any client-supplied copies before setting them.
const (
	HeaderGatewayAuthorized = "X-API-Gateway-Authorized"
	HeaderUserID            = "X-User-ID"
	HeaderUserEmail         = "X-User-Email"
)

// Authenticator resolves the caller identity for every API request. Every
// failure is reported as 403.
type Authenticator struct {
	validator    *auth.JWTValidator
	trustGateway bool
	errors       *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewAuthenticator creates an authenticator. validator may be nil when no
// JWT secret is configured; bearer tokens are then rejected. trustGateway
// accepts the gateway identity headers and must only be enabled behind an
// entrypoint that sanitizes them.
func NewAuthenticator(validator *auth.JWTValidator, trustGateway bool, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		validator:    validator,
		trustGateway: trustGateway,
		errors:       errHandler,
		logger:       logger,
	}
}

// Middleware rejects unauthenticated requests and stores the caller in the
// request context
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.resolve(r)
		if err != nil {
			a.logger.Debug("Authentication failed",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			a.errors.Handle(w, r, err)
			return
		}

		ctx := auth.SetUserInContext(r.Context(), user)
		ctx = common.WithUserID(ctx, user.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) resolve(r *http.Request) (*auth.UserContext, error) {
	if a.trustGateway && r.Header.Get(HeaderGatewayAuthorized) == "true" {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			return nil, pkgerrors.NewMissingCredentialsError("Missing user context from API Gateway")
		}
		return &auth.UserContext{
			UserID: userID,
			Email:  r.Header.Get(HeaderUserEmail),
			Source: "api-gateway",
		}, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, pkgerrors.NewMissingCredentialsError("Missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, pkgerrors.NewInvalidCredentialsError("Invalid authorization header format", nil)
	}
	if a.validator == nil {
		return nil, pkgerrors.NewInvalidCredentialsError("Bearer authentication is not configured", nil)
	}

	claims, err := a.validator.ValidateToken(token)
	if err != nil {
		return nil, pkgerrors.NewInvalidCredentialsError("Invalid token", err)
	}

	return &auth.UserContext{
		UserID: claims.UserID,
		Email:  claims.Email,
		Source: "jwt",
	}, nil
}
