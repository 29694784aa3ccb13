package main

import (
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
)

func TestCallerFromAuthorizer(t *testing.T) {
	tests := []struct {
		name       string
		authorizer map[string]interface{}
		wantUser   string
		wantEmail  string
	}{
		{name: "nil", authorizer: nil},
		{
			name:       "cognito claims",
			authorizer: map[string]interface{}{"claims": map[string]interface{}{"sub": "u1", "email": "u1@example.com"}},
			wantUser:   "u1",
			wantEmail:  "u1@example.com",
		},
		{
			name:       "custom authorizer",
			authorizer: map[string]interface{}{"principalId": "u2"},
			wantUser:   "u2",
		},
		{
			name:       "claims without sub fall back to principal",
			authorizer: map[string]interface{}{"claims": map[string]interface{}{}, "principalId": "u3"},
			wantUser:   "u3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, email := callerFromAuthorizer(tt.authorizer)
			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantEmail, email)
		})
	}
}

func TestWithCallerHeaders_StripsSpoofedIdentity(t *testing.T) {
	req := events.APIGatewayProxyRequest{
		Headers: map[string]string{
			"x-user-id":                "attacker",
			"X-API-Gateway-Authorized": "true",
			"Content-Type":             "application/json",
		},
		MultiValueHeaders: map[string][]string{
			"x-user-id":    {"attacker"},
			"Content-Type": {"application/json"},
		},
	}

	out := withCallerHeaders(req)

	assert.Equal(t, map[string]string{"Content-Type": "application/json"}, out.Headers)
	assert.Equal(t, map[string][]string{"Content-Type": {"application/json"}}, out.MultiValueHeaders)
}

func TestWithCallerHeaders_SetsAuthorizerIdentity(t *testing.T) {
	req := events.APIGatewayProxyRequest{
		Headers: map[string]string{"X-User-ID": "attacker"},
	}
	req.RequestContext.Authorizer = map[string]interface{}{"principalId": "u1"}

	out := withCallerHeaders(req)

	assert.Equal(t, "u1", out.Headers["X-User-ID"])
	assert.Equal(t, "true", out.Headers["X-API-Gateway-Authorized"])
	assert.Nil(t, out.MultiValueHeaders)
}
