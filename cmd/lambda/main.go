package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lists-ms/infrastructure/config"
	"lists-ms/infrastructure/di"
	"lists-ms/interfaces/http/rest/middleware"
)

var (
	// chiLambda wraps the Chi router for AWS Lambda integration
	chiLambda *chiadapter.ChiLambda

	// container holds the dependency injection container
	container *di.Container

	coldStart     = true
	coldStartTime time.Time
)

// setup runs once per cold start, before the first invocation
func setup() {
	coldStartTime = time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// Identity arrives through the authorizer and is rewritten into headers
	// by Handler before routing.
	cfg.TrustGatewayHeaders = true

	container, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	chiRouter, ok := container.Router.Setup().(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.New(chiRouter)

	container.Logger.Info("Lambda cold start completed",
		zap.Duration("duration", time.Since(coldStartTime)),
	)
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req = withCallerHeaders(req)

	resp, err := chiLambda.ProxyWithContext(ctx, req)
	if err != nil {
		container.Logger.Error("Lambda proxy failed",
			zap.String("path", req.Path),
			zap.String("request_id", req.RequestContext.RequestID),
			zap.Error(err),
		)
		return resp, err
	}

	container.Logger.Debug("Lambda response",
		zap.String("method", req.HTTPMethod),
		zap.String("path", req.Path),
		zap.String("request_id", req.RequestContext.RequestID),
		zap.Int("status_code", resp.StatusCode),
		zap.Bool("cold_start", coldStart),
	)
	coldStart = false

	return resp, nil
}

var identityHeaders = []string{
	middleware.HeaderGatewayAuthorized,
	middleware.HeaderUserID,
	middleware.HeaderUserEmail,
}

// withCallerHeaders drops client-supplied identity headers and replaces
// them with the authorizer's view of the caller
func withCallerHeaders(req events.APIGatewayProxyRequest) events.APIGatewayProxyRequest {
	headers := make(map[string]string, len(req.Headers)+len(identityHeaders))
	for k, v := range req.Headers {
		if !isIdentityHeader(k) {
			headers[k] = v
		}
	}
	var multi map[string][]string
	if req.MultiValueHeaders != nil {
		multi = make(map[string][]string, len(req.MultiValueHeaders)+len(identityHeaders))
		for k, v := range req.MultiValueHeaders {
			if !isIdentityHeader(k) {
				multi[k] = v
			}
		}
	}

	set := func(k, v string) {
		headers[k] = v
		if multi != nil {
			multi[k] = []string{v}
		}
	}

	if userID, email := callerFromAuthorizer(req.RequestContext.Authorizer); userID != "" {
		set(middleware.HeaderGatewayAuthorized, "true")
		set(middleware.HeaderUserID, userID)
		if email != "" {
			set(middleware.HeaderUserEmail, email)
		}
	}

	req.Headers = headers
	req.MultiValueHeaders = multi
	return req
}

func isIdentityHeader(name string) bool {
	for _, h := range identityHeaders {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}

// callerFromAuthorizer reads the caller from Cognito user pool claims or,
// failing that, a custom authorizer's principalId
func callerFromAuthorizer(authorizer map[string]interface{}) (userID, email string) {
	if authorizer == nil {
		return "", ""
	}
	if claims, ok := authorizer["claims"].(map[string]interface{}); ok {
		userID, _ = claims["sub"].(string)
		email, _ = claims["email"].(string)
	}
	if userID == "" {
		userID, _ = authorizer["principalId"].(string)
	}
	if email == "" {
		email, _ = authorizer["email"].(string)
	}
	return strings.TrimSpace(userID), email
}

func main() {
	setup()
	lambda.Start(Handler)
}
