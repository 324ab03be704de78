// Package jwtgrpc provides unary and stream server interceptors that run the
// same bearer token gate as the HTTP middleware.
//
// Token absence passes through. A rejected token ends the call with
// codes.Unauthenticated and the public message of the failure. On success
// the user, principal and JWT context are attached to the handler context and
// can be read with core.UserFromContext and friends.
package jwtgrpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	jwtmiddleware "github.com/ismailkantarci/taxipartner-sub002"
	"github.com/ismailkantarci/taxipartner-sub002/core"
)

type grpcMiddlewareConfig struct {
	errorHandler     func(ctx context.Context, err *core.ValidationError) error
	exclusionChecker func(method string) bool
	tokenExtractor   TokenExtractor
	logger           jwtmiddleware.Logger
	metrics          jwtmiddleware.Metrics
}

// Middleware holds both interceptors around a shared core.
type Middleware struct {
	core   *core.Core
	config *grpcMiddlewareConfig
}

// New creates the gRPC middleware. Pass JWTMiddleware.Core() to share the
// gate with an HTTP server.
func New(c *core.Core, opts ...Option) (*Middleware, error) {
	if c == nil {
		return nil, ErrCoreNil
	}

	config := &grpcMiddlewareConfig{
		errorHandler:   defaultGRPCErrorHandler,
		tokenExtractor: MetadataTokenExtractor,
		metrics:        jwtmiddleware.NoopMetrics{},
	}
	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return &Middleware{core: c, config: config}, nil
}

func (m *Middleware) authenticate(ctx context.Context, method string) (context.Context, error) {
	if m.config.exclusionChecker != nil && m.config.exclusionChecker(method) {
		return ctx, nil
	}

	token := m.config.tokenExtractor(ctx)
	if token == "" {
		m.config.metrics.ObserveVerification(jwtmiddleware.OutcomeNoCredential, "", 0)
		return ctx, nil
	}

	start := time.Now()
	identity, err := m.core.CheckToken(ctx, token)
	duration := time.Since(start)

	if err != nil {
		verr := core.AsValidationError(err)
		m.config.metrics.ObserveVerification(jwtmiddleware.OutcomeRejected, verr.Code, duration)
		if m.config.logger != nil {
			m.config.logger.Warn("JWT validation failed", "code", verr.Code, "method", method)
		}
		return ctx, m.config.errorHandler(ctx, verr)
	}

	if identity == nil {
		m.config.metrics.ObserveVerification(jwtmiddleware.OutcomeAnonymous, "", duration)
		return ctx, nil
	}

	m.config.metrics.ObserveVerification(jwtmiddleware.OutcomeAuthenticated, "", duration)
	return core.SetIdentity(ctx, identity), nil
}

// UnaryServerInterceptor returns the interceptor for unary methods.
func (m *Middleware) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, err := m.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor returns the interceptor for streaming methods.
func (m *Middleware) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := m.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: ctx})
	}
}

// RequireUser returns the authenticated user or an Unauthenticated error.
func RequireUser(ctx context.Context) (*core.User, error) {
	user := core.UserFromContext(ctx)
	if user == nil {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	return user, nil
}

func defaultGRPCErrorHandler(_ context.Context, err *core.ValidationError) error {
	return status.Error(codes.Unauthenticated, err.Message)
}

// wrappedServerStream overrides Context so that stream handlers see the identity.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
