// Package jwtecho adapts the bearer token middleware to echo.
package jwtecho

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	jwtmiddleware "github.com/ismailkantarci/taxipartner-sub002"
	"github.com/ismailkantarci/taxipartner-sub002/core"
)

// Keys under which the identity is stored in the echo context.
const (
	UserKey      = "user"
	PrincipalKey = "principal"
	JWTKey       = "jwt"
)

type echoContextKey struct{}

type echoMiddlewareConfig struct {
	errorHandler      func(echo.Context, error) error
	middlewareOptions []jwtmiddleware.Option
}

// NewEchoMiddleware creates an echo middleware for bearer token
// authentication. The identity is copied into the echo context and the
// request context.
func NewEchoMiddleware(validator core.Validator, opts ...Option) (echo.MiddlewareFunc, error) {
	config := &echoMiddlewareConfig{
		errorHandler: defaultEchoErrorHandler,
	}

	for _, opt := range opts {
		opt(config)
	}

	middlewareOpts := append([]jwtmiddleware.Option{
		jwtmiddleware.WithValidator(validator),
		jwtmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			state, ok := r.Context().Value(echoContextKey{}).(*requestState)
			if !ok {
				jwtmiddleware.DefaultErrorHandler(w, r, err)
				return
			}
			state.err = config.errorHandler(state.c, err)
		}),
	}, config.middlewareOptions...)

	middleware, err := jwtmiddleware.New(middlewareOpts...)
	if err != nil {
		return nil, err
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := &requestState{c: c}

			var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)

				if user := core.UserFromContext(r.Context()); user != nil {
					c.Set(UserKey, user)
				}
				if principal := core.PrincipalFromContext(r.Context()); principal != nil {
					c.Set(PrincipalKey, principal)
				}
				if jwtCtx := core.JWTContextFromContext(r.Context()); jwtCtx != nil {
					c.Set(JWTKey, jwtCtx)
				}

				state.err = next(c)
			}

			req := c.Request()
			req = req.WithContext(context.WithValue(req.Context(), echoContextKey{}, state))
			middleware.CheckJWT(handler).ServeHTTP(c.Response(), req)

			return state.err
		}
	}, nil
}

type requestState struct {
	c   echo.Context
	err error
}

func defaultEchoErrorHandler(c echo.Context, err error) error {
	verr := core.AsValidationError(err)
	c.Response().Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	return c.JSON(http.StatusUnauthorized, jwtmiddleware.ErrorResponse{
		OK:     false,
		Error:  core.ErrorCodeInvalidToken,
		Detail: verr.Message,
	})
}

// GetUser returns the enriched user stored by the middleware.
func GetUser(c echo.Context) (*core.User, bool) {
	user, ok := c.Get(UserKey).(*core.User)
	return user, ok
}

// GetPrincipal returns the principal stored by the middleware.
func GetPrincipal(c echo.Context) (*core.Principal, bool) {
	principal, ok := c.Get(PrincipalKey).(*core.Principal)
	return principal, ok
}
