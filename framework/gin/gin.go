// Package jwtgin adapts the bearer token middleware to gin.
package jwtgin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtmiddleware "github.com/ismailkantarci/taxipartner-sub002"
	"github.com/ismailkantarci/taxipartner-sub002/core"
)

// Keys under which the identity is stored in the gin context.
const (
	UserKey      = "user"
	PrincipalKey = "principal"
	JWTKey       = "jwt"
)

type ginContextKey struct{}

type ginMiddlewareConfig struct {
	errorHandler      func(*gin.Context, error)
	middlewareOptions []jwtmiddleware.Option
}

// NewGinMiddleware creates a gin middleware for bearer token authentication.
// It runs the same checks as jwtmiddleware.JWTMiddleware.CheckJWT and copies
// the identity into the gin context as well as the request context.
func NewGinMiddleware(validator core.Validator, opts ...Option) (gin.HandlerFunc, error) {
	config := &ginMiddlewareConfig{
		errorHandler: defaultGinErrorHandler,
	}

	for _, opt := range opts {
		opt(config)
	}

	middlewareOpts := append([]jwtmiddleware.Option{
		jwtmiddleware.WithValidator(validator),
		jwtmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			c, ok := r.Context().Value(ginContextKey{}).(*gin.Context)
			if !ok {
				jwtmiddleware.DefaultErrorHandler(w, r, err)
				return
			}
			config.errorHandler(c, err)
		}),
	}, config.middlewareOptions...)

	middleware, err := jwtmiddleware.New(middlewareOpts...)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		encounteredError := true
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			encounteredError = false
			c.Request = r

			if user := core.UserFromContext(r.Context()); user != nil {
				c.Set(UserKey, user)
			}
			if principal := core.PrincipalFromContext(r.Context()); principal != nil {
				c.Set(PrincipalKey, principal)
			}
			if jwtCtx := core.JWTContextFromContext(r.Context()); jwtCtx != nil {
				c.Set(JWTKey, jwtCtx)
			}

			c.Next()
		}

		req := c.Request.WithContext(context.WithValue(c.Request.Context(), ginContextKey{}, c))
		middleware.CheckJWT(handler).ServeHTTP(c.Writer, req)

		if encounteredError {
			c.Abort()
		}
	}, nil
}

func defaultGinErrorHandler(c *gin.Context, err error) {
	verr := core.AsValidationError(err)
	c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, jwtmiddleware.ErrorResponse{
		OK:     false,
		Error:  core.ErrorCodeInvalidToken,
		Detail: verr.Message,
	})
}

// GetUser returns the enriched user stored by the middleware.
func GetUser(c *gin.Context) (*core.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*core.User)
	return user, ok
}

// GetPrincipal returns the principal stored by the middleware.
func GetPrincipal(c *gin.Context) (*core.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*core.Principal)
	return principal, ok
}
