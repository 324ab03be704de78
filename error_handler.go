package jwtmiddleware

import (
	"encoding/json"
	"net/http"

	"github.com/ismailkantarci/taxipartner-sub002/core"
)

// ErrorResponse is the body written for rejected requests.
type ErrorResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// ErrorHandler is a handler which is called when the middleware rejects a
// request. err is always a *core.ValidationError. A custom handler must end
// the request: the middleware does not call the next handler after it.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler is the default error handler implementation for the
// JWTMiddleware. It responds 401 with a JSON body whose error is always
// "invalid_token" and whose detail is the fixed public message of the
// failure kind. The underlying library error is never written.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	verr := core.AsValidationError(err)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	w.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(w).Encode(ErrorResponse{
		OK:     false,
		Error:  core.ErrorCodeInvalidToken,
		Detail: verr.Message,
	})
}
