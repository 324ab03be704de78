package validator

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ismailkantarci/taxipartner-sub002/core"
)

var (
	errTooFewSegments       = errors.New("token has fewer than two segments")
	errPayloadNotObject     = errors.New("token payload is not a JSON object")
	errUnexpectedSignatures = errors.New("token must carry exactly one signature")
)

// decodeUnverified reads the claims without any signature check. The token's
// own exp, nbf and iat are still enforced so that a stale token never yields
// an identity.
func (v *Validator) decodeUnverified(token string) (*core.VerifiedToken, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, core.MalformedToken(errTooFewSegments)
	}

	raw, err := v.segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, core.MalformedToken(err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, core.MalformedToken(err)
	}
	if payload == nil {
		return nil, core.MalformedToken(errPayloadNotObject)
	}

	if err := v.timeValidator.Validate(jwt.MapClaims(payload)); err != nil {
		return nil, core.InvalidToken(err)
	}

	return &core.VerifiedToken{
		Claims: core.ClaimsFromMap(payload),
		Header: decodeHeaderSegment(v.segmentParser, parts[0]),
	}, nil
}
