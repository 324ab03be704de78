package validator

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jws"

	"github.com/ismailkantarci/taxipartner-sub002/core"
)

// parseHeader reads the protected header of a compact JWS without verifying
// it.
func parseHeader(token string) (*core.Header, error) {
	msg, err := jws.Parse([]byte(token))
	if err != nil {
		return nil, err
	}

	sigs := msg.Signatures()
	if len(sigs) != 1 {
		return nil, errUnexpectedSignatures
	}

	h := sigs[0].ProtectedHeaders()
	return &core.Header{
		Algorithm: h.Algorithm().String(),
		KeyID:     h.KeyID(),
		Type:      h.Type(),
	}, nil
}

// decodeHeaderSegment decodes a raw header segment best-effort. It returns
// nil when the segment is not a JSON object.
func decodeHeaderSegment(parser *jwt.Parser, segment string) *core.Header {
	raw, err := parser.DecodeSegment(segment)
	if err != nil {
		return nil
	}

	var h core.Header
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil
	}
	return &h
}
