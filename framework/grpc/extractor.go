package jwtgrpc

import (
	"context"

	"google.golang.org/grpc/metadata"

	jwtmiddleware "github.com/ismailkantarci/taxipartner-sub002"
)

// TokenExtractor returns the bearer token from incoming call metadata, or ""
// when there is none.
type TokenExtractor func(ctx context.Context) string

// MetadataTokenExtractor reads the "authorization" metadata key with the same
// rules as the HTTP Authorization header. Only the first value is considered.
func MetadataTokenExtractor(ctx context.Context) string {
	return MetadataFieldTokenExtractor("authorization")(ctx)
}

// MetadataFieldTokenExtractor reads a Bearer credential from the given key.
func MetadataFieldTokenExtractor(field string) TokenExtractor {
	return func(ctx context.Context) string {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return ""
		}
		values := md.Get(field)
		if len(values) == 0 {
			return ""
		}
		return jwtmiddleware.BearerToken(values[0])
	}
}
