package config

import "strings"

// Flag is a boolean environment value that only treats "1", "true" and "yes"
// (any case) as set. Every other value, including malformed ones, is false.
type Flag bool

// EnvDecode implements envconfig.Decoder.
func (f *Flag) EnvDecode(val string) error {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Enabled reports whether the flag is set.
func (f Flag) Enabled() bool {
	return bool(f)
}
