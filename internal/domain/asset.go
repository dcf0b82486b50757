package domain

import (
	"fmt"
	"strings"
)

// AssetKind discriminates the native asset from token assets.
type AssetKind uint8

const (
	AssetNative AssetKind = iota
	AssetToken
)

// Asset identifies a fungible value type tracked by the ledger. The zero
// value is the native asset. Asset is comparable and is used directly as
// part of ledger map keys.
type Asset struct {
	Kind  AssetKind
	Token string // token identifier; empty for the native asset
}

// Native returns the native asset.
func Native() Asset {
	return Asset{Kind: AssetNative}
}

// Token returns the token asset with the given identifier.
func Token(id string) Asset {
	return Asset{Kind: AssetToken, Token: id}
}

// IsNative reports whether a is the native asset.
func (a Asset) IsNative() bool {
	return a.Kind == AssetNative
}

// String renders the asset in its wire form: "native" or "token:<id>".
func (a Asset) String() string {
	switch a.Kind {
	case AssetNative:
		return "native"
	case AssetToken:
		return "token:" + a.Token
	}
	return fmt.Sprintf("asset(%d)", a.Kind)
}

// ParseAsset parses the wire form produced by String. It returns a
// ValidationError for anything else, including a token with an empty
// identifier.
func ParseAsset(s string) (Asset, error) {
	if s == "native" {
		return Native(), nil
	}
	if id, ok := strings.CutPrefix(s, "token:"); ok {
		if id == "" {
			return Asset{}, &ValidationError{Message: "token identifier must not be empty"}
		}
		return Token(id), nil
	}
	return Asset{}, &ValidationError{
		Message: fmt.Sprintf("asset must be %q or %q, got %q", "native", "token:<id>", s),
	}
}

// MarshalText implements encoding.TextMarshaler using the wire form.
func (a Asset) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseAsset.
func (a *Asset) UnmarshalText(text []byte) error {
	parsed, err := ParseAsset(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
