package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAsset(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Asset
		wantErr bool
	}{
		{"native", "native", Native(), false},
		{"token", "token:GOLD", Token("GOLD"), false},
		{"token with colon in id", "token:erc20:0xabc", Token("erc20:0xabc"), false},
		{"empty token id", "token:", Asset{}, true},
		{"empty string", "", Asset{}, true},
		{"bare identifier", "GOLD", Asset{}, true},
		{"uppercase native", "NATIVE", Asset{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAsset(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAsset(%q) expected error, got nil", tt.input)
				}
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("ParseAsset(%q) error = %v, want *ValidationError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAsset(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseAsset(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAsset_String_RoundTrip(t *testing.T) {
	for _, a := range []Asset{Native(), Token("GOLD"), Token("a-b_c")} {
		got, err := ParseAsset(a.String())
		if err != nil {
			t.Fatalf("ParseAsset(%q) unexpected error: %v", a.String(), err)
		}
		if got != a {
			t.Errorf("round-trip of %v = %v", a, got)
		}
	}
}

func TestAsset_IsNative(t *testing.T) {
	if !Native().IsNative() {
		t.Error("Native().IsNative() = false")
	}
	if Token("GOLD").IsNative() {
		t.Error("Token(GOLD).IsNative() = true")
	}
	// The zero value is the native asset.
	var zero Asset
	if !zero.IsNative() {
		t.Error("zero Asset should be native")
	}
}

func TestAsset_JSONRoundTrip(t *testing.T) {
	type payload struct {
		Asset Asset `json:"asset"`
	}

	for _, a := range []Asset{Native(), Token("GOLD")} {
		data, err := json.Marshal(payload{Asset: a})
		if err != nil {
			t.Fatalf("marshal %v: %v", a, err)
		}
		var got payload
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if got.Asset != a {
			t.Errorf("JSON round-trip of %v = %v", a, got.Asset)
		}
	}
}

func TestAsset_UnmarshalRejectsInvalid(t *testing.T) {
	var a Asset
	if err := json.Unmarshal([]byte(`"bogus"`), &a); err == nil {
		t.Error("unmarshal of invalid asset should fail")
	}
}
