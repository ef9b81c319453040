package errors

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "n1", false},
		{"valid with dash", "cluster-a", false},
		{"valid with underscore", "left_wing", false},
		{"valid with dot", "v2.final", false},
		{"valid numeric", "42", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 300), true},
		{"leading dot", ".hidden", true},
		{"slash", "a/b", true},
		{"space", "a b", true},
		{"control char", "a\x01b", true},
		{"null byte", "a\x00b", true},
		{"unicode control", "a​b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateOutputFormat(t *testing.T) {
	for _, ok := range []string{"json", "dot", "svg"} {
		if err := ValidateOutputFormat(ok); err != nil {
			t.Errorf("ValidateOutputFormat(%q) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []string{"", "png", "JSON", "yaml"} {
		err := ValidateOutputFormat(bad)
		if err == nil {
			t.Errorf("ValidateOutputFormat(%q) = nil, want error", bad)
			continue
		}
		if !Is(err, ErrCodeInvalidFormat) {
			t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "graphs/wheel.json", false},
		{"valid absolute", "/tmp/out.svg", false},
		{"valid plain file", "input.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a/", 300), true},
		{"traversal", "a/../b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://localhost:8080", false},
		{"", true},
		{"ftp://example.com", true},
		{"example.com", true},
	}
	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
