package errors

import (
	"testing"
)

func TestValidateWord(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "night", false},
		{"valid with hyphen", "mother-in-law", false},
		{"valid with apostrophe", "o'clock", false},
		{"valid reconstructed form", "*nahts", false},
		{"valid phrase", "ice cream", false},
		{"valid with surrounding space", "  night  ", false},
		{"valid unicode", "naître", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", string(make([]byte, 150)), true},
		{"path separator", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"path traversal", "foo..bar", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWord(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWord(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidWord) {
				t.Errorf("ValidateWord(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "out/night.svg", false},
		{"valid nested", "exports/2024/night_radial.png", false},
		{"valid filename only", "etymon_roots_tree.svg", false},
		{"valid absolute", "/tmp/etymon_night_tree.svg", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidWord,
		ErrCodeInvalidMode,
		ErrCodeInvalidFormat,
		ErrCodeInvalidStyle,
		ErrCodeInvalidViewport,
		ErrCodeInvalidTree,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeWordNotFound,
		ErrCodeFileNotFound,
		ErrCodeEntryNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeRateLimited,
		ErrCodeMalformedResponse,
		ErrCodeUnsupportedSurface,
		ErrCodeCaptureRestricted,
		ErrCodeEncoding,
		ErrCodeInternal,
		ErrCodeCache,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
