package i18n

import (
	"errors"
	"testing"
)

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in      string
		want    Locale
		wantErr bool
	}{
		{"zh", ZH, false},
		{"zh-CN", ZH, false},
		{"en", EN, false},
		{"EN", EN, false},
		{"en-US", EN, false},
		{"en-GB;q=0.9, zh;q=0.5", EN, false},
		{"  zh  ", ZH, false},
		{"", "", true},
		{"fr", "", true},
		{"not a tag!!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLocale(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedLocale) {
					t.Errorf("ParseLocale(%q) error = %v, want ErrUnsupportedLocale", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLocale(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLocale(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLocale_Helpers(t *testing.T) {
	if !ZH.Valid() || !EN.Valid() {
		t.Error("built-in locales should be valid")
	}
	if Locale("fr").Valid() {
		t.Error("fr should not be valid")
	}
	if ZH.HTMLLang() != "zh-CN" || EN.HTMLLang() != "en" {
		t.Errorf("HTMLLang() = %q / %q", ZH.HTMLLang(), EN.HTMLLang())
	}
	if ZH.Next() != EN || EN.Next() != ZH {
		t.Error("Next() should toggle between zh and en")
	}
	if Supported()[0] != Default {
		t.Errorf("Supported()[0] = %q, want default %q", Supported()[0], Default)
	}
}
