package utils_test

import (
	"errors"
	"testing"

	"github.com/raysh454/vulnscan-web/internal/utils"
)

func TestWithDefaultScheme(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"example.com":          "https://example.com",
		"  example.com/path  ": "https://example.com/path",
		"http://example.com":   "http://example.com",
		"HTTPS://Example.com":  "HTTPS://Example.com",
		"":                     "",
		"   ":                  "",
	}
	for in, want := range cases {
		if got := utils.WithDefaultScheme(in, "https"); got != want {
			t.Errorf("WithDefaultScheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeTargetURL_Valid(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"example.com":                  "https://example.com",
		"sub.example.co.uk/login?a=1":  "https://sub.example.co.uk/login?a=1",
		"http://localhost:8080":        "http://localhost:8080",
		"https://192.168.1.10/admin":   "https://192.168.1.10/admin",
		"https://[::1]:8443/":          "https://[::1]:8443/",
		"bücher.example":               "https://bücher.example",
		" https://example.com/#frag  ": "https://example.com/#frag",
	}
	for in, want := range cases {
		got, err := utils.NormalizeTargetURL(in)
		if err != nil {
			t.Errorf("NormalizeTargetURL(%q) unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("NormalizeTargetURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeTargetURL_Invalid(t *testing.T) {
	t.Parallel()
	cases := []string{
		"",
		"   ",
		"exa mple.com",
		"https://",
		"https:///path-only",
		"http://[::1",
		"https://bad_host!.com",
	}
	for _, in := range cases {
		if got, err := utils.NormalizeTargetURL(in); err == nil {
			t.Errorf("NormalizeTargetURL(%q) = %q, expected error", in, got)
		}
	}
}

func TestNormalizeTargetURL_EmptyIsErrEmptyURL(t *testing.T) {
	t.Parallel()
	_, err := utils.NormalizeTargetURL(" ")
	if !errors.Is(err, utils.ErrEmptyURL) {
		t.Fatalf("expected ErrEmptyURL, got %v", err)
	}
}
