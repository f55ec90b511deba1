package fetch

import "testing"

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{name: "relative path", base: "https://example.com/about/", ref: "img/a.jpg", want: "https://example.com/about/img/a.jpg"},
		{name: "root relative", base: "https://example.com/about/", ref: "/logo.png", want: "https://example.com/logo.png"},
		{name: "protocol relative", base: "https://example.com/", ref: "//cdn.example.com/x.png", want: "https://cdn.example.com/x.png"},
		{name: "absolute kept", base: "https://example.com/", ref: "http://other.org/y.png", want: "http://other.org/y.png"},
		{name: "fragment stripped", base: "https://example.com/", ref: "/a.png#frag", want: "https://example.com/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveURL(tt.base, tt.ref)
			if err != nil {
				t.Fatalf("ResolveURL error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveURL() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsHTTP(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/a.png": true,
		"http://example.com":        true,
		"ftp://example.com/a.png":   false,
		"javascript:alert(1)":       false,
		"/relative.png":             false,
	}
	for in, want := range tests {
		if got := IsHTTP(in); got != want {
			t.Errorf("IsHTTP(%q) = %v, want %v", in, got, want)
		}
	}
}
