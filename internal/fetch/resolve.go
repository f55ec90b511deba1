package fetch

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveURL resolves ref against baseURL and strips the fragment.
func ResolveURL(baseURL, ref string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parsing reference %q: %w", ref, err)
	}
	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String(), nil
}

// IsHTTP reports whether rawURL uses the http or https scheme.
func IsHTTP(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
