package common

import (
	"errors"
	"net/url"
	"slices"
	"strings"
)

// Link shorteners hide the real destination and are not accepted as launch links
var blockedLinkDomains = []string{
	"bit.ly",
	"tinyurl.com",
	"t.co",
	"goo.gl",
	"naver.me",
}

// ValidateExternalURL checks that raw is an absolute http(s) URL that is not a shortener link.
// An empty string is valid (field not set).
func ValidateExternalURL(raw string) error {
	if raw == "" {
		return nil
	}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return NewValidation("error.validation", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewValidation("error.validation", errInvalidScheme)
	}
	if u.Host == "" {
		return NewValidation("error.validation", errMissingHost)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if slices.Contains(blockedLinkDomains, host) {
		return NewValidation("error.validation", errShortenerLink)
	}
	return nil
}

var (
	errInvalidScheme = errors.New("url must use http or https")
	errMissingHost   = errors.New("url must include a host")
	errShortenerLink = errors.New("link shorteners are not allowed")
)
