package fetch

import (
	"bytes"
	"net/http"
	"strings"
)

// Detector inspects a response to determine whether a bot protection layer
// served a challenge instead of the real page. Challenged pages count as
// absent for extraction purposes.
type Detector func(status int, header http.Header, body []byte) (detected bool, source string)

// DefaultDetectors returns the standard list of challenge detectors.
func DefaultDetectors() []Detector {
	return []Detector{
		detectCloudflare,
		detectDataDome,
	}
}

// Analyze runs the response through all detectors and returns the first hit.
func Analyze(status int, header http.Header, body []byte, detectors []Detector) (bool, string) {
	for _, d := range detectors {
		if detected, source := d(status, header, body); detected {
			return true, source
		}
	}
	return false, ""
}

func detectCloudflare(status int, header http.Header, body []byte) (bool, string) {
	if status != http.StatusForbidden && status != http.StatusServiceUnavailable {
		return false, ""
	}

	if strings.Contains(strings.ToLower(header.Get("Server")), "cloudflare") {
		return true, "Cloudflare"
	}

	if bytes.Contains(body, []byte("cf-browser-verification")) ||
		bytes.Contains(body, []byte("cf-turnstile")) ||
		bytes.Contains(body, []byte("Attention Required! | Cloudflare")) {
		return true, "Cloudflare"
	}
	return false, ""
}

func detectDataDome(status int, header http.Header, body []byte) (bool, string) {
	if status != http.StatusForbidden {
		return false, ""
	}

	if strings.Contains(strings.ToLower(header.Get("Server")), "datadome") {
		return true, "DataDome"
	}
	if header.Get("X-DataDome") != "" || header.Get("X-DataDome-Response") != "" {
		return true, "DataDome"
	}
	if bytes.Contains(body, []byte("geo.captcha-delivery.com")) || bytes.Contains(body, []byte("datadome")) {
		return true, "DataDome"
	}
	return false, ""
}
