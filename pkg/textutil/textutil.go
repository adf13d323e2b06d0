package textutil

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// socialHosts maps known social platform host fragments to their canonical keys.
// Matching is a substring check against the lowercased hostname, so regional
// subdomains (e.g. de-de.facebook.com) classify correctly.
var socialHosts = map[string]string{
	"instagram.com": "instagram",
	"facebook.com":  "facebook",
	"x.com":         "twitter",
	"twitter.com":   "twitter",
	"tiktok.com":    "tiktok",
	"youtube.com":   "youtube",
	"youtu.be":      "youtube",
	"pinterest.com": "pinterest",
	"linkedin.com":  "linkedin",
}

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\-\s()]{6,}\d`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Collapse squeezes all runs of whitespace into single spaces and trims the result.
func Collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Excerpt collapses whitespace and truncates to at most n runes.
func Excerpt(s string, n int) string {
	s = Collapse(s)
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

// Absolutize resolves href against base. An empty href or an unparsable
// base/href yields an empty string.
func Absolutize(base, href string) string {
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	h, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(h).String()
}

// NormalizeRoot reduces a URL to its scheme://host/ form with a trailing slash.
func NormalizeRoot(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/"
}

// Host returns the lowercased host (including port, if any) of rawURL.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// ClassifySocial maps an href to a social platform key ("instagram",
// "twitter", ...). Relative hrefs have no host and never classify.
func ClassifySocial(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Host)
	if host == "" {
		return ""
	}
	for dom, key := range socialHosts {
		if strings.Contains(host, dom) {
			return key
		}
	}
	return ""
}

// Emails extracts all email-shaped substrings from text, in match order.
func Emails(text string) []string {
	return emailRe.FindAllString(text, -1)
}

// Phones extracts all phone-shaped substrings (optional leading +, at least
// eight digits-and-separators) from text, in match order.
func Phones(text string) []string {
	return phoneRe.FindAllString(text, -1)
}

// DedupeSorted returns the unique values sorted lexically. Empty strings are
// dropped. A nil input returns nil.
func DedupeSorted(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
