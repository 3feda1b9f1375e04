package helper

import (
	"net/url"
	"regexp"
	"strings"
)

var cidPattern = regexp.MustCompile("((Qm[1-9A-HJ-NP-Za-km-z]{44}|bafy[a-z2-7]{50,}).*$)")

func IsUrl(uri string) bool {
	u, err := url.Parse(uri)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func IsIpfs(uri string) bool {
	if strings.HasPrefix(uri, "ipfs://") {
		return true
	}
	return cidPattern.MatchString(uri)
}

// NormalizeIpfs rewrites gateway urls and bare content ids as ipfs:// uris.
// Anything else is returned unchanged.
func NormalizeIpfs(uri string) string {
	if strings.HasPrefix(uri, "ipfs://") {
		return uri
	}
	parts := cidPattern.FindStringSubmatch(uri)
	if len(parts) < 2 {
		return uri
	}
	if IsUrl(uri) && !strings.Contains(uri, "/ipfs/") {
		return uri
	}
	return "ipfs://" + parts[1]
}
