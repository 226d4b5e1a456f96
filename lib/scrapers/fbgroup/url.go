package fbgroup

import "strings"

const siteOrigin = "https://www.facebook.com"

// NormalizeUrl resolves the href forms facebook markup mixes together:
// absolute urls pass through, root-relative paths get the site origin,
// anything else is joined to the origin after stripping "./" prefixes.
func NormalizeUrl(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return siteOrigin + href
	}
	return siteOrigin + "/" + strings.TrimLeft(href, "./")
}

// deriveUserId guesses a user id from a profile url. Numeric-id profile
// urls carry it in the id query parameter, vanity urls in the last path
// segment. Non-facebook urls yield no id.
func deriveUserId(profileUrl string) string {
	if !strings.Contains(profileUrl, "facebook.com") {
		return ""
	}
	const idParam = "profile.php?id="
	if idx := strings.Index(profileUrl, idParam); idx >= 0 {
		id := profileUrl[idx+len(idParam):]
		if amp := strings.IndexByte(id, '&'); amp >= 0 {
			id = id[:amp]
		}
		return id
	}
	trimmed := strings.TrimRight(profileUrl, "/")
	if idx := strings.LastIndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
