package extract

import "net/url"

// resolveURL joins a possibly-relative resource path against the quiz
// page URL. An unparsable base returns the path unchanged.
func resolveURL(baseURL, path string) string {
	if path == "" {
		return ""
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return path
	}
	return base.ResolveReference(ref).String()
}
