package article

import (
	"net/url"
	"strings"
)

// Context is the immutable per-request article input. It is created once by
// the caller, owned by the coordinator, and read concurrently by every agent
// without synchronization. Nothing mutates it after construction.
type Context struct {
	Text         string   `json:"text"`
	SourceURL    string   `json:"source_url"`
	SourceDomain string   `json:"source_domain"`
	Language     string   `json:"language"`
	Topics       []string `json:"topics,omitempty"`
}

// New builds a Context from already-extracted plain text. The source domain
// is derived from the URL so agents can exclude it from searches.
func New(text, sourceURL, language string, topics []string) Context {
	return Context{
		Text:         text,
		SourceURL:    strings.TrimSpace(sourceURL),
		SourceDomain: DomainOf(sourceURL),
		Language:     strings.TrimSpace(language),
		Topics:       append([]string(nil), topics...),
	}
}

// DomainOf extracts the lowercase host from a URL without the www prefix.
// Returns "" for unparseable input.
func DomainOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	return strings.TrimPrefix(host, "www.")
}

// WordCount is the length signal used for model selection.
func (c Context) WordCount() int {
	return len(strings.Fields(c.Text))
}
