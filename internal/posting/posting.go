// Package posting defines the job posting model shared across the pipeline.
package posting

import (
	"fmt"
	"net/url"
	"strings"
)

// Posting is a single externally sourced job listing after normalization.
// ID is derived from the canonical listing URL and is stable across fetches.
type Posting struct {
	ID          string
	Title       string
	Company     string
	Location    string
	Description string
	Source      string
}

// Postings is an ordered batch of postings gathered in one cycle.
type Postings struct {
	Items []*Posting
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) Append(items ...*Posting) {
	p.Items = append(p.Items, items...)
}

// IDs returns the ids of all postings in batch order.
func (p *Postings) IDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// Text returns the searchable text of the posting used for scoring.
func (p *Posting) Text() string {
	return strings.TrimSpace(p.Title + " " + p.Description)
}

// trackingParams are stripped during canonicalization so the same listing
// reached through different campaign links keeps one id.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"ref":          true,
	"gh_src":       true,
	"lever-origin": true,
}

// CanonicalID normalizes a listing link into a stable dedup key.
// An empty or unparsable link returns an error: a posting without a stable
// id must not enter the pipeline.
func CanonicalID(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", fmt.Errorf("posting link is empty")
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse posting link %q: %w", link, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("posting link %q has no host", link)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for param := range q {
		if trackingParams[strings.ToLower(param)] {
			q.Del(param)
		}
	}
	u.RawQuery = q.Encode()

	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String(), nil
}
