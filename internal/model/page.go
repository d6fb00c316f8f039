package model

// FetchedPage is the normalized content of a successfully fetched page.
// A nil *FetchedPage is the valid "no page" value used for unreachable,
// non-HTML, or erroring targets.
type FetchedPage struct {
	// URL is the URL that produced this page, after scheme fallback.
	URL string `json:"url"`

	// Text is the page body with all whitespace runs collapsed to single
	// spaces. This normalization makes the similarity metric robust to
	// formatting noise, not semantic content.
	Text string `json:"text"`

	// ContentType is the MIME type from the Content-Type header.
	ContentType string `json:"content_type"`

	// Title is the page title from the <title> tag, empty if absent.
	Title string `json:"title,omitempty"`
}

// IsEmpty reports whether the page carries no text content.
func (p *FetchedPage) IsEmpty() bool {
	return p == nil || p.Text == ""
}
