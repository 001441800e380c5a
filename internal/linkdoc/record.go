package linkdoc

// Record is the result of classifying one URL.
type Record struct {
	ID           string  `json:"id"`
	URL          string  `json:"url"`
	Variant      Variant `json:"variant"`
	Title        string  `json:"title"`
	Authors      string  `json:"authors"`
	Publication  string  `json:"publication"`
	PlainLine    string  `json:"string"`
	MarkdownLine string  `json:"markdown"`
	TitleURL     string  `json:"title_url"`
}

// Verify recomputes the identifier of the record's final URL and compares it
// with the stored one.
func (r *Record) Verify(idLength int) error {
	computed := Digest(r.URL, idLength)
	if computed != r.ID {
		return &IdentifierMismatchError{URL: r.URL, Stored: r.ID, Computed: computed}
	}
	return nil
}
