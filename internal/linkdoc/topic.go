package linkdoc

// topicHandler titles links on topic sites from the URL path alone.
type topicHandler struct {
	genericHandler
	domains []string
}

func (topicHandler) variant() Variant { return VariantTopic }

func (h topicHandler) match(u NormalizedURL) bool {
	for _, d := range h.domains {
		if hostMatches(u.Host, d) {
			return true
		}
	}
	return false
}

func (topicHandler) target(NormalizedURL) string { return "" }

func (topicHandler) title(u NormalizedURL, _ Page) string {
	return Caption(u)
}
