package instagram

import "strings"

// bestCandidate returns the rendition with the largest area; ties keep the earliest.
func bestCandidate(candidates []candidate) (candidate, bool) {
	var best candidate
	found := false
	for _, c := range candidates {
		if !found || c.area() > best.area() {
			best = c
			found = true
		}
	}
	return best, found
}

// bestURL prefers video renditions and falls back to images when no video rendition is usable.
func (n node) bestURL() (string, bool) {
	if c, ok := bestCandidate(n.videos); ok {
		return c.URL, true
	}
	if c, ok := bestCandidate(n.images); ok {
		return c.URL, true
	}
	return "", false
}

// attachments resolves one URL per sub-item in order and reports the indexes it had to skip.
func (n node) attachments() ([]string, []int) {
	leaves := []node{n}
	if n.kind == kindCarousel {
		leaves = n.children
	}
	urls := make([]string, 0, len(leaves))
	var skipped []int
	for i, leaf := range leaves {
		u, ok := leaf.bestURL()
		if !ok {
			skipped = append(skipped, i)
			continue
		}
		urls = append(urls, u)
	}
	return urls, skipped
}

// tagsFromCaption splits on " #" and keeps every segment after the first.
func tagsFromCaption(caption string) []string {
	if caption == "" {
		return []string{}
	}
	parts := strings.Split(caption, " #")
	return append([]string{}, parts[1:]...)
}
