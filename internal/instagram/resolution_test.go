package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestCandidateMaximizesArea(t *testing.T) {
	got, ok := bestCandidate([]candidate{
		{Width: 100, Height: 100, URL: "small"},
		{Width: 400, Height: 300, URL: "wide"},
		{Width: 200, Height: 800, URL: "tall"},
	})
	assert.True(t, ok)
	assert.Equal(t, "tall", got.URL)
}

func TestBestCandidateTieKeepsFirst(t *testing.T) {
	got, ok := bestCandidate([]candidate{
		{Width: 300, Height: 200, URL: "first"},
		{Width: 200, Height: 300, URL: "second"},
	})
	assert.True(t, ok)
	assert.Equal(t, "first", got.URL)

	_, ok = bestCandidate(nil)
	assert.False(t, ok)
}

func TestNodePrefersVideoThenFallsBackToImages(t *testing.T) {
	withVideo := node{
		kind:   kindVideo,
		videos: []candidate{{Width: 10, Height: 10, URL: "video"}},
		images: []candidate{{Width: 1000, Height: 1000, URL: "image"}},
	}
	u, ok := withVideo.bestURL()
	assert.True(t, ok)
	assert.Equal(t, "video", u)

	unusableVideo := node{
		kind:   kindVideo,
		images: []candidate{{Width: 1000, Height: 1000, URL: "image"}},
	}
	u, ok = unusableVideo.bestURL()
	assert.True(t, ok)
	assert.Equal(t, "image", u)
}

func TestCarouselAttachmentsPreserveOrderAndSkipEmpty(t *testing.T) {
	n := node{
		kind: kindCarousel,
		children: []node{
			{kind: kindImage, images: []candidate{{Width: 1, Height: 1, URL: "a"}}},
			{kind: kindImage},
			{kind: kindVideo, videos: []candidate{{Width: 2, Height: 2, URL: "c"}}},
		},
	}
	urls, skipped := n.attachments()
	assert.Equal(t, []string{"a", "c"}, urls)
	assert.Equal(t, []int{1}, skipped)

	again, _ := n.attachments()
	assert.Equal(t, urls, again)
}

func TestTagsFromCaption(t *testing.T) {
	assert.Equal(t, []string{"coding", "life"}, tagsFromCaption("Great day #coding #life"))
	assert.Equal(t, []string{}, tagsFromCaption(""))
	assert.Equal(t, []string{}, tagsFromCaption("no tags here"))
	assert.Equal(t, []string{"one two"}, tagsFromCaption("x #one two"))
}
