package cms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storyPage = `<!doctype html>
<html><head>
<title>Our Story</title>
<meta name="description" content="Meta description">
<meta property="og:image" content="https://cdn.example.com/story.jpg">
</head><body>
<div class="rte"><p>First paragraph.</p><p>Second<br>line.</p><script>track()</script></div>
<div class="rte">tiny</div>
<main>ignored</main>
</body></html>`

func TestParsePage_RichText(t *testing.T) {
	it, err := ParsePage(strings.NewReader(storyPage), "https://naturemagic.hk/pages/our-story/", CategoryBrand)
	require.NoError(t, err)

	assert.Equal(t, "our-story", it.Key)
	assert.Equal(t, CategoryBrand, it.Category)
	assert.Equal(t, "Our Story", it.Title.EN)
	assert.Empty(t, it.Title.ZhHant)
	assert.Equal(t, "First paragraph.\n\nSecond\nline.", it.Description.EN)
	assert.Equal(t, []string{"https://cdn.example.com/story.jpg"}, it.Images)
	assert.NotEmpty(t, it.ID)
}

func TestParsePage_ChineseURLAndFallbacks(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="品牌故事">
<meta property="og:description" content="描述">
</head><body><div>nothing useful</div></body></html>`

	it, err := ParsePage(strings.NewReader(page), "https://naturemagic.hk/zh-hant/pages/story?ref=nav", CategoryHome)
	require.NoError(t, err)

	assert.Equal(t, "story", it.Key)
	assert.Equal(t, "品牌故事", it.Title.ZhHant)
	assert.Equal(t, "描述", it.Description.ZhHant)
	assert.Empty(t, it.Title.EN)
	assert.Empty(t, it.Images)
}

func TestParsePage_GenericContainerIsTruncated(t *testing.T) {
	page := `<html><body><article>` + strings.Repeat("a", 1000) + `</article></body></html>`

	it, err := ParsePage(strings.NewReader(page), "https://naturemagic.hk/blogs/news/long", CategoryHome)
	require.NoError(t, err)
	assert.Len(t, it.Description.EN, genericBodyLimit)
}

func TestPageImporter_FetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pages/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(storyPage))
	}))
	defer srv.Close()

	pi := NewPageImporter(srv.Client(), nil)
	items, err := pi.FetchAll(context.Background(), CategoryBrand, []string{
		srv.URL + "/pages/our-story",
		"  ",
		srv.URL + "/pages/missing",
	})

	require.Len(t, items, 1)
	assert.Equal(t, "our-story", items[0].Key)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/pages/missing")
}
