package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnknownTarget(t *testing.T) {
	_, err := New("reddit", NewFetcher(0), nil)
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestTargets(t *testing.T) {
	assert.Equal(t, []string{"aws-faqs", "bg3"}, Targets())
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
	}{
		{"lowercase", "Hello World", "hello world"},
		{"html entities", "a &amp; b", "a & b"},
		{"diacritics", "café", "cafe"},
		{"newlines and tabs", "a\nb\tc", "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestFetchPage(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("page body"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(2 * time.Second)

	body, err := fetcher.FetchPage(context.Background(), server.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "page body", body)
	assert.Contains(t, gotUA, "Mozilla/5.0")

	_, err = fetcher.FetchPage(context.Background(), server.URL+"/missing")
	assert.Error(t, err)
}

const awsIndexHTML = `<html><body>
<div class="aws-text-box"><a href="/ec2/faqs/">Amazon EC2</a></div>
<div class="aws-text-box"><a href="/s3/faqs/">Amazon S3</a></div>
<div class="aws-text-box"><a href="/pricing/">Pricing</a></div>
<div class="other-box"><a href="/lambda/faqs/">Hidden</a></div>
</body></html>`

const awsPageHTML = `<html><body>
<div class="lb-breadcrumbs lb-breadcrumbs-dropTitle">Home &gt; FAQs</div>
<div class="lb-none-pad lb-grid">navigation</div>
<div class="lb-col lb-tiny-24 lb-mid-24">What is the Service?</div>
<div class="lb-col lb-tiny-24 lb-mid-24">It is a Compute Service.</div>
</body></html>`

func TestAWSFAQRun(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/faqs/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(awsIndexHTML))
	})
	mux.HandleFunc("/ec2/faqs/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(awsPageHTML))
	})
	mux.HandleFunc("/s3/faqs/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	writer, err := NewTextWriter(dir)
	require.NoError(t, err)

	scraper, err := New(TargetAWSFAQ, NewFetcher(2*time.Second), writer,
		WithBaseURL(server.URL), WithPoolSize(2))
	require.NoError(t, err)
	require.NoError(t, scraper.Run(context.Background()))

	// The reachable page was written, the failing one skipped.
	content, err := os.ReadFile(filepath.Join(dir, "Amazon_EC2.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "what is the service?")
	assert.Contains(t, string(content), "it is a compute service.")
	assert.NotContains(t, string(content), "breadcrumbs")

	_, err = os.Stat(filepath.Join(dir, "Amazon_S3.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestAWSFAQIndexFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	writer, err := NewTextWriter(t.TempDir())
	require.NoError(t, err)

	scraper := NewAWSFAQ(NewFetcher(2*time.Second), writer, WithBaseURL(server.URL))
	assert.Error(t, scraper.Run(context.Background()))
}

const bg3CategoryHTML = `<html><body><table><tbody>
<tr><td><a href="/wiki/Leather_Armour">Leather Armour</a></td><td>AC 11</td></tr>
<tr><td><a href="/wiki/Chain_Mail">Chain Mail</a></td><td>AC 16</td></tr>
<tr><td>no link here</td></tr>
</tbody></table></body></html>`

const bg3SpellsHTML = `<html><body>
<div class="div-col"><a href="/wiki/Fireball">Fireball</a></div>
</body></html>`

const bg3PageHTML = `<html><body><div class="mw-parser-output">
<span class="mw-editsection">[edit]</span>
<p>A sturdy set of Leather Armour.</p>
<div class="floatright"><img src="/images/armour.png"></div>
</div></body></html>`

func TestBG3Run(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/Spells", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bg3SpellsHTML))
	})
	mux.HandleFunc("/wiki/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wiki/Leather_Armour", "/wiki/Chain_Mail", "/wiki/Fireball":
			w.Write([]byte(bg3PageHTML))
		default:
			w.Write([]byte(bg3CategoryHTML))
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	writer, err := NewTextWriter(dir)
	require.NoError(t, err)

	scraper, err := New(TargetBG3, NewFetcher(2*time.Second), writer,
		WithBaseURL(server.URL), WithPoolSize(2))
	require.NoError(t, err)
	require.NoError(t, scraper.Run(context.Background()))

	for _, name := range []string{"Leather_Armour.txt", "Chain_Mail.txt", "Fireball.txt"} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(content), "a sturdy set of leather armour.")
		assert.NotContains(t, string(content), "[edit]")
		assert.Contains(t, string(content), "image: "+server.URL+"/images/armour.png")
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Amazon_EC2", sanitizeFilename(" Amazon EC2 "))
	assert.Equal(t, "a-b_c", sanitizeFilename("a/b c"))
}
