// Package fs exports stored articles as markdown files.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/bdmscrape"
	"gopkg.in/yaml.v3"
)

// ArticlePath converts an article URL to a relative file path under its
// category directory, named after the last URL path segment.
// Example: https://www.blogdumoderateur.com/ia-tendances-2021/ → web/ia-tendances-2021.md
// The category must be a single path segment.
func ArticlePath(rawURL, category string) (string, error) {
	if category == "" || category == "." || category == ".." || strings.ContainsAny(category, `/\`) {
		return "", bdmscrape.Errorf(bdmscrape.EINVALID, "invalid category %q", category)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	slug := path.Base(strings.TrimSuffix(u.Path, "/"))
	if slug == "." || slug == "/" || slug == "" || slug == ".." {
		slug = "index"
	}

	return path.Join(category, slug+".md"), nil
}

// frontmatter is the YAML header of an exported article.
type frontmatter struct {
	Title       string                   `yaml:"title"`
	Source      string                   `yaml:"source"`
	Category    string                   `yaml:"category"`
	Subcategory string                   `yaml:"subcategory,omitempty"`
	Date        string                   `yaml:"date,omitempty"`
	Author      string                   `yaml:"author,omitempty"`
	Image       string                   `yaml:"image,omitempty"`
	Resume      string                   `yaml:"resume,omitempty"`
	Images      []bdmscrape.ArticleImage `yaml:"images,omitempty"`
	Crawled     string                   `yaml:"crawled,omitempty"`
}

// FormatArticle formats an article with YAML frontmatter. The body is the
// Markdown rendition when available, the plain text otherwise.
func FormatArticle(a *bdmscrape.Article) (string, error) {
	fm := frontmatter{
		Title:       a.Title,
		Source:      a.URL,
		Category:    a.Category,
		Subcategory: a.Subcategory,
		Date:        a.Date,
		Author:      a.Author,
		Image:       a.Image,
		Resume:      a.Resume,
		Images:      a.ArticleImages,
	}
	if !a.FetchedAt.IsZero() {
		fm.Crawled = a.FetchedAt.Format("2006-01-02")
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	buf.WriteString("---\n\n")

	body := a.Markdown
	if body == "" {
		body = a.Content
	}
	buf.WriteString(body)
	return buf.String(), nil
}

// Ensure Writer implements bdmscrape.ArticleWriter at compile time.
var _ bdmscrape.ArticleWriter = (*Writer)(nil)

// Writer writes articles as markdown files with atomic update semantics.
// Files are written to baseDir/name.tmp and moved to baseDir/name on Commit.
// A leftover pending directory from an interrupted export is discarded.
type Writer struct {
	baseDir string
	name    string

	prepared bool
	// paths maps written relative paths to the URL that owns them.
	paths map[string]string
}

// NewWriter creates a new Writer exporting to baseDir/name.
func NewWriter(baseDir, name string) *Writer {
	return &Writer{baseDir: baseDir, name: name, paths: map[string]string{}}
}

func (w *Writer) tempDir() string {
	return filepath.Join(w.baseDir, w.name+".tmp")
}

func (w *Writer) finalDir() string {
	return filepath.Join(w.baseDir, w.name)
}

// prepare starts the export from an empty pending directory.
func (w *Writer) prepare() error {
	if w.prepared {
		return nil
	}
	if err := os.RemoveAll(w.tempDir()); err != nil {
		return err
	}
	if err := os.MkdirAll(w.tempDir(), 0755); err != nil {
		return err
	}
	w.prepared = true
	return nil
}

// claim returns a path for rawURL that no other article of this export
// uses, suffixing the slug with -2, -3, ... on collision.
func (w *Writer) claim(relPath, rawURL string) string {
	ext := path.Ext(relPath)
	stem := strings.TrimSuffix(relPath, ext)
	candidate := relPath
	for n := 2; ; n++ {
		owner, taken := w.paths[candidate]
		if !taken || owner == rawURL {
			w.paths[candidate] = rawURL
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
}

// WriteArticle writes an article to the pending export directory.
func (w *Writer) WriteArticle(ctx context.Context, a *bdmscrape.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}

	relPath, err := ArticlePath(a.URL, a.Category)
	if err != nil {
		return bdmscrape.Errorf(bdmscrape.EINVALID, "cannot export %q: %v", a.URL, err)
	}

	if err := w.prepare(); err != nil {
		return err
	}

	fullPath := filepath.Join(w.tempDir(), filepath.FromSlash(w.claim(relPath, a.URL)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	content, err := FormatArticle(a)
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// Commit replaces the export directory with the pending one.
func (w *Writer) Commit() error {
	if err := w.prepare(); err != nil {
		return err
	}
	if err := os.RemoveAll(w.finalDir()); err != nil {
		return err
	}
	return os.Rename(w.tempDir(), w.finalDir())
}

// Abort discards pending writes.
func (w *Writer) Abort() error {
	return os.RemoveAll(w.tempDir())
}
