package stackcraft

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/stackcraft/stackcraft/feed"
)

// SearchIndexFile is the post index written next to the exported pages.
const SearchIndexFile = "search-index.json"

// ExportResult summarizes a static export.
type ExportResult struct {
	Pages  int
	Assets int
}

type searchIndexEntry struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	ReadTime    int       `json:"readTime"`
}

// Export prerenders every indexable page and every post into outDir as
// <path>/index.html, renders 404.html, copies the static assets under
// public/ and writes the search index. Feed generation is separate, see
// Generator.
func (a *App) Export(outDir string) (ExportResult, error) {
	var res ExportResult
	reg, err := a.Content.Registry()
	if err != nil {
		return res, fmt.Errorf("export: %w", err)
	}

	paths := feed.StaticPaths(reg.Routes)
	for _, p := range reg.Posts {
		paths = append(paths, path.Join("/blog", p.Slug))
	}
	for _, p := range paths {
		if err := a.exportPage(outDir, p, http.StatusOK, pageFile(p)); err != nil {
			return res, err
		}
		res.Pages++
	}
	if err := a.exportPage(outDir, "/404", http.StatusNotFound, "404.html"); err != nil {
		return res, err
	}

	n, err := copyFS(a.staticFS(), filepath.Join(outDir, "public"))
	if err != nil {
		return res, fmt.Errorf("export: copy static assets: %w", err)
	}
	res.Assets = n

	entries := make([]searchIndexEntry, 0, len(reg.Posts))
	for _, p := range reg.Posts {
		entries = append(entries, searchIndexEntry{
			Slug:        p.Slug,
			Title:       p.Title,
			Description: p.Description,
			Category:    p.Category,
			Tags:        p.Tags,
			URL:         a.Config.URLFor("blog", p.Slug),
			PublishedAt: p.PublishedAt,
			ReadTime:    p.ReadTime,
		})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return res, fmt.Errorf("export: encode search index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, SearchIndexFile), append(data, '\n'), 0o644); err != nil {
		return res, fmt.Errorf("export: write search index: %w", err)
	}

	a.Logger.Info("export complete", "dir", outDir, "pages", res.Pages, "assets", res.Assets)
	return res, nil
}

// pageFile maps a URL path to its file under the output directory.
func pageFile(urlPath string) string {
	if urlPath == "/" {
		return "index.html"
	}
	return filepath.Join(filepath.FromSlash(urlPath[1:]), "index.html")
}

// exportPage renders urlPath through the app's own handler and writes the
// body to name under outDir.
func (a *App) exportPage(outDir, urlPath string, wantStatus int, name string) error {
	req := httptest.NewRequest(http.MethodGet, urlPath, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		return fmt.Errorf("export %s: status %d, want %d", urlPath, rec.Code, wantStatus)
	}

	dst := filepath.Join(outDir, name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("export %s: %w", urlPath, err)
	}
	if err := os.WriteFile(dst, rec.Body.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export %s: %w", urlPath, err)
	}
	return nil
}

// copyFS copies every regular file of fsys into dst, overwriting existing
// files, and returns how many it copied.
func copyFS(fsys fs.FS, dst string) (int, error) {
	n := 0
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(p))
		if d.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			return nil
		}
		if err := copyFile(fsys, p, target); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func copyFile(fsys fs.FS, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
