package catalog

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"

	"isodepot/internal/common"
)

// NoteMeta is the optional frontmatter of a note file.
type NoteMeta struct {
	Title    string `yaml:"title"`
	Homepage string `yaml:"homepage"`
}

// NotePage is a rendered per-distribution note.
type NotePage struct {
	Title    string `json:"title"`
	Homepage string `json:"homepage,omitempty"`
	HTML     string `json:"html"`
}

// Notes renders the markdown note pages shipped next to the catalog. A note
// for distribution id lives at <dir>/<id>.md.
type Notes struct {
	fs  afero.Fs
	dir string
	md  goldmark.Markdown
	log *slog.Logger
}

func NewNotes(fs afero.Fs, dir string, log *slog.Logger) *Notes {
	md := goldmark.New(
		goldmark.WithExtensions(
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &Notes{
		fs:  fs,
		dir: dir,
		md:  md,
		log: log.With(slog.String("item", "Notes")),
	}
}

func (n *Notes) Render(id string) (*NotePage, error) {
	fileName := filepath.Join(n.dir, id+".md")

	src, err := afero.ReadFile(n.fs, fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.ErrNoteNotFound
		}

		return nil, fmt.Errorf("cannot read note file: %w", err)
	}

	var buf bytes.Buffer
	pc := parser.NewContext()
	if err := n.md.Convert(src, &buf, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("cannot convert note markdown: %w", err)
	}

	page := &NotePage{
		Title: id,
		HTML:  buf.String(),
	}

	if fm := frontmatter.Get(pc); fm != nil {
		var meta NoteMeta
		if err := fm.Decode(&meta); err != nil {
			n.log.Warn("Cannot decode note frontmatter", slog.String("note", id), slog.Any("error", err))
		} else {
			if meta.Title != "" {
				page.Title = meta.Title
			}
			page.Homepage = meta.Homepage
		}
	}

	return page, nil
}
