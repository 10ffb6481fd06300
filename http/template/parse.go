// Package template parses a switchback app's view templates,
// merging the app's own filesystem with package-level defaults.
package template

import (
	"fmt"
	html "html/template"
	"io/fs"
	"os"
	"path"
	"sync"
)

// Parser is the interface for locating and parsing HTML templates
// with the functions provided.
type Parser interface {
	AddFn(name string, fn any)
	Exists(fp string) bool
	Parse(fps ...string) (*html.Template, error)
}

// Parse implements Parser with a focus on utilizing embedded HTML templates through fs.FS.
type Parse struct {
	fs  fs.FS
	fns html.FuncMap
}

// NewParser constructs a Parse with the provided functional options.
func NewParser(opts ...ParserOptFn) Parser {
	p := &Parse{fns: make(html.FuncMap)}
	for _, opt := range opts {
		opt(p)
	}

	userFS := p.fs
	if userFS == nil {
		userFS = os.DirFS(".")
	}

	p.fs = &mergeFS{
		cache:   make(map[string]func(string) (fs.File, error)),
		userDir: userFS,
		pkgDir:  pkgFS,
		Mutex:   sync.Mutex{},
	}

	return p
}

// Exists asserts whether a template can be found at the filepath.
//
// An absent template is an expected state for actions with no view;
// calling code decides whether that is an error.
func (p *Parse) Exists(fp string) bool {
	file, err := p.fs.Open(fp)
	if err != nil {
		return false
	}

	file.Close()
	return true
}

// Parse parses files found in the *Parse.fs with those functions provided previously.
func (p *Parse) Parse(fps ...string) (*html.Template, error) {
	for i, fp := range fps {
		if fp == "" {
			fps = append(fps[:i], fps[i+1:]...)
		}
	}

	if len(fps) == 0 {
		return nil, fmt.Errorf("%w", ErrNoFiles)
	}

	return html.New(path.Base(fps[0])).Funcs(p.fns).ParseFS(p.fs, fps...)
}
