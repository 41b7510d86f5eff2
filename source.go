package grundbuch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/raster"
	"github.com/tsawler/grundbuch/text"
)

var (
	// ErrNoPage is returned when a page is requested that the source does not hold
	ErrNoPage = errors.New("page not in source")

	errNoSource = errors.New("no source specified")
)

// Source supplies the scans and text layer of one register sheet.
// Page numbers start at 1. Implementations must be safe for concurrent use.
type Source interface {
	// PageNumbers returns the available pages in ascending order
	PageNumbers() []int
	Image(ctx context.Context, page int) (image.Image, error)
	// VectorText returns the text layer of a page. A page without one
	// yields an empty Page and no error.
	VectorText(ctx context.Context, page int) (text.Page, error)
}

// TextLayerFile is the name of the bbox-layout dump inside a project directory
const TextLayerFile = "text.xhtml"

var pageFile = regexp.MustCompile(`^page-(\d+)\.(?:tiff?|png)$`)

// DirSource reads a project directory holding one scan per page, named
// page-001.tif, page-002.png and so on, plus an optional text.xhtml dump
// produced by pdftotext -bbox-layout. The n-th page of the dump belongs to
// page n.
type DirSource struct {
	dir    string
	images map[int]string
	layer  func() ([]text.Page, error)
}

// NewDirSource scans dir for page images. The text layer is parsed on
// first use.
func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}

	s := &DirSource{dir: dir, images: make(map[int]string)}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pageFile.FindStringSubmatch(strings.ToLower(e.Name()))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			continue
		}
		if prev, dup := s.images[n]; dup {
			return nil, fmt.Errorf("page %d: both %s and %s", n, filepath.Base(prev), e.Name())
		}
		s.images[n] = filepath.Join(dir, e.Name())
	}
	if len(s.images) == 0 {
		return nil, fmt.Errorf("no page scans in %s", dir)
	}

	s.layer = sync.OnceValues(func() ([]text.Page, error) {
		f, err := os.Open(filepath.Join(dir, TextLayerFile))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return text.ParseBBoxLayout(f)
	})
	return s, nil
}

// PageNumbers implements Source
func (s *DirSource) PageNumbers() []int {
	out := make([]int, 0, len(s.images))
	for n := range s.images {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Image implements Source
func (s *DirSource) Image(ctx context.Context, page int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := s.images[page]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoPage, page)
	}
	img, err := raster.LoadFile(path)
	if err != nil {
		return nil, &model.ToolError{Page: page, Path: path, Op: "load scan", Err: err}
	}
	return img, nil
}

// VectorText implements Source
func (s *DirSource) VectorText(ctx context.Context, page int) (text.Page, error) {
	if err := ctx.Err(); err != nil {
		return text.Page{}, err
	}
	pages, err := s.layer()
	if err != nil {
		return text.Page{}, &model.ToolError{
			Page: page,
			Path: filepath.Join(s.dir, TextLayerFile),
			Op:   "parse text layer",
			Err:  err,
		}
	}
	if page < 1 || page > len(pages) {
		return text.Page{Index: page}, nil
	}
	p := pages[page-1]
	p.Index = page
	return p, nil
}
