package grundbuch

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/grundbuch/cache"
	"github.com/tsawler/grundbuch/classify"
	"github.com/tsawler/grundbuch/config"
	"github.com/tsawler/grundbuch/extract"
	"github.com/tsawler/grundbuch/layout"
	"github.com/tsawler/grundbuch/model"
	"github.com/tsawler/grundbuch/ocr"
	"github.com/tsawler/grundbuch/raster"
	"github.com/tsawler/grundbuch/rules"
)

// numericWhitelist restricts OCR of number columns
const numericWhitelist = "0123456789/-.,() "

const mmPerInch = 25.4

func newRunID() string {
	return uuid.NewString()
}

// run is one execution of the pipeline
type run struct {
	id       string
	source   Source
	cfg      *config.Config
	registry string
	cache    *cache.Cache
	// pageEngine reads whole pages for classification; its output is cached
	// as page text rather than as OCR lines.
	pageEngine ocr.Engine
	engine     ocr.Engine
	rule       rules.TextRule
	logger     *slog.Logger

	mu     sync.Mutex
	result *Result
}

func (r *run) workers() int {
	if r.cfg.Workers > 0 {
		return r.cfg.Workers
	}
	return 1
}

// fail records a page-level failure. The first failure of a page wins.
func (r *run) fail(page int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.result.PageErrors[page]; ok {
		return
	}
	r.result.PageErrors[page] = err
	r.logger.Warn("page skipped", "page", page, "err", err)
}

func (r *run) extract(ctx context.Context, pages []int) (*Result, error) {
	r.result = &Result{
		RunID:      r.id,
		PageTypes:  make(map[int]classify.PageType),
		PageErrors: make(map[int]error),
	}
	r.logger.Info("extraction started", "registry", r.registry, "pages", len(pages))

	loaded, err := r.loadPages(ctx, pages)
	if err != nil {
		return nil, err
	}
	loaded, err = r.classify(ctx, loaded)
	if err != nil {
		return nil, err
	}
	blocks, err := r.assemble(ctx, loaded)
	if err != nil {
		return nil, err
	}

	ex := extract.NewExtractorWithConfig(r.cfg.ExtractConfig(), extract.WithLogger(r.logger))
	gb := ex.Grundbuch(r.cfg.Registry, blocks)

	scanner := extract.NewRasterScanner(r.cfg.Thresholds.RoetungRatio)
	for _, p := range loaded {
		scanner.AddPage(p)
	}
	if err := extract.ApplyAutoCancellation(ctx, extract.Cancellables(gb), scanner, r.workers()); err != nil {
		return nil, err
	}
	r.result.Grundbuch = gb

	rights, err := r.analyse(ctx, gb)
	if err != nil {
		return nil, err
	}
	r.result.Rights = rights

	r.logger.Info("extraction finished",
		"pages", len(loaded),
		"failed_pages", len(r.result.PageErrors),
		"rights", len(rights))
	return r.result, nil
}

// loadPages reads scan and text layer of every page concurrently. The
// returned pages are in page order; pages that failed to load are missing.
func (r *run) loadPages(ctx context.Context, pages []int) ([]*layout.PageImage, error) {
	out := make([]*layout.PageImage, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, page := range pages {
		g.Go(func() error {
			p, err := r.loadPage(gctx, page)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.fail(page, err)
				return nil
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return compact(out), nil
}

func (r *run) loadPage(ctx context.Context, page int) (*layout.PageImage, error) {
	img, err := r.source.Image(ctx, page)
	if err != nil {
		return nil, err
	}
	layer, err := r.source.VectorText(ctx, page)
	if err != nil {
		return nil, err
	}

	size := layer.Size
	if size.Width <= 0 || size.Height <= 0 {
		// No text layer: derive the sheet size from the scan resolution.
		dpi := float64(r.cfg.DPI)
		if dpi <= 0 {
			dpi = 300
		}
		b := img.Bounds()
		size = model.Size{
			Width:  float64(b.Dx()) / dpi * mmPerInch,
			Height: float64(b.Dy()) / dpi * mmPerInch,
		}
	}
	return layout.NewPageImage(page, img, size, layer.Fragments), nil
}

// classify assigns a page type to every loaded page and drops the pages
// that could not be classified
func (r *run) classify(ctx context.Context, pages []*layout.PageImage) ([]*layout.PageImage, error) {
	forced := r.cfg.ForcedTypes()
	texts := make([]classify.PageText, len(pages))
	failed := make([]bool, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, p := range pages {
		b := p.Image.Bounds()
		texts[i] = classify.PageText{Index: p.Index, Width: b.Dx(), Height: b.Dy()}
		if _, ok := forced[p.Index]; ok {
			continue
		}
		g.Go(func() error {
			ocrText, err := r.pageText(gctx, p)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.fail(p.Index, &model.ToolError{Page: p.Index, Op: "ocr page", Err: err})
				failed[i] = true
				return nil
			}
			texts[i].Text = ocrText
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := make([]classify.PageText, 0, len(texts))
	for i, t := range texts {
		if !failed[i] {
			batch = append(batch, t)
		}
	}
	res := classify.NewClassifier().ClassifyPages(batch, forced)
	for page, err := range res.Errors {
		r.fail(page, err)
	}

	var out []*layout.PageImage
	for _, p := range pages {
		pt, ok := res.Types[p.Index]
		if !ok {
			continue
		}
		r.result.PageTypes[p.Index] = pt
		r.logger.Debug("page classified", "page", p.Index, "type", pt)
		out = append(out, p)
	}
	return out, nil
}

// pageText returns the text used for classification: the full-page OCR
// followed by the vector text of the page
func (r *run) pageText(ctx context.Context, p *layout.PageImage) (string, error) {
	key := cache.Key{Registry: r.registry, Page: p.Index, Kind: cache.KindPageText, Geometry: "page"}
	data, err := r.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]byte, error) {
		png, err := raster.EncodePNG(p.Image)
		if err != nil {
			return nil, err
		}
		res, err := r.pageEngine.Recognize(ctx, ocr.Input{
			ID:        "page",
			Image:     png,
			PageIndex: p.Index,
			DPI:       int(p.Transform.DPI()),
			Languages: r.cfg.Languages,
		})
		if err != nil {
			return nil, err
		}
		return []byte(res.Text()), nil
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Write(data)
	for _, f := range p.Fragments {
		sb.WriteByte(' ')
		sb.WriteString(f.Text)
	}
	return sb.String(), nil
}

// assemble crops, recognises and assembles every column of every page
func (r *run) assemble(ctx context.Context, pages []*layout.PageImage) ([]extract.PageBlocks, error) {
	mapper := r.cfg.Mapper()
	cropper := layout.NewCropper(r.cache, r.registry)
	assembler := layout.NewAssembler()

	out := make([]extract.PageBlocks, len(pages))
	failed := make([]bool, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, p := range pages {
		pt := r.result.PageTypes[p.Index]
		cols, err := mapper.Columns(p.Index, pt)
		if err != nil {
			r.fail(p.Index, &model.PageError{Page: p.Index, Err: err})
			failed[i] = true
			continue
		}
		out[i] = extract.PageBlocks{Index: p.Index, Type: pt, Columns: make([]layout.ColumnBlocks, len(cols))}
		rows := r.cfg.Rows(p.Index)

		for j, col := range cols {
			g.Go(func() error {
				lines, err := r.columnLines(gctx, cropper, p, col)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					r.fail(p.Index, &model.ToolError{Page: p.Index, Op: "ocr column " + col.ID, Err: err})
					r.mu.Lock()
					failed[i] = true
					r.mu.Unlock()
					return nil
				}
				out[i].Columns[j] = assembler.Assemble(layout.ColumnInput{
					Column:    col,
					Transform: p.Transform,
					Lines:     lines,
					Crop:      p.CropRect(col),
					Fragments: p.Fragments,
					Rows:      rows,
				})
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	blocks := make([]extract.PageBlocks, 0, len(out))
	for i, b := range out {
		if !failed[i] {
			blocks = append(blocks, b)
		}
	}
	return blocks, nil
}

// columnLines returns the OCR lines of one column crop
func (r *run) columnLines(ctx context.Context, cropper *layout.Cropper, p *layout.PageImage, col layout.Column) ([]ocr.Line, error) {
	png, err := cropper.Crop(ctx, p, col)
	if err != nil {
		return nil, err
	}
	in := ocr.Input{
		ID:        p.Geometry(col),
		Image:     png,
		PageIndex: p.Index,
		DPI:       int(p.Transform.DPI()),
		Languages: r.cfg.Languages,
	}
	if col.Numeric {
		in.Metadata = map[string]string{"tessedit_char_whitelist": numericWhitelist}
	}
	res, err := r.engine.Recognize(ctx, in)
	if err != nil {
		return nil, err
	}
	return res.Lines, nil
}

// compact drops nil entries, keeping order
func compact(pages []*layout.PageImage) []*layout.PageImage {
	out := pages[:0]
	for _, p := range pages {
		if p != nil {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
