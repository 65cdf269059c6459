package receiptpdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// pageStamper abstracts the pagination pass over a rendered PDF.
type pageStamper interface {
	Stamp(pdf []byte) ([]byte, error)
}

// Compile-time interface check
var _ pageStamper = (*pdfcpuStamper)(nil)

// stampDesc places the page label at the bottom-right corner of the receipt
// page: 10pt Helvetica anchored 52pt in from the right edge and 10pt up from
// the bottom, unscaled and unrotated.
const stampDesc = "fontname:Helvetica, points:10, scalefactor:1 abs, position:br, offset:-52 10, rotation:0"

// pdfcpuStamper stamps "Page X of Y" labels onto every page of a PDF.
// The rendered document has no knowledge of its own page count, so the label
// is applied in a second pass over the finished PDF.
type pdfcpuStamper struct {
	conf *model.Configuration
}

func newPdfcpuStamper() *pdfcpuStamper {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &pdfcpuStamper{conf: conf}
}

// Stamp returns a copy of pdf with a per-page "Page X of Y" label.
func (s *pdfcpuStamper) Stamp(pdf []byte) ([]byte, error) {
	pageCount, err := api.PageCount(bytes.NewReader(pdf), s.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: counting pages: %v", ErrStampFailure, err)
	}
	if pageCount < 1 {
		return nil, fmt.Errorf("%w: document has no pages", ErrStampFailure)
	}

	watermarks := make(map[int]*model.Watermark, pageCount)
	for page, label := range pageLabels(pageCount) {
		wm, err := api.TextWatermark(label, stampDesc, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("%w: building stamp for page %d: %v", ErrStampFailure, page, err)
		}
		watermarks[page] = wm
	}

	var out bytes.Buffer
	if err := api.AddWatermarksMap(bytes.NewReader(pdf), &out, watermarks, s.conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStampFailure, err)
	}
	return out.Bytes(), nil
}

// pageLabels returns the label for each page, keyed by 1-based page number.
func pageLabels(pageCount int) map[int]string {
	labels := make(map[int]string, pageCount)
	for i := 1; i <= pageCount; i++ {
		labels[i] = fmt.Sprintf("Page %d of %d", i, pageCount)
	}
	return labels
}
