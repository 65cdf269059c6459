package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	receiptpdf "github.com/alnah/go-receiptpdf"
)

// fakeGenerator returns canned receipts keyed by order ID.
type fakeGenerator struct {
	mu       sync.Mutex
	receipts map[int64]*receiptpdf.Receipt
	errs     map[int64]error
	calls    []int64
}

func (g *fakeGenerator) Generate(_ context.Context, orderID, _ int64, _ bool) (*receiptpdf.Receipt, error) {
	g.mu.Lock()
	g.calls = append(g.calls, orderID)
	g.mu.Unlock()
	if err := g.errs[orderID]; err != nil {
		return nil, err
	}
	return g.receipts[orderID], nil
}

// fakePool hands out the same generator to every worker.
type fakePool struct {
	gen      *fakeGenerator
	size     int
	released int
}

func (p *fakePool) Acquire() receiptGenerator { return p.gen }
func (p *fakePool) Release(receiptGenerator)  { p.released++ }
func (p *fakePool) Size() int                 { return p.size }

func batchJobs(ids ...int64) []receiptJob {
	jobs := make([]receiptJob, 0, len(ids))
	for _, id := range ids {
		jobs = append(jobs, receiptJob{
			orderPath: fmt.Sprintf("order-%d.yaml", id),
			order:     &receiptpdf.Order{ID: id, UserID: 7},
			userID:    7,
		})
	}
	return jobs
}

func TestGenerateBatchWritesAllReceipts(t *testing.T) {
	dir := t.TempDir()
	gen := &fakeGenerator{receipts: map[int64]*receiptpdf.Receipt{
		1: {PDF: []byte("%PDF-1"), Filename: "cg_order_1.pdf"},
		2: {PDF: []byte("%PDF-2"), Filename: "cg_order_2.pdf"},
		3: {PDF: []byte("%PDF-3"), Filename: "cg_order_3.pdf"},
	}}
	pool := &fakePool{gen: gen, size: 2}

	results := generateBatch(context.Background(), pool, batchJobs(1, 2, 3), batchParams{output: dir})

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for i, r := range results {
		if r.err != nil {
			t.Fatalf("results[%d].err = %v", i, r.err)
		}
		data, err := os.ReadFile(r.outputPath)
		if err != nil {
			t.Fatalf("reading %s: %v", r.outputPath, err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Errorf("results[%d] wrote %q", i, data)
		}
	}
	if pool.released != 2 {
		t.Errorf("released = %d, want one release per worker", pool.released)
	}
	if got := filepath.Dir(results[0].outputPath); got != dir {
		t.Errorf("output dir = %q, want %q", got, dir)
	}
}

func TestGenerateBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	genErr := errors.New("rail down")
	gen := &fakeGenerator{
		receipts: map[int64]*receiptpdf.Receipt{
			1: {PDF: []byte("%PDF-1"), Filename: "cg_order_1.pdf"},
			3: {PDF: []byte("%PDF-3"), Filename: "cg_order_3.pdf"},
		},
		errs: map[int64]error{2: genErr},
	}
	pool := &fakePool{gen: gen, size: 1}

	results := generateBatch(context.Background(), pool, batchJobs(1, 2, 3), batchParams{output: dir})

	if results[0].err != nil || results[2].err != nil {
		t.Errorf("healthy jobs failed: %v / %v", results[0].err, results[2].err)
	}
	if !errors.Is(results[1].err, genErr) {
		t.Errorf("results[1].err = %v, want the generation error", results[1].err)
	}
	if results[1].outputPath != "" {
		t.Errorf("failed job wrote %q", results[1].outputPath)
	}
}

func TestGenerateBatchCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &fakeGenerator{}
	pool := &fakePool{gen: gen, size: 1}

	results := generateBatch(ctx, pool, batchJobs(1, 2), batchParams{output: t.TempDir()})

	for i, r := range results {
		if !errors.Is(r.err, context.Canceled) {
			t.Errorf("results[%d].err = %v, want context.Canceled", i, r.err)
		}
	}
	if len(gen.calls) != 0 {
		t.Errorf("generator called after cancellation: %v", gen.calls)
	}
}

func TestPrintResults(t *testing.T) {
	results := []receiptResult{
		{orderPath: "a.yaml", outputPath: "out/a.pdf"},
		{orderPath: "b.yaml", err: receiptpdf.ErrOrderNotFound},
	}

	var out bytes.Buffer
	err := printResults(results, &out, false)
	if !errors.Is(err, receiptpdf.ErrOrderNotFound) {
		t.Errorf("printResults() error = %v, want the first failure", err)
	}

	got := out.String()
	if !strings.Contains(got, "out/a.pdf") {
		t.Errorf("output missing success path: %q", got)
	}
	if !strings.Contains(got, "1 succeeded, 1 failed") {
		t.Errorf("output missing summary: %q", got)
	}
}

func TestPrintResultsSingleOrderPrintsPathOnly(t *testing.T) {
	var out bytes.Buffer
	if err := printResults([]receiptResult{{orderPath: "a.yaml", outputPath: "a.pdf"}}, &out, false); err != nil {
		t.Fatalf("printResults() error: %v", err)
	}
	if out.String() != "a.pdf\n" {
		t.Errorf("output = %q, want the path alone", out.String())
	}
}
