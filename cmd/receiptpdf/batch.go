package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	receiptpdf "github.com/alnah/go-receiptpdf"
)

// receiptGenerator is the slice of the service the batch runner needs.
type receiptGenerator interface {
	Generate(ctx context.Context, orderID, userID int64, staff bool) (*receiptpdf.Receipt, error)
}

// Compile-time interface implementation check.
var _ receiptGenerator = (*receiptpdf.Service)(nil)

// generatorPool abstracts service pool operations for testability.
type generatorPool interface {
	Acquire() receiptGenerator
	Release(receiptGenerator)
	Size() int
}

// servicePool adapts receiptpdf.ServicePool to generatorPool.
type servicePool struct {
	*receiptpdf.ServicePool
}

func (p servicePool) Acquire() receiptGenerator { return p.ServicePool.Acquire() }

func (p servicePool) Release(g receiptGenerator) {
	if svc, ok := g.(*receiptpdf.Service); ok {
		p.ServicePool.Release(svc)
	}
}

// receiptJob is one order fixture to render.
type receiptJob struct {
	orderPath string
	order     *receiptpdf.Order
	userID    int64
}

// receiptResult holds the outcome of a single generation.
type receiptResult struct {
	orderPath  string
	outputPath string
	err        error
	duration   time.Duration
}

// batchParams carries the output and authorization settings shared by every
// job in a batch.
type batchParams struct {
	output    string
	configDir string
	staff     bool
}

// generateBatch renders order fixtures concurrently using the service pool.
func generateBatch(ctx context.Context, pool generatorPool, jobs []receiptJob, params batchParams) []receiptResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	results := make([]receiptResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = receiptResult{orderPath: jobs[idx].orderPath, err: ctx.Err()}
					continue
				}
				results[idx] = generateOne(ctx, svc, jobs[idx], params)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// generateOne renders a single order and writes the receipt to disk.
func generateOne(ctx context.Context, svc receiptGenerator, job receiptJob, params batchParams) receiptResult {
	start := time.Now()
	result := receiptResult{orderPath: job.orderPath}

	receipt, err := svc.Generate(ctx, job.order.ID, job.userID, params.staff)
	if err != nil {
		result.err = err
		result.duration = time.Since(start)
		return result
	}

	outPath, err := resolveOutputPath(params.output, params.configDir, receipt.Filename)
	if err != nil {
		result.err = err
		result.duration = time.Since(start)
		return result
	}
	if err := os.WriteFile(outPath, receipt.PDF, 0o600); err != nil {
		result.err = fmt.Errorf("%w: %v", ErrWriteReceipt, err)
		result.duration = time.Since(start)
		return result
	}

	result.outputPath = outPath
	result.duration = time.Since(start)
	return result
}
