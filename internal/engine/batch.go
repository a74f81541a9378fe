package engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sookyeong0505/skin-detection-optimizer/internal/config"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/detector"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/fault"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/fusion"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/skin"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/source"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/system"
)

// Result is the immutable per-image output. Failed images keep the error
// kind and message; their verdict stays nil, never fabricated.
type Result struct {
	Index int    `yaml:"index"`
	File  string `yaml:"file"`

	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`

	Detections       []detector.Candidate `yaml:"detections,omitempty"`
	DetectedClasses  string               `yaml:"detected_classes,omitempty"`
	ClassConfidences map[string]float32   `yaml:"class_confidences,omitempty"`

	Skin    *skin.Record    `yaml:"skin,omitempty"`
	Verdict *fusion.Verdict `yaml:"verdict,omitempty"`

	Failed       bool   `yaml:"failed"`
	ErrorKind    string `yaml:"error_kind,omitempty"`
	ErrorMessage string `yaml:"error,omitempty"`

	ElapsedMs int64 `yaml:"elapsed_ms"`
}

// Batch screens every image of a source over a bounded worker pool.
type Batch struct {
	Config   *config.Config
	Source   source.Source
	Analyzer Analyzer
}

func NewBatch(cfg *config.Config, src source.Source, analyzer Analyzer) *Batch {
	return &Batch{Config: cfg, Source: src, Analyzer: analyzer}
}

// Run processes the whole source. Cancelling ctx stops scheduling new
// images; in-flight ones finish or time out, and their results are kept.
// The returned slice holds one entry per scheduled image, in source order.
func (b *Batch) Run(ctx context.Context) ([]*Result, error) {
	startTime := time.Now()

	count := b.Source.Count()
	if count == 0 {
		return nil, fmt.Errorf("source contains no images")
	}

	workers := b.Config.Workers
	if workers > count {
		workers = count
	}

	fmt.Println("--- [BATCH SCREENING] ---")
	fmt.Printf("[*] Source: %s | Images: %d\n", b.Config.InputPath, count)
	fmt.Printf("[*] Model: %s | Engine: %s | Workers: %d\n",
		filepath.Base(b.Config.ModelPath), b.Config.Engine, workers)
	fmt.Printf("[*] Canvas: %dx%d (%s) | Conf: %.2f | IoU: %.2f\n",
		b.Config.CanvasSize, b.Config.CanvasSize, b.Config.ScaleMode,
		b.Config.ConfidenceMin, b.Config.IoUThreshold)
	fmt.Println("-------------------------")

	results := make([]*Result, count)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	scheduled := 0
	for i := 0; i < count; i++ {
		if gctx.Err() != nil {
			log.Printf("[!] Cancelled: %d of %d images not scheduled", count-i, count)
			break
		}
		scheduled++
		i := i
		g.Go(func() error {
			res := b.runTask(gctx, i)
			results[i] = res
			n := done.Add(1)
			if res.Failed {
				log.Printf("[!] %s failed: %s (%s)", res.File, res.ErrorMessage, res.ErrorKind)
			} else {
				fmt.Printf("[>] Ready: %d/%d %s -> %s\n", n, count, res.File, res.Verdict.Recommendation)
			}
			return nil
		})
	}
	g.Wait()

	// Unscheduled tail after a cancel
	results = results[:scheduled]

	if b.Config.ShowStats {
		b.printStats(startTime, results)
	}

	return results, nil
}

// runTask analyzes one image and recovers every classified failure into a
// failed record. Only the outer select enforces the deadline: the underlying
// inference call is not interruptible, so an expired task abandons it and
// the engine lock drains on its own.
func (b *Batch) runTask(ctx context.Context, index int) *Result {
	start := time.Now()
	name := b.Source.Name(index)

	data, err := b.Source.Bytes(index)
	if err != nil {
		return failedResult(index, name, start, fault.Wrap(fault.ImageDecodeError, err))
	}

	tctx, cancel := context.WithTimeout(ctx, b.Config.TaskTimeout)
	defer cancel()

	type outcome struct {
		res *Result
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, aerr := b.Analyzer.Analyze(tctx, name, data)
		ch <- outcome{res, aerr}
	}()

	select {
	case o := <-ch:
		if o.err != nil {
			return failedResult(index, name, start, o.err)
		}
		o.res.Index = index
		o.res.ElapsedMs = time.Since(start).Milliseconds()
		return o.res
	case <-time.After(b.Config.TaskTimeout):
		return failedResult(index, name, start,
			fault.New(fault.TimeoutError, "analysis exceeded %s", b.Config.TaskTimeout))
	}
}

func failedResult(index int, name string, start time.Time, err error) *Result {
	return &Result{
		Index:        index,
		File:         name,
		Failed:       true,
		ErrorKind:    string(fault.KindOf(err, fault.InferenceError)),
		ErrorMessage: err.Error(),
		ElapsedMs:    time.Since(start).Milliseconds(),
	}
}

func (b *Batch) printStats(startTime time.Time, results []*Result) {
	totalTime := time.Since(startTime)
	var failed int
	for _, r := range results {
		if r != nil && r.Failed {
			failed++
		}
	}
	perSec := float64(len(results)) / totalTime.Seconds()
	stats := system.Snapshot()

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Images: %d (failed: %d)\n"+
			"Throughput: %.2f img/s\n"+
			"CPU Cores: %d | RSS: %.1f MB | Host Mem: %.1f%%\n"+
			"----------------------------\n",
		b.Config.BuildVersion, totalTime.Seconds(), len(results), failed,
		perSec, stats.CPUCores, stats.ProcessRSSMB, stats.MemUsedPercent,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Images: %d | Failed: %d | Total: %.2fs | Throughput: %.2f img/s | RSS: %.1fMB\n",
		time.Now().Format("2006-01-02 15:04:05"),
		b.Config.BuildVersion,
		filepath.Base(b.Config.InputPath),
		len(results),
		failed,
		totalTime.Seconds(),
		perSec,
		stats.ProcessRSSMB,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Could not write benchmark.log: %v\n", err)
	}
}
