package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Sookyeong0505/skin-detection-optimizer/internal/config"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/detector"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/engine"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/inference"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/report"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/source"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/system"
)

const buildVersion = "1.2.0"

func main() {
	// Raise limits for macOS/Linux
	system.InitResourceLimits()

	// Create expected directories if missing
	dirs := []string{"input", "models", "reports"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	configPtr := flag.String("config", "", "Path to a yaml config (flags override it)")
	inputPtr := flag.String("input", "", "Path to an image folder or a PDF (default: newest file in input/)")
	outputPtr := flag.String("output", "", "Path to the yaml report (default: generated in reports/)")
	modelPtr := flag.String("model", "", "Path to the ONNX model (default: newest .onnx in models/)")
	enginePtr := flag.String("engine", "", "Inference backend: opencv, onnx")
	workersPtr := flag.Int("workers", 0, "Worker pool size (default: CPU count)")
	scalePtr := flag.String("scale", "", "Canvas fit: letterbox, stretch")
	confPtr := flag.Float64("conf", 0, "Confidence floor (0..1)")
	iouPtr := flag.Float64("iou", 0, "IoU suppression threshold (0..1)")
	sizePtr := flag.Int("size", 0, "Model canvas side, multiple of 32")
	timeoutPtr := flag.Duration("timeout", 0, "Per-image deadline (e.g. 30s)")
	statsPtr := flag.Bool("stats", false, "Print the performance report and append benchmark.log")

	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPtr != "" {
		cfg, err = config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Config error: %v", err)
		}
	} else {
		cfg = config.Default()
	}
	cfg.BuildVersion = buildVersion

	// Flags win over the config file
	if *inputPtr != "" {
		cfg.InputPath = *inputPtr
	}
	if *outputPtr != "" {
		cfg.OutputPath = *outputPtr
	}
	if *modelPtr != "" {
		cfg.ModelPath = *modelPtr
	}
	if *enginePtr != "" {
		cfg.Engine = *enginePtr
	}
	if *workersPtr > 0 {
		cfg.Workers = *workersPtr
	}
	if *scalePtr != "" {
		cfg.ScaleMode = *scalePtr
	}
	if *confPtr > 0 {
		cfg.ConfidenceMin = *confPtr
	}
	if *iouPtr > 0 {
		cfg.IoUThreshold = *iouPtr
	}
	if *sizePtr > 0 {
		cfg.CanvasSize = *sizePtr
	}
	if *timeoutPtr > 0 {
		cfg.TaskTimeout = *timeoutPtr
	}
	if *statsPtr {
		cfg.ShowStats = true
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if cfg.InputPath == "" {
		latest, err := system.FindLatestInput("input")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put images or a PDF into input/", err)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Selected input: %s\n", cfg.InputPath)
	}

	if cfg.ModelPath == "" {
		latest, err := system.FindLatestModel("models")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put an .onnx model into models/", err)
		}
		cfg.ModelPath = latest
		fmt.Printf("[*] Selected model: %s\n", cfg.ModelPath)
	}

	if cfg.OutputPath == "" {
		cfg.OutputPath = report.GeneratePath("reports")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}

	src, err := source.Open(cfg.InputPath)
	if err != nil {
		log.Fatalf("[-] Source error: %v", err)
	}
	defer src.Close()

	eng, err := inference.NewEngine(cfg.Engine, inference.Options{
		ModelPath: cfg.ModelPath,
		InputSize: cfg.CanvasSize,
		NumAttrs:  4 + detector.NumClasses,
	})
	if err != nil {
		log.Fatalf("[-] Engine error: %v", err)
	}
	defer eng.Close()

	// Ctrl+C stops scheduling; in-flight images finish
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startTime := time.Now()
	batch := engine.NewBatch(cfg, src, engine.NewImageAnalyzer(cfg, eng))
	results, err := batch.Run(ctx)
	if err != nil {
		log.Fatalf("[-] Batch error: %v", err)
	}

	doc := report.Build(buildVersion, cfg.InputPath, cfg.ModelPath, cfg.Engine, results)
	if err := report.Write(doc, cfg.OutputPath); err != nil {
		log.Fatalf("[-] Report error: %v", err)
	}

	fmt.Printf("[+++] Done in %.2fs! Report: %s (blocked: %d, review: %d, allowed: %d, failed: %d)\n",
		time.Since(startTime).Seconds(), cfg.OutputPath,
		doc.Summary.Blocked, doc.Summary.Review, doc.Summary.Allowed, doc.Summary.Failed)
}
