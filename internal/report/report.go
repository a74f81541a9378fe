// Package report turns a batch run into the YAML screening report.
package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Sookyeong0505/skin-detection-optimizer/internal/engine"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/fusion"
	"github.com/Sookyeong0505/skin-detection-optimizer/internal/skin"
)

// Report is the document written after a batch run: the run summary plus
// every per-image record, in source order.
type Report struct {
	Version   string `yaml:"version"`
	Generated string `yaml:"generated"`
	Input     string `yaml:"input"`
	Model     string `yaml:"model"`
	Engine    string `yaml:"engine"`

	Summary Summary          `yaml:"summary"`
	Results []*engine.Result `yaml:"results"`
}

// Summary aggregates the run for readers who never scroll past the header.
type Summary struct {
	Images  int `yaml:"images"`
	Failed  int `yaml:"failed"`
	Blocked int `yaml:"blocked"`
	Review  int `yaml:"review"`
	Allowed int `yaml:"allowed"`

	SkinDetected  int `yaml:"skin_detected"`
	SkinSuspected int `yaml:"skin_suspected"`

	ElapsedMs int64 `yaml:"elapsed_ms"`
}

// Build assembles the report document from the batch output.
func Build(version, input, model, engineName string, results []*engine.Result) *Report {
	r := &Report{
		Version:   version,
		Generated: time.Now().Format("2006-01-02 15:04:05"),
		Input:     input,
		Model:     filepath.Base(model),
		Engine:    engineName,
		Results:   results,
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		r.Summary.Images++
		r.Summary.ElapsedMs += res.ElapsedMs
		if res.Failed {
			r.Summary.Failed++
			continue
		}
		if res.Verdict != nil {
			switch res.Verdict.Recommendation {
			case fusion.ActionBlock:
				r.Summary.Blocked++
			case fusion.ActionReview:
				r.Summary.Review++
			case fusion.ActionAllow:
				r.Summary.Allowed++
			}
		}
		if res.Skin != nil {
			switch res.Skin.Judgment {
			case skin.JudgmentDetected:
				r.Summary.SkinDetected++
			case skin.JudgmentSuspected:
				r.Summary.SkinSuspected++
			}
		}
	}
	return r
}

// GeneratePath returns a timestamped report path inside dir.
func GeneratePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("report_%s.yaml", timestamp))
}
