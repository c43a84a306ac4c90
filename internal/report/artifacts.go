package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/models"
)

// ArtifactStore persists report artifacts under a single output directory
// using the naming scheme {stage}_{TICKER}_{timestamp}.md.
type ArtifactStore struct {
	dir string
	log *zap.SugaredLogger
}

func NewArtifactStore(dir string, log *zap.SugaredLogger) *ArtifactStore {
	return &ArtifactStore{dir: dir, log: log}
}

// Save writes one report artifact and returns its path. When the derived
// filename already exists a numeric suffix is appended, so two saves in the
// same second never overwrite each other.
func (s *ArtifactStore) Save(stage, ticker, content string, at time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	base := fmt.Sprintf("%s_%s_%s", stage, strings.ToUpper(ticker), at.Format(fileTimeLayout))
	path := filepath.Join(s.dir, base+".md")
	for n := 1; fileExists(path); n++ {
		path = filepath.Join(s.dir, fmt.Sprintf("%s_%d.md", base, n))
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report artifact: %w", err)
	}

	s.log.Infow("saved report artifact", "stage", stage, "ticker", ticker, "path", path)
	return path, nil
}

// SaveStage persists one stage result as its rendered report.
func (s *ArtifactStore) SaveStage(ticker string, result models.StageResult, at time.Time) (string, error) {
	content := FormatAgentReport(ticker, result, at)
	return s.Save(StageFilePrefix(result.Kind()), ticker, content, at)
}

// Latest returns the path of the most recently modified artifact for a stage
// and ticker, or os.ErrNotExist when none has been written.
func (s *ArtifactStore) Latest(stage, ticker string) (string, error) {
	pattern := filepath.Join(s.dir, fmt.Sprintf("%s_%s_*.md", stage, strings.ToUpper(ticker)))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}

	var (
		newest     string
		newestTime time.Time
	)
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = path
			newestTime = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no %s report for %s: %w", stage, ticker, os.ErrNotExist)
	}
	return newest, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Extractor reads the latest persisted artifacts back into typed results.
type Extractor struct {
	store *ArtifactStore
}

func NewExtractor(dir string, log *zap.SugaredLogger) *Extractor {
	return &Extractor{store: NewArtifactStore(dir, log)}
}

func (e *Extractor) read(stage, ticker string) (string, error) {
	path, err := e.store.Latest(stage, ticker)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read report artifact: %w", err)
	}
	return string(data), nil
}

// LatestSentiment parses the newest sentiment report for a ticker.
func (e *Extractor) LatestSentiment(ticker string) (*models.SentimentResult, Meta, error) {
	content, err := e.read(StageFilePrefix(models.KindSentiment), ticker)
	if err != nil {
		return nil, Meta{}, err
	}
	result, meta := ParseSentimentReport(content)
	return result, meta, nil
}

// LatestEvents parses the newest event-detection report for a ticker.
func (e *Extractor) LatestEvents(ticker string) (*models.EventResult, Meta, error) {
	content, err := e.read(StageFilePrefix(models.KindEvents), ticker)
	if err != nil {
		return nil, Meta{}, err
	}
	result, meta := ParseEventReport(content)
	return result, meta, nil
}

// LatestVolatility parses the newest volatility report for a ticker.
func (e *Extractor) LatestVolatility(ticker string) (*models.VolatilityResult, Meta, error) {
	content, err := e.read(StageFilePrefix(models.KindVolatility), ticker)
	if err != nil {
		return nil, Meta{}, err
	}
	result, meta := ParseVolatilityReport(content)
	return result, meta, nil
}

// LatestFinal parses the newest aggregate report for a ticker.
func (e *Extractor) LatestFinal(ticker string) (*FinalSummary, Meta, error) {
	content, err := e.read(FinalReportStage, ticker)
	if err != nil {
		return nil, Meta{}, err
	}
	summary, meta := ParseFinalReport(content)
	return summary, meta, nil
}
