// Package app wires configuration into the logger, metrics, text generation
// client, knowledge index and analyzer shared by the binaries.
package app

import (
	"fmt"
	"net/http"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/config"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/llm"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/narrative"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/observability"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/retrieval"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/service"
)

type App struct {
	logger   *internal.ZapLogger
	metrics  *observability.Metrics
	analyzer *service.Analyzer
}

// Options adjusts wiring that differs between the server and the CLI.
type Options struct {
	// Offline ignores any configured API key.
	Offline bool
	// NoMetrics skips the Prometheus registry.
	NoMetrics bool
}

func New(cfg *config.Config, opts Options) (*App, error) {
	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	var metrics *observability.Metrics
	if !opts.NoMetrics {
		metrics = observability.NewMetrics()
	}

	index, err := LoadKnowledge(cfg)
	if err != nil {
		return nil, err
	}

	var completer narrative.Completer = narrative.Offline{}
	if cfg.Online() && !opts.Offline {
		completer = llm.New(llm.Options{
			BaseURL:    cfg.LLMBaseURL,
			APIKey:     cfg.LLMAPIKey,
			Model:      cfg.LLMModel,
			Timeout:    cfg.LLMTimeout,
			MaxRetries: cfg.LLMMaxRetries,
		}, logger, metrics)
		logger.Infof("text generation enabled model=%s", cfg.LLMModel)
	} else {
		logger.Info("text generation disabled, using rule-based narrative")
	}

	analyzer := service.NewAnalyzer(logger, narrative.NewWriter(completer, index, metrics), metrics)
	analyzer.Workers = cfg.BatchWorkers
	analyzer.NarrativeTimeout = cfg.NarrativeTimeout

	return &App{logger: logger, metrics: metrics, analyzer: analyzer}, nil
}

// LoadKnowledge picks the advice corpus: a YAML file, then a directory of
// text files, then the builtin snippets.
func LoadKnowledge(cfg *config.Config) (*retrieval.Index, error) {
	switch {
	case cfg.KnowledgeFile != "":
		idx, err := retrieval.LoadYAML(cfg.KnowledgeFile)
		if err != nil {
			return nil, fmt.Errorf("knowledge: %w", err)
		}
		return idx, nil
	case cfg.KnowledgeDir != "":
		return retrieval.LoadDir(cfg.KnowledgeDir)
	default:
		return retrieval.Builtin(), nil
	}
}

func (a *App) Logger() internal.Logger { return a.logger }

func (a *App) Analyzer() *service.Analyzer { return a.analyzer }

func (a *App) Metrics() *observability.Metrics { return a.metrics }

func (a *App) MetricsHandler() http.Handler {
	if a.metrics == nil {
		return nil
	}
	return a.metrics.Handler()
}

// Close flushes buffered log entries.
func (a *App) Close() error { return a.logger.Sync() }
