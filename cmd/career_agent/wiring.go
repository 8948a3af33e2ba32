package main

import (
	"context"
	"fmt"

	"github.com/jonathan/career-assistant/internal/classify"
	"github.com/jonathan/career-assistant/internal/config"
	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/orchestrator"
	"github.com/jonathan/career-assistant/internal/react"
	"github.com/jonathan/career-assistant/internal/search"
	"github.com/jonathan/career-assistant/internal/session"
	"github.com/jonathan/career-assistant/internal/skills"
	"github.com/jonathan/career-assistant/internal/types"
)

// buildOrchestratorFactory wires the model client, the classifier, and
// the skill handlers into a factory producing one orchestrator per
// session. The client and tools are shared; session state is not.
func buildOrchestratorFactory(ctx context.Context, cfg *config.Config) (func() *orchestrator.Orchestrator, func(), error) {
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create model client: %w", err)
	}

	var tools []react.Tool
	if cfg.SearchEnabled() {
		webSearch, err := search.NewWebSearch(ctx, cfg.SearchAPIKey, cfg.SearchEngineID, cfg.UseBrowser)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to create web search tool: %w", err)
		}
		tools = append(tools, webSearch)
	} else {
		fmt.Println("⚠ Search credentials not configured; skills will answer from model knowledge only")
	}

	classifier := classify.NewClassifier(client)

	factory := func() *orchestrator.Orchestrator {
		handlers := map[types.Category]skills.Handler{
			types.CategoryResumeBuilder:     skills.NewResumeBuilder(client),
			types.CategoryJobSearch:         skills.NewJobSearch(client, tools),
			types.CategoryInterviewPrep:     skills.NewInterviewPrep(client, tools),
			types.CategoryInterviewMock:     skills.NewMockInterview(client),
			types.CategoryInterviewEvaluate: skills.NewInterviewEvaluate(client),
			types.CategoryTutorials:         skills.NewTutorials(client, tools),
			types.CategoryGeneralQnA:        skills.NewQnA(client),
		}
		return orchestrator.New(classifier, handlers, session.NewStore())
	}

	cleanup := func() {
		_ = client.Close()
	}
	return factory, cleanup, nil
}

// loadConfig merges config file values with environment variables.
// Environment values win; file values fill the gaps.
func loadConfig(configPath string) (*config.Config, error) {
	cfg := config.FromEnv()

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
