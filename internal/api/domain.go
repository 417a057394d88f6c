package api

import (
	"github.com/JaimeStill/tolerance/internal/inference"
	"github.com/JaimeStill/tolerance/internal/knowledge"
	"github.com/JaimeStill/tolerance/internal/pipeline"
	"github.com/JaimeStill/tolerance/internal/standards"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Knowledge knowledge.System
	Standards *standards.Index
	Pipeline  *pipeline.Orchestrator
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	knowledgeSystem := knowledge.New(
		runtime.Knowledge,
		runtime.Cache,
		runtime.Logger,
		runtime.Pagination,
	)

	index := standards.New(runtime.Knowledge, runtime.Cache, runtime.Logger)

	orchestrator := pipeline.New(&pipeline.Runtime{
		Extractor:  inference.NewExtractor(inference.NewAgent(runtime.Agents.Extractor.Agent())),
		Classifier: inference.NewClassifier(inference.NewAgent(runtime.Agents.Classifier.Agent())),
		Baseline:   inference.NewClassifier(inference.NewAgent(runtime.Agents.Baseline.Agent())),
		Generator:  inference.NewGenerator(inference.NewAgent(runtime.Agents.Generator.Agent())),
		Matcher:    index,
		Knowledge:  knowledgeSystem,
		Config:     runtime.Pipeline,
		Logger:     runtime.Logger,
	})

	return &Domain{
		Knowledge: knowledgeSystem,
		Standards: index,
		Pipeline:  orchestrator,
	}
}
