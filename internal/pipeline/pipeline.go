// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/arxivhub/internal/embedding"
	"github.com/pdiddy/arxivhub/internal/llm"
	"github.com/pdiddy/arxivhub/internal/vectorstore"
	"github.com/pdiddy/arxivhub/pkg/types"
)

// Stage identifies a step of the turn resolution flow. Stages are streamed
// to the caller as progress events.
type Stage string

const (
	StageSummarizing Stage = "summarizing"
	StageAnalyzing   Stage = "analyzing"
	StageClarifying  Stage = "clarifying"
	StageCasual      Stage = "casual"
	StageScoping     Stage = "scoping"
	StageRetrieving  Stage = "retrieving"
	StageGrading     Stage = "grading"
	StageAuditing    Stage = "auditing"
	StageWebFallback Stage = "web_fallback"
	StageGenerating  Stage = "generating"
)

// Event is one progress notification streamed during a turn.
type Event struct {
	Stage  Stage
	Detail string
}

// EventFunc receives stage progress events. A nil EventFunc disables
// streaming.
type EventFunc func(Event)

// Searcher is the subset of the vector store the pipeline needs.
type Searcher interface {
	Search(ctx context.Context, req vectorstore.SearchRequest) ([]types.ScoredDocument, error)
	GroupedSearch(ctx context.Context, req vectorstore.SearchRequest, groupSize int) ([]types.ScoredDocument, error)
}

// WebSearcher performs the corrective web search fallback.
type WebSearcher interface {
	Search(ctx context.Context, query string, cfg types.WebSearchConfig) ([]types.WebResult, error)
}

// Runtime bundles the services a Pipeline depends on. All fields except
// Logger are required.
type Runtime struct {
	LLM      llm.Client
	Embedder embedding.Engine
	Store    Searcher
	Web      WebSearcher
	Config   types.PipelineConfig
	Logger   *zap.Logger
}

// Pipeline resolves conversation turns. Safe for concurrent use; turns on
// the same thread are serialized.
type Pipeline struct {
	rt       Runtime
	sessions *sessionRegistry
}

// New creates a Pipeline from the given runtime. It returns an error when
// a required service is missing.
func New(rt Runtime) (*Pipeline, error) {
	switch {
	case rt.LLM == nil:
		return nil, fmt.Errorf("pipeline runtime: missing LLM client")
	case rt.Embedder == nil:
		return nil, fmt.Errorf("pipeline runtime: missing embedder")
	case rt.Store == nil:
		return nil, fmt.Errorf("pipeline runtime: missing vector store")
	case rt.Web == nil:
		return nil, fmt.Errorf("pipeline runtime: missing web searcher")
	}
	if rt.Logger == nil {
		rt.Logger = zap.NewNop()
	}
	rt.Config.Retrieval = rt.Config.Retrieval.Normalize()
	return &Pipeline{rt: rt, sessions: newSessionRegistry()}, nil
}

// Run resolves one user turn and returns the final state. FinalAnswer is
// always set on success: an answer, a casual reply, or a clarification
// request. Stage progress is streamed through eventFn when non-nil.
func (p *Pipeline) Run(ctx context.Context, req TurnRequest, eventFn EventFunc) (*State, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("turn request: missing user ID")
	}
	if req.Message == "" {
		return nil, fmt.Errorf("turn request: empty message")
	}

	sess := p.sessions.acquire(req.ThreadID)
	defer sess.release()

	log := p.rt.Logger.With(
		zap.String("user_id", req.UserID),
		zap.String("thread_id", req.ThreadID),
	)

	st := &State{
		Messages:         append(sess.history(), types.Message{Role: types.RoleUser, Content: req.Message}),
		OriginalQuestion: req.Message,
		Intent:           types.IntentResearch,
		QuestionIsClear:  true,
		PaperScope:       types.ScopeMultiple,
		RelevancePassed:  true,
	}

	if err := p.resolve(ctx, st, req, eventFn, log); err != nil {
		return nil, err
	}

	sess.append(
		types.Message{Role: types.RoleUser, Content: req.Message},
		types.Message{Role: types.RoleAssistant, Content: st.FinalAnswer},
	)
	return st, nil
}

// resolve drives the state machine from summarization to a terminal stage.
func (p *Pipeline) resolve(ctx context.Context, st *State, req TurnRequest, eventFn EventFunc, log *zap.Logger) error {
	stage := StageSummarizing
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Debug("entering stage", zap.String("stage", string(stage)))

		switch stage {
		case StageSummarizing:
			emit(eventFn, stage, "")
			if err := p.summarize(ctx, st); err != nil {
				return err
			}
			stage = StageAnalyzing

		case StageAnalyzing:
			emit(eventFn, stage, "")
			if err := p.analyze(ctx, st); err != nil {
				return err
			}
			switch {
			case !st.QuestionIsClear:
				stage = StageClarifying
			case st.Intent == types.IntentCasual:
				stage = StageCasual
			default:
				stage = StageScoping
			}

		case StageClarifying:
			emit(eventFn, stage, "")
			// FinalAnswer already holds the clarification request.
			return nil

		case StageCasual:
			emit(eventFn, stage, "")
			return p.casual(ctx, st)

		case StageScoping:
			emit(eventFn, stage, "")
			p.scopePapers(st, req.Inventory)
			log.Debug("scoped papers", zap.Strings("arxiv_ids", st.ArxivIDs))
			stage = StageRetrieving

		case StageRetrieving:
			emit(eventFn, stage, "")
			if err := p.retrieve(ctx, st, req); err != nil {
				return err
			}
			emit(eventFn, stage, fmt.Sprintf("retrieved %d chunks", len(st.RetrievedDocs)))
			stage = StageGrading

		case StageGrading:
			emit(eventFn, stage, "")
			if err := p.grade(ctx, st); err != nil {
				return err
			}
			stage = StageAuditing

		case StageAuditing:
			emit(eventFn, stage, "")
			if err := p.audit(ctx, st); err != nil {
				return err
			}
			if !st.RelevancePassed && st.Unanswered != "" {
				stage = StageWebFallback
			} else {
				stage = StageGenerating
			}

		case StageWebFallback:
			emit(eventFn, stage, st.Unanswered)
			p.webFallback(ctx, st, log)
			stage = StageGenerating

		case StageGenerating:
			emit(eventFn, stage, "")
			return p.generate(ctx, st)

		default:
			return fmt.Errorf("unknown pipeline stage %q", stage)
		}
	}
}

func emit(fn EventFunc, stage Stage, detail string) {
	if fn != nil {
		fn(Event{Stage: stage, Detail: detail})
	}
}
