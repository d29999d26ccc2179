package engine

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ============================================================================
// STAGED PIPELINE — named-stage DAG composer
// ============================================================================
// The multi-level "compute base metrics → apply scoring → classify" pattern
// is modeled as an explicit DAG of named stages instead of nested scoping.
// A stage may consume any earlier stage's output by name. Referencing an
// undefined or later stage is a construction-time error, which also rules
// out cycles before any data is processed.
//
// Independent stages run concurrently; a stage blocks until every declared
// upstream stage has completed.
// ============================================================================

// StageFunc computes a stage's output from its named upstream outputs.
// The in map holds exactly the recordsets the stage declared in Needs.
type StageFunc func(ctx context.Context, in map[string]*Recordset) (*Recordset, error)

// Stage is one named node of the pipeline DAG.
type Stage struct {
	Name  string
	Needs []string
	Run   StageFunc
}

// ConfigError reports an invalid pipeline definition. It is raised while
// building the pipeline, never mid-run.
type ConfigError struct {
	Stage  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pipeline stage %q: %s", e.Stage, e.Reason)
}

// Pipeline is a validated, runnable stage DAG.
type Pipeline struct {
	stages []Stage
	index  map[string]int
}

// NewPipeline validates the stage list and returns a runnable pipeline.
// Stage names must be unique and non-empty; dependencies must name stages
// declared earlier in the list.
func NewPipeline(stages ...Stage) (*Pipeline, error) {
	index := make(map[string]int, len(stages))
	for i, st := range stages {
		if st.Name == "" {
			return nil, &ConfigError{Stage: fmt.Sprintf("#%d", i), Reason: "missing name"}
		}
		if st.Run == nil {
			return nil, &ConfigError{Stage: st.Name, Reason: "missing run function"}
		}
		if _, dup := index[st.Name]; dup {
			return nil, &ConfigError{Stage: st.Name, Reason: "duplicate stage name"}
		}
		for _, need := range st.Needs {
			if need == st.Name {
				return nil, &ConfigError{Stage: st.Name, Reason: "stage depends on itself"}
			}
			if _, ok := index[need]; !ok {
				return nil, &ConfigError{Stage: st.Name, Reason: fmt.Sprintf("depends on undefined stage %q", need)}
			}
		}
		index[st.Name] = i
	}
	return &Pipeline{stages: stages, index: index}, nil
}

// Run executes the pipeline and returns every stage's output by name.
// Independent stages run concurrently; the first stage error cancels the
// remainder and is returned. There is no mid-stage cancellation beyond the
// context handed to each StageFunc.
func (p *Pipeline) Run(ctx context.Context) (map[string]*Recordset, error) {
	done := make([]chan struct{}, len(p.stages))
	for i := range done {
		done[i] = make(chan struct{})
	}

	var mu sync.Mutex
	outputs := make(map[string]*Recordset, len(p.stages))

	g, ctx := errgroup.WithContext(ctx)
	for i, st := range p.stages {
		i, st := i, st
		g.Go(func() error {
			// Upstream barrier.
			for _, need := range st.Needs {
				select {
				case <-done[p.index[need]]:
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			in := make(map[string]*Recordset, len(st.Needs))
			mu.Lock()
			for _, need := range st.Needs {
				in[need] = outputs[need]
			}
			mu.Unlock()

			out, err := st.Run(ctx, in)
			if err != nil {
				return fmt.Errorf("stage %q: %w", st.Name, err)
			}

			mu.Lock()
			outputs[st.Name] = out
			mu.Unlock()
			close(done[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// RunInto executes the pipeline and returns the named final stage's output.
func (p *Pipeline) RunInto(ctx context.Context, final string) (*Recordset, error) {
	if _, ok := p.index[final]; !ok {
		return nil, &ConfigError{Stage: final, Reason: "unknown final stage"}
	}
	outputs, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}
	return outputs[final], nil
}
