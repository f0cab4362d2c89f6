package pipeline

import (
	"context"
	"errors"
	"slices"
	"testing"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, run *Run) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, run *Run) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, run)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	p := New()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.StepCount() != 0 {
		t.Errorf("expected 0 steps, got %d", p.StepCount())
	}
	if p.logger == nil {
		t.Error("expected default logger")
	}
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	if p.StepCount() != 3 {
		t.Errorf("expected 3 steps, got %d", p.StepCount())
	}
	if got := p.StepNames(); !slices.Equal(got, []string{"first", "second", "third"}) {
		t.Errorf("unexpected step order %v", got)
	}
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(context.Context, *Run) error {
				order = append(order, name)
				return nil
			}}
		}

		p := New()
		p.AddSteps(record("a"), record("b"), record("c"))

		run := NewRun("en", ".")
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(order, []string{"a", "b", "c"}) {
			t.Errorf("unexpected order %v", order)
		}
		if !slices.Equal(run.Report.PerformedSteps, []string{"a", "b", "c"}) {
			t.Errorf("unexpected performed steps %v", run.Report.PerformedSteps)
		}
		if run.Report.Failed() {
			t.Errorf("unexpected failure: %v", run.Report.Error)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		errStep := errors.New("step failed")
		first := &mockStep{name: "first"}
		failing := &mockStep{name: "failing", doFunc: func(context.Context, *Run) error { return errStep }}
		last := &mockStep{name: "last"}

		p := New()
		p.AddSteps(first, failing, last)

		run := NewRun("en", ".")
		err := p.Execute(context.Background(), run)
		if !errors.Is(err, errStep) {
			t.Fatalf("expected step error, got %v", err)
		}
		if last.callCount != 0 {
			t.Error("step after the failure must not run")
		}
		if !errors.Is(run.Report.Error, errStep) || run.Report.ErrorMessage != "step failed" {
			t.Errorf("error not recorded: %+v", run.Report)
		}
		if !slices.Equal(run.Report.PerformedSteps, []string{"first"}) {
			t.Errorf("unexpected performed steps %v", run.Report.PerformedSteps)
		}
		if run.Report.Status() != "error" {
			t.Errorf("expected status error, got %s", run.Report.Status())
		}
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "never"}
		p := New()
		p.AddStep(step)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		run := NewRun("en", ".")
		if err := p.Execute(ctx, run); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("step must not run after cancellation")
		}
	})

	t.Run("step can cancel later steps", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		first := &mockStep{name: "first", doFunc: func(context.Context, *Run) error {
			cancel()
			return nil
		}}
		second := &mockStep{name: "second"}

		p := New()
		p.AddSteps(first, second)

		if err := p.Execute(ctx, NewRun("en", ".")); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if second.callCount != 0 {
			t.Error("second step must not run")
		}
	})
}

// TestRunForRoot tests that ForRoot shares the word list and resets per-root state.
func TestRunForRoot(t *testing.T) {
	t.Parallel()

	base := NewRun("en", "")
	base.Raw = []byte("bad\n")
	base.Words = []string{"bad"}
	base.Report.WordListURL = "http://example.com/en"
	base.Report.WordListDigest = "digest"
	base.Report.WordCount = 1
	base.Report.PerformedSteps = []string{"globs", "fetch", "build_pattern"}
	if err := NewGlobsStep([]string{"vendor/**"}, nil).Do(context.Background(), base); err != nil {
		t.Fatalf("globs step error: %v", err)
	}

	next := base.ForRoot("/tmp/x")

	if next.Report.ID == base.Report.ID {
		t.Error("expected a fresh report ID")
	}
	if next.Report.Root != "/tmp/x" || next.Report.Language != "en" {
		t.Errorf("unexpected report %+v", next.Report)
	}
	if next.Report.WordListURL != base.Report.WordListURL || next.Report.WordListDigest != "digest" || next.Report.WordCount != 1 {
		t.Error("word list metadata not carried over")
	}
	if next.Globs != base.Globs || !slices.Equal(next.Report.Excludes, []string{"vendor/**"}) {
		t.Error("globs not carried over")
	}
	next.Report.PerformedSteps = append(next.Report.PerformedSteps, "select")
	if len(base.Report.PerformedSteps) != 3 {
		t.Error("performed steps must not be shared with the base run")
	}
}
