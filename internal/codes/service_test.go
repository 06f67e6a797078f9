package codes

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/sahilmehta/cellstock-backend/pkg/errors"
)

type stubCounterRepo struct {
	values map[string]int64
	err    error
	calls  []string
}

func (s *stubCounterRepo) Next(ctx context.Context, key string) (int64, error) {
	s.calls = append(s.calls, key)
	if s.err != nil {
		return 0, s.err
	}
	if s.values == nil {
		s.values = map[string]int64{}
	}
	s.values[key]++
	return s.values[key], nil
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatalf("expected error for nil repository")
	}
}

func TestNextSequenceRequiresKey(t *testing.T) {
	svc, err := NewService(&stubCounterRepo{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	_, err = svc.NextSequence(context.Background(), "")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestMintFormatsSequence(t *testing.T) {
	repo := &stubCounterRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	code, err := svc.Mint(context.Background(), "ABC-MOB-Y21")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if code != "ABC-MOB-Y21-0001" {
		t.Fatalf("unexpected code %q", code)
	}

	code, err = svc.Mint(context.Background(), "ABC-MOB-Y21")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if code != "ABC-MOB-Y21-0002" {
		t.Fatalf("unexpected second code %q", code)
	}
}

func TestMintBatchConsumesOneSequencePerCode(t *testing.T) {
	repo := &stubCounterRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	codes, err := svc.MintBatch(context.Background(), "RAJ-ACC-CLE", 3)
	if err != nil {
		t.Fatalf("mint batch: %v", err)
	}
	want := []string{"RAJ-ACC-CLE-0001", "RAJ-ACC-CLE-0002", "RAJ-ACC-CLE-0003"}
	if len(codes) != len(want) {
		t.Fatalf("expected %d codes, got %d", len(want), len(codes))
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("code %d = %q, want %q", i, codes[i], want[i])
		}
	}
	if len(repo.calls) != 3 {
		t.Fatalf("expected 3 counter advances, got %d", len(repo.calls))
	}
}

func TestMintBatchZeroIsNoOp(t *testing.T) {
	repo := &stubCounterRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	codes, err := svc.MintBatch(context.Background(), "RAJ-ACC-CLE", 0)
	if err != nil {
		t.Fatalf("mint batch: %v", err)
	}
	if codes != nil {
		t.Fatalf("expected no codes, got %v", codes)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("counter should not be touched, got %d calls", len(repo.calls))
	}
}

func TestMintWrapsStorageFailure(t *testing.T) {
	repo := &stubCounterRepo{err: errors.New("connection refused")}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	_, err = svc.Mint(context.Background(), "ABC-MOB-Y21")
	if err == nil {
		t.Fatalf("expected error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}
