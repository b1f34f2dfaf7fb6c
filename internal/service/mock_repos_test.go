package service

import (
	"context"
	"time"

	"github.com/KingcleverFcl/wna-syte/internal/model"
	"github.com/KingcleverFcl/wna-syte/internal/repository"
)

// ── Mock CodeRepository ──

type mockCodeRepo struct {
	codes map[string]*model.Code
	next  int64

	issueErr  error
	existsErr error
	schemaErr error

	issueCalls  int
	existsCalls int
	schemaCalls int
}

func newMockCodeRepo() *mockCodeRepo {
	return &mockCodeRepo{codes: make(map[string]*model.Code)}
}

func (m *mockCodeRepo) Issue(_ context.Context, code *model.Code) (repository.IssueOutcome, error) {
	m.issueCalls++
	if m.issueErr != nil {
		return 0, m.issueErr
	}
	if _, ok := m.codes[code.Code]; ok {
		return repository.IssueDuplicate, nil
	}
	m.next++
	code.ID = m.next
	code.CreatedAt = time.Now()
	m.codes[code.Code] = code
	return repository.IssueCreated, nil
}

func (m *mockCodeRepo) Exists(_ context.Context, value string) (bool, error) {
	m.existsCalls++
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.codes[value]
	return ok, nil
}

func (m *mockCodeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.codes)), nil
}

func (m *mockCodeRepo) EnsureSchema(_ context.Context) error {
	m.schemaCalls++
	return m.schemaErr
}

// ── Mock Generator ──

// fixedGenerator 依次返回预设的码
type fixedGenerator struct {
	codes []string
	err   error
	i     int
}

func (g *fixedGenerator) Generate() (string, error) {
	if g.err != nil {
		return "", g.err
	}
	c := g.codes[g.i%len(g.codes)]
	g.i++
	return c, nil
}
