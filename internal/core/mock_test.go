package core

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MockDriver records every query with its parameters and serves canned
// results keyed by query text.
type MockDriver struct {
	database string
	results  map[string]neo4j.EagerResult
	errs     map[string]error
	calls    []driverCall
}

type driverCall struct {
	Query  string
	Params map[string]interface{}
}

func NewMockDriver() *MockDriver {
	return &MockDriver{
		results: make(map[string]neo4j.EagerResult),
		errs:    make(map[string]error),
	}
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.calls = append(m.calls, driverCall{Query: query, Params: params})
	if err, ok := m.errs[query]; ok {
		return neo4j.EagerResult{}, err
	}
	return m.results[query], nil
}

func (m *MockDriver) ExecuteQueryOn(ctx context.Context, database, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	return m.ExecuteQuery(ctx, query, params)
}

func (m *MockDriver) BuildIndices(ctx context.Context) error { return nil }
func (m *MockDriver) Database() string                       { return m.database }
func (m *MockDriver) SetDatabase(name string)                { m.database = name }
func (m *MockDriver) Close(ctx context.Context) error        { return nil }

func (m *MockDriver) callsFor(query string) []driverCall {
	var out []driverCall
	for _, c := range m.calls {
		if c.Query == query {
			out = append(out, c)
		}
	}
	return out
}

func record(keys []string, values ...interface{}) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func rows(records ...*neo4j.Record) neo4j.EagerResult {
	return neo4j.EagerResult{Records: records}
}

// MockLLM replays queued responses in order; an empty queue is a test bug.
type MockLLM struct {
	Responses []string
	Prompts   []string
	Err       error
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", fmt.Errorf("mock llm: response queue exhausted")
	}
	r := m.Responses[0]
	m.Responses = m.Responses[1:]
	return r, nil
}

type MockEmbedder struct {
	Vector []float32
	Err    error
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Vector, nil
}

type MockReranker struct {
	Order []int
	Err   error
}

func (m *MockReranker) Rank(ctx context.Context, query string, documents []string) ([]int, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Order, nil
}

// newSeqUUID yields u1, u2, u3... so tests can predict every identity the
// pipeline mints.
func newSeqUUID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("u%d", n)
	}
}
