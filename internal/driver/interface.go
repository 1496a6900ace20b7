package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type GraphDriver interface {
	// ExecuteQuery runs a Cypher query against the currently targeted database.
	ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error)
	// ExecuteQueryOn runs a Cypher query against a named database, regardless
	// of the current target. Used for system-database administration.
	ExecuteQueryOn(ctx context.Context, database, query string, params map[string]interface{}) (neo4j.EagerResult, error)
	BuildIndices(ctx context.Context) error
	Database() string
	SetDatabase(name string)
	Close(ctx context.Context) error
}
