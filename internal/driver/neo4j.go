package driver

import (
	"context"
	"fmt"
	"log"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Neo4jDriver struct {
	Driver   neo4j.DriverWithContext
	database string
}

func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		_ = driver.Close(context.Background())
		return nil, err
	}

	log.Printf("Connected to Neo4j at %s", uri)
	return &Neo4jDriver{Driver: driver, database: database}, nil
}

func (d *Neo4jDriver) Database() string {
	return d.database
}

// SetDatabase retargets subsequent queries. The bootstrap negotiator calls
// this once it has settled on a usable database.
func (d *Neo4jDriver) SetDatabase(name string) {
	d.database = name
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	return d.ExecuteQueryOn(ctx, d.database, query, params)
}

func (d *Neo4jDriver) ExecuteQueryOn(ctx context.Context, database, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	opts := []neo4j.ExecuteQueryConfigurationOption{}
	if database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(database))
	}

	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

func (d *Neo4jDriver) BuildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE CONSTRAINT entity_uuid IF NOT EXISTS FOR (n:Entity) REQUIRE n.uuid IS UNIQUE",
		"CREATE CONSTRAINT episodic_uuid IF NOT EXISTS FOR (n:Episodic) REQUIRE n.uuid IS UNIQUE",
		"CREATE CONSTRAINT community_uuid IF NOT EXISTS FOR (n:Community) REQUIRE n.uuid IS UNIQUE",

		"CREATE INDEX entity_group IF NOT EXISTS FOR (n:Entity) ON (n.group_id)",
		"CREATE INDEX episodic_group IF NOT EXISTS FOR (n:Episodic) ON (n.group_id)",
		"CREATE INDEX community_group IF NOT EXISTS FOR (n:Community) ON (n.group_id)",
		"CREATE INDEX entity_name IF NOT EXISTS FOR (n:Entity) ON (n.name)",
		"CREATE INDEX relates_to_valid IF NOT EXISTS FOR ()-[e:RELATES_TO]-() ON (e.valid_at)",
	}

	for _, q := range queries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			return fmt.Errorf("failed to create index '%s': %w", q, err)
		}
	}

	return nil
}
