package driver

const (
	SaveEntityNodeQuery = `
		MERGE (n:Entity {uuid: $uuid})
		SET n.name = $name,
			n.group_id = $group_id,
			n.created_at = $created_at,
			n.summary = $summary,
			n.name_embedding = $name_embedding
		RETURN n.uuid AS uuid
	`

	SaveEpisodicNodeQuery = `
		MERGE (n:Episodic {uuid: $uuid})
		SET n.name = $name,
			n.group_id = $group_id,
			n.created_at = $created_at,
			n.valid_at = $valid_at,
			n.content = $content,
			n.source = $source,
			n.source_description = $source_description
		RETURN n.uuid AS uuid
	`

	SaveEpisodicEdgeQuery = `
		MATCH (episode:Episodic {uuid: $source_uuid})
		MATCH (node:Entity {uuid: $target_uuid})
		MERGE (episode)-[e:MENTIONS {uuid: $uuid}]->(node)
		SET e.group_id = $group_id,
			e.created_at = $created_at
		RETURN e.uuid AS uuid
	`

	SaveEntityEdgeQuery = `
		MATCH (source:Entity {uuid: $source_uuid})
		MATCH (target:Entity {uuid: $target_uuid})
		MERGE (source)-[e:RELATES_TO {uuid: $uuid}]->(target)
		SET e.name = $name,
			e.fact = $fact,
			e.group_id = $group_id,
			e.created_at = $created_at,
			e.valid_at = $valid_at,
			e.invalid_at = $invalid_at,
			e.episodes = $episodes
		RETURN e.uuid AS uuid
	`

	SaveCommunityNodeQuery = `
		MERGE (n:Community {uuid: $uuid})
		SET n.name = $name,
			n.group_id = $group_id,
			n.created_at = $created_at,
			n.summary = $summary
		RETURN n.uuid AS uuid
	`

	SaveCommunityEdgeQuery = `
		MATCH (c:Community {uuid: $source_uuid})
		MATCH (e:Entity {uuid: $target_uuid})
		MERGE (c)-[r:HAS_MEMBER {uuid: $uuid}]->(e)
		SET r.group_id = $group_id,
			r.created_at = $created_at
		RETURN r.uuid AS uuid
	`

	// GetActiveEdgesQuery returns the facts between an entity pair whose
	// validity window is still open.
	GetActiveEdgesQuery = `
		MATCH (source:Entity {uuid: $source_uuid})-[e:RELATES_TO]->(target:Entity {uuid: $target_uuid})
		WHERE (e.invalid_at IS NULL OR e.invalid_at = "")
		RETURN e.uuid AS uuid, e.fact AS fact
	`

	// InvalidateEdgeQuery closes a fact's validity window; the edge stays in
	// the graph as history.
	InvalidateEdgeQuery = `
		MATCH ()-[e:RELATES_TO {uuid: $uuid}]->()
		SET e.invalid_at = $invalid_at
		RETURN e.uuid AS uuid
	`

	GetGroupNodesQuery = `
		MATCH (n:Entity {group_id: $group_id})
		RETURN n.uuid AS uuid, n.name AS name, n.summary AS summary
	`

	GetGroupEdgesQuery = `
		MATCH (n:Entity {group_id: $group_id})-[e:RELATES_TO]->(m:Entity {group_id: $group_id})
		WHERE (e.invalid_at IS NULL OR e.invalid_at = "")
		RETURN e.uuid AS uuid, n.uuid AS source_uuid, m.uuid AS target_uuid, e.fact AS fact
	`

	SearchFactsQuery = `
		MATCH (n:Entity {group_id: $group_id})-[e:RELATES_TO]->(m:Entity {group_id: $group_id})
		WHERE toLower(e.fact) CONTAINS toLower($query)
			OR toLower(n.name) CONTAINS toLower($query)
			OR toLower(m.name) CONTAINS toLower($query)
		RETURN e.uuid AS uuid, e.fact AS fact, e.valid_at AS valid_at,
			e.invalid_at AS invalid_at, n.uuid AS source_node_uuid
		LIMIT $limit
	`

	NodeCountQuery = `MATCH (n) RETURN count(n) AS node_count`

	RelationshipCountQuery = `MATCH ()-[r]-() RETURN count(r) AS rel_count`

	// WipeQuery removes every node and relationship in the targeted database.
	// Only the opt-in fallback bootstrap paths run this.
	WipeQuery = `MATCH (n) DETACH DELETE n`

	PingQuery = `RETURN 1 AS test`

	ComponentsQuery = `CALL dbms.components() YIELD name, versions, edition RETURN name, versions[0] AS version, edition`

	ShowDatabasesQuery = `SHOW DATABASES`
)
