package driver

const (
	SaveRunQuery = `
		MERGE (r:Run {uuid: $uuid})
		SET r.tick = $tick,
			r.settled = $settled,
			r.num_scientists = $num_scientists,
			r.num_politicians = $num_politicians,
			r.num_spindoctors = $num_spindoctors,
			r.updated_at = $updated_at
		RETURN r.uuid AS uuid
	`

	// Agents are keyed by uuid, so republishing the same run overwrites the
	// previous values instead of accumulating history.
	SaveAgentsQuery = `
		MATCH (r:Run {uuid: $run_uuid})
		UNWIND $agents AS agent
		MERGE (n:Agent {uuid: agent.uuid})
		SET n.run_uuid = $run_uuid,
			n.kind = agent.kind,
			n.index = agent.index,
			n.confidence = agent.confidence,
			n.score = agent.score,
			n.tick = $tick
		MERGE (r)-[:HAS_AGENT]->(n)
		RETURN count(n) AS saved
	`

	SaveLinksQuery = `
		UNWIND $links AS link
		MATCH (source:Agent {uuid: link.source_uuid})
		MATCH (target:Agent {uuid: link.target_uuid})
		MERGE (source)-[e:LINKS {uuid: link.uuid}]->(target)
		SET e.kind = link.kind,
			e.run_uuid = $run_uuid
		RETURN count(e) AS saved
	`

	DeleteRunQuery = `
		MATCH (n)
		WHERE (n:Agent AND n.run_uuid = $run_uuid) OR (n:Run AND n.uuid = $run_uuid)
		DETACH DELETE n
	`
)
