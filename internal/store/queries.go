package store

const (
	queryDeleteSnapshot = `
		MATCH (n:StoryNode {project_id: $project_id})
		DETACH DELETE n
	`

	queryCreateNode = `
		MERGE (n:StoryNode {project_id: $project_id, name: $name})
		SET n.label = $label,
			n.node_type = $node_type,
			n.cluster = $cluster,
			n.degree = $degree,
			n.x = $x,
			n.y = $y
		RETURN n.name AS name
	`

	queryCreateEdge = `
		MATCH (source:StoryNode {project_id: $project_id, name: $source})
		MATCH (target:StoryNode {project_id: $project_id, name: $target})
		MERGE (source)-[e:RELATES_TO {relation: $relation}]->(target)
		SET e.count = $count,
			e.latest_chapter = $chapter
		RETURN e.relation AS relation
	`
)
