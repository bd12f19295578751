package selection

import "casegraph/domain/config"

// NodeEmphasis is the derived rendering treatment for one node.
type NodeEmphasis struct {
	Opacity     float64 `json:"opacity"`
	Accent      bool    `json:"accent"`
	Highlighted bool    `json:"highlighted"`
}

// EdgeEmphasis is the derived rendering treatment for one edge.
type EdgeEmphasis struct {
	Opacity float64 `json:"opacity"`
	Accent  bool    `json:"accent"`
}

// DeriveNodeEmphasis maps cluster membership and search highlighting onto a
// node's rendering treatment. An active selection takes precedence over
// search highlighting: while a cluster is shown, highlight overlays are
// suppressed so the two accent treatments never stack.
func DeriveNodeEmphasis(cfg *config.DomainConfig, cluster ClusterState, highlighted map[string]bool, nodeID string) NodeEmphasis {
	if cluster.Active() {
		if cluster.Contains(nodeID) {
			return NodeEmphasis{
				Opacity: cfg.FullOpacity,
				Accent:  nodeID == cluster.SelectedNodeID,
			}
		}
		return NodeEmphasis{Opacity: cfg.DimmedOpacity}
	}

	return NodeEmphasis{
		Opacity:     cfg.DefaultOpacity,
		Highlighted: highlighted[nodeID],
	}
}

// DeriveEdgeEmphasis maps cluster membership onto an edge's rendering
// treatment. Edges entirely inside the cluster render elevated, all others
// dimmed; without a selection every edge uses the uniform default.
func DeriveEdgeEmphasis(cfg *config.DomainConfig, cluster ClusterState, edgeID string) EdgeEmphasis {
	if cluster.Active() {
		if cluster.ContainsEdge(edgeID) {
			return EdgeEmphasis{Opacity: cfg.ClusterEdgeOpacity, Accent: true}
		}
		return EdgeEmphasis{Opacity: cfg.DimmedOpacity}
	}

	return EdgeEmphasis{Opacity: cfg.EdgeOpacity}
}
