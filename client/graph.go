package client

import (
	"context"
	"net/url"
)

// GraphService handles the contest graph admin routes.
type GraphService struct {
	c *Client
}

// Get returns every node of the graph.
func (s *GraphService) Get(ctx context.Context) ([]Node, error) {
	var resp GraphResponse
	if err := s.c.get(ctx, "/admin/graph", &resp); err != nil {
		return nil, err
	}
	return resp.Nodes, nil
}

// UpsertNode creates a node or replaces the node with the same id.
func (s *GraphService) UpsertNode(ctx context.Context, n Node) error {
	n.State = ""
	if n.Neighbors == nil {
		n.Neighbors = []string{}
	}
	return s.c.post(ctx, "/admin/graph/node", n, nil)
}

// DeleteNode removes a node and every edge that references it.
func (s *GraphService) DeleteNode(ctx context.Context, id string) error {
	return s.c.del(ctx, "/admin/graph/node/"+url.PathEscape(id), nil, nil)
}

// CreateEdge adds toID to fromID's neighbor list.
func (s *GraphService) CreateEdge(ctx context.Context, fromID, toID string) error {
	return s.c.post(ctx, "/admin/graph/edge", EdgeRequest{FromID: fromID, ToID: toID}, nil)
}

// DeleteEdge removes toID from fromID's neighbor list.
func (s *GraphService) DeleteEdge(ctx context.Context, fromID, toID string) error {
	return s.c.del(ctx, "/admin/graph/edge", EdgeRequest{FromID: fromID, ToID: toID}, nil)
}
