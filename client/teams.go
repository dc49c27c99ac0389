package client

import (
	"context"
	"net/url"
)

// TeamService handles participant views and operator team inspection.
type TeamService struct {
	c *Client
}

// View returns the participant view for a team access token. It needs no
// admin token.
func (s *TeamService) View(ctx context.Context, token string) (*TeamView, error) {
	var resp TeamView
	if err := s.c.get(ctx, "/team/me/"+url.PathEscape(token), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// State returns one team's solved and available node ids.
func (s *TeamService) State(ctx context.Context, teamID string) (*TeamState, error) {
	var resp TeamState
	if err := s.c.get(ctx, "/admin/teams/"+url.PathEscape(teamID)+"/state", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Solve force-marks a node solved for a team.
func (s *TeamService) Solve(ctx context.Context, teamID, nodeID string) error {
	return s.c.post(ctx, nodePath(teamID, nodeID)+"/solve", nil, nil)
}

// Unsolve force-marks a node unsolved for a team.
func (s *TeamService) Unsolve(ctx context.Context, teamID, nodeID string) error {
	return s.c.post(ctx, nodePath(teamID, nodeID)+"/unsolve", nil, nil)
}

func nodePath(teamID, nodeID string) string {
	return "/admin/teams/" + url.PathEscape(teamID) + "/nodes/" + url.PathEscape(nodeID)
}
