package client

import "context"

// AdminService handles operator status and the problem catalogue.
type AdminService struct {
	c *Client
}

// Status verifies the admin token and returns the contest configuration.
func (s *AdminService) Status(ctx context.Context) (*AdminStatus, error) {
	var resp AdminStatus
	if err := s.c.get(ctx, "/admin/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RandomProblem picks a catalogue problem rated within [minRating, maxRating].
// A 404 means no problem falls in the range.
func (s *AdminService) RandomProblem(ctx context.Context, minRating, maxRating int) (*Problem, error) {
	var resp Problem
	req := RandomProblemRequest{MinRating: minRating, MaxRating: maxRating}
	if err := s.c.post(ctx, "/admin/cf/random", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
