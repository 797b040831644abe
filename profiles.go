package profile

import (
	"context"
)

// ProfileService assembles the public profile read model.
type ProfileService struct {
	users Users
	tiles Tiles
}

// NewProfileService builds the profile read side over the repositories.
func NewProfileService(users Users, tiles Tiles) *ProfileService {
	return &ProfileService{
		users: users,
		tiles: tiles,
	}
}

// GetByUsername loads a profile with its tiles in display order. Unknown
// usernames return (nil, nil).
func (p *ProfileService) GetByUsername(ctx context.Context, username string) (*Profile, error) {
	user, err := p.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	tiles, err := p.tiles.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Tiles = tiles

	return NewProfile(user), nil
}

// VCard renders the profile owner as a downloadable contact. Unknown
// usernames return ("", nil).
func (p *ProfileService) VCard(ctx context.Context, username string) (string, error) {
	user, err := p.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}

	return GenerateVCard(user), nil
}
