package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. A user owns an ordered collection of tiles that
// make up their public profile page.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           UserRole   `bun:"role,notnull" json:"role,omitempty"`
	FirstName      string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone          string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash   string     `bun:"hashed_password" json:"-"`
	IsActive       bool       `bun:"is_active" json:"is_active,omitempty"`
	ProfilePicture string     `bun:"profile_picture_url" json:"profile_picture_url,omitempty"`
	Description    string     `bun:"description" json:"description,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`

	Tiles []*Tile `bun:"rel:has-many,join:id=user_id" json:"tiles,omitempty"`
}

// FullName is the display name used on profile pages and vCards.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

var _ bun.BeforeAppendModelHook = (*User)(nil)

// BeforeAppendModel maintains created_at/updated_at timestamps.
func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now()
	switch query.(type) {
	case *bun.InsertQuery:
		if u.CreatedAt == nil {
			u.CreatedAt = &now
		}
		if u.UpdatedAt == nil {
			u.UpdatedAt = &now
		}
	case *bun.UpdateQuery:
		u.UpdatedAt = &now
	}
	return nil
}

// TileType discriminates what a tile renders as.
type TileType string

const (
	TileTypeLink    TileType = "LINK"
	TileTypeSocial  TileType = "SOCIAL"
	TileTypeContact TileType = "CONTACT"
)

// IsValid checks the tile type against the known set
func (t TileType) IsValid() bool {
	switch t {
	case TileTypeLink, TileTypeSocial, TileTypeContact:
		return true
	default:
		return false
	}
}

// TilePositionLimit is the exclusive upper bound for tile positions.
const TilePositionLimit = 100

// Tile is a single entry on a user's profile page: a link, a social handle,
// or a contact-card download.
type Tile struct {
	bun.BaseModel `bun:"table:tiles,alias:tile"`

	ID       uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Type     TileType  `bun:"type,notnull" json:"type,omitempty"`
	Title    string    `bun:"title,notnull" json:"title,omitempty"`
	URL      string    `bun:"url" json:"url,omitempty"`
	Active   bool      `bun:"active,notnull" json:"active"`
	Position int       `bun:"position,notnull" json:"position"`
	IconURL  string    `bun:"icon_url" json:"icon_url,omitempty"`
	ShortID  string    `bun:"short_id,notnull,unique" json:"short_id,omitempty"`
	UserID   uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}

// Profile is the public read model for a user page: the account attributes a
// visitor can see plus the tiles in display order.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone_number,omitempty"`
	ProfilePicture string    `json:"profile_picture_url,omitempty"`
	Description    string    `json:"description,omitempty"`
	Tiles          []*Tile   `json:"tiles"`
}

// NewProfile projects a user with loaded tiles into the public read model.
func NewProfile(user *User) *Profile {
	if user == nil {
		return nil
	}
	tiles := user.Tiles
	if tiles == nil {
		tiles = []*Tile{}
	}
	return &Profile{
		ID:             user.ID,
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Email:          user.Email,
		Phone:          user.Phone,
		ProfilePicture: user.ProfilePicture,
		Description:    user.Description,
		Tiles:          tiles,
	}
}
