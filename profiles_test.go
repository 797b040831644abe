package profile_test

import (
	"context"
	"strings"
	"testing"

	profile "github.com/goliatone/go-profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileServiceGetByUsername(t *testing.T) {
	_, mgr := setupTestDB(t)
	ctx := context.Background()

	owner := registerTestUser(t, mgr, "ada", "ada@example.com")
	seedTile(t, mgr, owner, "second", 5)
	seedTile(t, mgr, owner, "first", 1)

	svc := profile.NewProfileService(mgr.Users(), mgr.Tiles())

	page, err := svc.GetByUsername(ctx, "ada")
	require.NoError(t, err)
	require.NotNil(t, page)

	assert.Equal(t, owner.ID, page.ID)
	assert.Equal(t, "ada", page.Username)
	require.Len(t, page.Tiles, 2)
	assert.Equal(t, "first", page.Tiles[0].Title)
	assert.Equal(t, "second", page.Tiles[1].Title)

	missing, err := svc.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProfileServiceVCard(t *testing.T) {
	_, mgr := setupTestDB(t)
	ctx := context.Background()

	registerTestUser(t, mgr, "ada", "ada@example.com")

	svc := profile.NewProfileService(mgr.Users(), mgr.Tiles())

	card, err := svc.VCard(ctx, "ada")
	require.NoError(t, err)
	assert.Contains(t, card, "BEGIN:VCARD")
	assert.Contains(t, card, "EMAIL:ada@example.com")

	missing, err := svc.VCard(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestGenerateVCard(t *testing.T) {
	user := &profile.User{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Phone:       "+48601234567",
		Description: "countess; mathematician, writer",
	}

	card := profile.GenerateVCard(user)
	lines := strings.Split(strings.TrimSuffix(card, "\r\n"), "\r\n")

	assert.Equal(t, "BEGIN:VCARD", lines[0])
	assert.Equal(t, "VERSION:3.0", lines[1])
	assert.Contains(t, lines, "FN:Ada Lovelace")
	assert.Contains(t, lines, "N:Lovelace;Ada")
	assert.Contains(t, lines, "EMAIL:ada@example.com")
	assert.Contains(t, lines, "TEL:+48601234567")
	assert.Contains(t, lines, `NOTE:countess\; mathematician\, writer`)
	assert.Equal(t, "END:VCARD", lines[len(lines)-1])

	assert.Empty(t, profile.GenerateVCard(nil))
}
