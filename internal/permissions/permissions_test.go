package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yukikurage/taskboard-api/internal/models"
)

func testBoard() models.Board {
	return models.Board{
		ID:      "b1",
		OwnerID: "alice",
		SharedWith: []models.Share{
			{UserID: "bob", Role: models.RoleEditor},
			{UserID: "carol", Role: models.RoleViewer},
			{UserID: "mallory", Role: models.RoleOwner},
		},
	}
}

func TestResolve(t *testing.T) {
	b := testBoard()

	tests := []struct {
		user string
		want models.Role
	}{
		{"alice", models.RoleOwner},
		{"bob", models.RoleEditor},
		{"carol", models.RoleViewer},
		{"dave", models.RoleNone},
		{"", models.RoleNone},
		{"mallory", models.RoleNone},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.user, b))
		})
	}
}

func TestCapabilities(t *testing.T) {
	assert.True(t, CanEdit(models.RoleOwner))
	assert.True(t, CanEdit(models.RoleEditor))
	assert.False(t, CanEdit(models.RoleViewer))
	assert.False(t, CanEdit(models.RoleNone))

	assert.True(t, CanInteract(models.RoleViewer))
	assert.False(t, CanInteract(models.RoleNone))

	assert.True(t, IsOwner(models.RoleOwner))
	assert.False(t, IsOwner(models.RoleEditor))
}

func TestRequire(t *testing.T) {
	b := testBoard()
	assert.NoError(t, Require("bob", b, models.RoleEditor))
	assert.ErrorIs(t, Require("carol", b, models.RoleEditor), ErrForbidden)
	assert.ErrorIs(t, Require("bob", b, models.RoleOwner), ErrForbidden)
}

func TestVisibleBoards(t *testing.T) {
	boards := []models.Board{
		testBoard(),
		{ID: "b2", OwnerID: "dave"},
		{ID: "b3", OwnerID: "erin", SharedWith: []models.Share{{UserID: "carol", Role: models.RoleViewer}}},
	}

	visible := VisibleBoards("carol", boards)
	ids := make([]string, 0, len(visible))
	for _, b := range visible {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"b1", "b3"}, ids)
	assert.Empty(t, VisibleBoards("nobody", boards))
}
