package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/store"
)

func TestBoards(t *testing.T) {
	st := store.New()
	require.NoError(t, Boards(time.Now())(st))

	boards := st.Boards()
	require.Len(t, boards, 1)
	assert.Len(t, boards[0].SharedWith, 2)
	assert.Len(t, st.Tasks(boards[0].ID), 4)
	assert.NoError(t, st.CheckInvariants())
}

func TestEnsureUsers(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.MigrateDatabase(db))
	repo := repository.NewUserRepository(db)

	require.NoError(t, EnsureUsers(repo))
	require.NoError(t, EnsureUsers(repo))

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(len(Users)), n)
}
