package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/utils"
)

// RepositoryTestSuite runs the gorm repositories against in-memory SQLite
type RepositoryTestSuite struct {
	suite.Suite
	db *gorm.DB
}

func (suite *RepositoryTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(database.MigrateDatabase(suite.db))
}

func (suite *RepositoryTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *RepositoryTestSuite) TestUserRepository() {
	repo := NewUserRepository(suite.db)

	suite.Require().NoError(repo.Create(&models.User{ID: "u1", Email: " Alice@Example.com ", Name: "Alice"}))
	suite.Require().NoError(repo.Create(&models.User{ID: "u2", Email: "bob@example.com", Name: "Bob"}))
	suite.Error(repo.Create(&models.User{ID: "u3", Email: "alice@example.com", Name: "Dup"}))

	user, err := repo.FindByEmail("ALICE@example.com")
	suite.Require().NoError(err)
	suite.Equal("u1", user.ID)

	user, err = repo.FindByID("u2")
	suite.Require().NoError(err)
	suite.Equal("Bob", user.Name)

	_, err = repo.FindByID("missing")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	users, err := repo.List()
	suite.Require().NoError(err)
	suite.Len(users, 2)
	n, err := repo.Count()
	suite.Require().NoError(err)
	suite.Equal(int64(2), n)
}

func (suite *RepositoryTestSuite) TestSnapshotRepository() {
	repo := NewSnapshotRepository(suite.db)

	_, err := repo.Latest()
	suite.ErrorIs(err, ErrNoSnapshot)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		suite.Require().NoError(repo.Save(&models.BoardSnapshot{
			State:     []byte(fmt.Sprintf(`{"n":%d}`, i)),
			Boards:    i,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	latest, err := repo.Latest()
	suite.Require().NoError(err)
	suite.Equal(`{"n":5}`, string(latest.State))

	page, total, err := repo.List(utils.PaginationParams{Page: 1, Limit: 2, Offset: 0})
	suite.Require().NoError(err)
	suite.Equal(int64(5), total)
	suite.Require().Len(page, 2)
	suite.Equal(5, page[0].Boards)
	suite.Empty(page[0].State)

	suite.Require().NoError(repo.Prune(2))
	_, total, err = repo.List(utils.PaginationParams{Page: 1, Limit: 10})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.NoError(repo.Prune(2))
}

func (suite *RepositoryTestSuite) TestPreferenceRepository() {
	repo := NewPreferenceRepository(suite.db)

	_, err := repo.Get("u1", "theme")
	suite.ErrorIs(err, ErrPreferenceNotFound)

	suite.Require().NoError(repo.Put("u1", "theme", `"dark"`))
	suite.Require().NoError(repo.Put("u1", "theme", `"light"`))
	suite.Require().NoError(repo.Put("u2", "theme", `"dark"`))

	v, err := repo.Get("u1", "theme")
	suite.Require().NoError(err)
	suite.Equal(`"light"`, v)

	suite.Require().NoError(repo.Delete("u1", "theme"))
	_, err = repo.Get("u1", "theme")
	suite.ErrorIs(err, ErrPreferenceNotFound)

	v, err = repo.Get("u2", "theme")
	suite.Require().NoError(err)
	suite.Equal(`"dark"`, v)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func TestSnapshotRepository_PruneRollsBack(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `board_snapshots`").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = NewSnapshotRepository(db).Prune(3)
	assert.ErrorContains(t, err, "failed to select old snapshots")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepository_SaveFailsOnBegin(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin().WillReturnError(errors.New("database is down"))

	err = NewSnapshotRepository(db).Save(&models.BoardSnapshot{State: []byte("{}")})
	assert.ErrorContains(t, err, "database is down")
	assert.NoError(t, mock.ExpectationsWereMet())
}
