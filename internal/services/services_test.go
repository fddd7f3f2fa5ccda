package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/taskboard-api/internal/calendar"
	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/i18n"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/projection"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/store"
)

// ServiceTestSuite wires the services to in-memory SQLite
type ServiceTestSuite struct {
	suite.Suite
	db    *gorm.DB
	users repository.UserRepository
	auth  *AuthService
}

func (suite *ServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(database.MigrateDatabase(suite.db))

	suite.users = repository.NewUserRepository(suite.db)
	suite.auth = NewAuthService(suite.users)
}

func (suite *ServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ServiceTestSuite) TestSignupAndLogin() {
	user, err := suite.auth.Signup(SignupInput{Email: "Ann@Example.com", Name: "Ann", Password: "password123"})
	suite.Require().NoError(err)
	suite.Equal("ann@example.com", user.Email)
	suite.NotEqual("password123", user.PasswordHash)

	_, err = suite.auth.Signup(SignupInput{Email: "ann@example.com", Name: "Ann", Password: "password123"})
	suite.ErrorIs(err, ErrEmailTaken)
	_, err = suite.auth.Signup(SignupInput{Email: "x@example.com", Name: "X", Password: "short"})
	suite.ErrorIs(err, ErrPasswordTooShort)
	_, err = suite.auth.Signup(SignupInput{Email: "not-an-email", Name: "X", Password: "password123"})
	suite.ErrorIs(err, ErrInvalidEmail)

	logged, err := suite.auth.Login(LoginInput{Email: "ann@example.com", Password: "password123"})
	suite.Require().NoError(err)
	suite.Equal(user.ID, logged.ID)

	_, err = suite.auth.Login(LoginInput{Email: "ann@example.com", Password: "wrong-password"})
	suite.ErrorIs(err, ErrInvalidCredentials)
	_, err = suite.auth.Login(LoginInput{Email: "nobody@example.com"})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *ServiceTestSuite) TestLoginByEmailOnly() {
	suite.Require().NoError(suite.users.Create(&models.User{ID: "u1", Email: "demo@example.com", Name: "Demo"}))

	user, err := suite.auth.Login(LoginInput{Email: "demo@example.com"})
	suite.Require().NoError(err)
	suite.Equal("u1", user.ID)

	_, err = suite.auth.GetUser("missing")
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestBoardService_SaveAndRestore() {
	snapshots := repository.NewSnapshotRepository(suite.db)
	st := store.New()
	svc := NewBoardService(st, snapshots, zerolog.Nop())

	seeded := false
	suite.Require().NoError(svc.Restore(func(s *store.Store) error {
		seeded = true
		_, err := s.CreateBoard("Seeded", "", "owner")
		return err
	}))
	suite.True(seeded)

	restored := store.New()
	other := NewBoardService(restored, snapshots, zerolog.Nop())
	suite.Require().NoError(other.Restore(nil))
	suite.Require().Len(restored.Boards(), 1)
	suite.Equal("Seeded", restored.Boards()[0].Name)
}

func (suite *ServiceTestSuite) TestBoardService_RunFlushesOnStop() {
	snapshots := repository.NewSnapshotRepository(suite.db)
	st := store.New()
	svc := NewBoardService(st, snapshots, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := st.CreateBoard("Late", "", "owner")
	suite.Require().NoError(err)
	svc.Publish(store.Event{Type: store.EventBoardCreated})
	suite.Require().NoError(svc.Run(ctx))

	latest, err := snapshots.Latest()
	suite.Require().NoError(err)
	suite.Equal(1, latest.Boards)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestBoardService_Visibility(t *testing.T) {
	st := store.New()
	svc := NewBoardService(st, nil, zerolog.Nop())
	owner := models.Actor{ID: "owner"}

	b, err := st.CreateBoard("Private", "", owner.ID)
	require.NoError(t, err)
	_, err = st.ShareBoard(owner, b.ID, "guest", models.RoleViewer)
	require.NoError(t, err)
	_, err = st.CreateTask(owner, b.ID, b.Columns[0].ID, store.TaskInput{Title: "secret"})
	require.NoError(t, err)

	views := svc.VisibleBoards("guest")
	require.Len(t, views, 1)
	assert.Equal(t, models.RoleViewer, views[0].Role)
	assert.Empty(t, svc.VisibleBoards("stranger"))

	_, err = svc.BoardFor("stranger", b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	tasks, err := svc.Tasks("guest", projection.Query{BoardID: b.ID})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestNextRun(t *testing.T) {
	// Wednesday 2024-05-15 10:00
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

	next, err := NextRun(models.ReportSchedule{DayOfWeek: 5, Time: "09:00"}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC), next)

	next, err = NextRun(models.ReportSchedule{DayOfWeek: 3, Time: "10:00"}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 22, 10, 0, 0, 0, time.UTC), next)

	next, err = NextRun(models.ReportSchedule{DayOfWeek: 3, Time: "10:30"}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC), next)

	_, err = NextRun(models.ReportSchedule{DayOfWeek: 3, Time: "7pm"}, now)
	assert.Error(t, err)
}

type sentMail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func TestReportService(t *testing.T) {
	st := store.New()
	owner := models.Actor{ID: "owner", Name: "Owner"}
	b, err := st.CreateBoard("Launch", "", owner.ID)
	require.NoError(t, err)

	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -2)
	_, err = st.CreateTask(owner, b.ID, b.Columns[0].ID, store.TaskInput{Title: "late", DueDate: &past})
	require.NoError(t, err)
	done, err := st.CreateTask(owner, b.ID, b.Columns[2].ID, store.TaskInput{Title: "shipped"})
	require.NoError(t, err)
	_, err = st.ToggleTaskCompletion(owner, done.ID, true)
	require.NoError(t, err)

	report, err := st.AddScheduledReport(owner, models.ScheduledReport{
		BoardID:    b.ID,
		Name:       "Weekly",
		Schedule:   models.ReportSchedule{DayOfWeek: 3, Time: "10:00"},
		Recipients: []string{"team@example.com"},
	})
	require.NoError(t, err)

	tr, err := i18n.New("en")
	require.NoError(t, err)
	mailer := &fakeMailer{}
	svc := NewReportService(st, mailer, tr, calendar.Gregorian{}, zerolog.Nop())

	subject, body, err := svc.Render(report, now)
	require.NoError(t, err)
	assert.Equal(t, "Launch: Weekly", subject)
	assert.Contains(t, body, "2 tasks, 1 completed, 1 overdue")
	assert.Contains(t, body, "To Do: 1")

	report.Type = models.ReportOverdue
	_, body, err = svc.Render(report, now)
	require.NoError(t, err)
	assert.Contains(t, body, fmt.Sprintf("late (due %s)", past.Format("2006-01-02")))

	assert.Len(t, svc.Due(now.Add(-time.Minute), now), 1)
	assert.Empty(t, svc.Due(now, now.Add(time.Minute)))

	svc.Tick(context.Background(), now)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"team@example.com"}, mailer.sent[0].to)
	svc.Tick(context.Background(), now.Add(time.Minute))
	assert.Len(t, mailer.sent, 1)
}

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-1",
			Object: "chat.completion",
			Choices: []openai.ChatCompletionChoice{{
				Index:   0,
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			}},
		})
	}))
}

func TestAIService_DraftTasks(t *testing.T) {
	srv := chatServer(t, "```json\n"+`[
		{"title": "Book venue", "description": "for the offsite", "priority": "high", "dueDate": "2030-01-10T12:00:00Z"},
		{"title": "  ", "description": "dropped"},
		{"title": "Old news", "priority": "whatever", "dueDate": "2001-01-01T00:00:00Z"}
	]`+"\n```")
	defer srv.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	svc := NewAIServiceWithConfig(cfg)

	drafts, err := svc.DraftTasks(context.Background(), "book a venue and catch up on old news")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Book venue", drafts[0].Title)
	assert.Equal(t, models.PriorityHigh, drafts[0].Priority)
	assert.NotNil(t, drafts[0].DueDate)
	assert.Nil(t, drafts[1].DueDate)
	assert.Equal(t, models.PriorityMedium, drafts[1].Priority)
}

func TestAIService_Errors(t *testing.T) {
	var svc *AIService
	_, err := svc.DraftTasks(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)

	srv := chatServer(t, "[]")
	defer srv.Close()
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"

	_, err = NewAIServiceWithConfig(cfg).DraftTasks(context.Background(), "nothing to do")
	assert.ErrorIs(t, err, ErrAINoTasksGenerated)
}
