package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"echoboard/internal/middleware"
	"echoboard/internal/model"
	"echoboard/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

// Register returns the configured error, or runs a configured
// func(*model.User, func(*model.User) error) error.
func (m *MockUserRepository) Register(ctx context.Context, user *model.User, welcome func(*model.User) error) error {
	args := m.Called(ctx, user, welcome)
	if fn, ok := args.Get(0).(func(*model.User, func(*model.User) error) error); ok {
		return fn(user, welcome)
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmails(ctx context.Context, emails []string) ([]model.User, error) {
	args := m.Called(ctx, emails)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *model.Project, memberIDs []uuid.UUID) error {
	return m.Called(ctx, project, memberIDs).Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	p := args.Get(0)
	if p == nil {
		return nil, args.Error(1)
	}
	return p.(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) GetAdministered(ctx context.Context, adminID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) GetMemberOf(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *model.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) AddMembers(ctx context.Context, projectID uuid.UUID, memberIDs []uuid.UUID) error {
	return m.Called(ctx, projectID, memberIDs).Error(0)
}

func (m *MockMembershipRepository) RemoveMember(ctx context.Context, projectID, memberID uuid.UUID) error {
	return m.Called(ctx, projectID, memberID).Error(0)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, projectID, taskID uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, projectID, taskID)
	t := args.Get(0)
	if t == nil {
		return nil, args.Error(1)
	}
	return t.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, projectID, taskID uuid.UUID) error {
	return m.Called(ctx, projectID, taskID).Error(0)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Issue(ctx context.Context, ticket *model.PasswordResetTicket, notify func(*model.PasswordResetTicket) error) error {
	args := m.Called(ctx, ticket, notify)
	if fn, ok := args.Get(0).(func(*model.PasswordResetTicket, func(*model.PasswordResetTicket) error) error); ok {
		return fn(ticket, notify)
	}
	return args.Error(0)
}

func (m *MockTicketRepository) Redeem(ctx context.Context, token, hashedPassword string, now time.Time) error {
	return m.Called(ctx, token, hashedPassword, now).Error(0)
}

// fakeMailer records what would have been sent.
type fakeMailer struct {
	err       error
	welcomed  []string
	resetTo   string
	resetLink string
}

func (f *fakeMailer) SendWelcome(to, fullName string) error {
	if f.err != nil {
		return f.err
	}
	f.welcomed = append(f.welcomed, to)
	return nil
}

func (f *fakeMailer) SendPasswordReset(to, link string) error {
	if f.err != nil {
		return f.err
	}
	f.resetTo, f.resetLink = to, link
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(userID string) (string, error) {
	return "token-for-" + userID, nil
}

type fakeGenerator struct {
	text   string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

type fakePresigner struct {
	upload *storage.Upload
	err    error
}

func (f *fakePresigner) PresignUpload(context.Context, uuid.UUID, string, string) (*storage.Upload, error) {
	return f.upload, f.err
}

// newRouter returns a test engine that authenticates every request as
// userID, or nobody when userID is uuid.Nil.
func newRouter(userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != uuid.Nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.UserIDKey, userID)
			c.Next()
		})
	}
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decode(resp *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	return out
}

// fixture is the Launch project: A administers it, B is a member and C is
// a registered outsider.
type fixture struct {
	A, B, C model.User
	Project *model.Project
}

func newFixture() fixture {
	f := fixture{
		A: model.User{ID: uuid.New(), Email: "a@x.com", FullName: "Ada"},
		B: model.User{ID: uuid.New(), Email: "b@x.com", FullName: "Bob"},
		C: model.User{ID: uuid.New(), Email: "c@x.com", FullName: "Cy"},
	}
	projectID := uuid.New()
	f.Project = &model.Project{
		ID:      projectID,
		Title:   "Launch",
		DueDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		Status:  model.ProjectInProgress,
		AdminID: f.A.ID,
		Admin:   f.A,
		Memberships: []model.Membership{
			{ID: uuid.New(), ProjectID: projectID, MemberID: f.B.ID, Member: f.B},
		},
	}
	return f
}
