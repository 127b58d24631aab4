package handler_test

import (
	"net/http"
	"testing"

	"echoboard/internal/handler"
	"echoboard/internal/model"
	"echoboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type membershipTest struct {
	router      *gin.Engine
	projects    *MockProjectRepository
	users       *MockUserRepository
	memberships *MockMembershipRepository
}

func setupMembershipTest(userID uuid.UUID) membershipTest {
	mt := membershipTest{
		router:      newRouter(userID),
		projects:    new(MockProjectRepository),
		users:       new(MockUserRepository),
		memberships: new(MockMembershipRepository),
	}
	h := handler.NewMembershipHandler(mt.projects, mt.users, mt.memberships)
	mt.router.POST("/project/:id/members", h.AddMembers)
	mt.router.DELETE("/project/:id/member/:member_id", h.RemoveMember)
	return mt
}

func TestAddMembers_ReAddingIsPerEntryConflict(t *testing.T) {
	f := newFixture()
	mt := setupMembershipTest(f.A.ID)
	mt.projects.On("GetByID", mock.Anything, f.Project.ID).Return(f.Project, nil)
	mt.users.On("FindByEmails", mock.Anything, []string{"b@x.com"}).Return([]model.User{f.B}, nil)

	resp := doJSON(mt.router, http.MethodPost, "/project/"+f.Project.ID.String()+"/members",
		handler.AddMembersRequest{Members: []string{"b@x.com"}})

	assert.Equal(t, http.StatusConflict, resp.Code)
	body := decode(resp)
	assert.Empty(t, body["added_members"])
	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "b@x.com", errs[0].(map[string]any)["email"])
	assert.Equal(t, "User is already a member of this project", errs[0].(map[string]any)["error"])
	mt.memberships.AssertNotCalled(t, "AddMembers", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMembers_ProcessesWholeBatch(t *testing.T) {
	f := newFixture()
	mt := setupMembershipTest(f.A.ID)
	emails := []string{"b@x.com", "c@x.com", "ghost@x.com", "a@x.com", "c@x.com"}
	mt.projects.On("GetByID", mock.Anything, f.Project.ID).Return(f.Project, nil)
	mt.users.On("FindByEmails", mock.Anything, emails).Return([]model.User{f.A, f.B, f.C}, nil)
	mt.memberships.On("AddMembers", mock.Anything, f.Project.ID, []uuid.UUID{f.C.ID}).Return(nil)

	resp := doJSON(mt.router, http.MethodPost, "/project/"+f.Project.ID.String()+"/members",
		handler.AddMembersRequest{Members: emails})

	require.Equal(t, http.StatusOK, resp.Code)
	body := decode(resp)
	added := body["added_members"].([]any)
	require.Len(t, added, 1)
	assert.Equal(t, "c@x.com", added[0].(map[string]any)["email"])

	errs := body["errors"].([]any)
	require.Len(t, errs, 4)
	failed := make([]string, 0, len(errs))
	for _, e := range errs {
		failed = append(failed, e.(map[string]any)["email"].(string))
	}
	assert.Equal(t, []string{"b@x.com", "ghost@x.com", "a@x.com", "c@x.com"}, failed)
	mt.memberships.AssertExpectations(t)
}

func TestAddMembers_OnlyAdmin(t *testing.T) {
	f := newFixture()
	mt := setupMembershipTest(f.B.ID)
	mt.projects.On("GetByID", mock.Anything, f.Project.ID).Return(f.Project, nil)

	resp := doJSON(mt.router, http.MethodPost, "/project/"+f.Project.ID.String()+"/members",
		handler.AddMembersRequest{Members: []string{"c@x.com"}})

	assert.Equal(t, http.StatusForbidden, resp.Code)
	mt.users.AssertNotCalled(t, "FindByEmails", mock.Anything, mock.Anything)
}

func TestAddMembers_EmptyBatch(t *testing.T) {
	f := newFixture()
	mt := setupMembershipTest(f.A.ID)

	resp := doJSON(mt.router, http.MethodPost, "/project/"+f.Project.ID.String()+"/members",
		handler.AddMembersRequest{Members: []string{}})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRemoveMember(t *testing.T) {
	f := newFixture()
	mt := setupMembershipTest(f.A.ID)
	mt.projects.On("GetByID", mock.Anything, f.Project.ID).Return(f.Project, nil)
	mt.memberships.On("RemoveMember", mock.Anything, f.Project.ID, f.B.ID).Return(nil)

	resp := doJSON(mt.router, http.MethodDelete,
		"/project/"+f.Project.ID.String()+"/member/"+f.B.ID.String(), nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	mt.memberships.AssertExpectations(t)
}

func TestRemoveMember_NotAMember(t *testing.T) {
	f := newFixture()
	mt := setupMembershipTest(f.A.ID)
	mt.projects.On("GetByID", mock.Anything, f.Project.ID).Return(f.Project, nil)
	mt.memberships.On("RemoveMember", mock.Anything, f.Project.ID, f.C.ID).Return(repository.ErrMemberNotFound)

	resp := doJSON(mt.router, http.MethodDelete,
		"/project/"+f.Project.ID.String()+"/member/"+f.C.ID.String(), nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
