package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"echoboard/internal/auth"
	"echoboard/internal/handler"
	"echoboard/internal/model"
	"echoboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupUserTest(userID uuid.UUID) (*gin.Engine, *MockUserRepository, *fakeMailer) {
	r := newRouter(userID)
	mockRepo := new(MockUserRepository)
	mailer := &fakeMailer{}
	userHandler := handler.NewUserHandler(mockRepo, fakeTokens{}, mailer)

	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/jwtcheck", userHandler.JWTCheck)
	r.GET("/profile", userHandler.GetProfile)
	r.PUT("/profile", userHandler.UpdateProfile)
	r.DELETE("/user", userHandler.DeleteUser)
	r.GET("/user", userHandler.Lookup)
	return r, mockRepo, mailer
}

// runWelcome makes the mocked Register behave like the real one: the
// callback runs and its error is returned.
func runWelcome(mockRepo *MockUserRepository) *mock.Call {
	return mockRepo.On("Register", mock.Anything, mock.AnythingOfType("*model.User"), mock.Anything).
		Return(func(u *model.User, welcome func(*model.User) error) error {
			return welcome(u)
		}).Once()
}

func TestRegister_Success(t *testing.T) {
	router, mockRepo, mailer := setupUserTest(uuid.Nil)
	runWelcome(mockRepo)

	resp := doJSON(router, http.MethodPost, "/register", handler.RegisterRequest{
		FullName: "Test User",
		Email:    "test@example.com",
		Password: "password123",
		Country:  "ES",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	body := decode(resp)
	assert.Equal(t, "ok", body["msg"])
	newUser := body["new_user"].(map[string]any)
	assert.Equal(t, "test@example.com", newUser["email"])
	assert.Equal(t, "Test User", newUser["full_name"])
	assert.Equal(t, true, newUser["is_active"])
	assert.NotContains(t, newUser, "hashed_password")
	assert.Equal(t, []string{"test@example.com"}, mailer.welcomed)

	mockRepo.AssertExpectations(t)
}

func TestRegister_UserAlreadyExists(t *testing.T) {
	router, mockRepo, _ := setupUserTest(uuid.Nil)
	mockRepo.On("Register", mock.Anything, mock.AnythingOfType("*model.User"), mock.Anything).
		Return(repository.ErrEmailTaken)

	resp := doJSON(router, http.MethodPost, "/register", handler.RegisterRequest{
		FullName: "Test User",
		Email:    "existing@example.com",
		Password: "password123",
		Country:  "ES",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
	body := decode(resp)
	assert.Equal(t, "A user with this email already exists", body["msg"])
	assert.Equal(t, "conflict", body["error"])
	mockRepo.AssertExpectations(t)
}

func TestRegister_InvalidBody(t *testing.T) {
	router, mockRepo, _ := setupUserTest(uuid.Nil)

	resp := doJSON(router, http.MethodPost, "/register", map[string]string{"email": "not-an-email"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "validation_error", decode(resp)["error"])
	mockRepo.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_WelcomeMailFailure(t *testing.T) {
	router, mockRepo, mailer := setupUserTest(uuid.Nil)
	mailer.err = errors.New("smtp down")
	runWelcome(mockRepo)

	resp := doJSON(router, http.MethodPost, "/register", handler.RegisterRequest{
		FullName: "Test User",
		Email:    "test@example.com",
		Password: "password123",
		Country:  "ES",
	})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	body := decode(resp)
	assert.Equal(t, "upstream_failure", body["error"])
	assert.Equal(t, "Could not send the welcome email", body["msg"])
	mockRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	router, mockRepo, _ := setupUserTest(uuid.Nil)

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	testUser := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: hash,
		FullName:       "Test User",
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(testUser, nil)

	resp := doJSON(router, http.MethodPost, "/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, "token-for-"+testUser.ID.String(), response.AccessToken)
	assert.Equal(t, testUser.FullName, response.User.FullName)
	assert.Equal(t, testUser.Email, response.User.Email)
	assert.Equal(t, testUser.ID.String(), response.User.ID)

	mockRepo.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router, mockRepo, _ := setupUserTest(uuid.Nil)

	hash, err := auth.HashPassword("correct_password")
	require.NoError(t, err)
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").
		Return(&model.User{ID: uuid.New(), Email: "test@example.com", HashedPassword: hash}, nil)

	resp := doJSON(router, http.MethodPost, "/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong_password",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Invalid credentials", decode(resp)["msg"])
	mockRepo.AssertExpectations(t)
}

func TestLogin_UserNotFound(t *testing.T) {
	router, mockRepo, _ := setupUserTest(uuid.Nil)
	mockRepo.On("FindByEmail", mock.Anything, "nonexistent@example.com").Return(nil, nil)

	resp := doJSON(router, http.MethodPost, "/login", handler.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Invalid credentials", decode(resp)["msg"])
	mockRepo.AssertExpectations(t)
}

func TestJWTCheck(t *testing.T) {
	router, _, _ := setupUserTest(uuid.New())

	resp := doJSON(router, http.MethodGet, "/jwtcheck", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Token is valid", decode(resp)["msg"])
}

func TestUpdateProfile_PasswordNeedsCurrentPassword(t *testing.T) {
	userID := uuid.New()
	router, mockRepo, _ := setupUserTest(userID)

	hash, err := auth.HashPassword("old-password")
	require.NoError(t, err)
	mockRepo.On("GetByID", mock.Anything, userID).
		Return(&model.User{ID: userID, FullName: "Ada", HashedPassword: hash}, nil)

	resp := doJSON(router, http.MethodPut, "/profile", map[string]string{
		"current_password": "guess",
		"new_password":     "new-password",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Current password is incorrect", decode(resp)["msg"])
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProfile_ChangesFieldsAndPassword(t *testing.T) {
	userID := uuid.New()
	router, mockRepo, _ := setupUserTest(userID)

	hash, err := auth.HashPassword("old-password")
	require.NoError(t, err)
	phone := "+34 600"
	mockRepo.On("GetByID", mock.Anything, userID).
		Return(&model.User{ID: userID, FullName: "Ada", Country: "ES", Phone: &phone, HashedPassword: hash}, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.FullName == "Ada L." && u.Phone == nil && u.Country == "ES" &&
			auth.CheckPassword(u.HashedPassword, "new-password")
	})).Return(nil)

	resp := doJSON(router, http.MethodPut, "/profile", map[string]string{
		"full_name":        "Ada L.",
		"phone":            "",
		"current_password": "old-password",
		"new_password":     "new-password",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	mockRepo.AssertExpectations(t)
}

func TestDeleteUser(t *testing.T) {
	userID := uuid.New()
	router, mockRepo, _ := setupUserTest(userID)
	user := &model.User{ID: userID, Email: "a@x.com"}
	mockRepo.On("GetByID", mock.Anything, userID).Return(user, nil)
	mockRepo.On("Delete", mock.Anything, user).Return(nil)

	resp := doJSON(router, http.MethodDelete, "/user", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "User deleted", decode(resp)["msg"])
	mockRepo.AssertExpectations(t)
}

func TestLookup(t *testing.T) {
	router, mockRepo, _ := setupUserTest(uuid.New())
	mockRepo.On("FindByEmail", mock.Anything, "b@x.com").
		Return(&model.User{ID: uuid.New(), Email: "b@x.com", FullName: "Bob"}, nil)
	mockRepo.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, nil)

	found := decode(doJSON(router, http.MethodGet, "/user?email=b@x.com", nil))
	assert.Equal(t, true, found["found"])
	assert.Equal(t, "Bob", found["user"].(map[string]any)["full_name"])

	missing := doJSON(router, http.MethodGet, "/user?email=nobody@x.com", nil)
	assert.Equal(t, http.StatusOK, missing.Code)
	assert.Equal(t, false, decode(missing)["found"])

	assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodGet, "/user", nil).Code)
}

func TestProtectedRoute_WithoutUser(t *testing.T) {
	router, _, _ := setupUserTest(uuid.Nil)

	resp := doJSON(router, http.MethodGet, "/profile", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "unauthenticated", decode(resp)["error"])
}
