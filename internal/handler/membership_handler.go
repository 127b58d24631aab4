package handler

import (
	"echoboard/internal/policy"
	"echoboard/internal/repository"
	"echoboard/pkg/response"

	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	projects    repository.ProjectRepositoryInterface
	users       repository.UserRepositoryInterface
	memberships repository.MembershipRepositoryInterface
}

func NewMembershipHandler(
	projects repository.ProjectRepositoryInterface,
	users repository.UserRepositoryInterface,
	memberships repository.MembershipRepositoryInterface,
) *MembershipHandler {
	return &MembershipHandler{projects: projects, users: users, memberships: memberships}
}

type AddMembersRequest struct {
	Members []string `json:"members" binding:"required,min=1"`
}

// AddMembers godoc
// @Summary      Add members to a project by email (admin only)
// @Description  Every email is processed; failures are listed per entry. Answers 200 when at least one member was added.
// @Tags         Members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body AddMembersRequest true "Emails"
// @Success      200 {object} map[string]any
// @Failure      404 {object} map[string]any
// @Failure      409 {object} map[string]any
// @Router       /project/{id}/members [post]
func (h *MembershipHandler) AddMembers(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req AddMembersRequest
	if !bind(c, &req) {
		return
	}

	project, err := loadProject(c.Request.Context(), h.projects, projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := policy.CanManageProject(project, userID); err != nil {
		response.Error(c, err)
		return
	}

	accepted, failures, err := resolveMembers(c.Request.Context(), h.users, project, req.Members)
	if err != nil {
		response.Error(c, err)
		return
	}
	if failures == nil {
		failures = []MemberError{}
	}

	if len(accepted) == 0 {
		response.ErrorWith(c, failures[0].err, gin.H{
			"added_members": []UserResponse{},
			"errors":        failures,
		})
		return
	}

	if err := h.memberships.AddMembers(c.Request.Context(), projectID, userIDs(accepted)); err != nil {
		response.Error(c, err)
		return
	}

	msg := "Members added"
	if len(failures) > 0 {
		msg = "Some members could not be added"
	}
	response.OK(c, msg, gin.H{
		"added_members": userResponses(accepted),
		"errors":        failures,
	})
}

// RemoveMember godoc
// @Summary      Remove a member and clear their assignments (admin only)
// @Tags         Members
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Param        member_id path string true "User ID"
// @Success      200 {object} map[string]any
// @Failure      404 {object} map[string]any
// @Router       /project/{id}/member/{member_id} [delete]
func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := uuidParam(c, "member_id")
	if !ok {
		return
	}

	project, err := loadProject(c.Request.Context(), h.projects, projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := policy.CanManageProject(project, userID); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.memberships.RemoveMember(c.Request.Context(), projectID, memberID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Member removed", nil)
}
