// Package policy holds the authorization rules for projects, memberships
// and tasks. Every function is pure: it inspects an already loaded project
// (with Memberships) and returns nil or an apperr error.
package policy

import (
	"echoboard/internal/apperr"
	"echoboard/internal/model"

	"github.com/google/uuid"
)

func CanViewProject(p *model.Project, userID uuid.UUID) error {
	if !p.IsParticipant(userID) {
		return apperr.E(apperr.Forbidden, "You don't have access to this project")
	}
	return nil
}

// CanManageProject guards edit, delete and member management.
func CanManageProject(p *model.Project, userID uuid.UUID) error {
	if !p.IsAdmin(userID) {
		return apperr.E(apperr.Forbidden, "Only the project admin can do this")
	}
	return nil
}

// CheckNewMember validates adding candidateID as a member of p.
func CheckNewMember(p *model.Project, candidateID uuid.UUID) error {
	if p.IsAdmin(candidateID) {
		return apperr.E(apperr.InvalidOperation, "The project admin cannot be added as a member")
	}
	if p.HasMember(candidateID) {
		return apperr.E(apperr.Conflict, "User is already a member of this project")
	}
	return nil
}

func CanCreateTask(p *model.Project, userID uuid.UUID) error {
	if !p.IsParticipant(userID) {
		return apperr.E(apperr.Forbidden, "You don't have permission to create tasks in this project")
	}
	return nil
}

// CheckAssignment validates actorID setting assigneeID on a task of p.
// The assignee must participate in the project; a plain member may only
// pick themselves.
func CheckAssignment(p *model.Project, actorID, assigneeID uuid.UUID) error {
	if !p.IsParticipant(assigneeID) {
		return apperr.E(apperr.InvalidOperation, "Tasks can only be assigned to the project admin or its members")
	}
	if !p.IsAdmin(actorID) && assigneeID != actorID {
		return apperr.E(apperr.Forbidden, "Members can only assign tasks to themselves")
	}
	return nil
}

// CanViewTask lets the admin see every task and members only their own.
func CanViewTask(p *model.Project, t *model.Task, userID uuid.UUID) error {
	if p.IsAdmin(userID) {
		return nil
	}
	if p.HasMember(userID) && (t.AuthorID == userID || t.IsAssignedTo(userID)) {
		return nil
	}
	return apperr.E(apperr.Forbidden, "You don't have permission to view this task")
}

// VisibleTasks filters tasks down to the ones userID may see.
func VisibleTasks(p *model.Project, tasks []model.Task, userID uuid.UUID) []model.Task {
	visible := make([]model.Task, 0, len(tasks))
	for i := range tasks {
		if CanViewTask(p, &tasks[i], userID) == nil {
			visible = append(visible, tasks[i])
		}
	}
	return visible
}

// CanModifyTask guards task edit and delete. Authors lose the right when
// they leave the project.
func CanModifyTask(p *model.Project, t *model.Task, userID uuid.UUID) error {
	if p.IsAdmin(userID) || (t.AuthorID == userID && p.HasMember(userID)) {
		return nil
	}
	return apperr.E(apperr.Forbidden, "Only the task author or the project admin can change this task")
}
