package handler

import (
	"time"

	"echoboard/internal/model"
)

type UserResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	Phone              *string   `json:"phone"`
	Country            string    `json:"country"`
	ProfilePictureURL  *string   `json:"profile_picture_url"`
	RandomProfileColor int       `json:"random_profile_color"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

type ProjectResponse struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       *string        `json:"description"`
	ProjectPictureURL *string        `json:"project_picture_url"`
	DueDate           string         `json:"due_date"`
	Status            string         `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
	AdminID           string         `json:"admin_id"`
	Admin             *UserResponse  `json:"admin,omitempty"`
	Members           []UserResponse `json:"members"`
}

// ProjectDetailResponse is a project with the tasks visible to the caller.
type ProjectDetailResponse struct {
	ProjectResponse
	Tasks []TaskResponse `json:"tasks"`
}

type TaskResponse struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  *string       `json:"description"`
	Status       string        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	ProjectID    string        `json:"project_id"`
	AuthorID     string        `json:"author_id"`
	AssignedToID *string       `json:"assigned_to_id"`
	TaskAuthor   *UserResponse `json:"task_author,omitempty"`
	AssignedTo   *UserResponse `json:"assigned_to,omitempty"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:                 u.ID.String(),
		Email:              u.Email,
		FullName:           u.FullName,
		Phone:              u.Phone,
		Country:            u.Country,
		ProfilePictureURL:  u.ProfilePictureURL,
		RandomProfileColor: u.RandomProfileColor,
		IsActive:           u.IsActive,
		CreatedAt:          u.CreatedAt,
	}
}

func newProjectResponse(p *model.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:                p.ID.String(),
		Title:             p.Title,
		Description:       p.Description,
		ProjectPictureURL: p.PictureURL,
		DueDate:           p.DueDate.Format(model.DateLayout),
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt,
		AdminID:           p.AdminID.String(),
		Members:           make([]UserResponse, 0, len(p.Memberships)),
	}
	if p.Admin.ID == p.AdminID {
		admin := newUserResponse(&p.Admin)
		resp.Admin = &admin
	}
	for i := range p.Memberships {
		resp.Members = append(resp.Members, newUserResponse(&p.Memberships[i].Member))
	}
	return resp
}

func newProjectResponses(projects []model.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, newProjectResponse(&projects[i]))
	}
	return out
}

func newTaskResponse(t *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		ProjectID:   t.ProjectID.String(),
		AuthorID:    t.AuthorID.String(),
	}
	if t.Author.ID == t.AuthorID {
		author := newUserResponse(&t.Author)
		resp.TaskAuthor = &author
	}
	if t.AssignedToID != nil {
		id := t.AssignedToID.String()
		resp.AssignedToID = &id
		if t.Assignee != nil {
			assignee := newUserResponse(t.Assignee)
			resp.AssignedTo = &assignee
		}
	}
	return resp
}

func newTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskResponse(&tasks[i]))
	}
	return out
}
