package handler

import (
	"context"
	"strings"

	"echoboard/internal/apperr"
	"echoboard/internal/model"
	"echoboard/internal/policy"
	"echoboard/internal/repository"

	"github.com/google/uuid"
)

// MemberError reports why one email of a batch was not added.
type MemberError struct {
	Email string `json:"email"`
	Error string `json:"error"`

	err error
}

var (
	errMemberUnknown   = apperr.E(apperr.NotFound, "User not found")
	errMemberDuplicate = apperr.E(apperr.Conflict, "Email appears more than once in the request")
)

// resolveMembers maps emails onto users that may join p. Every entry is
// checked; failures are reported per email in request order.
func resolveMembers(ctx context.Context, users repository.UserRepositoryInterface, p *model.Project, emails []string) ([]model.User, []MemberError, error) {
	if len(emails) == 0 {
		return nil, nil, nil
	}

	cleaned := make([]string, 0, len(emails))
	for _, e := range emails {
		cleaned = append(cleaned, strings.TrimSpace(e))
	}

	found, err := users.FindByEmails(ctx, cleaned)
	if err != nil {
		return nil, nil, err
	}
	byEmail := make(map[string]model.User, len(found))
	for _, u := range found {
		byEmail[u.Email] = u
	}

	var (
		accepted []model.User
		failures []MemberError
		seen     = make(map[string]bool, len(cleaned))
	)
	fail := func(email string, err error) {
		failures = append(failures, MemberError{Email: email, Error: apperr.Message(err, err.Error()), err: err})
	}

	for _, email := range cleaned {
		if seen[email] {
			fail(email, errMemberDuplicate)
			continue
		}
		seen[email] = true

		user, ok := byEmail[email]
		if !ok {
			fail(email, errMemberUnknown)
			continue
		}
		if err := policy.CheckNewMember(p, user.ID); err != nil {
			fail(email, err)
			continue
		}
		accepted = append(accepted, user)
	}
	return accepted, failures, nil
}

func userIDs(users []model.User) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func userResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserResponse(&users[i]))
	}
	return out
}
