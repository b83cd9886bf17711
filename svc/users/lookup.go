package users

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/pkg/logger"
)

// GetUserByEmail returns the user whose email equals email exactly, or
// (nil, nil) when there is none.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := startSpan(ctx, "users.get_by_email")
	defer func() { endSpan(span, err) }()

	admin, err := s.backend.Admin(ctx)
	if err != nil {
		return nil, s.handleError(ctx, ErrGetUser, err, logger.Email(email))
	}
	user, err := s.findOne(ctx, admin, baas.Equal("email", email))
	if err != nil {
		return nil, s.handleError(ctx, ErrGetUser, err, logger.Email(email))
	}
	return user, nil
}

func (s *Service) findOne(ctx context.Context, client *baas.Client, q baas.Query) (*User, error) {
	list, err := client.Databases.ListDocuments(ctx, s.cfg.DatabaseID, s.cfg.CollectionID, q)
	if err != nil {
		return nil, err
	}
	if len(list.Documents) == 0 {
		return nil, nil
	}

	var user User
	if err := list.Documents[0].Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}
