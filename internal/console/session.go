package console

import (
	"github.com/google/uuid"

	"cafe-system/internal/common/logger"
	"cafe-system/internal/domain"
)

// Session is the authenticated identity handed to every action handler.
type Session struct {
	ID    uuid.UUID
	Login string
	Role  domain.Role

	lg *logger.Logger
}

func newSession(login string, role domain.Role, lg *logger.Logger) *Session {
	s := &Session{ID: uuid.New(), Login: login, Role: role}
	s.lg = lg.With(map[string]any{"session_id": s.ID.String(), "login": login, "role": string(role)})
	return s
}
