package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Role identifies which side of the doctor-patient relationship a caller
// acts on. Authentication itself happens upstream; see Actor.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

func (r Role) IsValid() bool {
	return r == RolePatient || r == RoleDoctor
}

// Actor is the already-authenticated caller of a command. Every lifecycle
// operation takes it explicitly; nothing reads ambient session state.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}
