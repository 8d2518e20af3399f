package session

import "github.com/carecircle/backend/internal/store"

// LoginRequest represents the request to sign in by email
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SelectGroupRequest represents the request to switch the active circle
type SelectGroupRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

// JoinRequest represents the self-service join-by-invite-code request
type JoinRequest struct {
	Code  string `json:"code" validate:"required"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email" validate:"required,email"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// GroupResponse represents a circle in API responses
type GroupResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code"`
}

// SessionResponse represents the resolved current actor. All fields are
// null when no session is active.
type SessionResponse struct {
	User  *UserResponse  `json:"user"`
	Group *GroupResponse `json:"group"`
	Role  string         `json:"role,omitempty"`
}

// ToUserResponse converts a store user to its API shape
func ToUserResponse(u store.User) *UserResponse {
	return &UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// ToGroupResponse converts a store group to its API shape
func ToGroupResponse(g store.Group) *GroupResponse {
	return &GroupResponse{ID: g.ID, Name: g.Name, InviteCode: g.InviteCode}
}

// ToResponse converts a resolved session to its API shape
func (s Session) ToResponse() *SessionResponse {
	if !s.Active() {
		return &SessionResponse{}
	}
	return &SessionResponse{
		User:  ToUserResponse(s.User),
		Group: ToGroupResponse(s.Group),
		Role:  string(s.Role),
	}
}
