package member

// AddMemberRequest represents the request to add a member by email
type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"`
}

// ChangeRoleRequest represents the request to change a member's role
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// MemberResponse represents a member in a circle response
type MemberResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

// ToResponse converts a Member to a MemberResponse DTO
func (m Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID:   m.UserID,
		Email:    m.User.Email,
		Name:     m.User.Name,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt.Format("2006-01-02T15:04:05Z"),
	}
}
