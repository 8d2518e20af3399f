package status

// PostUpdateRequest represents the request to post a status update
type PostUpdateRequest struct {
	Mood    string `json:"mood" validate:"required,oneof=GOOD OKAY BAD"`
	Content string `json:"content" validate:"required"`
}

// UpdateResponse represents a status update in API responses
type UpdateResponse struct {
	ID         string `json:"id"`
	Mood       string `json:"mood"`
	Content    string `json:"content"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`
	CreatedAt  string `json:"created_at"`
	Alerted    bool   `json:"alerted,omitempty"`
}

// ToResponse converts an Update to an UpdateResponse DTO
func (u Update) ToResponse() *UpdateResponse {
	name := u.Author.Name
	if name == "" {
		name = u.Author.Email
	}
	return &UpdateResponse{
		ID:         u.ID,
		Mood:       string(u.Mood),
		Content:    u.Content,
		AuthorID:   u.AuthorID,
		AuthorName: name,
		CreatedAt:  u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
