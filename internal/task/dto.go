package task

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	Title     string `json:"title" validate:"required,min=1,max=200"`
	Category  string `json:"category"`
	TaskDate  string `json:"task_date" validate:"required"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Location  string `json:"location,omitempty"`
	Details   string `json:"details,omitempty"`
	Slots     int    `json:"slots" validate:"required,min=1"`
}

// TaskResponse represents a task with its slot accounting
type TaskResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	TaskDate       string `json:"task_date"`
	StartTime      string `json:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"`
	Location       string `json:"location,omitempty"`
	Details        string `json:"details,omitempty"`
	Slots          int    `json:"slots"`
	ClaimedSlots   int    `json:"claimed_slots"`
	AvailableSlots int    `json:"available_slots"`
	ClaimedByMe    bool   `json:"claimed_by_me"`
	CreatedBy      string `json:"created_by"`
	CreatorName    string `json:"creator_name,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// ToResponse converts a Summary to a TaskResponse DTO
func (s Summary) ToResponse() *TaskResponse {
	creatorName := s.Creator.Name
	if creatorName == "" {
		creatorName = s.Creator.Email
	}
	return &TaskResponse{
		ID:             s.ID,
		Title:          s.Title,
		Category:       s.Category,
		TaskDate:       s.TaskDate,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		Location:       s.Location,
		Details:        s.Details,
		Slots:          s.Slots,
		ClaimedSlots:   s.ClaimedBy,
		AvailableSlots: s.Available,
		ClaimedByMe:    s.Claimed,
		CreatedBy:      s.CreatedBy,
		CreatorName:    creatorName,
		CreatedAt:      s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
