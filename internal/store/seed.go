package store

import (
	"time"

	"github.com/google/uuid"
)

// seedRoot builds the demo circle used when no snapshot exists yet:
// one group with an invite code, a patient, two helpers, a couple of
// tasks and a first update. The session starts signed out.
func seedRoot() Root {
	now := time.Now()

	patient := User{ID: uuid.NewString(), Email: "sarah@example.com", Name: "Sarah"}
	admin := User{ID: uuid.NewString(), Email: "miguel@example.com", Name: "Miguel"}
	helper := User{ID: uuid.NewString(), Email: "priya@example.com", Name: "Priya"}

	circle := Group{
		ID:         uuid.NewString(),
		Name:       "Sarah's Circle",
		InviteCode: "CARE42",
		CreatedAt:  now,
	}

	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	return normalize(Root{
		Users: map[string]User{
			patient.ID: patient,
			admin.ID:   admin,
			helper.ID:  helper,
		},
		Groups: map[string]Group{circle.ID: circle},
		Members: []Membership{
			{GroupID: circle.ID, UserID: patient.ID, Role: RolePatient, Status: MemberStatusActive, JoinedAt: now},
			{GroupID: circle.ID, UserID: admin.ID, Role: RoleAdmin, Status: MemberStatusActive, JoinedAt: now},
			{GroupID: circle.ID, UserID: helper.ID, Role: RoleMember, Status: MemberStatusActive, JoinedAt: now},
		},
		Tasks: []Task{
			{
				ID:        uuid.NewString(),
				GroupID:   circle.ID,
				Title:     "Dinner drop-off",
				Category:  "meal",
				TaskDate:  tomorrow,
				StartTime: "18:00",
				EndTime:   "19:00",
				Location:  "Sarah's place",
				Details:   "Anything mild, no nuts please.",
				Slots:     1,
				CreatedBy: patient.ID,
				CreatedAt: now,
			},
			{
				ID:        uuid.NewString(),
				GroupID:   circle.ID,
				Title:     "Pharmacy run",
				Category:  "meds",
				TaskDate:  tomorrow,
				Slots:     2,
				CreatedBy: admin.ID,
				CreatedAt: now,
			},
		},
		Updates: []StatusUpdate{
			{
				ID:         uuid.NewString(),
				GroupID:    circle.ID,
				AuthorID:   patient.ID,
				Mood:       MoodOkay,
				Content:    "Settling in after treatment. Thanks for setting this up, everyone.",
				CreatedAt:  now,
				Visibility: "members",
			},
		},
	})
}
