package store

// Read queries over a document snapshot. These replace a per-feature
// repository layer: all collections live in one document, so the
// snapshot itself is the repository.

// UserByEmail finds a user by exact, case-sensitive email match.
func (r Root) UserByEmail(email string) (User, bool) {
	for _, u := range r.Users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

// GroupByInviteCode resolves an invite code to its group.
func (r Root) GroupByInviteCode(code string) (Group, bool) {
	for _, g := range r.Groups {
		if g.InviteCode == code {
			return g, true
		}
	}
	return Group{}, false
}

// MembershipOf returns the membership row for (groupID, userID) in any
// status, along with its index into Members.
func (r Root) MembershipOf(groupID, userID string) (Membership, int, bool) {
	for i, m := range r.Members {
		if m.GroupID == groupID && m.UserID == userID {
			return m, i, true
		}
	}
	return Membership{}, -1, false
}

// ActiveMembership returns the ACTIVE membership for (groupID, userID),
// if one exists.
func (r Root) ActiveMembership(groupID, userID string) (Membership, bool) {
	m, _, ok := r.MembershipOf(groupID, userID)
	if !ok || m.Status != MemberStatusActive {
		return Membership{}, false
	}
	return m, true
}

// ActiveMembers lists the ACTIVE memberships of a group.
func (r Root) ActiveMembers(groupID string) []Membership {
	var out []Membership
	for _, m := range r.Members {
		if m.GroupID == groupID && m.Status == MemberStatusActive {
			out = append(out, m)
		}
	}
	return out
}

// MemberEmails resolves the emails of a group's ACTIVE members,
// excluding the given user. Used to address circle-wide notifications.
func (r Root) MemberEmails(groupID, excludeUserID string) []string {
	var out []string
	for _, m := range r.ActiveMembers(groupID) {
		if m.UserID == excludeUserID {
			continue
		}
		if u, ok := r.Users[m.UserID]; ok {
			out = append(out, u.Email)
		}
	}
	return out
}

// TaskByID finds a task by ID.
func (r Root) TaskByID(id string) (Task, bool) {
	for _, t := range r.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// ClaimedCount counts CLAIMED signups for a task.
func (r Root) ClaimedCount(taskID string) int {
	n := 0
	for _, s := range r.Signups {
		if s.TaskID == taskID && s.Status == SignupStatusClaimed {
			n++
		}
	}
	return n
}

// HasClaim reports whether the user holds a CLAIMED signup on the task.
func (r Root) HasClaim(taskID, userID string) bool {
	for _, s := range r.Signups {
		if s.TaskID == taskID && s.UserID == userID && s.Status == SignupStatusClaimed {
			return true
		}
	}
	return false
}
