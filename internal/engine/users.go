package engine

import "github.com/sprintforge/sprintforge/pkg/models"

// Authenticate checks a username/password pair and returns the matching
// user. The failure message is deliberately vague about which half was
// wrong.
func (e *Engine) Authenticate(username, password string) (*models.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, u := range e.users {
		if u.Username == username && u.Password == password {
			copy := *u
			return &copy, nil
		}
	}
	return nil, conflictErr("incorrect username or password")
}

// AddUser registers a new team member. Usernames are unique.
func (e *Engine) AddUser(user models.User) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if user.Username == "" {
		return validationErr("username", "username is required")
	}
	if user.Password == "" {
		return validationErr("password", "password is required")
	}
	if !user.Role.Valid() {
		return validationErr("role", "role must be Admin or User")
	}
	for _, u := range e.users {
		if u.Username == user.Username {
			return conflictErr("username %q is already taken", user.Username)
		}
	}

	e.users = append(e.users, &user)
	e.persist()
	e.logger.Log("added user %q (%s)", user.Username, user.Role)
	return nil
}

// RemoveUser deletes a team member account. The last Admin can never be
// removed; the team must always have one. Tasks and sprints referencing the
// removed username keep their references (read paths show the name as-is).
func (e *Engine) RemoveUser(username string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	admins := 0
	for i, u := range e.users {
		if u.Role == models.RoleAdmin {
			admins++
		}
		if u.Username == username {
			idx = i
		}
	}
	if idx == -1 {
		return notFoundErr("user", username)
	}
	if e.users[idx].Role == models.RoleAdmin && admins == 1 {
		return conflictErr("cannot remove %q: the team needs at least one Admin", username)
	}

	e.users = append(e.users[:idx], e.users[idx+1:]...)
	e.persist()
	e.logger.Log("removed user %q", username)
	return nil
}

// ChangePassword updates a user's password.
func (e *Engine) ChangePassword(username, newPassword string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if newPassword == "" {
		return validationErr("password", "password is required")
	}
	for _, u := range e.users {
		if u.Username == username {
			u.Password = newPassword
			e.persist()
			e.logger.Log("changed password for %q", username)
			return nil
		}
	}
	return notFoundErr("user", username)
}

// Users returns copies of all accounts in registration order.
func (e *Engine) Users() []models.User {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.User, 0, len(e.users))
	for _, u := range e.users {
		out = append(out, *u)
	}
	return out
}
