package engine

import (
	"errors"
	"testing"

	"github.com/sprintforge/sprintforge/pkg/models"
)

func TestAuthenticate(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	if _, err := eng.Authenticate("admin", "1234"); err != nil {
		t.Fatalf("valid login failed: %v", err)
	}

	// Wrong password and unknown user fail with the same vague message.
	_, badPass := eng.Authenticate("admin", "wrong")
	_, badUser := eng.Authenticate("nobody", "1234")
	if badPass == nil || badUser == nil {
		t.Fatal("bad credentials accepted")
	}
	if badPass.Error() != badUser.Error() {
		t.Errorf("login errors leak which half was wrong: %q vs %q", badPass, badUser)
	}
}

func TestAddUserUniqueness(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	user := models.User{Username: "alice", Password: "pw", Role: models.RoleUser}
	if err := eng.AddUser(user); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	err := eng.AddUser(user)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("duplicate username: expected ConflictError, got %v", err)
	}
}

func TestAddUserValidation(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	cases := []models.User{
		{Username: "", Password: "pw", Role: models.RoleUser},
		{Username: "alice", Password: "", Role: models.RoleUser},
		{Username: "alice", Password: "pw", Role: "Owner"},
	}
	for _, user := range cases {
		if err := eng.AddUser(user); err == nil {
			t.Errorf("accepted invalid user %+v", user)
		}
	}
}

func TestRemoveUserProtectsLastAdmin(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	err := eng.RemoveUser("admin")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("removing the sole admin: expected ConflictError, got %v", err)
	}

	// With a second admin in place the original becomes removable.
	if err := eng.AddUser(models.User{Username: "root2", Password: "pw", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := eng.RemoveUser("admin"); err != nil {
		t.Fatalf("RemoveUser with a second admin present: %v", err)
	}
}

func TestRemoveUserLeavesDanglingReferences(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	if err := eng.AddUser(models.User{Username: "alice", Password: "pw", Role: models.RoleUser}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	task := mustCreateTask(t, eng, validTaskDraft())

	if err := eng.RemoveUser("alice"); err != nil {
		t.Fatalf("RemoveUser: %v", err)
	}
	got, err := eng.Task(task.ID)
	if err != nil {
		t.Fatalf("Task: %v", err)
	}
	if got.AssignTo != "alice" {
		t.Errorf("assignee rewritten to %q on user removal", got.AssignTo)
	}
}

func TestChangePassword(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	if err := eng.ChangePassword("admin", "better"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := eng.Authenticate("admin", "1234"); err == nil {
		t.Error("old password still works")
	}
	if _, err := eng.Authenticate("admin", "better"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	var nf *NotFoundError
	if err := eng.ChangePassword("ghost", "pw"); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError for unknown user, got %v", err)
	}
}
