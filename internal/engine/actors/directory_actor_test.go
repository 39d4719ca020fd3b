package actors

import (
	"context"
	"testing"
	"time"

	"campus-feed/internal/database"
	"campus-feed/internal/models"
	"campus-feed/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnDirectoryActor(t *testing.T) (*actor.ActorSystem, *actor.PID) {
	t.Helper()

	system := actor.NewActorSystem()
	db := database.NewMemory()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewDirectoryActor(utils.NewMetricsCollector(), db)
	})
	pid := system.Root.Spawn(props)
	time.Sleep(100 * time.Millisecond)
	return system, pid
}

func TestDirectoryActorRegisterAndLogin(t *testing.T) {
	system, pid := spawnDirectoryActor(t)

	user := ask(t, system, pid, &RegisterUserMsg{
		Username: "alice",
		Password: "secret123",
	}).(*models.User)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, 0, user.Karma)
	assert.Empty(t, user.EnrolledCourses)
	assert.NotEqual(t, "secret123", user.HashedPassword)

	// Duplicate username is rejected.
	result := ask(t, system, pid, &RegisterUserMsg{Username: "alice", Password: "other456"})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)

	// Valid credentials.
	loggedIn := ask(t, system, pid, &LoginMsg{Username: "alice", Password: "secret123"}).(*models.User)
	assert.Equal(t, user.ID, loggedIn.ID)

	// Wrong password and unknown username fail identically.
	result = ask(t, system, pid, &LoginMsg{Username: "alice", Password: "wrong"})
	assert.Equal(t, utils.ErrInvalidCredentials, result.(*utils.AppError).Code)

	result = ask(t, system, pid, &LoginMsg{Username: "nobody", Password: "secret123"})
	assert.Equal(t, utils.ErrInvalidCredentials, result.(*utils.AppError).Code)
}

func TestDirectoryActorGetUser(t *testing.T) {
	system, pid := spawnDirectoryActor(t)

	user := ask(t, system, pid, &RegisterUserMsg{Username: "bob", Password: "secret123"}).(*models.User)

	fetched := ask(t, system, pid, &GetUserMsg{UserID: user.ID}).(*models.User)
	assert.Equal(t, "bob", fetched.Username)

	result := ask(t, system, pid, &GetUserMsg{UserID: "nope"})
	assert.Equal(t, utils.ErrNotFound, result.(*utils.AppError).Code)

	count := ask(t, system, pid, &GetCountsMsg{}).(int)
	assert.Equal(t, 1, count)
}

func TestDirectoryActorKarmaAndEnrollment(t *testing.T) {
	system, pid := spawnDirectoryActor(t)

	user := ask(t, system, pid, &RegisterUserMsg{Username: "carol", Password: "secret123"}).(*models.User)

	// Karma updates and enrollment syncs are fire-and-forget.
	system.Root.Send(pid, &UpdateKarmaMsg{UserID: user.ID, Delta: 1})
	system.Root.Send(pid, &UpdateKarmaMsg{UserID: user.ID, Delta: 1})
	system.Root.Send(pid, &EnrollmentChangedMsg{UserID: user.ID, CourseID: "CS101", Joined: true})
	system.Root.Send(pid, &EnrollmentChangedMsg{UserID: user.ID, CourseID: "MATH201", Joined: true})
	system.Root.Send(pid, &EnrollmentChangedMsg{UserID: user.ID, CourseID: "CS101", Joined: false})

	// Updates for unknown users are dropped without crashing the actor.
	system.Root.Send(pid, &UpdateKarmaMsg{UserID: "nope", Delta: 5})

	fetched := ask(t, system, pid, &GetUserMsg{UserID: user.ID}).(*models.User)
	assert.Equal(t, 2, fetched.Karma)
	require.Equal(t, []string{"MATH201"}, fetched.EnrolledCourses)
}

func TestDirectoryActorReadThrough(t *testing.T) {
	system := actor.NewActorSystem()
	db := database.NewMemory()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewDirectoryActor(utils.NewMetricsCollector(), db)
	})
	pid := system.Root.Spawn(props)
	time.Sleep(100 * time.Millisecond)

	// A user written straight to storage after the actor warmed up, as a
	// second instance sharing the database would do.
	now := time.Now()
	external := &models.User{
		ID:              "external-user",
		Username:        "transferstudent",
		EnrolledCourses: []string{"MATH201"},
		CreatedAt:       now,
		LastActive:      now,
	}
	require.NoError(t, db.SaveUser(context.Background(), external))

	fetched := ask(t, system, pid, &GetUserMsg{UserID: "external-user"}).(*models.User)
	assert.Equal(t, "transferstudent", fetched.Username)
	assert.Equal(t, []string{"MATH201"}, fetched.EnrolledCourses)

	// Once read through, the user is part of the working set and receives
	// side-effect updates like any other.
	system.Root.Send(pid, &UpdateKarmaMsg{UserID: "external-user", Delta: 1})
	fetched = ask(t, system, pid, &GetUserMsg{UserID: "external-user"}).(*models.User)
	assert.Equal(t, 1, fetched.Karma)

	result := ask(t, system, pid, &GetUserMsg{UserID: "still-missing"})
	assert.Equal(t, utils.ErrNotFound, result.(*utils.AppError).Code)
}
