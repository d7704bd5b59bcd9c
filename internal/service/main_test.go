package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"task-manager/internal/core/auth"
	"task-manager/internal/core/database"
	"task-manager/internal/domain"
	"task-manager/internal/repo"
	"task-manager/pkg/utils"
)

const testInvite = "let-me-in"

func TestMain(m *testing.M) {
	utils.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	users   *repo.UserRepo
	tasks   *repo.TaskRepo
	jwter   *auth.JWTer
	auth    *AuthService
	task    *TaskService
	report  *ReportService
	members *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	f := &fixture{
		users: repo.NewUserRepo(db),
		tasks: repo.NewTaskRepo(db),
		jwter: auth.NewJWTer("test-secret", "task-manager", 0),
	}
	f.auth = NewAuthService(f.users, f.jwter, AuthOptions{AdminInviteToken: testInvite})
	f.task = NewTaskService(f.tasks, f.users, nil)
	f.report = NewReportService(f.tasks)
	f.members = NewUserService(f.users, f.tasks)
	return f
}

func (f *fixture) register(t *testing.T, name string, admin bool) *domain.User {
	t.Helper()
	in := RegisterInput{Name: name, Email: name + "@example.com", Password: "pw-" + name}
	if admin {
		in.AdminInviteToken = testInvite
	}
	s, err := f.auth.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return s.User
}

func (f *fixture) createTask(t *testing.T, admin *domain.User, title string, checklist []domain.ChecklistItem, assignees ...*domain.User) *domain.Task {
	t.Helper()
	ids := make([]string, 0, len(assignees))
	for _, a := range assignees {
		ids = append(ids, a.ID)
	}
	tk, err := f.task.Create(context.Background(), admin, CreateTaskInput{
		Title:      title,
		Priority:   domain.PriorityMedium,
		DueDate:    time.Now().Add(72 * time.Hour),
		AssignedTo: ids,
		Checklist:  checklist,
	})
	if err != nil {
		t.Fatalf("create task %s: %v", title, err)
	}
	return tk
}
