package services

import (
	"context"

	"github.com/classhub/gateway/internal/backend"
	"github.com/classhub/gateway/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id int) error
}

// CourseClient defines the downstream course-service calls made when
// roles are assigned or assigned users change.
type CourseClient interface {
	CreateStudent(ctx context.Context, person backend.Person) (int, error)
	CreateProfessor(ctx context.Context, person backend.Person) (int, error)
	StudentIDForUser(ctx context.Context, userID int) (int, error)
	ProfessorIDForUser(ctx context.Context, userID int) (int, error)
	EnrollStudent(ctx context.Context, studentID, classID int) error
	AssignProfessor(ctx context.Context, professorID, classID int) error
	UpdateStudent(ctx context.Context, userID int, person backend.Person) error
	UpdateProfessor(ctx context.Context, userID int, person backend.Person) error
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo    UserRepository
	courses CourseClient
}

func NewUserService(repo UserRepository, courses CourseClient) *UserService {
	return &UserService{repo: repo, courses: courses}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

func (s *UserService) Update(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Update(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// AssignRole moves a user into a course-class role. A user still holding
// the default role gets the new role persisted and a fresh downstream
// record created before the course-class association; a user already
// assigned keeps their stored role and only gains the association. Every
// downstream call is awaited so failures surface to the caller.
func (s *UserService) AssignRole(ctx context.Context, id int, role string, classID int) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}

	if user.Role == types.RoleUser {
		user.Role = role
		user, err = s.repo.Update(ctx, user)
		if err != nil {
			return types.User{}, err
		}

		person := backend.Person{
			UserID:   user.ID,
			Name:     user.Name,
			LastName: user.LastName,
			Email:    user.Email,
		}
		switch role {
		case types.RoleStudent:
			studentID, err := s.courses.CreateStudent(ctx, person)
			if err != nil {
				return types.User{}, err
			}
			if err := s.courses.EnrollStudent(ctx, studentID, classID); err != nil {
				return types.User{}, err
			}
		case types.RoleProfessor:
			professorID, err := s.courses.CreateProfessor(ctx, person)
			if err != nil {
				return types.User{}, err
			}
			if err := s.courses.AssignProfessor(ctx, professorID, classID); err != nil {
				return types.User{}, err
			}
		}
		return user, nil
	}

	// Already assigned: no role mutation, only the course-class
	// association for the existing downstream record.
	switch role {
	case types.RoleStudent:
		studentID, err := s.courses.StudentIDForUser(ctx, id)
		if err != nil {
			return types.User{}, err
		}
		if err := s.courses.EnrollStudent(ctx, studentID, classID); err != nil {
			return types.User{}, err
		}
	case types.RoleProfessor:
		professorID, err := s.courses.ProfessorIDForUser(ctx, id)
		if err != nil {
			return types.User{}, err
		}
		if err := s.courses.AssignProfessor(ctx, professorID, classID); err != nil {
			return types.User{}, err
		}
	}
	return user, nil
}

// SyncAssigned pushes updated identity fields downstream for users whose
// role has a course-service counterpart. A no-op for other roles.
func (s *UserService) SyncAssigned(ctx context.Context, user types.User) error {
	person := backend.Person{
		Name:     user.Name,
		LastName: user.LastName,
		Email:    user.Email,
	}
	switch user.Role {
	case types.RoleStudent:
		return s.courses.UpdateStudent(ctx, user.ID, person)
	case types.RoleProfessor:
		return s.courses.UpdateProfessor(ctx, user.ID, person)
	}
	return nil
}
