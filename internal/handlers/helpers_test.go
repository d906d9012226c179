package handlers

import (
	"context"
	"sync"

	"github.com/classhub/gateway/internal/backend"
	"github.com/classhub/gateway/internal/store"
	"github.com/classhub/gateway/types"
)

// fakeUserRepo is an in-memory services.UserRepository. Setting getErr
// makes every lookup fail with it.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]types.User
	getErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]types.User{}}
}

func (f *fakeUserRepo) add(user types.User) types.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return types.User{}, f.getErr
	}
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]types.User, 0, len(f.users))
	for id := 1; id <= f.nextID; id++ {
		if user, ok := f.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	return f.add(user), nil
}

func (f *fakeUserRepo) Update(_ context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeCourses records downstream course-service calls.
type fakeCourses struct {
	mu              sync.Mutex
	calls           []string
	createdStudents []backend.Person
	enrollments     [][2]int
	assignments     [][2]int
	studentIDs      map[int]int
	professorIDs    map[int]int
	err             error
}

func newFakeCourses() *fakeCourses {
	return &fakeCourses{
		studentIDs:   map[int]int{},
		professorIDs: map[int]int{},
	}
}

func (f *fakeCourses) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeCourses) CreateStudent(_ context.Context, person backend.Person) (int, error) {
	if err := f.record("create-student"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdStudents = append(f.createdStudents, person)
	id := 100 + len(f.createdStudents)
	f.studentIDs[person.UserID] = id
	return id, nil
}

func (f *fakeCourses) CreateProfessor(_ context.Context, person backend.Person) (int, error) {
	if err := f.record("create-professor"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := 200 + len(f.professorIDs) + 1
	f.professorIDs[person.UserID] = id
	return id, nil
}

func (f *fakeCourses) StudentIDForUser(_ context.Context, userID int) (int, error) {
	if err := f.record("student-for-user"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.studentIDs[userID], nil
}

func (f *fakeCourses) ProfessorIDForUser(_ context.Context, userID int) (int, error) {
	if err := f.record("professor-for-user"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.professorIDs[userID], nil
}

func (f *fakeCourses) EnrollStudent(_ context.Context, studentID, classID int) error {
	if err := f.record("enroll-student"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrollments = append(f.enrollments, [2]int{studentID, classID})
	return nil
}

func (f *fakeCourses) AssignProfessor(_ context.Context, professorID, classID int) error {
	if err := f.record("assign-professor"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assignments = append(f.assignments, [2]int{professorID, classID})
	return nil
}

func (f *fakeCourses) UpdateStudent(_ context.Context, userID int, person backend.Person) error {
	return f.record("update-student")
}

func (f *fakeCourses) UpdateProfessor(_ context.Context, userID int, person backend.Person) error {
	return f.record("update-professor")
}

func (f *fakeCourses) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
