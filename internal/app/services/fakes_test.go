package services

import (
	"context"
	"sort"
	"time"

	"github.com/demir/enrollpass/internal/app/models"
	"github.com/demir/enrollpass/internal/pkg/apperrors"
	"github.com/demir/enrollpass/internal/pkg/credential"
)

// In-memory store implementations for service tests. They mirror the
// repository contracts, including the capacity and uniqueness guarantees
// Admit enforces and the conditional update Redeem performs.

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeCourseStore struct {
	courses     map[int64]*models.Course
	enrollments *fakeEnrollmentStore
	nextID      int64
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[int64]*models.Course), nextID: 1}
}

func (s *fakeCourseStore) Create(_ context.Context, course *models.Course) error {
	course.ID = s.nextID
	s.nextID++
	course.CreatedAt = time.Now()
	s.courses[course.ID] = course
	return nil
}

func (s *fakeCourseStore) GetByID(_ context.Context, id int64) (*models.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

func (s *fakeCourseStore) List(_ context.Context) ([]*models.Course, error) {
	courses := make([]*models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].StartTime.Equal(courses[j].StartTime) {
			return courses[i].ID < courses[j].ID
		}
		return courses[i].StartTime.Before(courses[j].StartTime)
	})
	return courses, nil
}

func (s *fakeCourseStore) ListByStudent(ctx context.Context, studentID int64) ([]*models.Course, error) {
	if s.enrollments == nil {
		return nil, nil
	}
	var courses []*models.Course
	for _, e := range s.enrollments.sorted() {
		if e.StudentID == studentID {
			if c, ok := s.courses[e.CourseID]; ok {
				courses = append(courses, c)
			}
		}
	}
	return courses, nil
}

func (s *fakeCourseStore) Update(_ context.Context, course *models.Course) error {
	if _, ok := s.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	s.courses[course.ID] = course
	return nil
}

func (s *fakeCourseStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(s.courses, id)
	if s.enrollments != nil {
		for eid, e := range s.enrollments.enrollments {
			if e.CourseID == id {
				delete(s.enrollments.enrollments, eid)
			}
		}
	}
	return nil
}

type fakeEnrollmentStore struct {
	enrollments map[int64]*models.Enrollment
	users       *fakeUserStore
	courses     *fakeCourseStore
	nextID      int64
}

func newFakeEnrollmentStore(users *fakeUserStore, courses *fakeCourseStore) *fakeEnrollmentStore {
	s := &fakeEnrollmentStore{
		enrollments: make(map[int64]*models.Enrollment),
		users:       users,
		courses:     courses,
		nextID:      1,
	}
	if courses != nil {
		courses.enrollments = s
	}
	return s
}

// sorted returns enrollments in enrolled-at order, matching the
// repository's ORDER BY.
func (s *fakeEnrollmentStore) sorted() []*models.Enrollment {
	enrollments := make([]*models.Enrollment, 0, len(s.enrollments))
	for _, e := range s.enrollments {
		enrollments = append(enrollments, e)
	}
	sort.Slice(enrollments, func(i, j int) bool {
		if enrollments[i].EnrolledAt.Equal(enrollments[j].EnrolledAt) {
			return enrollments[i].ID < enrollments[j].ID
		}
		return enrollments[i].EnrolledAt.Before(enrollments[j].EnrolledAt)
	})
	return enrollments
}

// resolve attaches the student and course relations the repository's
// joined select would populate.
func (s *fakeEnrollmentStore) resolve(e *models.Enrollment) *models.Enrollment {
	if s.users != nil {
		if u, ok := s.users.users[e.StudentID]; ok {
			e.Student = u
		}
	}
	if s.courses != nil {
		if c, ok := s.courses.courses[e.CourseID]; ok {
			e.Course = c
		}
	}
	return e
}

func (s *fakeEnrollmentStore) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	e, ok := s.enrollments[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return s.resolve(e), nil
}

func (s *fakeEnrollmentStore) GetByToken(_ context.Context, token string) (*models.Enrollment, error) {
	for _, e := range s.enrollments {
		if e.CredentialToken == token {
			return s.resolve(e), nil
		}
	}
	return nil, apperrors.ErrEnrollmentNotFound
}

func (s *fakeEnrollmentStore) FindByStudentAndCourse(_ context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	for _, e := range s.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return s.resolve(e), nil
		}
	}
	return nil, apperrors.ErrEnrollmentNotFound
}

func (s *fakeEnrollmentStore) ListByStudent(_ context.Context, studentID int64) ([]*models.Enrollment, error) {
	var result []*models.Enrollment
	for _, e := range s.sorted() {
		if e.StudentID == studentID {
			result = append(result, s.resolve(e))
		}
	}
	return result, nil
}

func (s *fakeEnrollmentStore) ListByCourse(_ context.Context, courseID int64) ([]*models.Enrollment, error) {
	var result []*models.Enrollment
	for _, e := range s.sorted() {
		if e.CourseID == courseID {
			result = append(result, s.resolve(e))
		}
	}
	return result, nil
}

func (s *fakeEnrollmentStore) ListAll(_ context.Context) ([]*models.Enrollment, error) {
	var result []*models.Enrollment
	for _, e := range s.sorted() {
		result = append(result, s.resolve(e))
	}
	return result, nil
}

func (s *fakeEnrollmentStore) CountByCourse(_ context.Context, courseID int64) (int, error) {
	count := 0
	for _, e := range s.enrollments {
		if e.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (s *fakeEnrollmentStore) GetCountsByCourseIDs(_ context.Context, courseIDs []int64) (map[int64]int, map[int64]int, error) {
	enrolled := make(map[int64]int)
	checkedIn := make(map[int64]int)
	wanted := make(map[int64]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	for _, e := range s.enrollments {
		if !wanted[e.CourseID] {
			continue
		}
		enrolled[e.CourseID]++
		if e.CheckedIn {
			checkedIn[e.CourseID]++
		}
	}
	return enrolled, checkedIn, nil
}

func (s *fakeEnrollmentStore) Admit(ctx context.Context, studentID, courseID int64, tokenFn func(enrollmentID int64) (string, error)) (*models.Enrollment, error) {
	course, ok := s.courses.courses[courseID]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}

	for _, e := range s.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return nil, apperrors.ErrAlreadyEnrolled
		}
	}

	count, _ := s.CountByCourse(ctx, courseID)
	if count >= course.Capacity {
		return nil, apperrors.ErrCourseFull
	}

	id := s.nextID
	token, err := tokenFn(id)
	if err != nil {
		return nil, err
	}
	s.nextID++

	enrollment := &models.Enrollment{
		ID:              id,
		StudentID:       studentID,
		CourseID:        courseID,
		EnrolledAt:      time.Now(),
		CredentialToken: token,
	}
	s.enrollments[id] = enrollment
	return s.resolve(enrollment), nil
}

func (s *fakeEnrollmentStore) Redeem(ctx context.Context, token string) (*models.Enrollment, bool, error) {
	enrollment, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, false, err
	}
	if enrollment.CheckedIn {
		return enrollment, true, nil
	}
	now := time.Now()
	enrollment.CheckedIn = true
	enrollment.CheckedInAt = &now
	return enrollment, false, nil
}

func (s *fakeEnrollmentStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.enrollments[id]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	delete(s.enrollments, id)
	return nil
}

// testEnv bundles the fakes most service tests need.
type testEnv struct {
	users       *fakeUserStore
	courses     *fakeCourseStore
	enrollments *fakeEnrollmentStore
}

func newTestEnv() *testEnv {
	users := newFakeUserStore()
	courses := newFakeCourseStore()
	enrollments := newFakeEnrollmentStore(users, courses)
	return &testEnv{users: users, courses: courses, enrollments: enrollments}
}

func (env *testEnv) addUser(name, email string, role models.RoleType) *models.User {
	user := &models.User{Email: email, Name: name, RoleType: role, Password: "hashed"}
	_ = env.users.Create(context.Background(), user)
	return user
}

func (env *testEnv) addCourse(title string, start, end time.Time, capacity int) *models.Course {
	course := &models.Course{
		Title:        title,
		InstructorID: 1,
		StartTime:    start,
		EndTime:      end,
		Capacity:     capacity,
	}
	_ = env.courses.Create(context.Background(), course)
	return course
}

func (env *testEnv) addEnrollment(studentID, courseID int64) *models.Enrollment {
	enrollment, err := env.enrollments.Admit(context.Background(), studentID, courseID,
		func(enrollmentID int64) (string, error) {
			return credential.GenerateToken(enrollmentID, courseID, studentID)
		})
	if err != nil {
		panic(err)
	}
	return enrollment
}

func principalFor(u *models.User) Principal {
	return Principal{ID: u.ID, Email: u.Email, Role: u.RoleType}
}
