package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	interviewstore "github.com/dalemusser/interviewhub/internal/app/store/interviews"
	submissionstore "github.com/dalemusser/interviewhub/internal/app/store/submissions"
	topicstore "github.com/dalemusser/interviewhub/internal/app/store/topics"
	userstore "github.com/dalemusser/interviewhub/internal/app/store/users"
	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mem is an in-memory stand-in for the Mongo stores, used by feature tests
// that exercise service logic without a database. Each view (Interviews,
// Submissions, Topics, Users) mirrors the method set of the real store.
//
// Fail injects an error for an operation named "<collection>.<Method>",
// e.g. "submissions.DeleteByInterview".
type Mem struct {
	mu          sync.Mutex
	interviews  map[primitive.ObjectID]models.Interview
	submissions map[primitive.ObjectID]models.Submission
	topics      []models.Topic
	users       map[primitive.ObjectID]models.User
	clock       time.Time

	Fail map[string]error
}

// NewMem returns an empty in-memory database.
func NewMem() *Mem {
	return &Mem{
		interviews:  map[primitive.ObjectID]models.Interview{},
		submissions: map[primitive.ObjectID]models.Submission{},
		users:       map[primitive.ObjectID]models.User{},
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Fail:        map[string]error{},
	}
}

// tick advances the fake clock so that creation order is also time order.
func (m *Mem) tick() time.Time {
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

func (m *Mem) fail(op string) error {
	return m.Fail[op]
}

// AddUser stores a user and returns it.
func (m *Mem) AddUser(name, role string) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := models.User{ID: primitive.NewObjectID(), Name: name, Role: role}
	m.users[u.ID] = u
	return u
}

// AddAdmin stores a user with the admin role.
func (m *Mem) AddAdmin(name string) models.User {
	return m.AddUser(name, models.RoleAdmin)
}

// InterviewCount returns the number of stored interviews.
func (m *Mem) InterviewCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.interviews)
}

// SubmissionCount returns the number of stored submissions.
func (m *Mem) SubmissionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.submissions)
}

// TopicCount returns the number of stored topics.
func (m *Mem) TopicCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.topics)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Cloning                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func cloneInterview(iv models.Interview) models.Interview {
	iv.Questions = append([]string{}, iv.Questions...)
	iv.AttemptedBy = append([]primitive.ObjectID{}, iv.AttemptedBy...)
	return iv
}

func cloneSubmission(s models.Submission) models.Submission {
	s.Questions = append([]string{}, s.Questions...)
	s.VideoAnswers = append([]models.VideoAnswer{}, s.VideoAnswers...)
	if s.ReviewedBy != nil {
		id := *s.ReviewedBy
		s.ReviewedBy = &id
	}
	return s
}

func cloneTopic(t models.Topic) models.Topic {
	t.SubTopics = append([]models.SubTopic{}, t.SubTopics...)
	return t
}

/*─────────────────────────────────────────────────────────────────────────────*
| Unit of work                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

type memSnapshot struct {
	interviews  map[primitive.ObjectID]models.Interview
	submissions map[primitive.ObjectID]models.Submission
	topics      []models.Topic
}

func (m *Mem) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := memSnapshot{
		interviews:  make(map[primitive.ObjectID]models.Interview, len(m.interviews)),
		submissions: make(map[primitive.ObjectID]models.Submission, len(m.submissions)),
	}
	for k, v := range m.interviews {
		s.interviews[k] = cloneInterview(v)
	}
	for k, v := range m.submissions {
		s.submissions[k] = cloneSubmission(v)
	}
	for _, t := range m.topics {
		s.topics = append(s.topics, cloneTopic(t))
	}
	return s
}

func (m *Mem) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interviews = s.interviews
	m.submissions = s.submissions
	m.topics = s.topics
}

// MemUnitOfWork runs fn against Mem and restores the prior state when fn
// fails, giving the same all-or-nothing outcome as a committed transaction.
type MemUnitOfWork struct {
	M *Mem

	// Calls counts Do invocations.
	Calls int
}

func (u *MemUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	u.Calls++
	snap := u.M.snapshot()
	if err := fn(ctx); err != nil {
		u.M.restore(snap)
		return err
	}
	return nil
}

// UnitOfWork returns a MemUnitOfWork bound to m.
func (m *Mem) UnitOfWork() *MemUnitOfWork {
	return &MemUnitOfWork{M: m}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Interviews                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// MemInterviews mirrors interviewstore.Store.
type MemInterviews struct{ m *Mem }

func (m *Mem) Interviews() *MemInterviews { return &MemInterviews{m: m} }

func (s *MemInterviews) Create(ctx context.Context, iv models.Interview) (models.Interview, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("interviews.Create"); err != nil {
		return models.Interview{}, err
	}
	now := s.m.tick()
	iv.ID = primitive.NewObjectID()
	if iv.Questions == nil {
		iv.Questions = []string{}
	}
	iv.AttemptedBy = []primitive.ObjectID{}
	iv.CreatedAt, iv.UpdatedAt = now, now
	s.m.interviews[iv.ID] = cloneInterview(iv)
	return iv, nil
}

func (s *MemInterviews) List(ctx context.Context) ([]models.Interview, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("interviews.List"); err != nil {
		return nil, err
	}
	out := []models.Interview{}
	for _, iv := range s.m.interviews {
		out = append(out, cloneInterview(iv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemInterviews) GetByID(ctx context.Context, id primitive.ObjectID) (models.Interview, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("interviews.GetByID"); err != nil {
		return models.Interview{}, err
	}
	iv, ok := s.m.interviews[id]
	if !ok {
		return models.Interview{}, apperr.NotFound(interviewstore.MsgNotFound)
	}
	return cloneInterview(iv), nil
}

func (s *MemInterviews) Update(ctx context.Context, id primitive.ObjectID, u interviewstore.Update) (models.Interview, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("interviews.Update"); err != nil {
		return models.Interview{}, err
	}
	iv, ok := s.m.interviews[id]
	if !ok {
		return models.Interview{}, apperr.NotFound(interviewstore.MsgNotFound)
	}
	if u.Title != nil {
		iv.Title = *u.Title
	}
	if u.Description != nil {
		iv.Description = *u.Description
	}
	if u.Questions != nil {
		iv.Questions = append([]string{}, (*u.Questions)...)
	}
	iv.UpdatedAt = s.m.tick()
	s.m.interviews[id] = iv
	return cloneInterview(iv), nil
}

func (s *MemInterviews) Delete(ctx context.Context, id primitive.ObjectID) (models.Interview, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("interviews.Delete"); err != nil {
		return models.Interview{}, err
	}
	iv, ok := s.m.interviews[id]
	if !ok {
		return models.Interview{}, apperr.NotFound(interviewstore.MsgNotFound)
	}
	delete(s.m.interviews, id)
	return iv, nil
}

func (s *MemInterviews) AddAttempt(ctx context.Context, interviewID, candidateID primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("interviews.AddAttempt"); err != nil {
		return err
	}
	iv, ok := s.m.interviews[interviewID]
	if !ok {
		return apperr.NotFound(interviewstore.MsgNotFound)
	}
	if !iv.HasAttempted(candidateID) {
		iv.AttemptedBy = append(iv.AttemptedBy, candidateID)
	}
	iv.UpdatedAt = s.m.tick()
	s.m.interviews[interviewID] = iv
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Submissions                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// MemSubmissions mirrors submissionstore.Store.
type MemSubmissions struct{ m *Mem }

func (m *Mem) Submissions() *MemSubmissions { return &MemSubmissions{m: m} }

func (s *MemSubmissions) Create(ctx context.Context, sub models.Submission) (models.Submission, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("submissions.Create"); err != nil {
		return models.Submission{}, err
	}
	now := s.m.tick()
	sub.ID = primitive.NewObjectID()
	if sub.Questions == nil {
		sub.Questions = []string{}
	}
	if sub.VideoAnswers == nil {
		sub.VideoAnswers = []models.VideoAnswer{}
	}
	if sub.Review == "" {
		sub.Review = models.ReviewPending
	}
	sub.CreatedAt, sub.UpdatedAt = now, now
	s.m.submissions[sub.ID] = cloneSubmission(sub)
	return sub, nil
}

func (s *MemSubmissions) List(ctx context.Context) ([]models.Submission, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("submissions.List"); err != nil {
		return nil, err
	}
	out := []models.Submission{}
	for _, sub := range s.m.submissions {
		out = append(out, cloneSubmission(sub))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemSubmissions) GetByID(ctx context.Context, id primitive.ObjectID) (models.Submission, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	sub, ok := s.m.submissions[id]
	if !ok {
		return models.Submission{}, apperr.NotFound(submissionstore.MsgNotFound)
	}
	return cloneSubmission(sub), nil
}

func (s *MemSubmissions) Update(ctx context.Context, id primitive.ObjectID, u submissionstore.Update) (models.Submission, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("submissions.Update"); err != nil {
		return models.Submission{}, err
	}
	sub, ok := s.m.submissions[id]
	if !ok {
		return models.Submission{}, apperr.NotFound(submissionstore.MsgNotFound)
	}
	if u.Score != nil {
		sub.Score = *u.Score
	}
	if u.Comments != nil {
		sub.Comments = *u.Comments
	}
	switch {
	case u.ClearReviewer:
		sub.ReviewedBy = nil
	case u.ReviewedBy != nil:
		id := *u.ReviewedBy
		sub.ReviewedBy = &id
	}
	if u.Review != nil {
		sub.Review = *u.Review
	}
	sub.UpdatedAt = s.m.tick()
	s.m.submissions[id] = sub
	return cloneSubmission(sub), nil
}

func (s *MemSubmissions) DeleteByInterview(ctx context.Context, interviewID primitive.ObjectID) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("submissions.DeleteByInterview"); err != nil {
		return 0, err
	}
	var n int64
	for id, sub := range s.m.submissions {
		if sub.InterviewID == interviewID {
			delete(s.m.submissions, id)
			n++
		}
	}
	return n, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Topics                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// MemTopics mirrors topicstore.Store. Topics keep insertion order.
type MemTopics struct{ m *Mem }

func (m *Mem) Topics() *MemTopics { return &MemTopics{m: m} }

func (s *MemTopics) index(id primitive.ObjectID) int {
	for i, t := range s.m.topics {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *MemTopics) Create(ctx context.Context, t models.Topic) (models.Topic, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("topics.Create"); err != nil {
		return models.Topic{}, err
	}
	now := s.m.tick()
	t.ID = primitive.NewObjectID()
	if t.SubTopics == nil {
		t.SubTopics = []models.SubTopic{}
	}
	t.CreatedAt, t.UpdatedAt = now, now
	s.m.topics = append(s.m.topics, cloneTopic(t))
	return t, nil
}

func (s *MemTopics) List(ctx context.Context) ([]models.Topic, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("topics.List"); err != nil {
		return nil, err
	}
	out := []models.Topic{}
	for _, t := range s.m.topics {
		out = append(out, cloneTopic(t))
	}
	return out, nil
}

func (s *MemTopics) GetByID(ctx context.Context, id primitive.ObjectID) (models.Topic, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return models.Topic{}, apperr.NotFound(topicstore.MsgNotFound)
	}
	return cloneTopic(s.m.topics[i]), nil
}

func (s *MemTopics) FindByOwner(ctx context.Context, topic, userID string) (models.Topic, bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("topics.FindByOwner"); err != nil {
		return models.Topic{}, false, err
	}
	for _, t := range s.m.topics {
		if t.Topic == topic && t.UserID == userID {
			return cloneTopic(t), true, nil
		}
	}
	return models.Topic{}, false, nil
}

func (s *MemTopics) AppendSubTopics(ctx context.Context, id primitive.ObjectID, subs []models.SubTopic, overAll *string) (models.Topic, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("topics.AppendSubTopics"); err != nil {
		return models.Topic{}, err
	}
	i := s.index(id)
	if i < 0 {
		return models.Topic{}, apperr.NotFound(topicstore.MsgNotFound)
	}
	t := s.m.topics[i]
	t.SubTopics = append(append([]models.SubTopic{}, t.SubTopics...), subs...)
	if overAll != nil {
		t.OverAllStatus = *overAll
	}
	t.UpdatedAt = s.m.tick()
	s.m.topics[i] = t
	return cloneTopic(t), nil
}

func (s *MemTopics) SetSubTopicStatus(ctx context.Context, id primitive.ObjectID, idx int, name, status string) (models.Topic, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("topics.SetSubTopicStatus"); err != nil {
		return models.Topic{}, err
	}
	i := s.index(id)
	if i < 0 {
		return models.Topic{}, apperr.NotFound(topicstore.MsgNotFound)
	}
	t := cloneTopic(s.m.topics[i])
	if idx < 0 || idx >= len(t.SubTopics) || t.SubTopics[idx].Name != name {
		return models.Topic{}, topicstore.ErrSubTopicMoved
	}
	t.SubTopics[idx].Status = status
	t.OverAllStatus = models.OverallStatus(t.SubTopics)
	t.UpdatedAt = s.m.tick()
	s.m.topics[i] = t
	return cloneTopic(t), nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Users                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// MemUsers mirrors userstore.Store.
type MemUsers struct{ m *Mem }

func (m *Mem) Users() *MemUsers { return &MemUsers{m: m} }

func (s *MemUsers) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("users.GetByID"); err != nil {
		return models.User{}, err
	}
	u, ok := s.m.users[id]
	if !ok {
		return models.User{}, apperr.NotFound(userstore.MsgNotFound)
	}
	return u, nil
}

func (s *MemUsers) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("users.Exists"); err != nil {
		return false, err
	}
	_, ok := s.m.users[id]
	return ok, nil
}

func (s *MemUsers) Creators(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Creator, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make(map[primitive.ObjectID]models.Creator, len(ids))
	for _, id := range ids {
		if u, ok := s.m.users[id]; ok {
			out[id] = models.Creator{ID: u.ID, Name: u.Name, Role: u.Role}
		}
	}
	return out, nil
}
