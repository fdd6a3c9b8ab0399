// internal/app/features/interviews/service.go
package interviews

import (
	"context"

	interviewstore "github.com/dalemusser/interviewhub/internal/app/store/interviews"
	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/app/system/authz"
	"github.com/dalemusser/interviewhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/interviewhub/internal/app/system/normalize"
	"github.com/dalemusser/interviewhub/internal/app/system/txn"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Client-facing messages.
const (
	MsgCreateRequired  = "createdBy and title are required"
	MsgUserIDRequired  = "userId is required"
	MsgTitleBlank      = "title cannot be empty"
	MsgCreateForbidden = "Only Admins can create interviews"
	MsgUpdateForbidden = "Only Admins can update interviews"
	MsgDeleteForbidden = "Only Admins can delete interviews"
)

// InterviewStore is the part of interviewstore.Store the service needs.
type InterviewStore interface {
	Create(ctx context.Context, iv models.Interview) (models.Interview, error)
	List(ctx context.Context) ([]models.Interview, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Interview, error)
	Update(ctx context.Context, id primitive.ObjectID, u interviewstore.Update) (models.Interview, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Interview, error)
}

// SubmissionRemover deletes the submissions that belong to an interview.
type SubmissionRemover interface {
	DeleteByInterview(ctx context.Context, interviewID primitive.ObjectID) (int64, error)
}

// CreatorLookup resolves user ids to the fields shown on an interview.
type CreatorLookup interface {
	Creators(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Creator, error)
}

// Service implements the interview operations.
type Service struct {
	Interviews  InterviewStore
	Submissions SubmissionRemover
	Users       CreatorLookup
	Authz       authz.Authorizer
	UoW         txn.UnitOfWork
	Log         *zap.Logger
}

// NewService returns a Service. Deletes run inside uow.
func NewService(ivs InterviewStore, subs SubmissionRemover, users CreatorLookup, az authz.Authorizer, uow txn.UnitOfWork, logger *zap.Logger) *Service {
	return &Service{
		Interviews:  ivs,
		Submissions: subs,
		Users:       users,
		Authz:       az,
		UoW:         uow,
		Log:         logger,
	}
}

func (s *Service) requireAdmin(ctx context.Context, userID primitive.ObjectID, msg string) error {
	d, err := s.Authz.RequireAdmin(ctx, userID)
	if err != nil {
		return err
	}
	return d.Err(msg)
}

// Create stores a new interview authored by an admin.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.Interview, error) {
	in.Title = normalize.Text(in.Title)
	in.CreatedBy = normalize.Text(in.CreatedBy)
	if err := in.Validate(); err != nil {
		return models.Interview{}, apperr.Validation(MsgCreateRequired)
	}

	creator, err := apperr.ParseID(in.CreatedBy)
	if err != nil {
		return models.Interview{}, err
	}
	if err := s.requireAdmin(ctx, creator, MsgCreateForbidden); err != nil {
		return models.Interview{}, err
	}

	return s.Interviews.Create(ctx, models.Interview{
		Title:       in.Title,
		Description: htmlsanitize.Sanitize(in.Description),
		Questions:   in.Questions,
		CreatedBy:   creator,
	})
}

// List returns every interview, newest first.
func (s *Service) List(ctx context.Context) ([]models.Interview, error) {
	return s.Interviews.List(ctx)
}

// Get returns one interview with its creator resolved. A creator that no
// longer exists is reported as null.
func (s *Service) Get(ctx context.Context, idHex string) (models.InterviewDetail, error) {
	id, err := apperr.ParseID(idHex)
	if err != nil {
		return models.InterviewDetail{}, err
	}
	iv, err := s.Interviews.GetByID(ctx, id)
	if err != nil {
		return models.InterviewDetail{}, err
	}

	detail := models.InterviewDetail{Interview: iv}
	creators, err := s.Users.Creators(ctx, []primitive.ObjectID{iv.CreatedBy})
	if err != nil {
		return models.InterviewDetail{}, err
	}
	if c, ok := creators[iv.CreatedBy]; ok {
		detail.CreatedBy = &c
	}
	return detail, nil
}

// Update applies the supplied fields on behalf of an admin.
func (s *Service) Update(ctx context.Context, idHex string, in UpdateInput) (models.Interview, []string, error) {
	in.UserID = normalize.Text(in.UserID)
	if err := in.Validate(); err != nil {
		return models.Interview{}, nil, apperr.Validation(MsgUserIDRequired)
	}

	id, err := apperr.ParseID(idHex)
	if err != nil {
		return models.Interview{}, nil, err
	}
	userID, err := apperr.ParseID(in.UserID)
	if err != nil {
		return models.Interview{}, nil, err
	}
	if err := s.requireAdmin(ctx, userID, MsgUpdateForbidden); err != nil {
		return models.Interview{}, nil, err
	}

	var u interviewstore.Update
	if in.Title != nil {
		t := normalize.Text(*in.Title)
		if t == "" {
			return models.Interview{}, nil, apperr.Validation(MsgTitleBlank)
		}
		u.Title = &t
	}
	if in.Description != nil {
		d := htmlsanitize.Sanitize(*in.Description)
		u.Description = &d
	}
	if in.Questions != nil {
		q := append([]string{}, in.Questions...)
		u.Questions = &q
	}

	iv, err := s.Interviews.Update(ctx, id, u)
	if err != nil {
		return models.Interview{}, nil, err
	}
	return iv, u.Fields(), nil
}

// DeleteResult is what Delete removed.
type DeleteResult struct {
	Interview          models.Interview
	DeletedSubmissions int64
}

// Delete removes an interview and all of its submissions in one unit of
// work. Either every document goes or none does.
func (s *Service) Delete(ctx context.Context, idHex, userIDHex string) (DeleteResult, error) {
	userIDHex = normalize.Text(userIDHex)
	if userIDHex == "" {
		return DeleteResult{}, apperr.Validation(MsgUserIDRequired)
	}

	id, err := apperr.ParseID(idHex)
	if err != nil {
		return DeleteResult{}, err
	}
	userID, err := apperr.ParseID(userIDHex)
	if err != nil {
		return DeleteResult{}, err
	}
	if err := s.requireAdmin(ctx, userID, MsgDeleteForbidden); err != nil {
		return DeleteResult{}, err
	}
	if _, err := s.Interviews.GetByID(ctx, id); err != nil {
		return DeleteResult{}, err
	}

	var res DeleteResult
	err = s.UoW.Do(ctx, func(ctx context.Context) error {
		n, err := s.Submissions.DeleteByInterview(ctx, id)
		if err != nil {
			return err
		}
		iv, err := s.Interviews.Delete(ctx, id)
		if err != nil {
			return err
		}
		res = DeleteResult{Interview: iv, DeletedSubmissions: n}
		return nil
	})
	if err != nil {
		s.Log.Warn("interview delete rolled back",
			zap.String("interview_id", id.Hex()),
			zap.Error(err))
		return DeleteResult{}, err
	}
	return res, nil
}
