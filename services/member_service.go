package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegisterInput is what the registration form or LINE follow event provides
type RegisterInput struct {
	LineUserID  string
	DisplayName string
	PictureURL  string
	RealName    string
	Phone       string
	Address     string
}

// UpdateMemberInput is a partial admin edit of a member
type UpdateMemberInput struct {
	DisplayName *string
	RealName    *string
	Phone       *string
	Address     *string
	Specialty   *string
	IsActive    *bool
}

// ListMembersInput filters the admin member list
type ListMembersInput struct {
	Page   int
	Limit  int
	Search string
	Role   string
}

// MemberService manages customers and tailors
type MemberService struct {
	users store.UserStore
	now   func() time.Time
}

func NewMemberService(users store.UserStore) *MemberService {
	return &MemberService{
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the member on first contact and refreshes the profile
// afterwards. An existing role is never changed here.
func (s *MemberService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	lineUserID := strings.TrimSpace(in.LineUserID)
	if lineUserID == "" {
		return nil, ErrLineUserIDRequired
	}

	user, err := s.users.Upsert(ctx, &models.User{
		LineUserID:  lineUserID,
		DisplayName: strings.TrimSpace(in.DisplayName),
		PictureURL:  strings.TrimSpace(in.PictureURL),
		RealName:    strings.TrimSpace(in.RealName),
		Phone:       strings.TrimSpace(in.Phone),
		Address:     strings.TrimSpace(in.Address),
		Role:        models.RoleCustomer,
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("member_registered", "member_id", user.ID.Hex(), "line_user_id", user.LineUserID)
	return user, nil
}

func (s *MemberService) ListMembers(ctx context.Context, in ListMembersInput) ([]models.User, Pagination, error) {
	filter := store.UserFilter{Search: strings.TrimSpace(in.Search)}
	if in.Role != "" {
		role := models.Role(in.Role)
		if !role.Valid() {
			return nil, Pagination{}, ErrInvalidRole
		}
		filter.Role = role
	}

	page, limit := normalizePage(in.Page, in.Limit)
	filter.Skip = int64((page - 1) * limit)
	filter.Limit = int64(limit)

	users, total, err := s.users.Find(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}
	return users, Pagination{Page: page, Limit: limit, Total: total}, nil
}

// ListTailors returns active tailors for the assignment picker
func (s *MemberService) ListTailors(ctx context.Context) ([]models.User, error) {
	users, _, err := s.users.Find(ctx, store.UserFilter{Role: models.RoleTailor, ActiveOnly: true, Limit: maxPageSize})
	return users, err
}

func (s *MemberService) GetMember(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *MemberService) UpdateMember(ctx context.Context, id primitive.ObjectID, in UpdateMemberInput) (*models.User, error) {
	user, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.RealName != nil {
		user.RealName = strings.TrimSpace(*in.RealName)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		user.Address = strings.TrimSpace(*in.Address)
	}
	if in.Specialty != nil && user.IsTailor() {
		user.Specialty = strings.TrimSpace(*in.Specialty)
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	return s.save(ctx, user)
}

func (s *MemberService) DeleteMember(ctx context.Context, id primitive.ObjectID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	logger.Infow("member_deleted", "member_id", id.Hex())
	return nil
}

// Promote makes the member an active tailor
func (s *MemberService) Promote(ctx context.Context, id primitive.ObjectID, specialty string) (*models.User, error) {
	user, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PromoteToTailor(strings.TrimSpace(specialty))
	logger.Infow("member_promoted", "member_id", id.Hex())
	return s.save(ctx, user)
}

// Demote turns a tailor back into a customer. Orders already assigned keep
// their tailorId.
func (s *MemberService) Demote(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	user.DemoteToCustomer()
	logger.Infow("member_demoted", "member_id", id.Hex())
	return s.save(ctx, user)
}

func (s *MemberService) save(ctx context.Context, user *models.User) (*models.User, error) {
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return user, nil
}
