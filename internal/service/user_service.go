package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

var (
	ErrEmailTaken       = errors.New("email already taken")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidImageType = errors.New("invalid image type, only JPEG, PNG or WebP allowed")
	ErrImageTooLarge    = errors.New("image too large, max size is 2MB")
)

const (
	MaxImageSize        = 2 << 20
	profilePictureDir   = "users"
	recentReviewsOnPage = 5
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type UserService struct {
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
	statusRepo repository.ReadingStatusRepository
	profiles   *ProfileCache
	objects    ObjectStore
	mailer     WelcomeMailer
	log        *zap.Logger
	now        func() time.Time
}

func NewUserService(
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	statusRepo repository.ReadingStatusRepository,
	profiles *ProfileCache,
	objects ObjectStore,
	log *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		statusRepo: statusRepo,
		profiles:   profiles,
		objects:    objects,
		log:        log,
		now:        time.Now,
	}
}

// SetMailer enables the welcome mail (optional dependency).
func (s *UserService) SetMailer(m WelcomeMailer) {
	s.mailer = m
}

type CreateUserInput struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

type UpdateUserInput struct {
	Name           *string `json:"name,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

type ImageUpload struct {
	ContentType string
	Data        []byte
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:             uuid.New(),
		Email:          input.Email,
		Name:           input.Name,
		PasswordHash:   hash,
		ProfilePicture: input.ProfilePicture,
		Role:           domain.RoleUser,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.EnqueueWelcome(ctx, user.Email, user.Name); err != nil {
			s.log.Warn("welcome mail not queued", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}

	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	read, err := s.statusRepo.CountByStatus(ctx, id, domain.StatusRead)
	if err != nil {
		return nil, fmt.Errorf("counting read books: %w", err)
	}

	return &domain.UserProfile{UserSummary: user.Summary(), ReadCount: read}, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var replacedKey *string
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.ProfilePicture != nil {
		replacedKey = user.PictureKey
		user.ProfilePicture = input.ProfilePicture
		user.PictureKey = nil
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.deletePicture(ctx, user.ID, replacedKey)
	return user, nil
}

// UpdateProfilePicture stores img and points the user at it. The previous
// upload is removed only after the user row references the new one.
func (s *UserService) UpdateProfilePicture(ctx context.Context, id uuid.UUID, img ImageUpload) (*domain.User, error) {
	ext, ok := imageExtensions[img.ContentType]
	if !ok {
		return nil, ErrInvalidImageType
	}
	if len(img.Data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key, url, err := s.objects.Upload(ctx, profilePictureDir, ext, img.ContentType, img.Data)
	if err != nil {
		return nil, fmt.Errorf("uploading profile picture: %w", err)
	}

	previousKey := user.PictureKey
	user.ProfilePicture = &url
	user.PictureKey = &key
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.deletePicture(ctx, user.ID, &key)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.deletePicture(ctx, user.ID, previousKey)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}

	s.deletePicture(ctx, user.ID, user.PictureKey)
	return nil
}

func (s *UserService) Search(ctx context.Context, term string, q pagination.Query) (pagination.Page[domain.UserSummary], error) {
	users, err := s.userRepo.Search(ctx, term, q)
	if err != nil {
		return pagination.Page[domain.UserSummary]{}, err
	}
	return pagination.Window(users, q, func(u domain.UserSummary) string { return u.ID.String() }), nil
}

// FullProfile assembles a profile page. viewerID is nil for anonymous callers,
// in which case IsFollowing is left unset.
func (s *UserService) FullProfile(ctx context.Context, targetID uuid.UUID, viewerID *uuid.UUID) (*domain.FullUserProfile, error) {
	user, err := s.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	profile := &domain.FullUserProfile{UserSummary: user.Summary()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.profiles.Counts(gctx, targetID)
		profile.ProfileCounts = counts
		return err
	})
	if viewerID != nil {
		g.Go(func() error {
			following, err := s.profiles.IsFollowing(gctx, *viewerID, targetID)
			profile.IsFollowing = &following
			return err
		})
	}
	g.Go(func() error {
		recent, err := s.reviewRepo.Recent(gctx, targetID, recentReviewsOnPage)
		profile.RecentReviews = recent
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading full profile: %w", err)
	}

	if profile.RecentReviews == nil {
		profile.RecentReviews = []domain.RecentReview{}
	}
	return profile, nil
}

// deletePicture removes an uploaded object. It is best effort and a nil key
// is a no-op.
func (s *UserService) deletePicture(ctx context.Context, userID uuid.UUID, key *string) {
	if key == nil {
		return
	}
	if err := s.objects.Delete(ctx, *key); err != nil {
		s.log.Warn("failed to delete profile picture",
			zap.String("user_id", userID.String()), zap.String("key", *key), zap.Error(err))
	}
}
