package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM.
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags).
type DBUser struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;size:255"`
	Username     string `gorm:"uniqueIndex;size:32"`
	FullName     string `gorm:"size:128"`
	PasswordHash string `gorm:"column:password"`
	Tier         string `gorm:"index;size:32"`
	Role         string `gorm:"index;size:32"`
	CoinBalance  int64
	Level        int
	Points       int64

	IsActive bool `gorm:"index"`
	IsBanned bool `gorm:"index"`

	FailedLoginAttempts int
	LockedUntil         *time.Time

	LastLoginAt *time.Time
	LoginCount  int64

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository. A unique-index violation surfaces
// as a DuplicateIdentityError naming the colliding field.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &domain.DuplicateIdentityError{Field: r.collidingField(ctx, user)}
		}
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// collidingField determines which unique identity field caused a duplicate
// key error. Email is checked first, matching registration's check order.
func (r *UserRepositoryImpl) collidingField(ctx context.Context, user *domain.User) string {
	var count int64
	r.db.WithContext(ctx).Model(&DBUser{}).Where("email = ?", user.Email).Count(&count)
	if count > 0 {
		return "email"
	}
	return "username"
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByUsername implements domain.UserRepository
func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	return r.db.WithContext(ctx).Save(dbUser).Error
}

func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:                  user.ID,
		Email:               user.Email,
		Username:            user.Username,
		FullName:            user.FullName,
		PasswordHash:        user.PasswordHash,
		Tier:                string(user.Tier),
		Role:                string(user.Role),
		CoinBalance:         user.CoinBalance,
		Level:               user.Level,
		Points:              user.Points,
		IsActive:            user.IsActive,
		IsBanned:            user.IsBanned,
		FailedLoginAttempts: user.FailedLoginAttempts,
		LockedUntil:         user.LockedUntil,
		LastLoginAt:         user.LastLoginAt,
		LoginCount:          user.LoginCount,
		CreatedAt:           user.CreatedAt,
	}
}

func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:                  dbUser.ID,
		Email:               dbUser.Email,
		Username:            dbUser.Username,
		FullName:            dbUser.FullName,
		PasswordHash:        dbUser.PasswordHash,
		Tier:                domain.Tier(dbUser.Tier),
		Role:                domain.Role(dbUser.Role),
		CoinBalance:         dbUser.CoinBalance,
		Level:               dbUser.Level,
		Points:              dbUser.Points,
		IsActive:            dbUser.IsActive,
		IsBanned:            dbUser.IsBanned,
		FailedLoginAttempts: dbUser.FailedLoginAttempts,
		LockedUntil:         dbUser.LockedUntil,
		LastLoginAt:         dbUser.LastLoginAt,
		LoginCount:          dbUser.LoginCount,
		CreatedAt:           dbUser.CreatedAt,
		UpdatedAt:           dbUser.UpdatedAt,
	}
}
