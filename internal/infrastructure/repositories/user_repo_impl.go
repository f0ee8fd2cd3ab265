package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"blockbustre.backend/internal/domain/entities"
	domainerrors "blockbustre.backend/internal/domain/errors"
	"blockbustre.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:                    user.ID,
		Email:                 user.Email,
		PasswordHash:          user.PasswordHash,
		FirstName:             user.FirstName,
		LastName:              user.LastName,
		PhoneNumber:           user.PhoneNumber,
		DateOfBirth:           user.DateOfBirth.Ptr(),
		Country:               user.Country,
		Language:              user.Language,
		WalletAddress:         user.WalletAddress,
		WalletType:            string(user.WalletType),
		IsKYCVerified:         user.IsKYCVerified,
		KYCVerifiedAt:         user.KYCVerifiedAt.Ptr(),
		SubscriptionType:      string(user.SubscriptionType),
		SubscriptionActive:    user.SubscriptionActive,
		SubscriptionStartDate: user.SubscriptionStartDate.Ptr(),
		SubscriptionEndDate:   user.SubscriptionEndDate.Ptr(),
		IsActive:              user.IsActive,
		IsVerified:            user.IsVerified,
		IsStaff:               user.IsStaff,
		EmailNotifications:    user.EmailNotifications,
		SMSNotifications:      user.SMSNotifications,
		CreatedAt:             user.CreatedAt,
		UpdatedAt:             user.UpdatedAt,
	}
	if user.RoleID.Valid {
		roleID := user.RoleID.UUID
		m.RoleID = &roleID
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	return nil
}

// GetByID gets a user by ID, with the role and its permissions loaded
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Role").Preload("Role.Permissions").
		Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Role").Preload("Role.Permissions").
		Where("email = ?", email).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// Update updates the mutable fields of a user
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"first_name":              user.FirstName,
		"last_name":               user.LastName,
		"phone_number":            user.PhoneNumber,
		"country":                 user.Country,
		"language":                user.Language,
		"wallet_address":          user.WalletAddress,
		"wallet_type":             string(user.WalletType),
		"is_kyc_verified":         user.IsKYCVerified,
		"subscription_type":       string(user.SubscriptionType),
		"subscription_active":     user.SubscriptionActive,
		"subscription_start_date": user.SubscriptionStartDate.Ptr(),
		"subscription_end_date":   user.SubscriptionEndDate.Ptr(),
		"date_of_birth":           user.DateOfBirth.Ptr(),
		"kyc_verified_at":         user.KYCVerifiedAt.Ptr(),
		"role_id":                 nullUUIDPtr(user.RoleID),
		"is_active":               user.IsActive,
		"is_staff":                user.IsStaff,
		"email_notifications":     user.EmailNotifications,
		"sms_notifications":       user.SMSNotifications,
		"updated_at":              time.Now(),
	}

	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkVerified flags the user's email address as verified
func (r *UserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_verified": true,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetSubscriptionState toggles the denormalized subscription flag
func (r *UserRepository) SetSubscriptionState(ctx context.Context, id uuid.UUID, active bool) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"subscription_active": active,
		"updated_at":          time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists users with optional search filter
func (r *UserRepository) List(ctx context.Context, search string) ([]*entities.User, error) {
	var userModels []models.User
	query := GetDB(ctx, r.db).WithContext(ctx).Order("created_at DESC")

	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm, searchTerm)
	}

	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}

	var users []*entities.User
	for _, m := range userModels {
		model := m
		users = append(users, userToEntity(&model))
	}
	return users, nil
}

// SoftDelete soft deletes a user
func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func nullUUIDPtr(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	return &id.UUID
}

func userToEntity(m *models.User) *entities.User {
	u := &entities.User{
		ID:                    m.ID,
		Email:                 m.Email,
		PasswordHash:          m.PasswordHash,
		FirstName:             m.FirstName,
		LastName:              m.LastName,
		PhoneNumber:           m.PhoneNumber,
		DateOfBirth:           null.TimeFromPtr(m.DateOfBirth),
		Country:               m.Country,
		Language:              m.Language,
		WalletAddress:         m.WalletAddress,
		WalletType:            entities.WalletType(m.WalletType),
		IsKYCVerified:         m.IsKYCVerified,
		KYCVerifiedAt:         null.TimeFromPtr(m.KYCVerifiedAt),
		SubscriptionType:      entities.SubscriptionType(m.SubscriptionType),
		SubscriptionActive:    m.SubscriptionActive,
		SubscriptionStartDate: null.TimeFromPtr(m.SubscriptionStartDate),
		SubscriptionEndDate:   null.TimeFromPtr(m.SubscriptionEndDate),
		IsActive:              m.IsActive,
		IsVerified:            m.IsVerified,
		IsStaff:               m.IsStaff,
		EmailNotifications:    m.EmailNotifications,
		SMSNotifications:      m.SMSNotifications,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
	if m.RoleID != nil {
		u.RoleID = uuid.NullUUID{UUID: *m.RoleID, Valid: true}
	}
	if m.Role != nil {
		u.Role = roleToEntity(m.Role)
	}
	return u
}

// UserProfileRepository implements profile data operations
type UserProfileRepository struct {
	db *gorm.DB
}

// NewUserProfileRepository creates a new profile repository
func NewUserProfileRepository(db *gorm.DB) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

// Create creates a profile for a user
func (r *UserProfileRepository) Create(ctx context.Context, profile *entities.UserProfile) error {
	m := profileToModel(profile)
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByUserID gets the profile belonging to a user
func (r *UserProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
	var m models.UserProfile
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return profileToEntity(&m), nil
}

// Update updates a profile
func (r *UserProfileRepository) Update(ctx context.Context, profile *entities.UserProfile) error {
	updates := map[string]interface{}{
		"company_name":     profile.CompanyName,
		"job_title":        profile.JobTitle,
		"industry":         profile.Industry,
		"address_line1":    profile.AddressLine1,
		"address_line2":    profile.AddressLine2,
		"city":             profile.City,
		"state_province":   profile.StateProvince,
		"postal_code":      profile.PostalCode,
		"website":          profile.Website,
		"linkedin_profile": profile.LinkedinProfile,
		"twitter_handle":   profile.TwitterHandle,
		"bio":              profile.Bio,
		"timezone":         profile.Timezone,
		"profile_public":   profile.ProfilePublic,
		"show_email":       profile.ShowEmail,
		"show_phone":       profile.ShowPhone,
		"updated_at":       time.Now(),
	}

	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.UserProfile{}).Where("user_id = ?", profile.UserID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func profileToModel(p *entities.UserProfile) *models.UserProfile {
	return &models.UserProfile{
		ID:              p.ID,
		UserID:          p.UserID,
		CompanyName:     p.CompanyName,
		JobTitle:        p.JobTitle,
		Industry:        p.Industry,
		AddressLine1:    p.AddressLine1,
		AddressLine2:    p.AddressLine2,
		City:            p.City,
		StateProvince:   p.StateProvince,
		PostalCode:      p.PostalCode,
		Website:         p.Website,
		LinkedinProfile: p.LinkedinProfile,
		TwitterHandle:   p.TwitterHandle,
		Bio:             p.Bio,
		Timezone:        p.Timezone,
		ProfilePublic:   p.ProfilePublic,
		ShowEmail:       p.ShowEmail,
		ShowPhone:       p.ShowPhone,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func profileToEntity(m *models.UserProfile) *entities.UserProfile {
	return &entities.UserProfile{
		ID:              m.ID,
		UserID:          m.UserID,
		CompanyName:     m.CompanyName,
		JobTitle:        m.JobTitle,
		Industry:        m.Industry,
		AddressLine1:    m.AddressLine1,
		AddressLine2:    m.AddressLine2,
		City:            m.City,
		StateProvince:   m.StateProvince,
		PostalCode:      m.PostalCode,
		Website:         m.Website,
		LinkedinProfile: m.LinkedinProfile,
		TwitterHandle:   m.TwitterHandle,
		Bio:             m.Bio,
		Timezone:        m.Timezone,
		ProfilePublic:   m.ProfilePublic,
		ShowEmail:       m.ShowEmail,
		ShowPhone:       m.ShowPhone,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
