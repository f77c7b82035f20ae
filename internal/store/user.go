package store

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inventory-service/internal/model"
)

// Authenticate checks a username/password pair. An unknown username, a
// deactivated account and a hash mismatch all fail the same way so callers
// cannot probe for valid usernames. On success the returned user carries the
// resolved permission set (admin implicitly holds everything).
func (s *Store) Authenticate(username, password string) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errf(KindUnauthorized, "invalid credentials")
		}
		return nil, err
	}
	if !user.Active {
		return nil, errf(KindUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errf(KindUnauthorized, "invalid credentials")
	}
	return &user, nil
}

// UserInput carries the fields accepted on user creation
type UserInput struct {
	Username    string
	Password    string
	Role        string
	Permissions []string
	CreatedBy   string
}

// CreateUser adds an account. Usernames are unique; the password is stored as
// a bcrypt hash.
func (s *Store) CreateUser(input UserInput) (*model.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, errf(KindInvalid, "username and password are required")
	}
	var count int64
	if err := s.db.Model(&model.User{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errf(KindConflict, "username %s already exists", input.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = model.RoleUser
	}
	user := model.User{
		Username:    input.Username,
		Password:    string(hash),
		Role:        role,
		Permissions: model.JoinPermissions(input.Permissions),
		Active:      true,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser fetches one account by username
func (s *Store) GetUser(username string) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errf(KindNotFound, "user %s not found", username)
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every account
func (s *Store) ListUsers() ([]model.User, error) {
	var users []model.User
	if err := s.db.Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UserUpdate patches an account; nil fields are left untouched
type UserUpdate struct {
	Role        *string
	Permissions *[]string
	Active      *bool
	ModifiedBy  string
}

// UpdateUser applies only the supplied fields and stamps modified_at/by
func (s *Store) UpdateUser(username string, update UserUpdate) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errf(KindNotFound, "user %s not found", username)
		}
		return nil, err
	}
	fields := map[string]interface{}{}
	if update.Role != nil {
		fields["role"] = *update.Role
	}
	if update.Permissions != nil {
		fields["permissions"] = model.JoinPermissions(*update.Permissions)
	}
	if update.Active != nil {
		fields["active"] = *update.Active
	}
	if len(fields) == 0 {
		return &user, nil
	}
	now := time.Now()
	fields["modified_at"] = &now
	fields["modified_by"] = update.ModifiedBy
	if err := s.db.Model(&user).Updates(fields).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account. The distinguished admin account is never
// deletable.
func (s *Store) DeleteUser(username string) error {
	if username == model.AdminUsername {
		return errf(KindInUse, "the %s account cannot be deleted", username)
	}
	var user model.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errf(KindNotFound, "user %s not found", username)
		}
		return err
	}
	return s.db.Delete(&user).Error
}

// ChangePassword verifies the current password before storing the new hash
func (s *Store) ChangePassword(username, currentPassword, newPassword string) error {
	if newPassword == "" {
		return errf(KindInvalid, "new password is required")
	}
	user, err := s.Authenticate(username, currentPassword)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	return s.db.Model(user).Updates(map[string]interface{}{
		"password":    string(hash),
		"modified_at": &now,
		"modified_by": username,
	}).Error
}
