package store

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
)

// HashCost is the bcrypt cost used for passwords created through the API.
const HashCost = 12

// UserStore persists staff users and their cafe bindings.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a user store over the given database handle.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUserParams are the inputs for creating a staff user.
type CreateUserParams struct {
	CafeID   *uint
	Email    string
	Username string
	Password string
	Role     string
}

// Create hashes the password and inserts the user. Non-super-admin users
// must carry a cafe id; email and username are unique globally.
func (s *UserStore) Create(params CreateUserParams) (*model.User, error) {
	if !model.ValidRole(params.Role) {
		return nil, ErrInvalidRole
	}
	if params.Role != model.RoleSuperAdmin && params.CafeID == nil {
		return nil, ErrMissingCafe
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), HashCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		CafeID:   params.CafeID,
		Email:    params.Email,
		Username: params.Username,
		Password: string(hashed),
		Role:     params.Role,
	}
	if err := s.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}
	return user, nil
}

// FindByEmail returns the user with the given email.
func (s *UserStore) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByID returns the user with the given id.
func (s *UserStore) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// VerifyPassword checks a plaintext password against the stored hash.
func (s *UserStore) VerifyPassword(user *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

// TouchLastLogin stamps the user's last login time.
func (s *UserStore) TouchLastLogin(id uint) error {
	now := time.Now()
	return s.db.Model(&model.User{}).Where("id = ?", id).Update("last_login_at", &now).Error
}

// List returns users, optionally filtered to one cafe.
func (s *UserStore) List(cafeID *uint) ([]model.User, error) {
	var users []model.User
	query := s.db
	if cafeID != nil {
		query = query.Where("cafe_id = ?", *cafeID)
	}
	if err := query.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
