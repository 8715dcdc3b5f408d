// Package adminuser manages local accounts: login, lifecycle, and the
// optional mirroring of users into terminal-server RDP groups.
package adminuser

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/issa-plus/core/internal/models"
	"github.com/issa-plus/core/internal/pkg/jwt"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 7 * 24 * time.Hour

var (
	ErrNotFound      = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
	ErrDisabled      = errors.New("account disabled")
	ErrUsernameTaken = errors.New("username already exists")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")
	ErrMissingField  = errors.New("username and password are required")
	ErrLastAdmin     = errors.New("cannot remove the last administrator")
)

type Service struct {
	db  *gorm.DB
	rdp RDPClient
	log *zap.Logger
}

func NewService(db *gorm.DB, rdp RDPClient, log *zap.Logger) *Service {
	return &Service{db: db, rdp: rdp, log: log}
}

// Login verifies credentials and issues a JWT. Disabled accounts are refused
// even with the right password.
func (s *Service) Login(ctx context.Context, username, password, ip string) (string, *models.UserModel, error) {
	var u models.UserModel
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Uniform delay keeps unknown-user probing as slow as a wrong password.
		time.Sleep(3 * time.Second)
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", nil, ErrWrongPassword
	}
	if !u.Enabled {
		return "", nil, ErrDisabled
	}

	now := time.Now()
	s.db.WithContext(ctx).Model(&u).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	})
	u.LastLoginTime = &now
	u.LastLoginIP = ip

	token, err := jwt.Sign(u.ID, tokenTTL)
	return token, &u, err
}

// CreateInput carries the create-user form.
type CreateInput struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	IsAdmin     bool     `json:"isAdmin"`
	RDPGroups   []string `json:"rdpGroups"`
}

// Create registers the account and then mirrors RDP group membership as a
// best-effort secondary call: its failure is logged, never surfaced.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.UserModel, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, ErrMissingField
	}
	if len(in.Password) < 6 {
		return nil, ErrWeakPassword
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserModel{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	display := strings.TrimSpace(in.DisplayName)
	if display == "" {
		display = in.Username
	}
	u := models.UserModel{
		Username:    in.Username,
		DisplayName: display,
		Description: strings.TrimSpace(in.Description),
		Password:    string(hash),
		IsAdmin:     in.IsAdmin,
		Enabled:     true,
		RDPGroups:   in.RDPGroups,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, err
	}

	if s.rdp != nil && len(in.RDPGroups) > 0 {
		if err := s.rdp.AddToGroups(ctx, u.Username, in.RDPGroups); err != nil {
			s.log.Warn("rdp group assignment failed",
				zap.String("username", u.Username), zap.Error(err))
		}
	}
	return &u, nil
}

func (s *Service) List(ctx context.Context) ([]models.UserModel, error) {
	var users []models.UserModel
	err := s.db.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, err
}

func (s *Service) Get(ctx context.Context, id string) (*models.UserModel, error) {
	var u models.UserModel
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// The edit flow is step-per-call: rename, description, password, role each
// fail independently, and already applied steps stay applied. There is no
// rollback across steps.

func (s *Service) Rename(ctx context.Context, id, username string) (*models.UserModel, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrMissingField
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if username != u.Username {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUsernameTaken
		}
	}
	if err := s.db.WithContext(ctx).Model(u).Update("username", username).Error; err != nil {
		return nil, err
	}
	u.Username = username
	return u, nil
}

func (s *Service) SetDescription(ctx context.Context, id, description string) (*models.UserModel, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(u).Update("description", description).Error; err != nil {
		return nil, err
	}
	u.Description = description
	return u, nil
}

func (s *Service) SetPassword(ctx context.Context, id, password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(u).Update("password", string(hash)).Error
}

func (s *Service) SetAdmin(ctx context.Context, id string, isAdmin bool) (*models.UserModel, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin && !isAdmin {
		if err := s.ensureNotLastAdmin(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := s.db.WithContext(ctx).Model(u).Update("is_admin", isAdmin).Error; err != nil {
		return nil, err
	}
	u.IsAdmin = isAdmin
	return u, nil
}

func (s *Service) SetEnabled(ctx context.Context, id string, enabled bool) (*models.UserModel, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin && !enabled {
		if err := s.ensureNotLastAdmin(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := s.db.WithContext(ctx).Model(u).Update("enabled", enabled).Error; err != nil {
		return nil, err
	}
	u.Enabled = enabled
	return u, nil
}

// SetRDPGroups replaces group membership locally and mirrors it best effort.
func (s *Service) SetRDPGroups(ctx context.Context, id string, groups []string) (*models.UserModel, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(u).Update("rdp_groups", models.StringArray(groups)).Error; err != nil {
		return nil, err
	}
	u.RDPGroups = groups

	if s.rdp != nil {
		if err := s.rdp.AddToGroups(ctx, u.Username, groups); err != nil {
			s.log.Warn("rdp group sync failed",
				zap.String("username", u.Username), zap.Error(err))
		}
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if u.IsAdmin {
		if err := s.ensureNotLastAdmin(ctx, id); err != nil {
			return err
		}
	}
	if err := s.db.WithContext(ctx).Delete(u).Error; err != nil {
		return err
	}
	if s.rdp != nil {
		if err := s.rdp.RemoveUser(ctx, u.Username); err != nil {
			s.log.Warn("rdp user removal failed",
				zap.String("username", u.Username), zap.Error(err))
		}
	}
	return nil
}

func (s *Service) ensureNotLastAdmin(ctx context.Context, exceptID string) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("is_admin = ? AND enabled = ? AND id <> ?", true, true, exceptID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrLastAdmin
	}
	return nil
}
