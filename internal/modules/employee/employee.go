// Package employee exposes the staff directory: CRUD, keystroke-driven
// search, and the upcoming-birthdays feed used by the greeting flow.
package employee

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/issa-plus/core/internal/models"
	"github.com/issa-plus/core/internal/pkg/imaging"
	"github.com/issa-plus/core/internal/pkg/uploads"
	"gorm.io/gorm"
)

// ErrNotFound is returned for unknown employee ids.
var ErrNotFound = errors.New("employee not found")

// ValidationError marks input problems; handlers map it to 422.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

func invalid(msg string) error { return &ValidationError{msg: msg} }

type Service struct {
	db    *gorm.DB
	saver *uploads.Saver
}

func NewService(db *gorm.DB, saver *uploads.Saver) *Service {
	return &Service{db: db, saver: saver}
}

// CreateInput carries the fields accepted on create.
type CreateInput struct {
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Department string     `json:"department"`
	Position   string     `json:"position"`
	Role       string     `json:"role"`
	Birthday   *time.Time `json:"birthday"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
}

func (in *CreateInput) validate() error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.FirstName == "" {
		return invalid("first name is required")
	}
	if in.LastName == "" {
		return invalid("last name is required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.EmployeeModel, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = "user"
	}
	item := models.EmployeeModel{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Department: strings.TrimSpace(in.Department),
		Position:   strings.TrimSpace(in.Position),
		Role:       role,
		Birthday:   in.Birthday,
		Phone:      strings.TrimSpace(in.Phone),
		Email:      strings.TrimSpace(in.Email),
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateInput uses pointers: nil leaves the stored value alone.
type UpdateInput struct {
	FirstName  *string    `json:"firstName"`
	LastName   *string    `json:"lastName"`
	Department *string    `json:"department"`
	Position   *string    `json:"position"`
	Role       *string    `json:"role"`
	Birthday   *time.Time `json:"birthday"`
	Phone      *string    `json:"phone"`
	Email      *string    `json:"email"`
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.EmployeeModel, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if v == "" {
			return nil, invalid("first name is required")
		}
		updates["first_name"] = v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		if v == "" {
			return nil, invalid("last name is required")
		}
		updates["last_name"] = v
	}
	if in.Department != nil {
		updates["department"] = strings.TrimSpace(*in.Department)
	}
	if in.Position != nil {
		updates["position"] = strings.TrimSpace(*in.Position)
	}
	if in.Role != nil {
		updates["role"] = strings.TrimSpace(*in.Role)
	}
	if in.Birthday != nil {
		updates["birthday"] = *in.Birthday
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		updates["email"] = strings.TrimSpace(*in.Email)
	}
	if len(updates) == 0 {
		return item, nil
	}

	if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*models.EmployeeModel, error) {
	var item models.EmployeeModel
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(item).Error
}

// SetRole updates just the role field, used by the realtime gateway and its
// HTTP fallback.
func (s *Service) SetRole(ctx context.Context, id, role string) (*models.EmployeeModel, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, invalid("role is required")
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(item).Update("role", role).Error; err != nil {
		return nil, err
	}
	item.Role = role
	return item, nil
}

// SetDepartment updates just the department field.
func (s *Service) SetDepartment(ctx context.Context, id, department string) (*models.EmployeeModel, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	department = strings.TrimSpace(department)
	if err := s.db.WithContext(ctx).Model(item).Update("department", department).Error; err != nil {
		return nil, err
	}
	item.Department = department
	return item, nil
}

// Search matches the query against name, department and position. The
// request context is honored so a superseded keystroke query can be
// cancelled instead of delivering stale results.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.EmployeeModel, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	q := "%" + strings.TrimSpace(query) + "%"

	var items []models.EmployeeModel
	err := s.db.WithContext(ctx).
		Where("first_name LIKE ? OR last_name LIKE ? OR department LIKE ? OR position LIKE ?", q, q, q, q).
		Order("last_name ASC, first_name ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return items, nil
}

// All returns the whole roster, used by the realtime gateway's
// get_all_users query.
func (s *Service) All(ctx context.Context) ([]models.EmployeeModel, error) {
	var items []models.EmployeeModel
	err := s.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&items).Error
	return items, err
}

// UpcomingBirthdays returns employees whose birthday falls within the next
// days, today included, ignoring the birth year.
func (s *Service) UpcomingBirthdays(ctx context.Context, now time.Time, days int) ([]models.EmployeeModel, error) {
	if days <= 0 {
		days = 7
	}
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	var out []models.EmployeeModel
	for _, e := range all {
		if e.Birthday == nil {
			continue
		}
		if daysUntilBirthday(now, *e.Birthday) < days {
			out = append(out, e)
		}
	}
	return out, nil
}

func daysUntilBirthday(now time.Time, birthday time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	next := time.Date(now.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(now.Year()+1, birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	}
	return int(next.Sub(today).Hours() / 24)
}

// SetAvatar normalizes the uploaded image, stores it, and saves its URL.
func (s *Service) SetAvatar(ctx context.Context, id, originalName string, data []byte) (*models.EmployeeModel, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	norm, err := imaging.Normalize(data, imaging.Options{})
	if err != nil {
		return nil, invalid("could not process image, try a different file")
	}

	url, _, err := s.saver.Save(ctx, "avatars", originalName, norm.Data)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(item).Update("avatar_url", url).Error; err != nil {
		return nil, err
	}
	item.AvatarURL = url
	return item, nil
}
