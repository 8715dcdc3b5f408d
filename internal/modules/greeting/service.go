// Package greeting covers congratulation templates, their macro/markdown
// rendering, AI-drafted texts, and the send flow that records and broadcasts
// a congratulation.
package greeting

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/issa-plus/core/internal/config"
	"github.com/issa-plus/core/internal/models"
	"github.com/issa-plus/core/internal/modules/employee"
	"github.com/issa-plus/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskTypeGenerate is the task-queue type for async AI drafts.
const TaskTypeGenerate = "greeting:generate"

var ErrTemplateNotFound = errors.New("greeting template not found")

// Notifier pushes a sent congratulation to connected clients. The realtime
// gateway satisfies this; tests pass a func.
type Notifier func(event string, payload interface{})

type Service struct {
	db        *gorm.DB
	aiCfg     *config.AIConfig
	employees *employee.Service
	tasks     *taskqueue.Service
	notify    Notifier
	log       *zap.Logger
}

func NewService(db *gorm.DB, aiCfg *config.AIConfig, employees *employee.Service, tasks *taskqueue.Service, notify Notifier, log *zap.Logger) *Service {
	if notify == nil {
		notify = func(string, interface{}) {}
	}
	return &Service{db: db, aiCfg: aiCfg, employees: employees, tasks: tasks, notify: notify, log: log}
}

// Templates.

func (s *Service) ListTemplates(ctx context.Context) ([]models.GreetingTemplateModel, error) {
	var items []models.GreetingTemplateModel
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (s *Service) GetTemplate(ctx context.Context, id string) (*models.GreetingTemplateModel, error) {
	var item models.GreetingTemplateModel
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) CreateTemplate(ctx context.Context, title, body string) (*models.GreetingTemplateModel, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("template title is required")
	}
	item := models.GreetingTemplateModel{Title: title, Body: body}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, id string, title, body *string) (*models.GreetingTemplateModel, error) {
	item, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if title != nil {
		v := strings.TrimSpace(*title)
		if v == "" {
			return nil, errors.New("template title is required")
		}
		updates["title"] = v
	}
	if body != nil {
		updates["body"] = *body
	}
	if len(updates) == 0 {
		return item, nil
	}
	if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetTemplate(ctx, id)
}

func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	item, err := s.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(item).Error
}

// Preview renders a template against a concrete employee.
func (s *Service) Preview(ctx context.Context, templateID, employeeID string) (string, error) {
	tpl, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return "", err
	}
	fields, err := s.fieldsFor(ctx, employeeID)
	if err != nil {
		return "", err
	}
	return RenderPreview(tpl.Body, fields)
}

// Generate asks the configured AI provider for a draft synchronously.
func (s *Service) Generate(ctx context.Context, employeeID, occasion string) (string, error) {
	provider := s.aiCfg.Provider()
	if provider == nil {
		return "", errors.New("no AI provider configured")
	}
	fields, err := s.fieldsFor(ctx, employeeID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(occasion) == "" {
		occasion = "birthday"
	}
	system, prompt := buildGreetingPrompt(occasion, s.aiCfg.GreetingLanguage, fields)
	return generateText(ctx, provider, system, prompt, s.aiCfg.GreetingMaxTokens)
}

type generatePayload struct {
	EmployeeID string `json:"employeeId"`
	Occasion   string `json:"occasion"`
}

// GenerateAsync enqueues a draft task and works it in the background;
// clients poll the task id. Repeated requests for the same employee and
// occasion collapse onto the pending task.
func (s *Service) GenerateAsync(ctx context.Context, employeeID, occasion string) (*taskqueue.Task, error) {
	task, err := s.tasks.Enqueue(ctx, TaskTypeGenerate,
		generatePayload{EmployeeID: employeeID, Occasion: occasion},
		employeeID+"|"+occasion, employeeID)
	if err != nil {
		return nil, err
	}
	if task.Status != taskqueue.TaskPending {
		return task, nil
	}

	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		_ = s.tasks.UpdateStatus(bg, task.ID, taskqueue.TaskRunning, nil, "")
		text, err := s.Generate(bg, employeeID, occasion)
		if err != nil {
			s.log.Warn("greeting generation failed", zap.String("employee", employeeID), zap.Error(err))
			_ = s.tasks.UpdateStatus(bg, task.ID, taskqueue.TaskFailed, nil, err.Error())
			return
		}
		_ = s.tasks.UpdateStatus(bg, task.ID, taskqueue.TaskCompleted, map[string]string{"text": text}, "")
	}()
	return task, nil
}

func (s *Service) GetTask(ctx context.Context, id string) (*taskqueue.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// Send records the congratulation and pushes it to connected clients.
func (s *Service) Send(ctx context.Context, employeeID, text, sentBy, source string) (*models.CongratulationModel, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("congratulation text is required")
	}
	if _, err := s.employees.Get(ctx, employeeID); err != nil {
		return nil, err
	}
	if source == "" {
		source = "manual"
	}

	item := models.CongratulationModel{
		EmployeeID: employeeID,
		Text:       text,
		SentBy:     sentBy,
		Source:     source,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}

	s.notify("congratulation", item)
	return &item, nil
}

func (s *Service) History(ctx context.Context, employeeID string) ([]models.CongratulationModel, error) {
	var items []models.CongratulationModel
	tx := s.db.WithContext(ctx).Order("created_at DESC")
	if employeeID != "" {
		tx = tx.Where("employee_id = ?", employeeID)
	}
	err := tx.Limit(200).Find(&items).Error
	return items, err
}

func (s *Service) fieldsFor(ctx context.Context, employeeID string) (Fields, error) {
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return FieldsForEmployee(emp.FirstName, emp.LastName, emp.Department, emp.Position, emp.Birthday, time.Now()), nil
}
