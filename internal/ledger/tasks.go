package ledger

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/clockwork-dev/clockwork/internal/apperr"
	"github.com/clockwork-dev/clockwork/internal/models"
)

// Task, project and user lookups used by the timer engine and the CLI
// glue commands. Full CRUD for these records lives outside this service.

// CreateTask creates a task under the named project, creating the project
// on first use.
func (l *Ledger) CreateTask(title, project, note string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Validation("task title is required")
	}

	proj, err := l.GetOrCreateProject(project)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		Title:     title,
		ProjectID: proj.ID,
		Status:    models.StatusTodo,
		Note:      note,
	}
	if err := l.db.Create(&task).Error; err != nil {
		return nil, err
	}
	task.Project = *proj
	return &task, nil
}

// GetTask retrieves a task by ID
func (l *Ledger) GetTask(id uint) (*models.Task, error) {
	var task models.Task
	err := l.db.Preload("Project").First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("task #%d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks retrieves all tasks with their projects
func (l *Ledger) ListTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := l.db.Preload("Project").Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveTask persists task status changes
func (l *Ledger) SaveTask(task *models.Task) error {
	return l.db.Save(task).Error
}

// GetOrCreateProject finds a project by name, creating it if missing
func (l *Ledger) GetOrCreateProject(name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}

	var proj models.Project
	err := l.db.Where("name = ?", name).First(&proj).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		proj = models.Project{Name: name}
		if err := l.db.Create(&proj).Error; err != nil {
			return nil, err
		}
		return &proj, nil
	}
	if err != nil {
		return nil, err
	}
	return &proj, nil
}

// GetUser retrieves a user by ID
func (l *Ledger) GetUser(id uint) (*models.User, error) {
	var user models.User
	err := l.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user #%d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveUser persists user role changes
func (l *Ledger) SaveUser(user *models.User) error {
	return l.db.Save(user).Error
}

// GetOrCreateUser finds a user by name, creating a non-approver if missing
func (l *Ledger) GetOrCreateUser(name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("user name is required")
	}

	var user models.User
	err := l.db.Where("name = ?", name).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{Name: name}
		if err := l.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
