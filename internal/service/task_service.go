package service

import (
	"database/sql"
	"fmt"

	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/utils"
)

// TaskService manages the staff to-do list.
type TaskService struct {
	repo *repository.TaskRepository
}

// NewTaskService constructs a TaskService.
func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title      string  `json:"title" binding:"required,min=3"`
	Notes      *string `json:"notes"`
	DueDate    *string `json:"dueDate"`
	AssigneeID *int    `json:"assigneeId"`
	BranchID   *int    `json:"branchId"`
}

// UpdateTaskRequest represents a partial task update.
type UpdateTaskRequest struct {
	Title      *string `json:"title"`
	Notes      *string `json:"notes"`
	DueDate    *string `json:"dueDate"`
	AssigneeID *int    `json:"assigneeId"`
	BranchID   *int    `json:"branchId"`
}

// CreateTask opens a new task.
func (s *TaskService) CreateTask(req *CreateTaskRequest, createdBy int) (*models.Task, error) {
	dueDate, err := parseDateField(req.DueDate)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:      req.Title,
		Notes:      req.Notes,
		Status:     models.TaskOpen,
		DueDate:    dueDate,
		AssigneeID: req.AssigneeID,
		BranchID:   req.BranchID,
		CreatedBy:  createdBy,
	}
	if err := s.repo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask returns one task.
func (s *TaskService) GetTask(id int) (*models.Task, error) {
	task, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// ListTasks returns tasks matching the filters. Zero values disable a filter.
func (s *TaskService) ListTasks(status string, assigneeID, branchID int) ([]models.Task, error) {
	if status != "" && status != string(models.TaskOpen) && status != string(models.TaskDone) {
		return nil, fmt.Errorf("invalid task status: %s", status)
	}
	return s.repo.List(status, assigneeID, branchID)
}

// UpdateTask applies a partial update to a task.
func (s *TaskService) UpdateTask(id int, req *UpdateTaskRequest) (*models.Task, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Notes != nil {
		task.Notes = req.Notes
	}
	if req.DueDate != nil {
		dueDate, err := parseDateField(req.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	if req.BranchID != nil {
		task.BranchID = req.BranchID
	}

	if err := s.repo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

// CompleteTask marks an open task done.
func (s *TaskService) CompleteTask(id int) (*models.Task, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkDone(id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrTaskAlreadyDone
		}
		return nil, err
	}

	return s.GetTask(task.ID)
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(id int) error {
	if err := s.repo.Delete(id); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrTaskNotFound
		}
		return err
	}
	return nil
}
