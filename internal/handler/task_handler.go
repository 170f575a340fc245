package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NetraTech/netra_api/internal/middleware"
	"github.com/NetraTech/netra_api/internal/service"
	"github.com/NetraTech/netra_api/internal/utils"
)

// TaskHandler handles staff task HTTP endpoints.
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler constructs a TaskHandler.
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTask handles POST /admin/v1/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "title is required (min 3 characters)")
		return
	}

	staffID := middleware.GetStaffID(c)

	task, err := h.taskService.CreateTask(&req, staffID)
	if err != nil {
		if strings.Contains(err.Error(), "date") {
			utils.Error(c, 400, "INVALID_DATE", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create task")
		return
	}

	utils.Success(c, 201, "Task created", task)
}

// ListTasks handles GET /admin/v1/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	status := c.Query("status")

	assigneeID := 0
	if v := c.Query("assigneeId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			assigneeID = id
		}
	}
	branchID := 0
	if v := c.Query("branchId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			branchID = id
		}
	}

	tasks, err := h.taskService.ListTasks(status, assigneeID, branchID)
	if err != nil {
		if strings.HasPrefix(err.Error(), "invalid task status") {
			utils.Error(c, 400, "INVALID_STATUS", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve tasks")
		return
	}

	utils.Success(c, 200, "Tasks retrieved", gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// GetTask handles GET /admin/v1/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		if err == utils.ErrTaskNotFound {
			utils.Error(c, 404, "TASK_NOT_FOUND", "Task not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve task")
		return
	}

	utils.Success(c, 200, "Task retrieved", task)
}

// UpdateTask handles PUT /admin/v1/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid task ID")
		return
	}

	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(id, &req)
	if err != nil {
		if err == utils.ErrTaskNotFound {
			utils.Error(c, 404, "TASK_NOT_FOUND", "Task not found")
			return
		}
		if strings.Contains(err.Error(), "date") {
			utils.Error(c, 400, "INVALID_DATE", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update task")
		return
	}

	utils.Success(c, 200, "Task updated", task)
}

// CompleteTask handles POST /admin/v1/tasks/:id/done
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid task ID")
		return
	}

	task, err := h.taskService.CompleteTask(id)
	if err != nil {
		switch err {
		case utils.ErrTaskNotFound:
			utils.Error(c, 404, "TASK_NOT_FOUND", "Task not found")
		case utils.ErrTaskAlreadyDone:
			utils.Error(c, 409, "TASK_ALREADY_DONE", "Task is already done")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to complete task")
		}
		return
	}

	utils.Success(c, 200, "Task completed", task)
}

// DeleteTask handles DELETE /admin/v1/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(id); err != nil {
		if err == utils.ErrTaskNotFound {
			utils.Error(c, 404, "TASK_NOT_FOUND", "Task not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete task")
		return
	}

	utils.Success(c, 200, "Task deleted", nil)
}
