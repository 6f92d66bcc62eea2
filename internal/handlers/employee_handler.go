package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"employee-records/internal/models"
	"employee-records/internal/service"
)

type EmployeeHandler struct {
	service service.Employees
	log     *zap.Logger
}

func NewEmployeeHandler(svc service.Employees, log *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{service: svc, log: log}
}

// Create inserts a new employee record.
// POST /employees/
func (h *EmployeeHandler) Create(c *gin.Context) {
	var input models.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee payload", "details": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Get returns a single employee by employee_id.
// GET /employees/:employee_id
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.service.Get(c.Request.Context(), c.Param("employee_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// List returns a page of employees, optionally filtered by department and
// sorted by joining_date, newest first.
// GET /employees/?department=&skip=&limit=
func (h *EmployeeHandler) List(c *gin.Context) {
	skip, err := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip must be an integer"})
		return
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(service.DefaultLimit)), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	employees, err := h.service.List(c.Request.Context(), service.ListOptions{
		Department: c.Query("department"),
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, employees)
}

// Update applies a partial update to an existing employee.
// PUT /employees/:employee_id
func (h *EmployeeHandler) Update(c *gin.Context) {
	var patch models.EmployeeUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload", "details": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("employee_id"), patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes an employee record.
// DELETE /employees/:employee_id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	employeeID := c.Param("employee_id")
	if err := h.service.Delete(c.Request.Context(), employeeID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("employee with ID %s deleted successfully", employeeID),
	})
}

// SearchBySkill returns every employee whose skills contain the given
// skill, matched exactly and case-sensitively.
// GET /employees/search/?skill=
func (h *EmployeeHandler) SearchBySkill(c *gin.Context) {
	skill := c.Query("skill")
	if skill == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skill query parameter is required"})
		return
	}

	employees, err := h.service.SearchBySkill(c.Request.Context(), skill)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, employees)
}

// AverageSalaryByDepartment returns the mean salary per department.
// GET /employees/avg-salary/by-department
func (h *EmployeeHandler) AverageSalaryByDepartment(c *gin.Context) {
	averages, err := h.service.AverageSalaryByDepartment(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, averages)
}
