package service

import (
	"context"

	"employee-records/internal/models"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListOptions selects a page of records. Department is an exact-match
// filter when non-empty.
type ListOptions struct {
	Department string
	Skip       int64
	Limit      int64
}

// Employees is the operations surface consumed by the HTTP handlers.
type Employees interface {
	Create(ctx context.Context, input models.EmployeeInput) (models.Employee, error)
	Get(ctx context.Context, employeeID string) (models.Employee, error)
	List(ctx context.Context, opts ListOptions) ([]models.Employee, error)
	Update(ctx context.Context, employeeID string, patch models.EmployeeUpdate) (models.Employee, error)
	Delete(ctx context.Context, employeeID string) error
	SearchBySkill(ctx context.Context, skill string) ([]models.Employee, error)
	AverageSalaryByDepartment(ctx context.Context) ([]models.DepartmentAverage, error)
}
