package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"employee-records/internal/handlers"
	"employee-records/internal/middleware"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Employees *handlers.EmployeeHandler
	Health    *handlers.HealthHandler
	Verifier  middleware.TokenVerifier
}

func Setup(r *gin.Engine, deps Deps) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Employee Management System!"})
	})
	r.GET("/health", deps.Health.Check)
	r.POST("/token", deps.Auth.Token)

	authRequired := middleware.RequireAuth(deps.Verifier)

	emp := r.Group("/employees")
	emp.POST("/", authRequired, deps.Employees.Create)
	emp.GET("/", deps.Employees.List)
	emp.GET("/avg-salary/by-department", deps.Employees.AverageSalaryByDepartment)
	emp.GET("/search/", deps.Employees.SearchBySkill)
	emp.GET("/:employee_id", deps.Employees.Get)
	emp.PUT("/:employee_id", authRequired, deps.Employees.Update)
	emp.DELETE("/:employee_id", authRequired, deps.Employees.Delete)
}
