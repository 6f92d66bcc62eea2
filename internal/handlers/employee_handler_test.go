package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"employee-records/internal/apperror"
	"employee-records/internal/auth"
	"employee-records/internal/handlers"
	"employee-records/internal/models"
	"employee-records/internal/router"
	"employee-records/internal/service"
	"employee-records/internal/store"
)

type stubEmployees struct {
	createFn func(ctx context.Context, input models.EmployeeInput) (models.Employee, error)
	getFn    func(ctx context.Context, employeeID string) (models.Employee, error)
	listFn   func(ctx context.Context, opts service.ListOptions) ([]models.Employee, error)
	updateFn func(ctx context.Context, employeeID string, patch models.EmployeeUpdate) (models.Employee, error)
	deleteFn func(ctx context.Context, employeeID string) error
	searchFn func(ctx context.Context, skill string) ([]models.Employee, error)
	avgFn    func(ctx context.Context) ([]models.DepartmentAverage, error)
}

func (s stubEmployees) Create(ctx context.Context, input models.EmployeeInput) (models.Employee, error) {
	if s.createFn == nil {
		return models.Employee{}, nil
	}
	return s.createFn(ctx, input)
}

func (s stubEmployees) Get(ctx context.Context, employeeID string) (models.Employee, error) {
	if s.getFn == nil {
		return models.Employee{}, nil
	}
	return s.getFn(ctx, employeeID)
}

func (s stubEmployees) List(ctx context.Context, opts service.ListOptions) ([]models.Employee, error) {
	if s.listFn == nil {
		return []models.Employee{}, nil
	}
	return s.listFn(ctx, opts)
}

func (s stubEmployees) Update(ctx context.Context, employeeID string, patch models.EmployeeUpdate) (models.Employee, error) {
	if s.updateFn == nil {
		return models.Employee{}, nil
	}
	return s.updateFn(ctx, employeeID, patch)
}

func (s stubEmployees) Delete(ctx context.Context, employeeID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, employeeID)
}

func (s stubEmployees) SearchBySkill(ctx context.Context, skill string) ([]models.Employee, error) {
	if s.searchFn == nil {
		return []models.Employee{}, nil
	}
	return s.searchFn(ctx, skill)
}

func (s stubEmployees) AverageSalaryByDepartment(ctx context.Context) ([]models.DepartmentAverage, error) {
	if s.avgFn == nil {
		return []models.DepartmentAverage{}, nil
	}
	return s.avgFn(ctx)
}

type stubHealthStore struct {
	pingErr error
	guards  store.GuardStatus
}

func (s stubHealthStore) Ping(ctx context.Context) error { return s.pingErr }
func (s stubHealthStore) Guards() store.GuardStatus      { return s.guards }

func newTestRouter(t *testing.T, svc service.Employees, health handlers.HealthStore) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	principals, err := auth.NewStaticPrincipals("testuser", "testpassword")
	require.NoError(t, err)
	authService := auth.NewService(principals, "test-secret", 30*time.Minute)

	token, err := authService.Authenticate("testuser", "testpassword")
	require.NoError(t, err)

	log := zap.NewNop()
	r := gin.New()
	router.Setup(r, router.Deps{
		Auth:      handlers.NewAuthHandler(authService, log),
		Employees: handlers.NewEmployeeHandler(svc, log),
		Health:    handlers.NewHealthHandler(health),
		Verifier:  authService,
	})
	return r, token
}

func doJSON(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const validEmployeeBody = `{
	"employee_id": "E456",
	"name": "Satyam Kurum",
	"department": "AI Engineer",
	"salary": 1200000,
	"joining_date": "2025-10-01",
	"skills": ["Python", "FastAPI"]
}`

func TestCreateEmployee(t *testing.T) {
	var got models.EmployeeInput
	svc := stubEmployees{
		createFn: func(ctx context.Context, input models.EmployeeInput) (models.Employee, error) {
			got = input
			return models.Employee{
				ID:          "64f000000000000000000001",
				EmployeeID:  input.EmployeeID,
				Name:        input.Name,
				Department:  input.Department,
				Salary:      input.Salary,
				JoiningDate: input.JoiningDate,
				Skills:      input.Skills,
			}, nil
		},
	}
	r, token := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodPost, "/employees/", token, validEmployeeBody)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "E456", got.EmployeeID)
	assert.Equal(t, []string{"Python", "FastAPI"}, got.Skills)

	var created models.Employee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "2025-10-01", created.JoiningDate)
}

func TestCreateEmployeeWithoutToken(t *testing.T) {
	r, _ := newTestRouter(t, stubEmployees{}, stubHealthStore{})

	rec := doJSON(r, http.MethodPost, "/employees/", "", validEmployeeBody)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestCreateEmployeeWithInvalidToken(t *testing.T) {
	r, _ := newTestRouter(t, stubEmployees{}, stubHealthStore{})

	rec := doJSON(r, http.MethodPost, "/employees/", "not-a-real-token", validEmployeeBody)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateEmployeeDuplicate(t *testing.T) {
	svc := stubEmployees{
		createFn: func(ctx context.Context, input models.EmployeeInput) (models.Employee, error) {
			return models.Employee{}, apperror.New(apperror.CodeConflict, "employee with ID E456 already exists")
		},
	}
	r, token := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodPost, "/employees/", token, validEmployeeBody)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestCreateEmployeeRejectsBadPayload(t *testing.T) {
	r, token := newTestRouter(t, stubEmployees{}, stubHealthStore{})

	for name, body := range map[string]string{
		"zero salary":    `{"employee_id":"E1","name":"A","department":"B","salary":0,"joining_date":"2020-01-01","skills":[]}`,
		"bad date":       `{"employee_id":"E1","name":"A","department":"B","salary":10,"joining_date":"01/01/2020","skills":[]}`,
		"missing name":   `{"employee_id":"E1","department":"B","salary":10,"joining_date":"2020-01-01","skills":[]}`,
		"missing skills": `{"employee_id":"E1","name":"A","department":"B","salary":10,"joining_date":"2020-01-01"}`,
	} {
		rec := doJSON(r, http.MethodPost, "/employees/", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestGetEmployeeNotFound(t *testing.T) {
	svc := stubEmployees{
		getFn: func(ctx context.Context, employeeID string) (models.Employee, error) {
			return models.Employee{}, apperror.New(apperror.CodeNotFound, "employee with ID "+employeeID+" not found")
		},
	}
	r, _ := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodGet, "/employees/E404", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListForwardsQueryParams(t *testing.T) {
	var got service.ListOptions
	svc := stubEmployees{
		listFn: func(ctx context.Context, opts service.ListOptions) ([]models.Employee, error) {
			got = opts
			return []models.Employee{}, nil
		},
	}
	r, _ := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodGet, "/employees/?department=Engineering&skip=10&limit=25", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ListOptions{Department: "Engineering", Skip: 10, Limit: 25}, got)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestListDefaults(t *testing.T) {
	var got service.ListOptions
	svc := stubEmployees{
		listFn: func(ctx context.Context, opts service.ListOptions) ([]models.Employee, error) {
			got = opts
			return []models.Employee{}, nil
		},
	}
	r, _ := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodGet, "/employees/", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ListOptions{Skip: 0, Limit: service.DefaultLimit}, got)
}

func TestListRejectsNonNumericParams(t *testing.T) {
	r, _ := newTestRouter(t, stubEmployees{}, stubHealthStore{})

	rec := doJSON(r, http.MethodGet, "/employees/?skip=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(r, http.MethodGet, "/employees/?limit=many", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOutOfRangeMapsToBadRequest(t *testing.T) {
	svc := stubEmployees{
		listFn: func(ctx context.Context, opts service.ListOptions) ([]models.Employee, error) {
			return nil, apperror.New(apperror.CodeInvalidArgument, "limit must be between 1 and 100")
		},
	}
	r, _ := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodGet, "/employees/?limit=101", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateEmployee(t *testing.T) {
	var gotID string
	var gotPatch models.EmployeeUpdate
	svc := stubEmployees{
		updateFn: func(ctx context.Context, employeeID string, patch models.EmployeeUpdate) (models.Employee, error) {
			gotID = employeeID
			gotPatch = patch
			return models.Employee{EmployeeID: employeeID, Salary: *patch.Salary}, nil
		},
	}
	r, token := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodPut, "/employees/E456", token, `{"salary": 5}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "E456", gotID)
	require.NotNil(t, gotPatch.Salary)
	assert.Equal(t, 5.0, *gotPatch.Salary)
	assert.Nil(t, gotPatch.Name)
	assert.Nil(t, gotPatch.Department)
	assert.Nil(t, gotPatch.JoiningDate)
	assert.Nil(t, gotPatch.Skills)
}

func TestUpdateEmployeeWithoutToken(t *testing.T) {
	r, _ := newTestRouter(t, stubEmployees{}, stubHealthStore{})

	rec := doJSON(r, http.MethodPut, "/employees/E456", "", `{"salary": 5}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteEmployee(t *testing.T) {
	svc := stubEmployees{}
	r, token := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodDelete, "/employees/E456", token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "E456")
	assert.Contains(t, rec.Body.String(), "success")
}

func TestDeleteEmployeeNotFound(t *testing.T) {
	svc := stubEmployees{
		deleteFn: func(ctx context.Context, employeeID string) error {
			return apperror.New(apperror.CodeNotFound, "employee with ID "+employeeID+" not found")
		},
	}
	r, token := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodDelete, "/employees/E456", token, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEmployeeWithoutToken(t *testing.T) {
	r, _ := newTestRouter(t, stubEmployees{}, stubHealthStore{})

	rec := doJSON(r, http.MethodDelete, "/employees/E456", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearchBySkill(t *testing.T) {
	var gotSkill string
	svc := stubEmployees{
		searchFn: func(ctx context.Context, skill string) ([]models.Employee, error) {
			gotSkill = skill
			return []models.Employee{{EmployeeID: "E1", Skills: []string{"Python"}}}, nil
		},
	}
	r, _ := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodGet, "/employees/search/?skill=Python", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Python", gotSkill)
}

func TestSearchRequiresSkill(t *testing.T) {
	r, _ := newTestRouter(t, stubEmployees{}, stubHealthStore{})

	rec := doJSON(r, http.MethodGet, "/employees/search/", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAverageSalaryByDepartment(t *testing.T) {
	svc := stubEmployees{
		avgFn: func(ctx context.Context) ([]models.DepartmentAverage, error) {
			return []models.DepartmentAverage{
				{Department: "A", AvgSalary: 150},
				{Department: "B", AvgSalary: 50},
			}, nil
		},
	}
	r, _ := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodGet, "/employees/avg-salary/by-department", "", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var averages []models.DepartmentAverage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &averages))
	assert.Len(t, averages, 2)
	assert.Equal(t, 150.0, averages[0].AvgSalary)
}

func TestStoreUnavailableMapsTo503(t *testing.T) {
	svc := stubEmployees{
		getFn: func(ctx context.Context, employeeID string) (models.Employee, error) {
			return models.Employee{}, apperror.New(apperror.CodeUnavailable, "employee store is unavailable")
		},
	}
	r, _ := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodGet, "/employees/E1", "", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	svc := stubEmployees{
		getFn: func(ctx context.Context, employeeID string) (models.Employee, error) {
			return models.Employee{}, assert.AnError
		},
	}
	r, _ := newTestRouter(t, svc, stubHealthStore{})

	rec := doJSON(r, http.MethodGet, "/employees/E1", "", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func doForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTokenIssuance(t *testing.T) {
	r, _ := newTestRouter(t, stubEmployees{}, stubHealthStore{})

	rec := doForm(r, "/token", url.Values{"username": {"testuser"}, "password": {"testpassword"}})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "bearer", body.TokenType)
}

func TestTokenRejectsBadCredentials(t *testing.T) {
	r, _ := newTestRouter(t, stubEmployees{}, stubHealthStore{})

	rec := doForm(r, "/token", url.Values{"username": {"testuser"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestTokenRequiresBothFields(t *testing.T) {
	r, _ := newTestRouter(t, stubEmployees{}, stubHealthStore{})

	rec := doForm(r, "/token", url.Values{"username": {"testuser"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthOK(t *testing.T) {
	health := stubHealthStore{guards: store.GuardStatus{IndexReady: true, ValidatorReady: false}}
	r, _ := newTestRouter(t, stubEmployees{}, health)

	rec := doJSON(r, http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"index_ready":true`)
	assert.Contains(t, rec.Body.String(), `"validator_ready":false`)
}

func TestHealthUnavailable(t *testing.T) {
	health := stubHealthStore{pingErr: assert.AnError}
	r, _ := newTestRouter(t, stubEmployees{}, health)

	rec := doJSON(r, http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database connection failed")
}
