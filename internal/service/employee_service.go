package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"employee-records/internal/apperror"
	"employee-records/internal/models"
	"employee-records/internal/store"
)

type EmployeeService struct {
	store *store.Store
	log   *zap.Logger
}

var _ Employees = (*EmployeeService)(nil)

func NewEmployeeService(st *store.Store, log *zap.Logger) *EmployeeService {
	return &EmployeeService{
		store: st,
		log:   log.Named("employees"),
	}
}

func (s *EmployeeService) Create(ctx context.Context, input models.EmployeeInput) (models.Employee, error) {
	doc, err := input.Document()
	if err != nil {
		return models.Employee{}, err
	}

	opCtx, cancel := s.store.OpContext(ctx)
	defer cancel()

	// Pre-check gives a clean conflict answer; the unique index is the
	// backstop when two identical creates race past it.
	count, err := s.store.Employees().CountDocuments(opCtx, bson.M{"employee_id": doc.EmployeeID})
	if err != nil {
		return models.Employee{}, mapStoreError("check employee_id", err)
	}
	if count > 0 {
		return models.Employee{}, conflictError(doc.EmployeeID)
	}

	res, err := s.store.Employees().InsertOne(opCtx, doc)
	if err != nil {
		return models.Employee{}, mapStoreError("insert employee", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return models.Employee{}, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = id

	s.log.Info("employee created", zap.String("employee_id", doc.EmployeeID))
	return doc.DTO(), nil
}

func (s *EmployeeService) Get(ctx context.Context, employeeID string) (models.Employee, error) {
	opCtx, cancel := s.store.OpContext(ctx)
	defer cancel()

	var doc models.EmployeeDocument
	err := s.store.Employees().FindOne(opCtx, bson.M{"employee_id": employeeID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Employee{}, notFoundError(employeeID)
	}
	if err != nil {
		return models.Employee{}, mapStoreError("find employee", err)
	}

	return doc.DTO(), nil
}

func (s *EmployeeService) List(ctx context.Context, opts ListOptions) ([]models.Employee, error) {
	if err := validateListOptions(opts); err != nil {
		return nil, err
	}

	filter := bson.M{}
	if opts.Department != "" {
		filter["department"] = opts.Department
	}

	opCtx, cancel := s.store.OpContext(ctx)
	defer cancel()

	findOpts := options.Find().
		SetSort(bson.D{{Key: "joining_date", Value: -1}}).
		SetSkip(opts.Skip).
		SetLimit(opts.Limit)

	cursor, err := s.store.Employees().Find(opCtx, filter, findOpts)
	if err != nil {
		return nil, mapStoreError("list employees", err)
	}

	return decodeAll(opCtx, cursor)
}

func (s *EmployeeService) Update(ctx context.Context, employeeID string, patch models.EmployeeUpdate) (models.Employee, error) {
	fields, err := patch.SetFields()
	if err != nil {
		return models.Employee{}, err
	}

	if len(fields) > 0 {
		opCtx, cancel := s.store.OpContext(ctx)
		res, err := s.store.Employees().UpdateOne(opCtx,
			bson.M{"employee_id": employeeID},
			bson.M{"$set": fields})
		cancel()
		if err != nil {
			return models.Employee{}, mapStoreError("update employee", err)
		}
		if res.MatchedCount == 0 {
			return models.Employee{}, notFoundError(employeeID)
		}
	}

	// Empty patches fall through and return the current record, or
	// not_found when the target never existed.
	return s.Get(ctx, employeeID)
}

func (s *EmployeeService) Delete(ctx context.Context, employeeID string) error {
	opCtx, cancel := s.store.OpContext(ctx)
	defer cancel()

	res, err := s.store.Employees().DeleteOne(opCtx, bson.M{"employee_id": employeeID})
	if err != nil {
		return mapStoreError("delete employee", err)
	}
	if res.DeletedCount == 0 {
		return notFoundError(employeeID)
	}

	s.log.Info("employee deleted", zap.String("employee_id", employeeID))
	return nil
}

func (s *EmployeeService) SearchBySkill(ctx context.Context, skill string) ([]models.Employee, error) {
	opCtx, cancel := s.store.OpContext(ctx)
	defer cancel()

	// Matching a scalar against an array field is an exact, case-sensitive
	// element match.
	cursor, err := s.store.Employees().Find(opCtx, bson.M{"skills": skill})
	if err != nil {
		return nil, mapStoreError("search employees", err)
	}

	return decodeAll(opCtx, cursor)
}

func (s *EmployeeService) AverageSalaryByDepartment(ctx context.Context) ([]models.DepartmentAverage, error) {
	opCtx, cancel := s.store.OpContext(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        "$department",
			"avg_salary": bson.M{"$avg": "$salary"},
		}}},
		{{Key: "$project", Value: bson.M{
			"department": "$_id",
			"avg_salary": 1,
			"_id":        0,
		}}},
	}

	cursor, err := s.store.Employees().Aggregate(opCtx, pipeline)
	if err != nil {
		return nil, mapStoreError("aggregate salaries", err)
	}

	out := []models.DepartmentAverage{}
	if err := cursor.All(opCtx, &out); err != nil {
		return nil, mapStoreError("read aggregation", err)
	}
	return out, nil
}

func validateListOptions(opts ListOptions) error {
	if opts.Skip < 0 {
		return apperror.New(apperror.CodeInvalidArgument, "skip must be greater than or equal to 0")
	}
	if opts.Limit <= 0 || opts.Limit > MaxLimit {
		return apperror.New(apperror.CodeInvalidArgument, fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
	}
	return nil
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]models.Employee, error) {
	defer cursor.Close(ctx)

	out := []models.Employee{}
	for cursor.Next(ctx) {
		var doc models.EmployeeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode employee: %w", err)
		}
		out = append(out, doc.DTO())
	}
	if err := cursor.Err(); err != nil {
		return nil, mapStoreError("read employees", err)
	}
	return out, nil
}

func conflictError(employeeID string) error {
	return apperror.New(apperror.CodeConflict, fmt.Sprintf("employee with ID %s already exists", employeeID))
}

func notFoundError(employeeID string) error {
	return apperror.New(apperror.CodeNotFound, fmt.Sprintf("employee with ID %s not found", employeeID))
}

// mapStoreError folds driver failures into the shared taxonomy. Duplicate
// keys surface as conflicts so a create racing past the pre-check still
// reports the duplicate; timeouts and unreachable servers are transient.
// Anything unrecognized is wrapped with the operation name and reaches the
// boundary as an internal error.
func mapStoreError(op string, err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return apperror.New(apperror.CodeConflict, "employee with this employee_id already exists")
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return apperror.New(apperror.CodeUnavailable, "employee store is unavailable")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
