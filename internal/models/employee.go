package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"employee-records/internal/apperror"
)

// DateLayout is the external calendar-date form of joining_date.
const DateLayout = "2006-01-02"

// EmployeeDocument is the stored shape of an employee record.
type EmployeeDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	EmployeeID  string             `bson:"employee_id"`
	Name        string             `bson:"name"`
	Department  string             `bson:"department"`
	Salary      float64            `bson:"salary"`
	JoiningDate time.Time          `bson:"joining_date"`
	Skills      []string           `bson:"skills"`
}

// Employee is the externally visible representation. The store identifier
// is rendered as a hex string and joining_date as a plain calendar date.
type Employee struct {
	ID          string   `json:"id"`
	EmployeeID  string   `json:"employee_id"`
	Name        string   `json:"name"`
	Department  string   `json:"department"`
	Salary      float64  `json:"salary"`
	JoiningDate string   `json:"joining_date"`
	Skills      []string `json:"skills"`
}

type EmployeeInput struct {
	EmployeeID  string   `json:"employee_id" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Department  string   `json:"department" binding:"required"`
	Salary      float64  `json:"salary" binding:"required,gt=0"`
	JoiningDate string   `json:"joining_date" binding:"required,datetime=2006-01-02"`
	Skills      []string `json:"skills" binding:"required"`
}

// EmployeeUpdate is a field-level partial update. Nil fields are left
// untouched; required fields cannot be cleared to empty.
type EmployeeUpdate struct {
	Name        *string   `json:"name" binding:"omitempty,min=1"`
	Department  *string   `json:"department" binding:"omitempty,min=1"`
	Salary      *float64  `json:"salary" binding:"omitempty,gt=0"`
	JoiningDate *string   `json:"joining_date" binding:"omitempty,datetime=2006-01-02"`
	Skills      *[]string `json:"skills"`
}

type DepartmentAverage struct {
	Department string  `json:"department" bson:"department"`
	AvgSalary  float64 `json:"avg_salary" bson:"avg_salary"`
}

// NormalizeDate parses a YYYY-MM-DD calendar date and pins it to midnight
// UTC so that sort ordering by joining_date is unambiguous.
func NormalizeDate(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, apperror.New(apperror.CodeInvalidArgument, "joining_date must be in YYYY-MM-DD format")
	}
	return parsed, nil
}

// Document converts validated input into its stored shape.
func (in EmployeeInput) Document() (EmployeeDocument, error) {
	joined, err := NormalizeDate(in.JoiningDate)
	if err != nil {
		return EmployeeDocument{}, err
	}

	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}

	return EmployeeDocument{
		EmployeeID:  in.EmployeeID,
		Name:        in.Name,
		Department:  in.Department,
		Salary:      in.Salary,
		JoiningDate: joined,
		Skills:      skills,
	}, nil
}

// DTO projects a stored document back to the external representation.
func (doc EmployeeDocument) DTO() Employee {
	skills := doc.Skills
	if skills == nil {
		skills = []string{}
	}

	return Employee{
		ID:          doc.ID.Hex(),
		EmployeeID:  doc.EmployeeID,
		Name:        doc.Name,
		Department:  doc.Department,
		Salary:      doc.Salary,
		JoiningDate: doc.JoiningDate.UTC().Format(DateLayout),
		Skills:      skills,
	}
}

// SetFields projects the present fields of a partial update into a
// $set-ready document. An empty map means there is nothing to apply.
func (u EmployeeUpdate) SetFields() (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Department != nil {
		fields["department"] = *u.Department
	}
	if u.Salary != nil {
		fields["salary"] = *u.Salary
	}
	if u.JoiningDate != nil {
		joined, err := NormalizeDate(*u.JoiningDate)
		if err != nil {
			return nil, err
		}
		fields["joining_date"] = joined
	}
	if u.Skills != nil {
		fields["skills"] = *u.Skills
	}

	return fields, nil
}
