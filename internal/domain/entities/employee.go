package entities

import "errors"

// Common errors
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDuplicateID      = errors.New("employee id already exists")
	ErrInvalidEmployee  = errors.New("invalid employee")
)

// Column names of the persistence file, in order.
const (
	FieldID       = "ID"
	FieldName     = "Name"
	FieldPosition = "Position"
	FieldSalary   = "Salary"
	FieldEmail    = "Email"
)

// Fields is the header row of the persistence file.
var Fields = []string{FieldID, FieldName, FieldPosition, FieldSalary, FieldEmail}

// Employee represents a single roster entry. Salary is kept as text exactly
// as it was entered or loaded.
type Employee struct {
	ID       string `validate:"required,employee_id"`
	Name     string `validate:"required"`
	Position string `validate:"required"`
	Salary   string `validate:"required,salary"`
	Email    string `validate:"required,roster_email"`
}

// EmployeeUpdate carries replacement values for an existing employee.
// Empty fields leave the stored value unchanged.
type EmployeeUpdate struct {
	Name     string
	Position string
	Salary   string
	Email    string
}

// IsEmpty reports whether the update would change nothing.
func (u EmployeeUpdate) IsEmpty() bool {
	return u.Name == "" && u.Position == "" && u.Salary == "" && u.Email == ""
}

// Apply overwrites every non-empty field of u onto e.
func (e *Employee) Apply(u EmployeeUpdate) {
	if u.Name != "" {
		e.Name = u.Name
	}
	if u.Position != "" {
		e.Position = u.Position
	}
	if u.Salary != "" {
		e.Salary = u.Salary
	}
	if u.Email != "" {
		e.Email = u.Email
	}
}

// Record returns the employee as a persistence row in Fields order.
func (e Employee) Record() []string {
	return []string{e.ID, e.Name, e.Position, e.Salary, e.Email}
}
