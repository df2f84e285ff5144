package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/roster/core/internal/domain/entities"
	"github.com/roster/core/internal/domain/validation"
	"github.com/roster/core/internal/infrastructure/logger"
	"github.com/roster/core/internal/infrastructure/metrics"
	"github.com/roster/core/internal/ports"
)

// EmployeeService handles roster operations on top of the record store
type EmployeeService struct {
	repo     ports.EmployeeRepository
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(repo ports.EmployeeRepository, m *metrics.Metrics, logger *logger.Logger) *EmployeeService {
	return &EmployeeService{
		repo:     repo,
		validate: validation.New(),
		metrics:  m,
		logger:   logger.WithComponent("employee_service"),
	}
}

// Path returns the roster file in use
func (s *EmployeeService) Path() string {
	return s.repo.Path()
}

// Contains implements validation.IDSet
func (s *EmployeeService) Contains(id string) bool {
	return s.repo.Contains(id)
}

// Count returns the number of employees
func (s *EmployeeService) Count() int {
	return s.repo.Len()
}

// AddEmployee stores a new employee
func (s *EmployeeService) AddEmployee(ctx context.Context, employee entities.Employee) error {
	if err := validation.Employee(s.validate, employee); err != nil {
		return err
	}

	if err := s.timed(func() error { return s.repo.Add(ctx, employee) }); err != nil {
		s.logger.WithError(err).Errorw("Failed to add employee", "employee_id", employee.ID)
		return fmt.Errorf("failed to add employee: %w", err)
	}

	s.metrics.Mutation("add")
	s.logger.LogMutation("add", employee.ID, s.repo.Len())
	return nil
}

// UpdateEmployee overwrites the non-empty fields of update
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id string, update entities.EmployeeUpdate) (entities.Employee, error) {
	if update.Salary != "" && !validation.ValidSalary(update.Salary) {
		return entities.Employee{}, fmt.Errorf("%w: salary %q", entities.ErrInvalidEmployee, update.Salary)
	}
	if update.Email != "" && !validation.ValidEmail(update.Email) {
		return entities.Employee{}, fmt.Errorf("%w: email %q", entities.ErrInvalidEmployee, update.Email)
	}

	if err := s.timed(func() error { return s.repo.Update(ctx, id, update) }); err != nil {
		s.logger.WithError(err).Errorw("Failed to update employee", "employee_id", id)
		return entities.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}

	s.metrics.Mutation("update")
	s.logger.LogMutation("update", id, s.repo.Len())

	employee, _ := s.repo.Find(id)
	return employee, nil
}

// DeleteEmployee removes an employee
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.timed(func() error { return s.repo.Delete(ctx, id) }); err != nil {
		s.logger.WithError(err).Errorw("Failed to delete employee", "employee_id", id)
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.metrics.Mutation("delete")
	s.logger.LogMutation("delete", id, s.repo.Len())
	return nil
}

// GetEmployee retrieves an employee by ID
func (s *EmployeeService) GetEmployee(id string) (entities.Employee, error) {
	employee, ok := s.repo.Find(id)
	if !ok {
		return entities.Employee{}, entities.ErrEmployeeNotFound
	}
	return employee, nil
}

// ListEmployees returns all employees ordered by ID
func (s *EmployeeService) ListEmployees() []entities.Employee {
	return s.repo.List()
}

// timed runs a persisting repository call and records the save metrics.
// Precondition failures never reach the file and are not counted.
func (s *EmployeeService) timed(fn func() error) error {
	start := time.Now()
	err := fn()
	if err != nil && isPrecondition(err) {
		return err
	}
	s.metrics.Save(time.Since(start), err)
	return err
}

func isPrecondition(err error) bool {
	return errors.Is(err, entities.ErrEmployeeNotFound) || errors.Is(err, entities.ErrDuplicateID)
}
