package ports

import (
	"context"

	"github.com/roster/core/internal/domain/entities"
)

// EmployeeRepository defines the record store operations. Every mutator
// persists the whole roster before returning nil.
type EmployeeRepository interface {
	Load(ctx context.Context) error
	Add(ctx context.Context, employee entities.Employee) error
	Update(ctx context.Context, id string, update entities.EmployeeUpdate) error
	Delete(ctx context.Context, id string) error
	Find(id string) (entities.Employee, bool)
	List() []entities.Employee
	Contains(id string) bool
	Len() int
	Path() string
}
