package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/roster/core/internal/domain/entities"
	"github.com/roster/core/internal/infrastructure/logger"
	"github.com/roster/core/internal/ports"
)

const tempSuffix = ".tmp"

// CSVRepositoryImpl keeps the roster in memory and rewrites the whole CSV
// file after every change. It is not safe for concurrent use.
type CSVRepositoryImpl struct {
	fs     afero.Fs
	path   string
	logger *logger.Logger

	employees map[string]entities.Employee
	// order is the insertion order used when writing rows.
	order []string
}

// NewCSVRepository creates a store for the file at path. Nothing is read
// until Load is called.
func NewCSVRepository(fs afero.Fs, path string, log *logger.Logger) *CSVRepositoryImpl {
	if log == nil {
		log = logger.NewNop()
	}
	return &CSVRepositoryImpl{
		fs:        fs,
		path:      path,
		logger:    log.WithComponent("csv_store"),
		employees: make(map[string]entities.Employee),
	}
}

var _ ports.EmployeeRepository = (*CSVRepositoryImpl)(nil)

// Path returns the persistence file.
func (r *CSVRepositoryImpl) Path() string {
	return r.path
}

// Load replaces the in-memory roster with the file contents. A missing or
// empty file yields an empty roster. Loaded values are not validated.
func (r *CSVRepositoryImpl) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.employees = make(map[string]entities.Employee)
	r.order = nil

	info, err := r.fs.Stat(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Debugw("Roster file not found, starting empty", "path", r.path)
			return nil
		}
		return fmt.Errorf("stat roster file: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}

	f, err := r.fs.Open(r.path)
	if err != nil {
		return fmt.Errorf("open roster file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read roster header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read roster row: %w", err)
		}

		id := field(row, entities.FieldID)
		if id == "" {
			continue
		}
		r.put(entities.Employee{
			ID:       id,
			Name:     field(row, entities.FieldName),
			Position: field(row, entities.FieldPosition),
			Salary:   field(row, entities.FieldSalary),
			Email:    field(row, entities.FieldEmail),
		})
	}

	r.logger.Debugw("Roster loaded", "path", r.path, "records", len(r.employees))
	return nil
}

// Save rewrites the persistence file from memory. Rows are written to a
// sibling temp file which is then renamed over the target.
func (r *CSVRepositoryImpl) Save(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		r.logger.LogSave(r.path, len(r.order), float64(time.Since(start).Microseconds())/1000, err)
	}()

	tmp := r.path + tempSuffix
	if err := r.writeFile(tmp); err != nil {
		_ = r.fs.Remove(tmp)
		return err
	}

	if err := r.fs.Rename(tmp, r.path); err != nil {
		_ = r.fs.Remove(tmp)
		return fmt.Errorf("replace roster file: %w", err)
	}

	return nil
}

func (r *CSVRepositoryImpl) writeFile(name string) error {
	f, err := r.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp roster file: %w", err)
	}

	w := csv.NewWriter(f)
	w.UseCRLF = true
	if err := w.Write(entities.Fields); err != nil {
		f.Close()
		return fmt.Errorf("write roster header: %w", err)
	}
	for _, id := range r.order {
		if err := w.Write(r.employees[id].Record()); err != nil {
			f.Close()
			return fmt.Errorf("write roster row %s: %w", id, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush roster file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync roster file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close roster file: %w", err)
	}
	return nil
}

// Add inserts a new employee and saves. Field syntax is the caller's job.
func (r *CSVRepositoryImpl) Add(ctx context.Context, employee entities.Employee) error {
	if _, exists := r.employees[employee.ID]; exists {
		return fmt.Errorf("add employee %s: %w", employee.ID, entities.ErrDuplicateID)
	}

	r.put(employee)
	if err := r.Save(ctx); err != nil {
		r.remove(employee.ID)
		return fmt.Errorf("add employee %s: %w", employee.ID, err)
	}
	return nil
}

// Update overwrites the non-empty fields of update and saves.
func (r *CSVRepositoryImpl) Update(ctx context.Context, id string, update entities.EmployeeUpdate) error {
	current, ok := r.employees[id]
	if !ok {
		return fmt.Errorf("update employee %s: %w", id, entities.ErrEmployeeNotFound)
	}

	next := current
	next.Apply(update)
	r.employees[id] = next
	if err := r.Save(ctx); err != nil {
		r.employees[id] = current
		return fmt.Errorf("update employee %s: %w", id, err)
	}
	return nil
}

// Delete removes the employee and saves.
func (r *CSVRepositoryImpl) Delete(ctx context.Context, id string) error {
	current, ok := r.employees[id]
	if !ok {
		return fmt.Errorf("delete employee %s: %w", id, entities.ErrEmployeeNotFound)
	}

	pos := r.remove(id)
	if err := r.Save(ctx); err != nil {
		r.employees[id] = current
		r.order = append(r.order[:pos], append([]string{id}, r.order[pos:]...)...)
		return fmt.Errorf("delete employee %s: %w", id, err)
	}
	return nil
}

// Find looks up a single employee.
func (r *CSVRepositoryImpl) Find(id string) (entities.Employee, bool) {
	e, ok := r.employees[id]
	return e, ok
}

// List returns every employee ordered by id.
func (r *CSVRepositoryImpl) List() []entities.Employee {
	out := make([]entities.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Contains reports whether id is in use.
func (r *CSVRepositoryImpl) Contains(id string) bool {
	_, ok := r.employees[id]
	return ok
}

// Len returns the number of employees.
func (r *CSVRepositoryImpl) Len() int {
	return len(r.employees)
}

// put inserts or replaces e. A later row with the same id replaces the
// earlier one in place.
func (r *CSVRepositoryImpl) put(e entities.Employee) {
	if _, exists := r.employees[e.ID]; !exists {
		r.order = append(r.order, e.ID)
	}
	r.employees[e.ID] = e
}

// remove drops id and returns its former position in the write order.
func (r *CSVRepositoryImpl) remove(id string) int {
	delete(r.employees, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return i
		}
	}
	return len(r.order)
}
