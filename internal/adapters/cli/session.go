// Package cli implements the interactive roster menu.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roster/core/internal/domain/entities"
	"github.com/roster/core/internal/domain/validation"
	"github.com/roster/core/internal/infrastructure/logger"
)

const rule = "------------------------------------------------------------"

// Roster is what the session needs from the employee service.
type Roster interface {
	validation.IDSet
	AddEmployee(ctx context.Context, employee entities.Employee) error
	UpdateEmployee(ctx context.Context, id string, update entities.EmployeeUpdate) (entities.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	GetEmployee(id string) (entities.Employee, error)
	ListEmployees() []entities.Employee
}

// Recorder receives prompt outcomes; *metrics.Metrics satisfies it.
type Recorder interface {
	ValidationFailure(field string)
	PromptAbandoned()
}

// Options configures a Session.
type Options struct {
	AppName     string
	MaxAttempts int
	Recorder    Recorder
	Logger      *logger.Logger
}

// Session is one run of the interactive menu.
type Session struct {
	roster  Roster
	prompt  *Prompter
	out     io.Writer
	appName string
	logger  *logger.Logger
}

// NewSession wires a menu session reading from in and writing to out.
func NewSession(roster Roster, in io.Reader, out io.Writer, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.AppName == "" {
		opts.AppName = "Employee Management System"
	}

	p := NewPrompter(in, out, opts.MaxAttempts)
	if opts.Recorder != nil {
		p.OnInvalid = opts.Recorder.ValidationFailure
		p.OnAbandon = func(string) { opts.Recorder.PromptAbandoned() }
	}

	return &Session{
		roster:  roster,
		prompt:  p,
		out:     out,
		appName: opts.AppName,
		logger:  opts.Logger.WithComponent("session"),
	}
}

// Run shows the menu until the user exits or input ends. ctx is handed to
// every store call; interrupts are the caller's business.
func (s *Session) Run(ctx context.Context) error {
	s.println(strings.Repeat("=", 60))
	s.printf("👋 Welcome to the %s\n", s.appName)
	s.println("Available actions: add, update, delete, search, list, exit")
	s.println(strings.Repeat("=", 60))

	for {
		s.println("\nMenu:")
		s.println("1. add")
		s.println("2. update")
		s.println("3. delete")
		s.println("4. search")
		s.println("5. list")
		s.println("6. exit")
		fmt.Fprint(s.out, "Choose an option: ")

		choice, err := s.prompt.ReadLine()
		if err != nil {
			return s.finish(err)
		}

		switch choice {
		case "1":
			err = s.add(ctx)
		case "2":
			err = s.update(ctx)
		case "3":
			err = s.delete(ctx)
		case "4":
			err = s.search()
		case "5":
			s.list()
		case "6":
			s.println("👋 Goodbye.")
			return nil
		default:
			s.println("⚠️ Invalid choice, please try again.")
			continue
		}

		switch {
		case err == nil, errors.Is(err, ErrAbandoned):
		case errors.Is(err, io.EOF):
			return s.finish(err)
		default:
			// The file on disk still holds the last successful save.
			s.logger.WithError(err).Errorw("Operation failed", "choice", choice)
			s.printf("❌ Operation failed: %v\n", err)
			s.println(rule)
		}
	}
}

func (s *Session) finish(err error) error {
	s.println("\n👋 Goodbye.")
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Session) add(ctx context.Context) error {
	s.println("\n➕ Add New Employee")

	fields := []Field{
		{
			Name:     "id",
			Prompt:   "Enter Employee ID (numbers only): ",
			Validate: func(v string) bool { return validation.ValidID(v, s.roster) },
			ErrorMsg: "⚠️ Invalid ID (must be numeric, unique, and not empty).",
		},
		{Name: "name", Prompt: "Enter Employee Name: ", Validate: validation.NotEmpty, ErrorMsg: "⚠️ Name cannot be empty."},
		{Name: "position", Prompt: "Enter Position: ", Validate: validation.NotEmpty, ErrorMsg: "⚠️ Position cannot be empty."},
		{Name: "salary", Prompt: "Enter Salary: ", Validate: validation.ValidSalary, ErrorMsg: "⚠️ Salary must be a valid non-negative number."},
		{Name: "email", Prompt: "Enter Email: ", Validate: validation.ValidEmail, ErrorMsg: "⚠️ Invalid email format."},
	}

	values := make([]string, len(fields))
	for i, f := range fields {
		v, err := s.prompt.Ask(f)
		if err != nil {
			return err
		}
		values[i] = v
	}

	employee := entities.Employee{
		ID:       values[0],
		Name:     values[1],
		Position: values[2],
		Salary:   values[3],
		Email:    values[4],
	}
	if err := s.roster.AddEmployee(ctx, employee); err != nil {
		return err
	}

	s.printf("✅ Employee %s added successfully.\n", employee.Name)
	s.println(rule)
	return nil
}

func (s *Session) askExisting(action string) (entities.Employee, error) {
	id, err := s.prompt.Ask(Field{
		Name:     "id",
		Prompt:   fmt.Sprintf("Enter Employee ID to %s: ", action),
		Validate: func(v string) bool { return validation.ExistingID(v, s.roster) },
		ErrorMsg: "❌ Employee not found.",
	})
	if err != nil {
		return entities.Employee{}, err
	}
	return s.roster.GetEmployee(id)
}

func (s *Session) update(ctx context.Context) error {
	s.println("\n✏️ Update Employee")
	current, err := s.askExisting("update")
	if err != nil {
		return err
	}
	s.println("Leave the field empty if you don't want to change it.")

	fields := []Field{
		{Name: "name", Prompt: fmt.Sprintf("Name [%s]: ", current.Name), AllowEmpty: true},
		{Name: "position", Prompt: fmt.Sprintf("Position [%s]: ", current.Position), AllowEmpty: true},
		{Name: "salary", Prompt: fmt.Sprintf("Salary [%s]: ", current.Salary), Validate: validation.ValidSalary, ErrorMsg: "⚠️ Invalid salary.", AllowEmpty: true},
		{Name: "email", Prompt: fmt.Sprintf("Email [%s]: ", current.Email), Validate: validation.ValidEmail, ErrorMsg: "⚠️ Invalid email format.", AllowEmpty: true},
	}

	values := make([]string, len(fields))
	for i, f := range fields {
		v, err := s.prompt.Ask(f)
		if err != nil {
			return err
		}
		values[i] = v
	}

	update := entities.EmployeeUpdate{Name: values[0], Position: values[1], Salary: values[2], Email: values[3]}
	if _, err := s.roster.UpdateEmployee(ctx, current.ID, update); err != nil {
		return err
	}

	s.println("✅ Employee updated successfully.")
	s.println(rule)
	return nil
}

func (s *Session) delete(ctx context.Context) error {
	s.println("\n🗑 Delete Employee")
	current, err := s.askExisting("delete")
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Are you sure you want to delete %s? (y/n): ", current.Name)
	answer, err := s.prompt.ReadLine()
	if err != nil {
		return err
	}

	if strings.ToLower(answer) == "y" {
		if err := s.roster.DeleteEmployee(ctx, current.ID); err != nil {
			return err
		}
		s.println("✅ Employee deleted.")
	} else {
		s.println("❌ Delete cancelled.")
	}
	s.println(rule)
	return nil
}

func (s *Session) search() error {
	s.println("\n🔍 Search Employee")
	emp, err := s.askExisting("search")
	if err != nil {
		return err
	}

	s.println("Employee Details:")
	WriteDetails(s.out, emp)
	s.println(rule)
	return nil
}

func (s *Session) list() {
	s.println("\n📋 Employee List")
	WriteTable(s.out, s.roster.ListEmployees())
}

func (s *Session) println(a ...interface{}) {
	fmt.Fprintln(s.out, a...)
}

func (s *Session) printf(format string, a ...interface{}) {
	fmt.Fprintf(s.out, format, a...)
}
