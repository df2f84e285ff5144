package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roster/core/internal/domain/entities"
)

// WriteTable prints employees as fixed-width columns. Name and position
// are cut at 20 characters.
func WriteTable(w io.Writer, employees []entities.Employee) {
	if len(employees) == 0 {
		fmt.Fprintln(w, "No employees found.")
		return
	}

	fmt.Fprintf(w, "%-10s %-20s %-20s %-12s %s\n", "ID", "Name", "Position", "Salary", "Email")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, e := range employees {
		fmt.Fprintf(w, "%-10s %-20s %-20s %-12s %s\n", e.ID, truncate(e.Name, 20), truncate(e.Position, 20), e.Salary, e.Email)
	}
	fmt.Fprintln(w, rule)
}

// WriteDetails prints one employee, a field per line.
func WriteDetails(w io.Writer, e entities.Employee) {
	fmt.Fprintf(w, "ID: %s\n", e.ID)
	fmt.Fprintf(w, "Name: %s\n", e.Name)
	fmt.Fprintf(w, "Position: %s\n", e.Position)
	fmt.Fprintf(w, "Salary: %s\n", e.Salary)
	fmt.Fprintf(w, "Email: %s\n", e.Email)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
