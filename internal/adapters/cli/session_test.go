package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"

	"github.com/roster/core/internal/adapters/repository"
	"github.com/roster/core/internal/application/services"
	"github.com/roster/core/internal/domain/entities"
	"github.com/roster/core/internal/infrastructure/logger"
	"github.com/roster/core/internal/infrastructure/metrics"
)

const path = "/employees.csv"

type harness struct {
	fs      afero.Fs
	svc     *services.EmployeeService
	metrics *metrics.Metrics
	out     bytes.Buffer
}

func newHarness(t *testing.T, fs afero.Fs, seed ...entities.Employee) *harness {
	t.Helper()
	h := &harness{fs: fs, metrics: metrics.New()}
	repo := repository.NewCSVRepository(fs, path, nil)
	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, e := range seed {
		if err := repo.Add(context.Background(), e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	h.svc = services.NewEmployeeService(repo, h.metrics, logger.NewNop())
	return h
}

func (h *harness) run(t *testing.T, input ...string) error {
	t.Helper()
	in := strings.NewReader(strings.Join(input, "\n") + "\n")
	s := NewSession(h.svc, in, &h.out, Options{MaxAttempts: 3, Recorder: h.metrics})
	return s.Run(context.Background())
}

var ann = entities.Employee{ID: "1", Name: "Ann", Position: "Eng", Salary: "50000", Email: "ann@x.com"}

func TestSession_AddAndExit(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t, afero.NewMemMapFs())

	err := h.run(t, "1", "1", "Ann", "Eng", "50000", "ann@x.com", "6")
	g.Expect(err).NotTo(HaveOccurred())

	got, err := h.svc.GetEmployee("1")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got).To(Equal(ann))
	g.Expect(h.out.String()).To(ContainSubstring("✅ Employee Ann added successfully."))
	g.Expect(h.out.String()).To(HaveSuffix("👋 Goodbye.\n"))

	data, _ := afero.ReadFile(h.fs, path)
	g.Expect(string(data)).To(ContainSubstring("1,Ann,Eng,50000,ann@x.com"))
}

func TestSession_InvalidChoice(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t, afero.NewMemMapFs())

	g.Expect(h.run(t, "9", "add", "6")).To(Succeed())
	g.Expect(strings.Count(h.out.String(), "⚠️ Invalid choice, please try again.")).To(Equal(2))
}

func TestSession_AddAbandonedLeavesStoreUntouched(t *testing.T) {
	g := NewWithT(t)
	fs := afero.NewMemMapFs()
	h := newHarness(t, fs, ann)
	before, _ := afero.ReadFile(fs, path)

	// Duplicate, non-numeric, empty: three strikes.
	g.Expect(h.run(t, "1", "1", "abc", "", "5")).To(Succeed())

	g.Expect(h.svc.Count()).To(Equal(1))
	g.Expect(h.out.String()).To(ContainSubstring("Maximum attempts reached. Returning to main menu."))
	g.Expect(h.out.String()).To(ContainSubstring("📋 Employee List"))
	after, _ := afero.ReadFile(fs, path)
	g.Expect(after).To(Equal(before))

	reg := h.metrics.Registry()
	g.Expect(testutil.GatherAndCount(reg, "roster_prompts_abandoned_total")).To(Equal(1))
	g.Expect(testutil.GatherAndCount(reg, "roster_validation_failures_total")).To(Equal(1))
}

func TestSession_AbandonLaterField(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t, afero.NewMemMapFs())

	g.Expect(h.run(t, "1", "2", "Bob", "Ops", "x", "-1", "free", "6")).To(Succeed())
	g.Expect(h.svc.Count()).To(Equal(0))
}

func TestSession_UpdateBlankKeepsValues(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t, afero.NewMemMapFs(), ann)

	g.Expect(h.run(t, "2", "1", "", "", "60000", "", "6")).To(Succeed())

	got, _ := h.svc.GetEmployee("1")
	g.Expect(got).To(Equal(entities.Employee{ID: "1", Name: "Ann", Position: "Eng", Salary: "60000", Email: "ann@x.com"}))
	g.Expect(h.out.String()).To(ContainSubstring("Name [Ann]: "))
	g.Expect(h.out.String()).To(ContainSubstring("Salary [50000]: "))
	g.Expect(h.out.String()).To(ContainSubstring("✅ Employee updated successfully."))
}

func TestSession_UpdateUnknownID(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t, afero.NewMemMapFs(), ann)

	g.Expect(h.run(t, "2", "7", "8", "9", "6")).To(Succeed())
	g.Expect(strings.Count(h.out.String(), "❌ Employee not found.")).To(Equal(3))
	g.Expect(h.out.String()).NotTo(ContainSubstring("Leave the field empty"))
}

func TestSession_DeleteRequiresConfirmation(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t, afero.NewMemMapFs(), ann)

	g.Expect(h.run(t, "3", "1", "n", "6")).To(Succeed())
	g.Expect(h.svc.Count()).To(Equal(1))
	g.Expect(h.out.String()).To(ContainSubstring("Are you sure you want to delete Ann? (y/n): "))
	g.Expect(h.out.String()).To(ContainSubstring("❌ Delete cancelled."))

	h.out.Reset()
	g.Expect(h.run(t, "3", "1", " Y ", "6")).To(Succeed())
	g.Expect(h.svc.Count()).To(Equal(0))
	g.Expect(h.out.String()).To(ContainSubstring("✅ Employee deleted."))
}

func TestSession_Search(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t, afero.NewMemMapFs(), ann)

	g.Expect(h.run(t, "4", "1", "6")).To(Succeed())
	g.Expect(h.out.String()).To(ContainSubstring("Employee Details:\nID: 1\nName: Ann\nPosition: Eng\nSalary: 50000\nEmail: ann@x.com\n"))
}

func TestSession_ListSortedAndTruncated(t *testing.T) {
	g := NewWithT(t)
	long := entities.Employee{ID: "10", Name: "Bartholomew Montgomery-Smythe", Position: "Chief", Salary: "1", Email: "b@x.com"}
	h := newHarness(t, afero.NewMemMapFs(), long, ann)

	g.Expect(h.run(t, "5", "6")).To(Succeed())

	out := h.out.String()
	g.Expect(out).To(ContainSubstring("1          Ann                  Eng                  50000        ann@x.com\n"))
	g.Expect(out).To(ContainSubstring("10         Bartholomew Montgome Chief                1            b@x.com\n"))
	g.Expect(strings.Index(out, "1          Ann")).To(BeNumerically("<", strings.Index(out, "10         Bart")))
}

func TestSession_ListEmpty(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t, afero.NewMemMapFs())

	g.Expect(h.run(t, "5", "6")).To(Succeed())
	g.Expect(h.out.String()).To(ContainSubstring("No employees found."))
}

func TestSession_EOFExitsCleanly(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t, afero.NewMemMapFs())

	s := NewSession(h.svc, strings.NewReader("1\n5"), &h.out, Options{MaxAttempts: 3})
	g.Expect(s.Run(context.Background())).To(Succeed())
	g.Expect(h.svc.Count()).To(Equal(0))
	g.Expect(h.out.String()).To(HaveSuffix("👋 Goodbye.\n"))
}

func TestSession_CanceledContextFailsSaves(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t, afero.NewMemMapFs())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := strings.NewReader("1\n1\nAnn\nEng\n50000\nann@x.com\n6\n")
	s := NewSession(h.svc, in, &h.out, Options{MaxAttempts: 3})
	g.Expect(s.Run(ctx)).To(Succeed())

	g.Expect(h.out.String()).To(ContainSubstring("❌ Operation failed:"))
	g.Expect(h.out.String()).To(ContainSubstring("context canceled"))
	g.Expect(h.svc.Count()).To(Equal(0))
	exists, _ := afero.Exists(h.fs, path)
	g.Expect(exists).To(BeFalse())
}

func TestSession_SaveFailureReturnsToMenu(t *testing.T) {
	g := NewWithT(t)
	mem := afero.NewMemMapFs()
	g.Expect(afero.WriteFile(mem, path, []byte("ID,Name,Position,Salary,Email\n2,Bo,Ops,1,bo@x.com\n"), 0o644)).To(Succeed())
	h := newHarness(t, afero.NewReadOnlyFs(mem))

	g.Expect(h.run(t, "1", "1", "Ann", "Eng", "50000", "ann@x.com", "5", "6")).To(Succeed())

	g.Expect(h.out.String()).To(ContainSubstring("❌ Operation failed:"))
	g.Expect(h.out.String()).NotTo(ContainSubstring("added successfully"))
	g.Expect(h.svc.Count()).To(Equal(1))
	data, _ := afero.ReadFile(mem, path)
	g.Expect(string(data)).To(Equal("ID,Name,Position,Salary,Email\n2,Bo,Ops,1,bo@x.com\n"))
}
