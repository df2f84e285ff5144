package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/roster/core/internal/domain/validation"
)

func TestPrompter_AcceptsFirstValid(t *testing.T) {
	g := NewWithT(t)
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  42  \n"), &out, 3)

	v, err := p.Ask(Field{Name: "salary", Prompt: "Salary: ", Validate: validation.ValidSalary, ErrorMsg: "bad"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal("42"))
	g.Expect(out.String()).To(Equal("Salary: "))
}

func TestPrompter_RetriesThenAccepts(t *testing.T) {
	g := NewWithT(t)
	var out bytes.Buffer
	var invalid []string
	p := NewPrompter(strings.NewReader("abc\n-5\n10\n"), &out, 3)
	p.OnInvalid = func(field string) { invalid = append(invalid, field) }

	v, err := p.Ask(Field{Name: "salary", Prompt: "> ", Validate: validation.ValidSalary, ErrorMsg: "bad salary"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal("10"))
	g.Expect(invalid).To(Equal([]string{"salary", "salary"}))
	g.Expect(strings.Count(out.String(), "bad salary")).To(Equal(2))
}

func TestPrompter_AbandonsAfterMaxAttempts(t *testing.T) {
	g := NewWithT(t)
	var out bytes.Buffer
	abandoned := 0
	p := NewPrompter(strings.NewReader("x\ny\nz\nnever-read@x.com\n"), &out, 3)
	p.OnAbandon = func(string) { abandoned++ }

	_, err := p.Ask(Field{Name: "email", Prompt: "> ", Validate: validation.ValidEmail, ErrorMsg: "bad"})
	g.Expect(err).To(MatchError(ErrAbandoned))
	g.Expect(abandoned).To(Equal(1))
	g.Expect(out.String()).To(ContainSubstring("Maximum attempts reached"))

	next, err := p.ReadLine()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(next).To(Equal("never-read@x.com"))
}

func TestPrompter_AllowEmpty(t *testing.T) {
	g := NewWithT(t)
	p := NewPrompter(strings.NewReader("\nbad\n"), io.Discard, 1)
	f := Field{Name: "email", Validate: validation.ValidEmail, AllowEmpty: true}

	v, err := p.Ask(f)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(BeEmpty())

	_, err = p.Ask(f)
	g.Expect(err).To(MatchError(ErrAbandoned), "non-empty answers are still validated")
}

func TestPrompter_EOF(t *testing.T) {
	g := NewWithT(t)
	p := NewPrompter(strings.NewReader("last"), io.Discard, 3)

	v, err := p.Ask(Field{Name: "name"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal("last"))

	_, err = p.Ask(Field{Name: "name"})
	g.Expect(err).To(MatchError(io.EOF))
}

func TestPromptState_String(t *testing.T) {
	g := NewWithT(t)
	g.Expect(StatePrompting.String()).To(Equal("prompting"))
	g.Expect(StateAbandoned.String()).To(Equal("abandoned"))
	g.Expect(PromptState(9).String()).To(Equal("PromptState(9)"))
}
