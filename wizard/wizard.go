// Package wizard drives multi-step guided data entry. A session walks an
// ordered step list, validating and accumulating answers; steps may be
// conditionally skipped, and a submission only clears state after the caller
// confirms the write landed.
package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	ErrAtFinalStep = errors.New("already at the final step")
	ErrAtFirstStep = errors.New("already at the first step")
	ErrNotAtFinal  = errors.New("submit is only valid at the final step")
)

// ValidationError rejects a step's input without advancing the wizard.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

type FieldKind int

const (
	FieldYesNo FieldKind = iota
	FieldInt
	FieldDecimal
	FieldText
	FieldChoice
)

type Field struct {
	Name    string
	Kind    FieldKind
	Rule    string // validator tag applied to the parsed value
	Choices []string
	// Optional fields accept an empty value; the rule only applies when
	// something was entered.
	Optional bool
}

type Step struct {
	Name   string
	Fields []Field
	// SkipWhen, when set and true at navigation time, removes the step from
	// the effective flow.
	SkipWhen func() bool
}

type Definition struct {
	Name  string
	Steps []Step
}

var validate = validator.New()

// Session is per-user wizard state. It is confined to one login session and
// guarded for the shared-manager case.
type Session struct {
	mu      sync.Mutex
	def     *Definition
	idx     int
	answers map[int]map[string]string
}

func NewSession(def *Definition) *Session {
	s := &Session{def: def, answers: make(map[int]map[string]string)}
	s.idx = s.firstEffective()
	return s
}

// Step returns the 1-based position of the current step.
func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx + 1
}

func (s *Session) StepName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.def.Steps[s.idx].Name
}

func (s *Session) CurrentFields() []Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.def.Steps[s.idx].Fields
}

// Next validates the current step's input, merges it, and advances past any
// skipped steps. Advancing from the final effective step is blocked without
// mutating anything.
func (s *Session) Next(input map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.nextEffective(s.idx)
	if next < 0 {
		return ErrAtFinalStep
	}

	answers, err := validateStep(s.def.Steps[s.idx].Fields, input)
	if err != nil {
		return err
	}

	s.answers[s.idx] = answers
	s.idx = next
	return nil
}

// Back returns to the previous effective step. Answers recorded for the step
// being left are discarded; earlier steps keep theirs.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.prevEffective(s.idx)
	if prev < 0 {
		return ErrAtFirstStep
	}

	delete(s.answers, s.idx)
	s.idx = prev
	return nil
}

// Submit validates the final step's input and returns the full accumulated
// answer set. It never resets the session: the caller resets only after the
// write is confirmed, so a failed submission can be retried as-is.
func (s *Session) Submit(input map[string]string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextEffective(s.idx) >= 0 {
		return nil, ErrNotAtFinal
	}

	final, err := validateStep(s.def.Steps[s.idx].Fields, input)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string)
	for i := 0; i < len(s.def.Steps); i++ {
		for k, v := range s.answers[i] {
			merged[k] = v
		}
	}
	for k, v := range final {
		merged[k] = v
	}
	return merged, nil
}

// Reset clears the accumulator and returns to the first step. Only call
// after a confirmed write (or on logout).
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = make(map[int]map[string]string)
	s.idx = s.firstEffective()
}

// Answers returns a merged copy of everything recorded so far.
func (s *Session) Answers() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := make(map[string]string)
	for i := 0; i < len(s.def.Steps); i++ {
		for k, v := range s.answers[i] {
			merged[k] = v
		}
	}
	return merged
}

func (s *Session) firstEffective() int {
	for i := range s.def.Steps {
		if !skipped(s.def.Steps[i]) {
			return i
		}
	}
	return 0
}

func (s *Session) nextEffective(from int) int {
	for i := from + 1; i < len(s.def.Steps); i++ {
		if !skipped(s.def.Steps[i]) {
			return i
		}
	}
	return -1
}

func (s *Session) prevEffective(from int) int {
	for i := from - 1; i >= 0; i-- {
		if !skipped(s.def.Steps[i]) {
			return i
		}
	}
	return -1
}

func skipped(st Step) bool {
	return st.SkipWhen != nil && st.SkipWhen()
}

func validateStep(fields []Field, input map[string]string) (map[string]string, error) {
	answers := make(map[string]string, len(fields))
	problems := make(map[string]string)

	for _, f := range fields {
		raw, ok := input[f.Name]
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			if f.Optional {
				answers[f.Name] = ""
				continue
			}
			problems[f.Name] = "required"
			continue
		}

		switch f.Kind {
		case FieldYesNo:
			if raw != "Yes" && raw != "No" {
				problems[f.Name] = "must be Yes or No"
				continue
			}
			answers[f.Name] = raw

		case FieldInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				problems[f.Name] = "must be an integer"
				continue
			}
			if f.Rule != "" {
				if err := validate.Var(n, f.Rule); err != nil {
					problems[f.Name] = fmt.Sprintf("failed on the '%s' rule", f.Rule)
					continue
				}
			}
			answers[f.Name] = strconv.Itoa(n)

		case FieldDecimal:
			d, err := decimal.NewFromString(raw)
			if err != nil {
				problems[f.Name] = "must be a number"
				continue
			}
			if d.IsNegative() {
				problems[f.Name] = "must not be negative"
				continue
			}
			answers[f.Name] = d.String()

		case FieldText:
			if f.Rule != "" {
				if err := validate.Var(raw, f.Rule); err != nil {
					problems[f.Name] = fmt.Sprintf("failed on the '%s' rule", f.Rule)
					continue
				}
			}
			answers[f.Name] = raw

		case FieldChoice:
			found := false
			for _, c := range f.Choices {
				if raw == c {
					found = true
					break
				}
			}
			if !found {
				problems[f.Name] = "not an allowed choice"
				continue
			}
			answers[f.Name] = raw
		}
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Fields: problems}
	}
	return answers, nil
}
