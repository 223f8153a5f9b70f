package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Prompter asks the operator single questions.
type Prompter interface {
	// Input asks for a line of text. An empty answer yields defaultValue.
	Input(title, description, defaultValue string) (string, error)

	// Password asks for a secret without echoing it.
	Password(title, description string) (string, error)

	// Confirm asks a yes/no question.
	Confirm(title, description string, defaultValue bool) (bool, error)

	// Select asks for one of options.
	Select(title string, options []string, defaultValue string) (string, error)
}

// NewPrompter returns a huh-backed Prompter, or one that answers every
// question with its default when hm reports headless mode.
func NewPrompter(hm *HeadlessManager) Prompter {
	if hm.IsHeadless() {
		return HeadlessPrompter{}
	}
	return &formPrompter{theme: huhTheme()}
}

// formPrompter runs one huh form per question.
type formPrompter struct {
	theme *huh.Theme
}

func (p *formPrompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(p.theme).
		WithAccessible(false)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}

// Input implements Prompter.
func (p *formPrompter) Input(title, description, defaultValue string) (string, error) {
	var value string
	inp := huh.NewInput().
		Title(title).
		Description(description).
		Value(&value)
	if defaultValue != "" {
		inp = inp.Placeholder(defaultValue)
	}
	if err := p.run(inp); err != nil {
		return "", err
	}
	if v := strings.TrimSpace(value); v != "" {
		return v, nil
	}
	return defaultValue, nil
}

// Password implements Prompter.
func (p *formPrompter) Password(title, description string) (string, error) {
	var value string
	inp := huh.NewInput().
		Title(title).
		Description(description).
		EchoMode(huh.EchoModePassword).
		Value(&value)
	if err := p.run(inp); err != nil {
		return "", err
	}
	return value, nil
}

// Confirm implements Prompter.
func (p *formPrompter) Confirm(title, description string, defaultValue bool) (bool, error) {
	value := defaultValue
	c := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&value)
	if err := p.run(c); err != nil {
		return false, err
	}
	return value, nil
}

// Select implements Prompter.
func (p *formPrompter) Select(title string, options []string, defaultValue string) (string, error) {
	value := defaultValue
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, o)
	}
	sel := huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&value)
	if err := p.run(sel); err != nil {
		return "", err
	}
	return value, nil
}

// HeadlessPrompter answers every question with its default.
type HeadlessPrompter struct{}

// Compile-time interface compliance check.
var _ Prompter = HeadlessPrompter{}

// Input implements Prompter.
func (HeadlessPrompter) Input(_, _, defaultValue string) (string, error) {
	return defaultValue, nil
}

// Password implements Prompter. There is no default secret.
func (HeadlessPrompter) Password(_, _ string) (string, error) {
	return "", nil
}

// Confirm implements Prompter.
func (HeadlessPrompter) Confirm(_, _ string, defaultValue bool) (bool, error) {
	return defaultValue, nil
}

// Select implements Prompter.
func (HeadlessPrompter) Select(_ string, _ []string, defaultValue string) (string, error) {
	return defaultValue, nil
}
