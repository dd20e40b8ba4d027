package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/pdor-dev/pdor/internal/naming"
	"github.com/pdor-dev/pdor/internal/template/preset"
)

// surveyPrompter implements app.Prompter with survey.
type surveyPrompter struct {
	opts []survey.AskOpt
}

func newSurveyPrompter(opts ...survey.AskOpt) *surveyPrompter {
	return &surveyPrompter{opts: opts}
}

// SelectBoilerplate asks for one of the choices and returns its value.
func (p *surveyPrompter) SelectBoilerplate(choices []preset.Choice) (string, error) {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}

	var index int
	prompt := &survey.Select{
		Message: "Please select a boilerplate type",
		Options: labels,
	}
	if err := survey.AskOne(prompt, &index, p.opts...); err != nil {
		return "", promptError(err)
	}
	return choices[index].Value, nil
}

// CustomURL asks for a GitHub repository URL.
func (p *surveyPrompter) CustomURL() (string, error) {
	var url string
	prompt := &survey.Input{
		Message: "Please paste the github repo url (ex: https://github.com/foo/bar.git)",
	}
	opts := append([]survey.AskOpt{survey.WithValidator(survey.Required)}, p.opts...)
	if err := survey.AskOne(prompt, &url, opts...); err != nil {
		return "", promptError(err)
	}
	return normalizeReference(url), nil
}

// ProjectName asks for the project name, validating it as a package name.
func (p *surveyPrompter) ProjectName() (string, error) {
	var name string
	prompt := &survey.Input{
		Message: "What is the project name?",
	}
	opts := append([]survey.AskOpt{survey.WithValidator(validateName)}, p.opts...)
	if err := survey.AskOne(prompt, &name, opts...); err != nil {
		return "", promptError(err)
	}
	return name, nil
}

// validateName is a survey.Validator rejecting invalid package names.
func validateName(val interface{}) error {
	name, ok := val.(string)
	if !ok {
		return fmt.Errorf("project name must be a string")
	}
	return naming.Validate(name)
}

// promptError maps Ctrl+C on a prompt to a cancellation.
func promptError(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return fmt.Errorf("prompt interrupted: %w", context.Canceled)
	}
	return err
}
