package core

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
	"github.com/klauern/railguard/internal/config"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func ruleValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("railguard_event", func(fl validator.FieldLevel) bool {
			return IsValidEvent(fl.Field().String())
		})
		_ = v.RegisterValidation("railguard_regexp", func(fl validator.FieldLevel) bool {
			_, err := regexp2.Compile(fl.Field().String(), regexp2.ECMAScript)
			return err == nil
		})
		_ = v.RegisterValidation("railguard_glob", func(fl validator.FieldLevel) bool {
			_, err := glob.Compile(fl.Field().String(), '/')
			return err == nil
		})
		v.RegisterStructValidation(validateRuleShape, config.Rule{})
		validate = v
	})
	return validate
}

// validateRuleShape enforces one flavour per rule and policy rules only on
// the blockable event.
func validateRuleShape(sl validator.StructLevel) {
	rule := sl.Current().Interface().(config.Rule)
	switch {
	case rule.Action != "" && rule.Command != "":
		sl.ReportError(rule.Command, "Command", "command", "one_of_action_command", "")
	case rule.Action == "" && rule.Command == "":
		sl.ReportError(rule.Action, "Action", "action", "one_of_action_command", "")
	case rule.Action != "":
		if ev, ok := ResolveEvent(rule.Event); ok && !ev.IsBlockable() {
			sl.ReportError(rule.Event, "Event", "event", "policy_event", string(ev))
		}
	}
}

// ValidationIssue is one problem found in a rule configuration.
type ValidationIssue struct {
	Group string
	Field string
	Tag   string
	Value string
}

func (i ValidationIssue) String() string {
	switch i.Tag {
	case "required":
		return fmt.Sprintf("%s: %s is required", i.Group, i.Field)
	case "railguard_event":
		return fmt.Sprintf("%s: %s %q is not a known event (valid: %s)", i.Group, i.Field, i.Value, strings.Join(ValidEventNames(), ", "))
	case "railguard_regexp":
		return fmt.Sprintf("%s: %s %q is not a valid regular expression", i.Group, i.Field, i.Value)
	case "railguard_glob":
		return fmt.Sprintf("%s: %s %q is not a valid glob", i.Group, i.Field, i.Value)
	case "one_of_action_command":
		return fmt.Sprintf("%s: %s: a rule needs exactly one of action or command", i.Group, i.Field)
	case "policy_event":
		return fmt.Sprintf("%s: %s: policy rules only apply to tool_call, got %q", i.Group, i.Field, i.Value)
	case "unique":
		return fmt.Sprintf("%s: duplicate group name %q", i.Group, i.Value)
	case "oneof":
		return fmt.Sprintf("%s: %s %q is not one of the allowed values", i.Group, i.Field, i.Value)
	default:
		return fmt.Sprintf("%s: %s failed %s", i.Group, i.Field, i.Tag)
	}
}

// ValidationError collects every issue found by ValidateGroups.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return strings.Join(lines, "\n")
}

// ValidateGroups checks rule groups for schema problems and duplicate names.
// The engine loads invalid files anyway; this backs the validate command.
func ValidateGroups(groups []config.RuleGroup) error {
	v := ruleValidator()
	var issues []ValidationIssue
	seen := make(map[string]bool, len(groups))

	for gi, g := range groups {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("groups[%d]", gi)
		}
		if g.Name != "" && seen[g.Name] {
			issues = append(issues, ValidationIssue{Group: name, Field: "group", Tag: "unique", Value: g.Name})
		}
		seen[g.Name] = true

		err := v.Struct(g)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			issues = append(issues, ValidationIssue{
				Group: name,
				Field: strings.TrimPrefix(fe.Namespace(), "RuleGroup."),
				Tag:   fe.Tag(),
				Value: fmt.Sprintf("%v", fe.Value()),
			})
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
