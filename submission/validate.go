package submission

import (
	"fmt"
	"slices"
	"strings"

	"github.com/danielhkuo/office-pulse/catalog"
	"github.com/danielhkuo/office-pulse/models"
)

// ValidationError lists every problem found in a form
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Validate checks a form before anything leaves the process.
// cat may be nil, in which case option membership is not checked.
func Validate(form models.ExperienceForm, completionSeconds int, cat *catalog.Catalog) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	// Too-fast submissions are bots or accidental double posts; reject
	// regardless of how complete the form looks
	if completionSeconds < models.MinCompletionSeconds {
		add("form completed in %ds, minimum is %ds", completionSeconds, models.MinCompletionSeconds)
	}

	if strings.TrimSpace(form.Province) == "" {
		add("province is required")
	}
	if strings.TrimSpace(form.District) == "" {
		add("district is required")
	}

	officeType := strings.TrimSpace(form.OfficeType)
	switch {
	case officeType == "":
		add("office_type is required")
	case cat != nil && !cat.HasOfficeType(officeType):
		add("unknown office_type %q", officeType)
	}

	services := trimAll(form.Services)
	if len(services) == 0 {
		add("at least one service is required")
	}
	for i, s := range services {
		switch {
		case s == "":
			add("services[%d] is blank", i)
		case cat != nil && !cat.HasService(s):
			add("unknown service %q", s)
		}
	}
	if slices.Contains(services, models.ServiceOther) && strings.TrimSpace(form.ServiceOther) == "" {
		add("service_other is required when other is selected")
	}

	if form.WaitMinutes < 0 {
		add("wait_minutes must not be negative")
	}
	if mood := strings.TrimSpace(form.Mood); mood != "" && cat != nil && !cat.HasMood(mood) {
		add("unknown mood %q", mood)
	}

	if !validRating(form.StaffRating) {
		add("staff_rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	if !validRating(form.ProcessRating) {
		add("process_rating must be between %d and %d", models.MinRating, models.MaxRating)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// trimAll returns a copy of ids with surrounding whitespace removed
func trimAll(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strings.TrimSpace(id)
	}
	return out
}

func validRating(r int) bool {
	return r >= models.MinRating && r <= models.MaxRating
}
