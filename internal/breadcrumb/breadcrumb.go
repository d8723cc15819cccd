// Package breadcrumb derives the course-page breadcrumb text from a
// routing path like /Courses/c101/Quizzes/q5/Take.
package breadcrumb

import (
	"fmt"
	"strings"
)

// TitleLookup resolves an entity title within a section, e.g.
// ("Quizzes", "q5") -> "Midterm". ok=false falls back to a generic label.
type TitleLookup func(section, id string) (title string, ok bool)

// Section returns the breadcrumb tail for the given path.
func Section(path string, lookup TitleLookup) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case contains(segments, "Assignments"):
		return entityCrumb(segments, "Assignments", "New Assignment", "Assignment Details", lookup)
	case contains(segments, "Quizzes"):
		return entityCrumb(segments, "Quizzes", "New Quiz", "Quiz Details", lookup)
	case contains(segments, "People"):
		if view := segmentAfter(segments, "People"); view != "" {
			return "People > " + view
		}
		return "People"
	case contains(segments, "Modules"):
		return "Modules"
	case contains(segments, "Grades"):
		return "Grades"
	case contains(segments, "Piazza"):
		return "Piazza"
	case contains(segments, "Zoom"):
		return "Zoom"
	}
	return "Home"
}

// Trail prefixes the section with the course name, falling back to the
// course id when the course has no known name.
func Trail(courseName, courseID, path string, lookup TitleLookup) string {
	if courseName == "" {
		courseName = fmt.Sprintf("Course %s", courseID)
	}
	return courseName + " > " + Section(path, lookup)
}

// entityCrumb builds "Section > Title" and, when the path goes one level
// deeper (Edit, Preview, Take), "Section > Title > SubPage".
func entityCrumb(segments []string, section, newLabel, fallback string, lookup TitleLookup) string {
	id := segmentAfter(segments, section)
	if id == "" {
		return section
	}

	name := fallback
	if id == "new" {
		name = newLabel
	} else if lookup != nil {
		if title, ok := lookup(section, id); ok {
			name = title
		}
	}

	crumb := section + " > " + name
	if sub := segmentAfter(segments, id); sub != "" {
		crumb += " > " + sub
	}
	return crumb
}

func contains(segments []string, s string) bool {
	for _, seg := range segments {
		if seg == s {
			return true
		}
	}
	return false
}

func segmentAfter(segments []string, s string) string {
	for i, seg := range segments {
		if seg == s && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	return ""
}
