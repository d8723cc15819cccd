package handlers

import (
	"errors"
	"net/http"

	"lms-quiz-service/internal/breadcrumb"
	"lms-quiz-service/internal/repository"
	"lms-quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	Courses *repository.CourseRepository
	Quizzes *service.QuizService
}

func NewCourseHandler(courses *repository.CourseRepository, quizzes *service.QuizService) *CourseHandler {
	return &CourseHandler{Courses: courses, Quizzes: quizzes}
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.Courses.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.Courses.FindByID(c.Request.Context(), c.Param("cid"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// GetBreadcrumb resolves the navigation trail for a course page path.
// Entity titles come from the store; lookups that miss fall back to the
// section's generic label.
func (h *CourseHandler) GetBreadcrumb(c *gin.Context) {
	courseID := c.Param("cid")
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter required"})
		return
	}

	courseName := ""
	if course, err := h.Courses.FindByID(c.Request.Context(), courseID); err == nil {
		courseName = course.Name
	}

	lookup := func(section, id string) (string, bool) {
		if section != "Quizzes" {
			return "", false
		}
		quiz, err := h.Quizzes.Get(c.Request.Context(), id)
		if err != nil {
			return "", false
		}
		return quiz.Title, true
	}

	trail := breadcrumb.Trail(courseName, courseID, path, lookup)
	c.JSON(http.StatusOK, gin.H{"crumbs": trail})
}
