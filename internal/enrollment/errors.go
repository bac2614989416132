package enrollment

import (
	"errors"
	"net/http"

	"github.com/noah-isme/skills-enroll/internal/common"
	"github.com/noah-isme/skills-enroll/internal/pricing"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown or expired.
	ErrSessionNotFound = errors.New("enrollment: session not found")
	// ErrUnknownCourse is returned when a toggle names a course outside the catalog.
	ErrUnknownCourse = errors.New("enrollment: unknown course")
	// ErrSubtotalDrift reports a running subtotal that disagrees with the catalog.
	ErrSubtotalDrift = errors.New("enrollment: running subtotal drifted from catalog")
)

// CodeUnresolvedCourses is the error code for selections referencing missing courses.
const CodeUnresolvedCourses = "UNRESOLVED_COURSES"

func toAppError(err error) *common.AppError {
	var resErr *pricing.ResolutionError
	switch {
	case errors.As(err, &resErr):
		return common.NewAppError(CodeUnresolvedCourses, "selection references unknown courses", http.StatusUnprocessableEntity, err).
			WithDetails(map[string]any{"ids": resErr.IDs})
	case errors.Is(err, ErrSessionNotFound):
		return common.NotFound("enrollment session not found", err)
	case errors.Is(err, ErrUnknownCourse):
		return common.BadRequest("unknown course", err)
	}
	return nil
}
