package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/alnahda/institute-ledger/internal/core/ports/services"
	"github.com/alnahda/institute-ledger/internal/dto"
	"github.com/alnahda/institute-ledger/internal/middleware"
)

// schoolHandler handles students, courses, assignments and the enrollment
// revenue cycle.
type schoolHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newSchoolHandler(ps portssvc.PostingSvcFacade) *schoolHandler {
	return &schoolHandler{postingService: ps}
}

// registerSchoolRoutes registers student, course and enrollment routes.
func registerSchoolRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newSchoolHandler(postingService)

	students := rg.Group("/students")
	{
		students.POST("", h.createStudent)
		students.GET("/:id", h.getStudent)
	}

	courses := rg.Group("/courses")
	{
		courses.POST("", h.createCourse)
		courses.GET("/:id", h.getCourse)
		courses.POST("/:id/assignments", h.createAssignment)
	}

	enrollments := rg.Group("/enrollments")
	{
		enrollments.POST("", h.createEnrollment)
		enrollments.GET("/:id", h.getEnrollment)
		enrollments.GET("/:id/balance", h.getEnrollmentBalance)
		enrollments.POST("/:id/accrue", h.accrueEnrollment)
		enrollments.POST("/:id/complete", h.completeEnrollment)
		enrollments.POST("/:id/withdraw", h.withdrawEnrollment)
	}
}

func (h *schoolHandler) createStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateStudent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	student, err := h.postingService.CreateStudent(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create student")
		return
	}

	logger.Info("Student registered", slog.Int64("student_id", student.ID))
	c.JSON(http.StatusCreated, student)
}

func (h *schoolHandler) getStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	student, err := h.postingService.GetStudentByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve student")
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *schoolHandler) createCourse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCourse", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	course, err := h.postingService.CreateCourse(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create course")
		return
	}

	logger.Info("Course created", slog.Int64("course_id", course.ID), slog.String("name", course.Name))
	c.JSON(http.StatusCreated, course)
}

func (h *schoolHandler) getCourse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.postingService.GetCourseByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve course")
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *schoolHandler) createAssignment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAssignment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.CourseID = courseID

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	assignment, err := h.postingService.CreateAssignment(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create assignment")
		return
	}

	logger.Info("Teacher assigned to course", slog.Int64("course_id", courseID), slog.Int64("teacher_id", assignment.TeacherID))
	c.JSON(http.StatusCreated, assignment)
}

func (h *schoolHandler) createEnrollment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEnrollment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to enroll student", slog.Int64("student_id", req.StudentID), slog.Int64("course_id", req.CourseID))

	enrollment, err := h.postingService.CreateEnrollment(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create enrollment")
		return
	}

	logger.Info("Student enrolled", slog.Int64("enrollment_id", enrollment.ID))
	c.JSON(http.StatusCreated, dto.ToEnrollmentResponse(enrollment))
}

func (h *schoolHandler) getEnrollment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.postingService.GetEnrollmentByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve enrollment")
		return
	}

	c.JSON(http.StatusOK, dto.ToEnrollmentResponse(enrollment))
}

func (h *schoolHandler) getEnrollmentBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	balance, err := h.postingService.GetEnrollmentBalance(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve enrollment balance")
		return
	}

	c.JSON(http.StatusOK, balance)
}

// accrueEnrollment retries the accrual posting for an enrollment saved
// without one.
func (h *schoolHandler) accrueEnrollment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.postingService.PostEnrollmentAccrual(c.Request.Context(), id, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to accrue enrollment")
		return
	}

	logger.Info("Enrollment accrued", slog.Int64("enrollment_id", id), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *schoolHandler) completeEnrollment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.postingService.PostEnrollmentCompletion(c.Request.Context(), id, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to complete enrollment")
		return
	}

	logger.Info("Enrollment completed", slog.Int64("enrollment_id", id), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *schoolHandler) withdrawEnrollment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.WithdrawEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		logger.Warn("Failed to bind JSON for WithdrawEnrollment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.postingService.PostWithdrawalRefund(c.Request.Context(), id, req.Refund, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to withdraw enrollment")
		return
	}

	logger.Info("Enrollment withdrawn", slog.Int64("enrollment_id", id), slog.String("reversal_entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}
