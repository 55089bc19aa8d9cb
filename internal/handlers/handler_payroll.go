package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnahda/institute-ledger/internal/core/domain"
	portssvc "github.com/alnahda/institute-ledger/internal/core/ports/services"
	"github.com/alnahda/institute-ledger/internal/dto"
	"github.com/alnahda/institute-ledger/internal/middleware"
)

// payrollHandler handles staff registration and the monthly salary cycle.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

func newPayrollHandler(ps portssvc.PayrollSvcFacade) *payrollHandler {
	return &payrollHandler{payrollService: ps}
}

// registerPayrollRoutes registers teacher, employee and salary routes.
func registerPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := newPayrollHandler(payrollService)

	teachers := rg.Group("/teachers")
	{
		teachers.POST("", h.createTeacher)
		teachers.GET("/:id", h.getTeacher)
		teachers.POST("/:id/attendance", h.recordAttendance)
		teachers.GET("/:id/salary", h.calculateSalary)
		teachers.POST("/:id/salary/accrue", h.accrueTeacherSalary)
		teachers.POST("/:id/salary/pay", h.payTeacherSalary)
	}

	employees := rg.Group("/employees")
	{
		employees.POST("", h.createEmployee)
		employees.GET("/:id", h.getEmployee)
		employees.POST("/:id/salary/pay", h.payEmployeeSalary)
	}
}

func (h *payrollHandler) createTeacher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTeacher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	teacher, err := h.payrollService.CreateTeacher(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create teacher")
		return
	}

	logger.Info("Teacher registered", slog.Int64("teacher_id", teacher.ID))
	c.JSON(http.StatusCreated, dto.ToTeacherResponse(teacher))
}

func (h *payrollHandler) getTeacher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	teacher, err := h.payrollService.GetTeacherByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve teacher")
		return
	}

	c.JSON(http.StatusOK, dto.ToTeacherResponse(teacher))
}

func (h *payrollHandler) recordAttendance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordAttendance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.payrollService.RecordAttendance(c.Request.Context(), id, req); err != nil {
		respondServiceError(c, logger, err, "Failed to record attendance")
		return
	}

	logger.Info("Attendance recorded", slog.Int64("teacher_id", id), slog.Int64("sessions", req.Sessions))
	c.Status(http.StatusNoContent)
}

// calculateSalary previews the month's figures without posting anything.
func (h *payrollHandler) calculateSalary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	year, month, ok := parsePeriodQuery(c)
	if !ok {
		return
	}

	calc, err := h.payrollService.CalculateMonthlySalary(c.Request.Context(), id, year, month)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to calculate salary")
		return
	}

	c.JSON(http.StatusOK, calc)
}

func (h *payrollHandler) accrueTeacherSalary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SalaryPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AccrueTeacherSalary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.payrollService.PostTeacherSalaryAccrual(c.Request.Context(), id, req.Year, time.Month(req.Month), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to accrue salary")
		return
	}

	logger.Info("Teacher salary accrued", slog.Int64("teacher_id", id), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *payrollHandler) payTeacherSalary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.TeacherSalaryPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PayTeacherSalary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.payrollService.PostTeacherSalaryPayment(c.Request.Context(), id, req.Year, time.Month(req.Month), domain.PaymentMethod(req.PaymentMethod), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to pay salary")
		return
	}

	logger.Info("Teacher salary paid", slog.Int64("teacher_id", id), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *payrollHandler) createEmployee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEmployee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	employee, err := h.payrollService.CreateEmployee(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create employee")
		return
	}

	logger.Info("Employee registered", slog.Int64("employee_id", employee.ID))
	c.JSON(http.StatusCreated, dto.ToEmployeeResponse(employee))
}

func (h *payrollHandler) getEmployee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	employee, err := h.payrollService.GetEmployeeByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve employee")
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeResponse(employee))
}

func (h *payrollHandler) payEmployeeSalary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.EmployeeSalaryPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PayEmployeeSalary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.payrollService.PostEmployeeSalaryPayment(c.Request.Context(), id, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to pay salary")
		return
	}

	logger.Info("Employee salary paid", slog.Int64("employee_id", id), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// parsePeriodQuery reads ?year= and ?month= query parameters.
func parsePeriodQuery(c *gin.Context) (int, time.Month, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing year parameter"})
		return 0, 0, false
	}
	monthNum, err := strconv.Atoi(c.Query("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing month parameter"})
		return 0, 0, false
	}
	return year, time.Month(monthNum), true
}
