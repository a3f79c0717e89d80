// internal/handlers/student_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/service"
	"filipiknow_backend/internal/webutil"
)

type StudentHandler struct {
	service service.StudentService
	logger  *slog.Logger
}

func NewStudentHandler(s service.StudentService, logger *slog.Logger) *StudentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudentHandler{
		service: s,
		logger:  logger,
	}
}

func (h *StudentHandler) PostStudent(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostStudent"))

	var req model.RegisterStudentRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	student, err := h.service.RegisterStudent(r.Context(), &req)
	if err != nil {
		logger.Error("Error registering student in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Student registered successfully", slog.String("student_id", student.StudentID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, student.ToResponse())
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStudent"))

	studentID, ok := parseUUIDParam(w, r, logger, "student_id")
	if !ok {
		return
	}

	student, err := h.service.GetStudent(r.Context(), studentID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, student.ToResponse())
}

func (h *StudentHandler) GetSectionStudents(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSectionStudents"))

	sectionID, ok := parseUUIDParam(w, r, logger, "section_id")
	if !ok {
		return
	}

	students, err := h.service.ListStudentsBySection(r.Context(), sectionID)
	if err != nil {
		logger.Error("Error listing students in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	responses := make([]*model.StudentResponse, 0, len(students))
	for _, s := range students {
		responses = append(responses, s.ToResponse())
	}
	webutil.RespondWithJSON(w, http.StatusOK, responses)
}
