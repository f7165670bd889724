package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/service"
	"github.com/signgroup/workshop-api/internal/storage"
)

type JobHandler struct {
	jobService    *service.JobService
	storage       storage.Storage
	maxUploadSize int64
	logger        *zap.Logger
}

func NewJobHandler(jobService *service.JobService, store storage.Storage, maxUploadSizeMB int64, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobService:    jobService,
		storage:       store,
		maxUploadSize: maxUploadSizeMB * 1024 * 1024,
		logger:        logger,
	}
}

// List godoc
// @Summary List jobs
// @Description Get paginated list of jobs with optional search and stage filter
// @Tags Jobs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by client name or description"
// @Param stage query string false "Filter by stage"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.JobDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs [get]
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}

	search := r.URL.Query().Get("search")
	stage := domain.JobStage(r.URL.Query().Get("stage"))

	jobs, total, err := h.jobService.List(r.Context(), userCtx, page, pageSize, search, stage)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view jobs")
			return
		}
		if errors.Is(err, service.ErrInvalidStage) {
			respondWithError(w, http.StatusBadRequest, "Unknown job stage")
			return
		}
		h.logger.Error("failed to list jobs", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:       jobs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// Get godoc
// @Summary Get a job
// @Description Get one job with its quotation breakdown, payments and changelog
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} domain.JobDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id} [get]
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	result, err := h.jobService.GetByID(r.Context(), userCtx, id)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view jobs")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.Error("failed to get job", zap.Error(err), zap.String("job_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create a job
// @Description Create a new job; the authenticated user becomes its salesperson
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body domain.CreateJobRequest true "Job data"
// @Success 201 {object} domain.JobDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs [post]
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.jobService.Create(r.Context(), userCtx, &req)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to create jobs")
			return
		}
		if errors.Is(err, service.ErrInvalidStage) {
			respondWithError(w, http.StatusBadRequest, "Unknown job stage")
			return
		}
		if errors.Is(err, service.ErrTooManyPayments) {
			respondWithError(w, http.StatusBadRequest, "A job holds at most three payments")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create job", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create job")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// Update godoc
// @Summary Update a job
// @Description Replace a job's editable fields. A stage change appends one changelog entry.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body domain.UpdateJobRequest true "Job data"
// @Success 200 {object} domain.JobDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id} [put]
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	var req domain.UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.jobService.Update(r.Context(), userCtx, id, &req)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to edit this job")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Job not found")
			return
		}
		if errors.Is(err, service.ErrInvalidStage) {
			respondWithError(w, http.StatusBadRequest, "Unknown job stage")
			return
		}
		if errors.Is(err, service.ErrTooManyPayments) {
			respondWithError(w, http.StatusBadRequest, "A job holds at most three payments")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to update job", zap.Error(err), zap.String("job_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update job")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete a job
// @Description Delete a job and its owned records. Admin only.
// @Tags Jobs
// @Param id path string true "Job ID"
// @Success 204 "No Content"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id} [delete]
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	if err := h.jobService.Delete(r.Context(), userCtx, id); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to delete this job")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.Error("failed to delete job", zap.Error(err), zap.String("job_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete job")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Changelog godoc
// @Summary Job changelog
// @Description Get a job's stage transition history, oldest first
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {array} domain.ChangelogEntryDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/changelog [get]
func (h *JobHandler) Changelog(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	result, err := h.jobService.GetChangelog(r.Context(), userCtx, id)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view jobs")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.Error("failed to get job changelog", zap.Error(err), zap.String("job_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get changelog")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Report godoc
// @Summary Job report
// @Description Per-job totals of quoted, invoiced, paid and outstanding amounts
// @Tags Jobs
// @Produce json
// @Success 200 {array} domain.JobReportDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/report [get]
func (h *JobHandler) Report(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	result, err := h.jobService.Report(r.Context(), userCtx)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view jobs")
			return
		}
		h.logger.Error("failed to build job report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ReportByID godoc
// @Summary Single job report
// @Description Quoted, invoiced, paid and outstanding amounts for one job, for the printable report
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} domain.JobReportDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/report [get]
func (h *JobHandler) ReportByID(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	result, err := h.jobService.ReportByID(r.Context(), userCtx, id)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view jobs")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.Error("failed to build job report", zap.Error(err), zap.String("job_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// UploadMockup godoc
// @Summary Upload mockup image
// @Description Attach a mockup image to a job. Multipart form with a "file" field.
// @Tags Jobs
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Job ID"
// @Param file formData file true "Image file"
// @Success 200 {object} domain.JobDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/mockup [post]
func (h *JobHandler) UploadMockup(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "File exceeds the upload size limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondWithError(w, http.StatusBadRequest, "Mockup must be an image")
		return
	}

	path, size, err := h.storage.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("failed to store mockup", zap.Error(err), zap.String("job_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	result, err := h.jobService.SetMockupImage(r.Context(), userCtx, id, path)
	if err != nil {
		// The file is orphaned if the job update fails; remove it again.
		_ = h.storage.Delete(r.Context(), path)
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to edit this job")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.Error("failed to attach mockup", zap.Error(err), zap.String("job_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to attach mockup")
		return
	}

	h.logger.Info("mockup uploaded",
		zap.String("job_id", id.String()),
		zap.Int64("size", size),
	)
	respondJSON(w, http.StatusOK, result)
}

// DownloadMockup godoc
// @Summary Download mockup image
// @Description Stream a job's mockup image
// @Tags Jobs
// @Produce octet-stream
// @Param id path string true "Job ID"
// @Success 200 {file} binary
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/mockup [get]
func (h *JobHandler) DownloadMockup(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := h.jobService.GetByID(r.Context(), userCtx, id)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view jobs")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.logger.Error("failed to get job", zap.Error(err), zap.String("job_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}
	if job.MockupImageURL == "" {
		respondWithError(w, http.StatusNotFound, "Job has no mockup image")
		return
	}

	reader, err := h.storage.Download(r.Context(), job.MockupImageURL)
	if err != nil {
		h.logger.Error("failed to read mockup", zap.Error(err), zap.String("job_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}
