package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// ListComplaints GET /complaint.
func (h *ComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	filter := repository.ComplaintFilter{
		Status:   domain.ComplaintStatus(strings.ToLower(strings.TrimSpace(c.Query("status")))),
		Priority: domain.ComplaintPriority(strings.ToLower(strings.TrimSpace(c.Query("priority")))),
		Search:   c.Query("q"),
	}
	complaints, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewComplaintList(complaints))
}

// CreateComplaint POST /complaint.
func (h *ComplaintsHandler) CreateComplaint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	complaint, err := h.service.Create(c.UserContext(), principal.UserID, service.ComplaintCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    domain.ComplaintPriority(req.Priority),
	})
	if err != nil {
		return err
	}
	resp := dto.NewComplaintResponse(complaint)
	return c.Status(http.StatusCreated).JSON(dto.ComplaintMessageResponse{
		Message:   "Complaint created successfully",
		Complaint: &resp,
	})
}

// UpdateComplaintStatus PATCH /complaint/:id.
func (h *ComplaintsHandler) UpdateComplaintStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateComplaintStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.service.UpdateStatus(c.UserContext(), principal.UserID, c.Params("id"), domain.ComplaintStatus(req.Status))
	if err != nil {
		return err
	}
	message := "Complaint updated successfully"
	if !result.Changed {
		message = "Complaint status is already set to this value"
	}
	resp := dto.NewComplaintResponse(result.Complaint)
	return c.JSON(dto.ComplaintMessageResponse{Message: message, Complaint: &resp})
}

// DeleteComplaint DELETE /complaint/:id.
func (h *ComplaintsHandler) DeleteComplaint(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Complaint deleted successfully"})
}
