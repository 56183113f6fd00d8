package http

import (
	"net/http"
	"strconv"

	"mcredit-backend/internal/adapter/middleware"
	docuc "mcredit-backend/internal/usecase/document"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	uc  *docuc.Usecase
	log *zap.Logger
}

func NewDocumentHandler(uc *docuc.Usecase, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{uc: uc, log: log}
}

type verifyReq struct {
	Status          string `json:"status" validate:"required"`
	RejectionReason string `json:"rejectionReason" validate:"max=1000"`
}

// Upload takes multipart fields file, documentType and applicationId.
func (h *DocumentHandler) Upload(c echo.Context) error {
	var details []FieldError
	appID, err := strconv.ParseUint(c.FormValue("applicationId"), 10, 64)
	if err != nil || appID == 0 {
		details = append(details, FieldError{Field: "applicationId", Message: "is required"})
	}
	docType := c.FormValue("documentType")
	if docType == "" {
		details = append(details, FieldError{Field: "documentType", Message: "is required"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		details = append(details, FieldError{Field: "file", Message: "is required"})
	}
	if len(details) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: details})
	}

	f, err := fh.Open()
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer f.Close()

	d, err := h.uc.Upload(c.Request().Context(), *middleware.ActorFrom(c), docuc.UploadInput{
		ApplicationID: appID,
		DocumentType:  docType,
		OriginalName:  fh.Filename,
		Size:          fh.Size,
		Content:       f,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *DocumentHandler) Verify(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.log, err)
	}
	d, err := h.uc.Verify(c.Request().Context(), *middleware.ActorFrom(c), id, req.Status, req.RejectionReason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, d)
}
