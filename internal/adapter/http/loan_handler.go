package http

import (
	"net/http"
	"strconv"

	"mcredit-backend/internal/adapter/middleware"
	"mcredit-backend/internal/domain/loan"
	docuc "mcredit-backend/internal/usecase/document"
	loanuc "mcredit-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type LoanHandler struct {
	uc   *loanuc.Usecase
	docs *docuc.Usecase
	log  *zap.Logger
}

func NewLoanHandler(uc *loanuc.Usecase, docs *docuc.Usecase, log *zap.Logger) *LoanHandler {
	return &LoanHandler{uc: uc, docs: docs, log: log}
}

// Derived money fields are never read from the client.
type createApplicationReq struct {
	FullName       string `json:"fullName" validate:"required,min=2,max=120"`
	Mobile         string `json:"mobile" validate:"required,mobile"`
	Email          string `json:"email" validate:"required,email"`
	DateOfBirth    string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Address        string `json:"address" validate:"required,min=10"`
	MonthlyIncome  string `json:"monthlyIncome" validate:"required,max=40"`
	EmploymentType string `json:"employmentType" validate:"required,max=40"`
	Purpose        string `json:"purpose" validate:"required,max=80"`
	LoanAmount     int64  `json:"loanAmount" validate:"required,gte=10000,lte=500000"`
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

type assignReq struct {
	AgentID uint64 `json:"agentId" validate:"required,gt=0"`
}

type kycReq struct {
	KYCStatus string `json:"kycStatus" validate:"required"`
}

func (h *LoanHandler) Create(c echo.Context) error {
	var req createApplicationReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.log, err)
	}
	a, err := h.uc.Create(c.Request().Context(), *middleware.ActorFrom(c), loanuc.CreateInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *LoanHandler) List(c echo.Context) error {
	apps, err := h.uc.List(c.Request().Context(), *middleware.ActorFrom(c), c.QueryParam("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if apps == nil {
		apps = []loan.Application{}
	}
	return c.JSON(http.StatusOK, apps)
}

func (h *LoanHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	a, err := h.uc.Get(c.Request().Context(), *middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Track serves the public status page; the session is optional.
func (h *LoanHandler) Track(c echo.Context) error {
	v, err := h.uc.Track(c.Request().Context(), middleware.ActorFrom(c), c.Param("applicationId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *LoanHandler) UpdateStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.log, err)
	}
	a, err := h.uc.UpdateStatus(c.Request().Context(), *middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *LoanHandler) Assign(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.log, err)
	}
	a, err := h.uc.AssignAgent(c.Request().Context(), *middleware.ActorFrom(c), id, req.AgentID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *LoanHandler) UpdateKYC(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var req kycReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.log, err)
	}
	a, err := h.uc.UpdateKYC(c.Request().Context(), *middleware.ActorFrom(c), id, req.KYCStatus)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *LoanHandler) Documents(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	docs, err := h.docs.List(c.Request().Context(), *middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, docs)
}

// Calculate is the public repayment calculator.
func (h *LoanHandler) Calculate(c echo.Context) error {
	amount, err := strconv.ParseInt(c.QueryParam("amount"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "amount", Message: "must be an integer"}},
		})
	}
	s, err := h.uc.Quote(amount)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *LoanHandler) Stats(c echo.Context) error {
	st, err := h.uc.Stats(c.Request().Context(), *middleware.ActorFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, st)
}
