package handler

import (
	"time"

	billingapp "github.com/factoryerp/backend/internal/application/billing"
	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingHandler handles invoice and payment ledger API endpoints
type BillingHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
	paymentService *billingapp.PaymentService
	chequeService  *billingapp.ChequeService
	historyService *billingapp.HistoryService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(
	invoiceService *billingapp.InvoiceService,
	paymentService *billingapp.PaymentService,
	chequeService *billingapp.ChequeService,
	historyService *billingapp.HistoryService,
) *BillingHandler {
	return &BillingHandler{
		invoiceService: invoiceService,
		paymentService: paymentService,
		chequeService:  chequeService,
		historyService: historyService,
	}
}

// ChequeInput represents cheque details on a payment line
// @Description Cheque details for CHEQUE payment lines
type ChequeInput struct {
	ChequeNumber string    `json:"cheque_number" binding:"required,min=1,max=50" example:"CHQ-001234"`
	ChequeDate   time.Time `json:"cheque_date" binding:"required"`
	BankName     string    `json:"bank_name" binding:"required,min=1,max=100" example:"Commercial Bank"`
}

// PaymentLineInput represents one method/amount pair of a payment
// @Description One payment line (method plus amount)
type PaymentLineInput struct {
	Amount    decimal.Decimal `json:"amount" binding:"required" example:"2500.00"`
	Date      *time.Time      `json:"date"`
	Method    string          `json:"method" binding:"required,oneof=CASH CARD BANK_TRANSFER CHEQUE" example:"CASH"`
	Reference string          `json:"reference" binding:"max=100" example:"TXN-889901"`
	BankName  string          `json:"bank_name" binding:"max=100" example:"Sampath Bank"`
	Cheque    *ChequeInput    `json:"cheque"`
}

// CreateInvoiceRequest represents a request to open a new invoice
// @Description Request body for creating an invoice, optionally with money collected up front
type CreateInvoiceRequest struct {
	CustomerID      string             `json:"customer_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	InvoiceNumber   string             `json:"invoice_number" binding:"required,min=1,max=50" example:"INV-2026-00001"`
	InvoiceDate     time.Time          `json:"invoice_date" binding:"required"`
	TotalAmount     decimal.Decimal    `json:"total_amount" binding:"required" example:"15000.00"`
	Notes           string             `json:"notes" binding:"max=500"`
	InitialPayments []PaymentLineInput `json:"initial_payments"`
}

// AddInvoicePaymentRequest represents a request to record payment lines against an invoice
// @Description Request body for recording one or more payment lines against a single invoice
type AddInvoicePaymentRequest struct {
	PaymentDate time.Time          `json:"payment_date"`
	Lines       []PaymentLineInput `json:"lines" binding:"required,min=1"`
	Notes       string             `json:"notes" binding:"max=500"`
}

// AddCustomerPaymentRequest represents a customer-level payment allocated FIFO across open invoices
// @Description Request body for a customer payment allocated oldest-invoice-first
type AddCustomerPaymentRequest struct {
	PaymentDate time.Time       `json:"payment_date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required" example:"10000.00"`
	Method      string          `json:"method" binding:"required,oneof=CASH CARD BANK_TRANSFER CHEQUE" example:"BANK_TRANSFER"`
	Reference   string          `json:"reference" binding:"max=100"`
	BankName    string          `json:"bank_name" binding:"max=100"`
	Cheque      *ChequeInput    `json:"cheque"`
}

// TransitionChequeRequest represents a cheque lifecycle transition
// @Description Request body for moving a cheque payment to a new status
type TransitionChequeRequest struct {
	Status        string          `json:"status" binding:"required,oneof=PENDING CLEARED BOUNCED CANCELLED" example:"CLEARED"`
	ClearanceDate *time.Time      `json:"clearance_date"`
	BounceReason  string          `json:"bounce_reason" binding:"max=500"`
	BounceCharges decimal.Decimal `json:"bounce_charges"`
}

func toPaymentLines(inputs []PaymentLineInput) []billingapp.PaymentLine {
	lines := make([]billingapp.PaymentLine, 0, len(inputs))
	for _, in := range inputs {
		line := billingapp.PaymentLine{
			Amount:    in.Amount,
			Method:    billing.PaymentMethod(in.Method),
			Reference: in.Reference,
			BankName:  in.BankName,
		}
		if in.Date != nil {
			line.Date = *in.Date
		}
		if in.Cheque != nil {
			line.Cheque = &billingapp.ChequeInput{
				ChequeNumber: in.Cheque.ChequeNumber,
				ChequeDate:   in.Cheque.ChequeDate,
				BankName:     in.Cheque.BankName,
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// CreateInvoice godoc
// @Summary      Create a new invoice
// @Description  Open a confirmed invoice, optionally recording money collected at creation
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request body CreateInvoiceRequest true "Invoice creation request"
// @Success      201 {object} dto.Response{data=billingapp.CreateInvoiceResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices [post]
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	result, err := h.invoiceService.CreateInvoice(c.Request.Context(), billingapp.CreateInvoiceRequest{
		TenantID:      tenantID,
		CustomerID:    customerID,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		TotalAmount:   req.TotalAmount,
		Notes:         req.Notes,
		InitialLines:  toPaymentLines(req.InitialPayments),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetInvoice godoc
// @Summary      Get invoice by ID
// @Description  Retrieve the current derived totals of an invoice
// @Tags         billing
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.InvoiceTotals}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id} [get]
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	totals, err := h.historyService.GetInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, totals)
}

// ListInvoices godoc
// @Summary      List invoices
// @Description  List invoices with optional customer, status and date range filters
// @Tags         billing
// @Produce      json
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        status query string false "Invoice status" Enums(DRAFT, CONFIRMED, CANCELLED)
// @Param        payment_status query string false "Payment status" Enums(UNPAID, PARTIAL, PAID)
// @Param        date_from query string false "Start of invoice date range" format(date-time)
// @Param        date_to query string false "End of invoice date range" format(date-time)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]billingapp.InvoiceTotals}
// @Security     BearerAuth
// @Router       /billing/invoices [get]
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, ok := h.bindInvoiceFilter(c)
	if !ok {
		return
	}

	invoices, total, err := h.historyService.ListInvoices(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// CancelInvoice godoc
// @Summary      Cancel an invoice
// @Description  Void an invoice that has no recognized payments
// @Tags         billing
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/cancel [post]
func (h *BillingHandler) CancelInvoice(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	if err := h.invoiceService.CancelInvoice(c.Request.Context(), tenantID, invoiceID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// AddInvoicePayment godoc
// @Summary      Record payment lines against an invoice
// @Description  Record one or more payment lines (cash, card, transfer, cheque) against a single invoice
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body AddInvoicePaymentRequest true "Payment request"
// @Success      201 {object} dto.Response{data=billingapp.InvoicePaymentResult}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/payments [post]
func (h *BillingHandler) AddInvoicePayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req AddInvoicePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.paymentService.AddInvoicePayment(c.Request.Context(), billingapp.AddInvoicePaymentRequest{
		TenantID:    tenantID,
		InvoiceID:   invoiceID,
		PaymentDate: req.PaymentDate,
		Lines:       toPaymentLines(req.Lines),
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetPaymentHistory godoc
// @Summary      Get invoice payment history
// @Description  Full payment history of an invoice with a per-method breakdown of recognized amounts
// @Tags         billing
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.PaymentHistoryResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/payments [get]
func (h *BillingHandler) GetPaymentHistory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	history, err := h.historyService.GetPaymentHistory(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, history)
}

// RecomputeInvoice godoc
// @Summary      Recompute invoice totals
// @Description  Rebuild an invoice's derived totals from its full payment history
// @Tags         billing
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.InvoiceTotals}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/recompute [post]
func (h *BillingHandler) RecomputeInvoice(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	totals, err := h.paymentService.RecomputeInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, totals)
}

// AddCustomerPayment godoc
// @Summary      Record a customer-level payment
// @Description  Record a payment against a customer, allocated FIFO across open invoices by invoice date
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body AddCustomerPaymentRequest true "Customer payment request"
// @Success      201 {object} dto.Response{data=billingapp.CustomerPaymentResult}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/customers/{id}/payments [post]
func (h *BillingHandler) AddCustomerPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req AddCustomerPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := billingapp.AddCustomerPaymentRequest{
		TenantID:    tenantID,
		CustomerID:  customerID,
		PaymentDate: req.PaymentDate,
		Amount:      req.Amount,
		Method:      billing.PaymentMethod(req.Method),
		Reference:   req.Reference,
		BankName:    req.BankName,
	}
	if req.Cheque != nil {
		appReq.Cheque = &billingapp.ChequeInput{
			ChequeNumber: req.Cheque.ChequeNumber,
			ChequeDate:   req.Cheque.ChequeDate,
			BankName:     req.Cheque.BankName,
		}
	}

	result, err := h.paymentService.AddCustomerPayment(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetCustomerSummary godoc
// @Summary      Get customer receivable summary
// @Description  Aggregate a customer's outstanding balance, open invoice count and pending cheque total
// @Tags         billing
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.CustomerSummaryResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/customers/{id}/summary [get]
func (h *BillingHandler) GetCustomerSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	summary, err := h.historyService.GetCustomerSummary(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// TransitionCheque godoc
// @Summary      Transition a cheque payment
// @Description  Move a cheque payment to PENDING, CLEARED, BOUNCED or CANCELLED and refresh the invoice totals
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body TransitionChequeRequest true "Cheque transition request"
// @Success      200 {object} dto.Response{data=billingapp.InvoiceTotals}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/payments/{id}/cheque-status [post]
func (h *BillingHandler) TransitionCheque(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req TransitionChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	totals, err := h.chequeService.TransitionCheque(c.Request.Context(), billingapp.TransitionChequeRequest{
		TenantID:      tenantID,
		PaymentID:     paymentID,
		Status:        billing.ChequeStatus(req.Status),
		ClearanceDate: req.ClearanceDate,
		BounceReason:  req.BounceReason,
		BounceCharges: req.BounceCharges,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, totals)
}

// ListCheques godoc
// @Summary      List cheque payments
// @Description  Cheque register filtered by lifecycle status and customer
// @Tags         billing
// @Produce      json
// @Param        status query string false "Cheque status" Enums(PENDING, CLEARED, BOUNCED, CANCELLED)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]billingapp.PaymentView}
// @Security     BearerAuth
// @Router       /billing/cheques [get]
func (h *BillingHandler) ListCheques(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, ok := h.bindChequeFilter(c)
	if !ok {
		return
	}

	cheques, total, err := h.chequeService.ListCheques(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, cheques, total, filter.Page, filter.PageSize)
}

// invoiceListQuery binds invoice list query parameters
type invoiceListQuery struct {
	CustomerID    string `form:"customer_id" binding:"omitempty,uuid"`
	Status        string `form:"status" binding:"omitempty,oneof=DRAFT CONFIRMED CANCELLED"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=UNPAID PARTIAL PAID"`
	DateFrom      string `form:"date_from"`
	DateTo        string `form:"date_to"`
	Page          int    `form:"page,default=1" binding:"min=1"`
	PageSize      int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

func (h *BillingHandler) bindInvoiceFilter(c *gin.Context) (billing.InvoiceFilter, bool) {
	var q invoiceListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return billing.InvoiceFilter{}, false
	}

	filter := billing.InvoiceFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.CustomerID != "" {
		id, err := uuid.Parse(q.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return billing.InvoiceFilter{}, false
		}
		filter.CustomerID = &id
	}
	if q.Status != "" {
		status := billing.InvoiceStatus(q.Status)
		filter.Status = &status
	}
	if q.PaymentStatus != "" {
		status := billing.PaymentStatus(q.PaymentStatus)
		filter.PaymentStatus = &status
	}
	if q.DateFrom != "" {
		from, err := time.Parse(time.RFC3339, q.DateFrom)
		if err != nil {
			h.BadRequest(c, "Invalid date_from format, expected RFC3339")
			return billing.InvoiceFilter{}, false
		}
		filter.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := time.Parse(time.RFC3339, q.DateTo)
		if err != nil {
			h.BadRequest(c, "Invalid date_to format, expected RFC3339")
			return billing.InvoiceFilter{}, false
		}
		filter.DateTo = &to
	}
	return filter, true
}

// chequeListQuery binds cheque register query parameters
type chequeListQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=PENDING CLEARED BOUNCED CANCELLED"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

func (h *BillingHandler) bindChequeFilter(c *gin.Context) (billing.ChequeFilter, bool) {
	var q chequeListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return billing.ChequeFilter{}, false
	}

	filter := billing.ChequeFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.Status != "" {
		status := billing.ChequeStatus(q.Status)
		filter.Status = &status
	}
	if q.CustomerID != "" {
		id, err := uuid.Parse(q.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return billing.ChequeFilter{}, false
		}
		filter.CustomerID = &id
	}
	return filter, true
}
