package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"acctex.io/internal/application/usecase"
	"acctex.io/internal/domain/entity"
	"acctex.io/internal/domain/port"
	"acctex.io/internal/infrastructure/authority"
	"acctex.io/internal/infrastructure/logger"
)

// accountHeader carries the authenticated caller identity. On the host
// platform caller authentication is part of the transaction itself; here the
// fronting gateway is expected to set this header after authenticating.
const accountHeader = "X-Account"

// listingLookup is the read path into the listing registry.
type listingLookup interface {
	ActiveListing(account string) (entity.Listing, bool)
}

// UseCases bundles the operation handlers behind the HTTP surface.
type UseCases struct {
	ListAccount    *usecase.ListAccountUseCase
	DelistAccount  *usecase.DelistAccountUseCase
	BuyAccount     *usecase.BuyAccountUseCase
	Withdraw       *usecase.WithdrawUseCase
	ProcessDeposit *usecase.ProcessDepositUseCase
	GetBalance     *usecase.GetBalanceUseCase
	RemoveSale     *usecase.RemoveSaleUseCase
	AdjustFee      *usecase.AdjustFeeUseCase
}

// Handler holds HTTP handlers and their dependencies
type Handler struct {
	usecases  UseCases
	listings  listingLookup
	registry  *authority.Registry
	validator port.WebhookValidator
	validate  *validator.Validate
	logger    logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	usecases UseCases,
	listings listingLookup,
	registry *authority.Registry,
	webhookValidator port.WebhookValidator,
	logger logger.Logger,
) *Handler {
	return &Handler{
		usecases:  usecases,
		listings:  listings,
		registry:  registry,
		validator: webhookValidator,
		validate:  newValidate(),
		logger:    logger,
	}
}

// HandleListings handles POST /listings requests
func (h *Handler) HandleListings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req listRequestSchema
	if !h.decodeBody(w, r, &req) {
		return
	}

	err := h.usecases.ListAccount.Execute(ctx, usecase.ListAccountRequest{
		Caller:        r.Header.Get(accountHeader),
		Account:       req.Account,
		PriceQuantity: req.Price.Quantity,
		PriceIssuer:   req.Price.Issuer,
		Recipient:     req.Recipient,
	})
	if err != nil {
		writeError(w, requestLogger, ctx, "Failed to list account", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "listed"})

	requestLogger.LogInfo(ctx, "Account listed for sale",
		"account", req.Account,
		"price", req.Price.Quantity,
		"issuer", req.Price.Issuer,
		"recipient", req.Recipient)
}

// HandleListing handles GET and DELETE /listings/{account} requests
func (h *Handler) HandleListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	account := strings.TrimPrefix(r.URL.Path, "/listings/")
	if account == "" || account == r.URL.Path {
		http.Error(w, "Missing account parameter", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		listing, ok := h.listings.ActiveListing(account)
		if !ok {
			writeError(w, requestLogger, ctx, "Listing lookup failed", entity.ErrNotListed)
			return
		}
		writeJSON(w, http.StatusOK, listingResponseSchema{
			Account: listing.Account,
			Price: priceSchema{
				Quantity: listing.Price.String(),
				Issuer:   listing.Price.Issuer,
			},
			Recipient: listing.Recipient,
		})

	case http.MethodDelete:
		err := h.usecases.DelistAccount.Execute(ctx, r.Header.Get(accountHeader), account)
		if err != nil {
			writeError(w, requestLogger, ctx, "Failed to delist account", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "delisted"})
		requestLogger.LogInfo(ctx, "Account delisted", "account", account)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandlePurchases handles POST /purchases requests
func (h *Handler) HandlePurchases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req buyRequestSchema
	if !h.decodeBody(w, r, &req) {
		return
	}

	err := h.usecases.BuyAccount.Execute(ctx, usecase.BuyAccountRequest{
		Caller:        r.Header.Get(accountHeader),
		Buyer:         req.Buyer,
		Target:        req.Account,
		PriceQuantity: req.Price.Quantity,
		PriceIssuer:   req.Price.Issuer,
		PubKey:        req.PubKey,
	})
	if err != nil {
		writeError(w, requestLogger, ctx, "Failed to purchase account", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "purchased"})

	requestLogger.LogInfo(ctx, "Account purchased",
		"buyer", req.Buyer,
		"account", req.Account,
		"price", req.Price.Quantity)
}

// HandleWithdrawals handles POST /withdrawals requests
func (h *Handler) HandleWithdrawals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req withdrawRequestSchema
	if !h.decodeBody(w, r, &req) {
		return
	}

	err := h.usecases.Withdraw.Execute(ctx, usecase.WithdrawRequest{
		Caller:   r.Header.Get(accountHeader),
		User:     req.User,
		Quantity: req.Quantity.Quantity,
		Issuer:   req.Quantity.Issuer,
	})
	if err != nil {
		writeError(w, requestLogger, ctx, "Failed to withdraw", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})

	requestLogger.LogInfo(ctx, "Balance withdrawn",
		"user", req.User,
		"quantity", req.Quantity.Quantity)
}

// HandleTransfers handles POST /transfers requests: the signed deposit
// notification path.
func (h *Handler) HandleTransfers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		requestLogger.LogError(ctx, "Failed to read request body", err)
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateRequest(ctx, r, body); err != nil {
		requestLogger.LogWarning(ctx, "Transfer notice validation failed", "error", err.Error())
		http.Error(w, "Validation failed", http.StatusUnauthorized)
		return
	}

	var notice entity.TransferNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		requestLogger.LogError(ctx, "Failed to parse JSON body", err)
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.usecases.ProcessDeposit.Execute(ctx, &notice); err != nil {
		writeError(w, requestLogger, ctx, "Failed to process transfer notice", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	requestLogger.LogInfo(ctx, "Transfer notice processed",
		"from", notice.From,
		"quantity", notice.Quantity,
		"issuer", notice.Issuer)
}

// HandleBalance handles GET /balance/{user} requests
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user := strings.TrimPrefix(r.URL.Path, "/balance/")
	if user == "" || user == r.URL.Path {
		http.Error(w, "Missing user parameter", http.StatusBadRequest)
		return
	}

	balance, err := h.usecases.GetBalance.Execute(ctx, user)
	if err != nil {
		writeError(w, requestLogger, ctx, "Failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, balance)
}

// HandleAdminListing handles DELETE /admin/listings/{account} requests
func (h *Handler) HandleAdminListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	account := strings.TrimPrefix(r.URL.Path, "/admin/listings/")
	if account == "" || account == r.URL.Path {
		http.Error(w, "Missing account parameter", http.StatusBadRequest)
		return
	}

	err := h.usecases.RemoveSale.Execute(ctx, r.Header.Get(accountHeader), account)
	if err != nil {
		writeError(w, requestLogger, ctx, "Failed to remove listing", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// HandleAdminFee handles PUT /admin/fee requests
func (h *Handler) HandleAdminFee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req feeRequestSchema
	if !h.decodeBody(w, r, &req) {
		return
	}

	err := h.usecases.AdjustFee.Execute(ctx, r.Header.Get(accountHeader), req.Fee)
	if err != nil {
		writeError(w, requestLogger, ctx, "Failed to adjust fee", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// HandleAuthority handles POST and DELETE /authority requests, recording
// (or revoking) the delegation of an account permission to this system.
func (h *Handler) HandleAuthority(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	var req authorityRequestSchema
	if !h.decodeBody(w, r, &req) {
		return
	}

	if r.Header.Get(accountHeader) != req.Account {
		writeError(w, requestLogger, ctx, "Authority change rejected", entity.ErrUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.registry.Grant(ctx, req.Account, req.Permission)
		writeJSON(w, http.StatusOK, map[string]string{"status": "granted"})
	case http.MethodDelete:
		h.registry.Revoke(ctx, req.Account, req.Permission)
		writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// decodeBody parses and validates a JSON request body, writing the error
// response itself when the body is unusable.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

// SetupRoutes sets up all HTTP routes
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	wrap := func(next http.HandlerFunc) http.HandlerFunc {
		return RequestIDMiddleware(LoggingMiddleware(next, h.logger), h.logger)
	}

	mux.HandleFunc("/listings", wrap(h.HandleListings))
	mux.HandleFunc("/listings/", wrap(h.HandleListing))
	mux.HandleFunc("/purchases", wrap(h.HandlePurchases))
	mux.HandleFunc("/withdrawals", wrap(h.HandleWithdrawals))
	mux.HandleFunc("/transfers", wrap(h.HandleTransfers))
	mux.HandleFunc("/balance/", wrap(h.HandleBalance))
	mux.HandleFunc("/admin/listings/", wrap(h.HandleAdminListing))
	mux.HandleFunc("/admin/fee", wrap(h.HandleAdminFee))
	mux.HandleFunc("/authority", wrap(h.HandleAuthority))

	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, log logger.Logger, ctx context.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, entity.ErrNotListed),
		errors.Is(err, entity.ErrBalanceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrAlreadyListed):
		status = http.StatusConflict
	case errors.Is(err, entity.ErrInsufficientFunds),
		errors.Is(err, entity.ErrPriceTooLow),
		errors.Is(err, entity.ErrPriceMismatch),
		errors.Is(err, entity.ErrBalanceOverflow):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrInvalidQuantity),
		errors.Is(err, entity.ErrInvalidAccount),
		errors.Is(err, entity.ErrSameRecipient),
		errors.Is(err, entity.ErrNonPositiveAmount),
		errors.Is(err, entity.ErrInvalidKey),
		errors.Is(err, entity.ErrMissingFrom),
		errors.Is(err, entity.ErrMissingTo),
		errors.Is(err, entity.ErrMissingQuantity),
		errors.Is(err, entity.ErrMissingIssuer):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		log.LogError(ctx, msg, err)
	} else {
		log.LogWarning(ctx, msg, "error", err.Error(), "status", status)
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
