package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"splitledger-backend/internal/dto"
	"splitledger-backend/internal/model"
	"splitledger-backend/internal/service"
	"splitledger-backend/internal/settlement"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	reasonUnbalanced    = "Ledger entries do not balance"
	reasonInvalidAmount = "Invalid amount in ledger entries"
)

type SettlementController struct {
	settlementService service.SettlementService
	logger            zerolog.Logger
}

func NewSettlementController(settlementService service.SettlementService, logger zerolog.Logger) *SettlementController {
	return &SettlementController{
		settlementService: settlementService,
		logger:            logger.With().Str("component", "settlement_controller").Logger(),
	}
}

func RegisterSettlementRoutes(router *gin.Engine, controller *SettlementController) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/settlements", controller.Settle)
		v1.GET("/groups/:id/balances", controller.GroupBalances)
		v1.GET("/users/:id/balances", controller.UserBalances)
	}
}

// Settle godoc
// @Summary      Settle a set of ledger entries
// @Description  Nets the entries per participant and returns the transfers that clear every balance. Amounts are decimal strings; results are rounded to 2 decimal places.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SettlementRequest    true  "Ledger entries"
// @Success      200      {array}   dto.TransferResponse
// @Failure      400      {object}  model.Response  "Invalid body or amount"
// @Failure      422      {object}  model.Response  "Entries do not balance"
// @Router       /api/v1/settlements [post]
func (c *SettlementController) Settle(ctx *gin.Context) {
	var req dto.SettlementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(reasonInvalidBody, nil))
		return
	}

	entries, err := toLedgerEntries(req.Entries)
	if err != nil {
		c.logger.Info().Err(err).Msg("Rejected settlement request")
		ctx.JSON(http.StatusBadRequest, model.NewResponse(reasonInvalidAmount, nil))
		return
	}

	transfers, err := c.settlementService.Settle(ctx.Request.Context(), entries)
	if err != nil {
		c.writeSettlementError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, transfers)
}

// GroupBalances godoc
// @Summary      Settle a group
// @Description  Nets every stored expense of the group and returns the transfers that settle it.
// @Tags         settlements
// @Produce      json
// @Param        id   path      int  true  "Group ID"
// @Success      200  {array}   dto.TransferResponse
// @Failure      400  {object}  model.Response  "Invalid group id"
// @Failure      503  {object}  model.Response  "Ledger store not configured"
// @Router       /api/v1/groups/{id}/balances [get]
func (c *SettlementController) GroupBalances(ctx *gin.Context) {
	groupID, ok := pathID(ctx)
	if !ok {
		return
	}
	transfers, err := c.settlementService.GroupBalances(ctx.Request.Context(), groupID)
	if err != nil {
		c.writeSettlementError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, transfers)
}

// UserBalances godoc
// @Summary      Balances of a user
// @Description  Settles every expense the user takes part in and returns one signed amount per counterparty. Positive amounts are owed to the user.
// @Tags         settlements
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {array}   dto.UserBalanceResponse
// @Failure      400  {object}  model.Response  "Invalid user id"
// @Failure      503  {object}  model.Response  "Ledger store not configured"
// @Router       /api/v1/users/{id}/balances [get]
func (c *SettlementController) UserBalances(ctx *gin.Context) {
	userID, ok := pathID(ctx)
	if !ok {
		return
	}
	balances, err := c.settlementService.UserBalances(ctx.Request.Context(), userID)
	if err != nil {
		c.writeSettlementError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, balances)
}

func (c *SettlementController) writeSettlementError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, settlement.ErrUnbalancedLedger):
		c.logger.Warn().Err(err).Msg("Rejected unbalanced ledger")
		ctx.JSON(http.StatusUnprocessableEntity, model.NewResponse(reasonUnbalanced, nil))
	case errors.Is(err, service.ErrLedgerUnavailable):
		ctx.JSON(http.StatusServiceUnavailable, model.NewResponse("Ledger store is not configured", nil))
	default:
		c.logger.Error().Err(err).Msg("Error computing settlement")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to compute settlement", nil))
	}
}

func pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid id", nil))
		return 0, false
	}
	return id, true
}

func toLedgerEntries(reqs []dto.LedgerEntryRequest) ([]model.LedgerEntry, error) {
	entries := make([]model.LedgerEntry, 0, len(reqs))
	for i, r := range reqs {
		lent, err := parseAmount(r.AmountLent)
		if err != nil {
			return nil, fmt.Errorf("entry %d amountLent %q: %w", i, r.AmountLent, err)
		}
		owed, err := parseAmount(r.AmountOwed)
		if err != nil {
			return nil, fmt.Errorf("entry %d amountOwed %q: %w", i, r.AmountOwed, err)
		}
		entries = append(entries, model.LedgerEntry{
			ParticipantID: r.ParticipantID,
			AmountLent:    lent,
			AmountOwed:    owed,
		})
	}
	return entries, nil
}

// parseAmount treats an empty amount as zero. Negative amounts and amounts
// finer than a cent are rejected.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("negative amount")
	}
	if !model.HasAmountPrecision(d) {
		return decimal.Zero, fmt.Errorf("more than %d decimal places", model.AmountPlaces)
	}
	return d, nil
}
