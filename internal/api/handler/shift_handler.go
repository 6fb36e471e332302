package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/buscaroli/shifts-api/internal/api/metrics"
	"github.com/buscaroli/shifts-api/internal/core/domain"
	"github.com/buscaroli/shifts-api/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// ShiftHandler serves the /shifts routes. Every route runs behind the Auth
// middleware and acts on the caller's shifts only.
type ShiftHandler struct {
	service ports.ShiftService
}

func NewShiftHandler(service ports.ShiftService) *ShiftHandler {
	return &ShiftHandler{service: service}
}

// Create handles POST /shifts and POST /shifts/add.
//
// @Summary      Create a shift
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Replays return the original shift"
// @Param        body             body      createShiftRequest  true   "Shift details"
// @Success      201              {object}  shiftResponse
// @Success      200              {object}  shiftResponse  "Idempotent replay"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Router       /shifts [post]
func (h *ShiftHandler) Create(c echo.Context) error {
	user, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createShiftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in, err := toCreateShiftInput(req, user.ID, c.Request().Header.Get(headerIdempotencyKey))
	if err != nil {
		return err
	}

	result, err := h.service.CreateShift(c.Request().Context(), in)
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.ShiftsCreatedTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, toShiftResponse(result.Shift))
	}
	metrics.ShiftsCreatedTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, toShiftResponse(result.Shift))
}

// List handles GET /shifts.
//
// @Summary      List own shifts
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Param        paid  query     bool  false  "false lists unpaid shifts, true paid ones"
// @Success      200   {array}   shiftResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /shifts [get]
func (h *ShiftHandler) List(c echo.Context) error {
	user, _, err := currentUser(c)
	if err != nil {
		return err
	}

	filter := domain.ShiftFilter{Owner: user.ID}
	if raw := c.QueryParam("paid"); raw != "" {
		paid, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.Invalid("paid must be true or false")
		}
		filter.Paid = &paid
	}

	shifts, err := h.service.ListShifts(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShiftResponses(shifts))
}

// Get handles GET /shifts/:id.
//
// @Summary      Read a shift
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Shift id"
// @Success      200  {object}  shiftResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /shifts/{id} [get]
func (h *ShiftHandler) Get(c echo.Context) error {
	user, _, err := currentUser(c)
	if err != nil {
		return err
	}

	shift, err := h.service.GetShift(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShiftResponse(shift))
}

// Update handles PATCH /shifts/:id.
//
// @Summary      Update a shift
// @Description  Only where, when, billed, description and paid may be sent; any other key rejects the whole update.
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Shift id"
// @Param        body  body      updateShiftRequest  true  "Fields to change"
// @Success      200   {object}  shiftResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /shifts/{id} [patch]
func (h *ShiftHandler) Update(c echo.Context) error {
	user, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateShiftRequest
	fields, err := decodePatch(c, &req)
	if err != nil {
		return err
	}
	in, err := toUpdateShiftInput(fields, req)
	if err != nil {
		return err
	}

	shift, err := h.service.UpdateShift(c.Request().Context(), user.ID, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShiftResponse(shift))
}

// Delete handles DELETE /shifts/:id.
//
// @Summary      Delete a shift
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Shift id"
// @Success      200  {object}  shiftResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /shifts/{id} [delete]
func (h *ShiftHandler) Delete(c echo.Context) error {
	user, _, err := currentUser(c)
	if err != nil {
		return err
	}

	shift, err := h.service.DeleteShift(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.ShiftsDeletedTotal.Inc()
	return c.JSON(http.StatusOK, toShiftResponse(shift))
}
