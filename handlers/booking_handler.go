package handlers

import (
	"net/http"
	"strings"
	"time"

	apperrors "github.com/TourHive/booking-flow-backend/errors"
	"github.com/TourHive/booking-flow-backend/internal/booking"
	"github.com/TourHive/booking-flow-backend/internal/store"
	"github.com/TourHive/booking-flow-backend/logger"
	"github.com/TourHive/booking-flow-backend/types"
	"github.com/gin-gonic/gin"
)

// BookingHandler serves the booking session lifecycle: open a session
// against a package, collect field values, validate sections, submit.
type BookingHandler struct {
	registry     *store.SessionRegistry
	schemas      SchemaProvider
	orchestrator BookingSubmitter
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(registry *store.SessionRegistry, schemas SchemaProvider, orchestrator BookingSubmitter) *BookingHandler {
	return &BookingHandler{
		registry:     registry,
		schemas:      schemas,
		orchestrator: orchestrator,
	}
}

func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid_request_payload", err.Error()))
		return false
	}
	return true
}

// session resolves the :id path param to a live session, reporting 404
// through the error middleware when it is unknown or already swept.
func (h *BookingHandler) session(c *gin.Context) (*store.Session, bool) {
	id := c.Param("id")
	sess, ok := h.registry.Get(id)
	if !ok {
		_ = c.Error(apperrors.SessionNotFound(id))
		return nil, false
	}
	return sess, true
}

func sessionResponse(sess *store.Session, includeSchema bool) types.SessionResponse {
	resp := types.SessionResponse{
		SessionID: sess.ID,
		ProdNo:    sess.ProdNo,
		PkgNo:     sess.PkgNo,
		ItemNo:    sess.ItemNo,
		CreatedAt: sess.CreatedAt().UTC().Format(time.RFC3339),
		Sections:  booking.NewValidator(sess.Schema, sess.Fields).SectionStates(),
	}
	if includeSchema {
		resp.Schema = sess.Schema
	}
	return resp
}

// CreateSession godoc
// @Summary      Open a booking session
// @Description  Fetches the package's field schema and opens a session collecting field values against it
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        body  body      types.SessionCreateRequest  true  "Package identity"
// @Success      201   {object}  types.SessionResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      502   {object}  types.ErrorResponse
// @Router       /booking/sessions [post]
func (h *BookingHandler) CreateSession(c *gin.Context) {
	var req types.SessionCreateRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	schema, err := h.schemas.Get(c.Request.Context(), req.ProdNo, req.PkgNo, req.ItemNo)
	if err != nil {
		_ = c.Error(apperrors.UpstreamFailure(err, "field schema"))
		return
	}

	sess := h.registry.Create(req.ProdNo, req.PkgNo, req.ItemNo, schema)
	logger.GetLogger().Infow("Booking session opened",
		"session_id", sess.ID,
		"prod_no", req.ProdNo,
		"pkg_no", req.PkgNo,
		"sections", booking.ApplicableSections(schema))

	c.JSON(http.StatusCreated, sessionResponse(sess, true))
}

// GetSession godoc
// @Summary      Get session state
// @Description  Returns the session's package identity and per-section completeness
// @Tags         booking
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  types.SessionResponse
// @Failure      404  {object}  types.ErrorResponse
// @Router       /booking/sessions/{id} [get]
func (h *BookingHandler) GetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess, false))
}

// DeleteSession godoc
// @Summary      Close a booking session
// @Description  Resets the session's field state and drops it
// @Tags         booking
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  types.StatusResponse
// @Failure      404  {object}  types.ErrorResponse
// @Router       /booking/sessions/{id} [delete]
func (h *BookingHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if !h.registry.Delete(id) {
		_ = c.Error(apperrors.SessionNotFound(id))
		return
	}
	c.JSON(http.StatusOK, types.StatusResponse{Status: "Session closed"})
}

// UpdateBuyer godoc
// @Summary      Set buyer fields
// @Description  Writes buyer scalars and the guide language; omitted fields are untouched, present fields overwrite
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Session ID"
// @Param        body  body      types.BuyerUpdateRequest true  "Buyer fields"
// @Success      200   {object}  types.SectionValidationResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      404   {object}  types.ErrorResponse
// @Router       /booking/sessions/{id}/buyer [put]
func (h *BookingHandler) UpdateBuyer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req types.BuyerUpdateRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	buyerKeys := map[string]*string{
		store.BuyerName:    req.BuyerName,
		store.BuyerEmail:   req.BuyerEmail,
		store.BuyerTel:     req.BuyerTel,
		store.BuyerCountry: req.BuyerCountry,
	}
	for key, value := range buyerKeys {
		if value != nil {
			sess.Fields.SetBuyerField(key, *value)
		}
	}
	if req.GuideLang != nil {
		sess.Fields.SetGuideLang(*req.GuideLang)
	}

	c.JSON(http.StatusOK, sectionValidation(sess, "buyer"))
}

// UpdateCustom godoc
// @Summary      Set customer-type fields
// @Description  Writes fields of one customer type; last write wins per field
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Session ID"
// @Param        cusType  path      string                    true  "Customer type tag (cus_01, contact, send, ...)"
// @Param        body     body      types.CustomUpdateRequest true  "Field values"
// @Success      200      {object}  types.SectionValidationResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      404      {object}  types.ErrorResponse
// @Failure      422      {object}  types.ErrorResponse
// @Router       /booking/sessions/{id}/custom/{cusType} [put]
func (h *BookingHandler) UpdateCustom(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	cusType := c.Param("cusType")
	if sess.Schema == nil || !sess.Schema.HasCustomType(cusType) {
		_ = c.Error(apperrors.SchemaMismatch("Unknown customer type for this package", cusType))
		return
	}

	var req types.CustomUpdateRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	for fieldID, value := range req.Fields {
		sess.Fields.SetCustomField(cusType, fieldID, value)
	}

	missing := booking.NewValidator(sess.Schema, sess.Fields).ValidateCustomSection(cusType)
	c.JSON(http.StatusOK, types.SectionValidationResponse{
		SectionID: cusType,
		Complete:  len(missing) == 0,
		Missing:   orEmpty(missing),
	})
}

// UpdateTraffic godoc
// @Summary      Set traffic-entry fields
// @Description  Writes fields of one traffic entry, optionally pinned to a schema spec position via spec_index
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        id           path      string                     true  "Session ID"
// @Param        trafficType  path      string                     true  "Traffic type (flight, rentcar_01, ...)"
// @Param        body         body      types.TrafficUpdateRequest true  "Field values"
// @Success      200          {object}  types.SectionValidationResponse
// @Failure      400          {object}  types.ErrorResponse
// @Failure      404          {object}  types.ErrorResponse
// @Failure      422          {object}  types.ErrorResponse
// @Router       /booking/sessions/{id}/traffic/{trafficType} [put]
func (h *BookingHandler) UpdateTraffic(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	trafficType := c.Param("trafficType")
	if sess.Schema == nil || !sess.Schema.HasTrafficType(trafficType) {
		_ = c.Error(apperrors.SchemaMismatch("Unknown traffic type for this package", trafficType))
		return
	}

	var req types.TrafficUpdateRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	specIndex := -1
	if req.SpecIndex != nil {
		specIndex = *req.SpecIndex
	}
	for fieldID, value := range req.Fields {
		sess.Fields.SetTrafficField(trafficType, fieldID, value, specIndex)
	}

	missing := booking.NewValidator(sess.Schema, sess.Fields).ValidateTrafficSection([]string{trafficType})
	c.JSON(http.StatusOK, types.SectionValidationResponse{
		SectionID: trafficType,
		Complete:  len(missing) == 0,
		Missing:   orEmpty(missing),
	})
}

// GetValidation godoc
// @Summary      Validate all sections
// @Description  Reports every applicable section's completeness in presentation order
// @Tags         booking
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {array}   types.SectionState
// @Failure      404  {object}  types.ErrorResponse
// @Router       /booking/sessions/{id}/validation [get]
func (h *BookingHandler) GetValidation(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, booking.NewValidator(sess.Schema, sess.Fields).SectionStates())
}

// GetSectionValidation godoc
// @Summary      Validate one section
// @Description  Reports one section's missing required fields; unknown or non-applicable sections validate clean
// @Tags         booking
// @Produce      json
// @Param        id         path      string  true  "Session ID"
// @Param        sectionID  path      string  true  "Section ID"
// @Success      200        {object}  types.SectionValidationResponse
// @Failure      404        {object}  types.ErrorResponse
// @Router       /booking/sessions/{id}/validation/{sectionID} [get]
func (h *BookingHandler) GetSectionValidation(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sectionValidation(sess, c.Param("sectionID")))
}

// Submit godoc
// @Summary      Submit the booking
// @Description  Builds the payload from stored fields, validates it, and runs one booking+save cycle per sku. Mixed outcomes return 200 with per-sku results.
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Session ID"
// @Param        body  body      types.SubmitRequest true  "Skus and payload overrides"
// @Success      200   {object}  types.SubmitOutcome
// @Failure      400   {object}  types.ErrorResponse
// @Failure      404   {object}  types.ErrorResponse
// @Router       /booking/sessions/{id}/submit [post]
func (h *BookingHandler) Submit(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req types.SubmitRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	overrides := map[string]store.FieldValue{
		"prod_no": sess.ProdNo,
		"pkg_no":  sess.PkgNo,
		"item_no": sess.ItemNo,
	}
	for k, v := range req.Overrides {
		overrides[k] = v
	}
	if len(req.Skus) > 0 {
		overrides["skus"] = req.Skus
	}

	payload := booking.NewPayloadBuilder(sess.Fields).Build(overrides)

	if problems := booking.ValidatePayload(payload); len(problems) > 0 {
		_ = c.Error(apperrors.ValidationFailed("Payload not shippable", strings.Join(problems, "; ")))
		return
	}

	outcome := h.orchestrator.Submit(c.Request.Context(), payload)

	// A fully successful submission completes the flow; the session and its
	// field state are dropped. Partial failures keep the session alive for
	// a retry.
	if outcome.Failed == 0 {
		h.registry.Delete(sess.ID)
	}

	c.JSON(http.StatusOK, outcome)
}

func sectionValidation(sess *store.Session, sectionID string) types.SectionValidationResponse {
	missing := booking.NewValidator(sess.Schema, sess.Fields).ValidateSection(sectionID)
	return types.SectionValidationResponse{
		SectionID: sectionID,
		Complete:  len(missing) == 0,
		Missing:   orEmpty(missing),
	}
}

func orEmpty(missing []string) []string {
	if missing == nil {
		return []string{}
	}
	return missing
}
