package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TourHive/booking-flow-backend/internal/store"
	"github.com/TourHive/booking-flow-backend/middleware"
	"github.com/TourHive/booking-flow-backend/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerSchemaJSON = `{
	"custom": {
		"contact_app": {"use": ["contact"], "is_require": "true"},
		"nationality": {"use": ["cus_01"], "is_require": "true"}
	},
	"traffics": [
		{
			"traffic_type": {"traffic_type_value": "flight"},
			"flight_no": {"is_require": "true"},
			"arrival_time": {"is_require": "false"}
		}
	]
}`

type fakeSchemaProvider struct {
	schema *types.FieldSchema
	err    error
}

func (f *fakeSchemaProvider) Get(ctx context.Context, prodNo, pkgNo, itemNo string) (*types.FieldSchema, error) {
	return f.schema, f.err
}

type fakeSubmitter struct {
	outcome *types.SubmitOutcome
	payload map[string]store.FieldValue
}

func (f *fakeSubmitter) Submit(ctx context.Context, payload map[string]store.FieldValue) *types.SubmitOutcome {
	f.payload = payload
	if f.outcome != nil {
		return f.outcome
	}
	return &types.SubmitOutcome{Total: 1, Succeeded: 1, Results: []types.BookingResult{{Success: true}}}
}

type handlerFixture struct {
	router    *gin.Engine
	registry  *store.SessionRegistry
	submitter *fakeSubmitter
}

func newFixture(t *testing.T, schemas SchemaProvider) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &handlerFixture{
		registry:  store.NewSessionRegistry(time.Hour),
		submitter: &fakeSubmitter{},
	}
	h := NewBookingHandler(f.registry, schemas, f.submitter)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	v1 := r.Group("/v1/booking")
	{
		v1.POST("/sessions", h.CreateSession)
		v1.GET("/sessions/:id", h.GetSession)
		v1.DELETE("/sessions/:id", h.DeleteSession)
		v1.PUT("/sessions/:id/buyer", h.UpdateBuyer)
		v1.PUT("/sessions/:id/custom/:cusType", h.UpdateCustom)
		v1.PUT("/sessions/:id/traffic/:trafficType", h.UpdateTraffic)
		v1.GET("/sessions/:id/validation", h.GetValidation)
		v1.GET("/sessions/:id/validation/:sectionID", h.GetSectionValidation)
		v1.POST("/sessions/:id/submit", h.Submit)
	}
	f.router = r
	return f
}

func handlerSchema(t *testing.T) *types.FieldSchema {
	t.Helper()
	var schema types.FieldSchema
	require.NoError(t, json.Unmarshal([]byte(handlerSchemaJSON), &schema))
	return &schema
}

func (f *handlerFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *handlerFixture) openSession(t *testing.T) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/v1/booking/sessions", types.SessionCreateRequest{
		ProdNo: "P1", PkgNo: "K1", ItemNo: "I1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func TestCreateSession(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})

	w := f.do(t, http.MethodPost, "/v1/booking/sessions", types.SessionCreateRequest{
		ProdNo: "P1", PkgNo: "K1", ItemNo: "I1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp types.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "P1", resp.ProdNo)
	assert.NotNil(t, resp.Schema)

	ids := make([]string, len(resp.Sections))
	for i, s := range resp.Sections {
		ids[i] = s.SectionID
	}
	assert.Equal(t, []string{"buyer", "cus_01", "contact", "flight"}, ids)
}

func TestCreateSessionMissingFields(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	w := f.do(t, http.MethodPost, "/v1/booking/sessions", map[string]string{"prod_no": "P1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSessionUpstreamFailure(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{err: assert.AnError})
	w := f.do(t, http.MethodPost, "/v1/booking/sessions", types.SessionCreateRequest{
		ProdNo: "P1", PkgNo: "K1", ItemNo: "I1",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 0, f.registry.Len())
}

func TestGetSessionUnknown(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	w := f.do(t, http.MethodGet, "/v1/booking/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSession(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	id := f.openSession(t)

	w := f.do(t, http.MethodDelete, "/v1/booking/sessions/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/v1/booking/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateBuyer(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	id := f.openSession(t)

	w := f.do(t, http.MethodPut, "/v1/booking/sessions/"+id+"/buyer", map[string]string{
		"buyer_name":  "Chen",
		"buyer_email": "chen@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.SectionValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "buyer", resp.SectionID)
	assert.False(t, resp.Complete)
	assert.Equal(t, []string{"buyer - buyer_tel", "buyer - buyer_country"}, resp.Missing)

	w = f.do(t, http.MethodPut, "/v1/booking/sessions/"+id+"/buyer", map[string]string{
		"buyer_tel":     "+886912345678",
		"buyer_country": "TW",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Complete)
}

func TestUpdateCustom(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	id := f.openSession(t)

	w := f.do(t, http.MethodPut, "/v1/booking/sessions/"+id+"/custom/contact", types.CustomUpdateRequest{
		Fields: map[string]interface{}{"contact_app": "line"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.SectionValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Complete)
	assert.Empty(t, resp.Missing)
}

func TestUpdateCustomUnknownType(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	id := f.openSession(t)

	w := f.do(t, http.MethodPut, "/v1/booking/sessions/"+id+"/custom/cus_99", types.CustomUpdateRequest{
		Fields: map[string]interface{}{"x": "y"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateTraffic(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	id := f.openSession(t)

	specIndex := 0
	w := f.do(t, http.MethodPut, "/v1/booking/sessions/"+id+"/traffic/flight", types.TrafficUpdateRequest{
		SpecIndex: &specIndex,
		Fields:    map[string]interface{}{"flight_no": "BR87"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.SectionValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Complete)
}

func TestUpdateTrafficUnknownType(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	id := f.openSession(t)

	w := f.do(t, http.MethodPut, "/v1/booking/sessions/"+id+"/traffic/voucher", types.TrafficUpdateRequest{
		Fields: map[string]interface{}{"code": "X"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetSectionValidationUnknownSectionIsClean(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	id := f.openSession(t)

	w := f.do(t, http.MethodGet, "/v1/booking/sessions/"+id+"/validation/seat_map", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.SectionValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Complete)
	assert.Empty(t, resp.Missing)
}

func fillBuyer(t *testing.T, f *handlerFixture, id string) {
	t.Helper()
	w := f.do(t, http.MethodPut, "/v1/booking/sessions/"+id+"/buyer", map[string]string{
		"buyer_name":    "Chen",
		"buyer_email":   "chen@example.com",
		"buyer_tel":     "+886912345678",
		"buyer_country": "TW",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitRejectsUnshippablePayload(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	id := f.openSession(t)

	// Buyer never filled: the pre-flight check fails before any upstream call.
	w := f.do(t, http.MethodPost, "/v1/booking/sessions/"+id+"/submit", types.SubmitRequest{
		Skus: []types.Sku{{SkuID: "A", Qty: 1, Price: 100}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, f.submitter.payload)
}

func TestSubmitSuccessDropsSession(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	id := f.openSession(t)
	fillBuyer(t, f, id)

	w := f.do(t, http.MethodPost, "/v1/booking/sessions/"+id+"/submit", types.SubmitRequest{
		Skus: []types.Sku{{SkuID: "A", Qty: 1, Price: 100}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var outcome types.SubmitOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, 1, outcome.Succeeded)

	// Session identity rides on the payload.
	assert.Equal(t, "P1", f.submitter.payload["prod_no"])
	assert.Equal(t, "Chen", f.submitter.payload["buyer_name"])

	w = f.do(t, http.MethodGet, "/v1/booking/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitPartialFailureKeepsSession(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	f.submitter.outcome = &types.SubmitOutcome{
		Total: 2, Succeeded: 1, Failed: 1,
		Results: []types.BookingResult{
			{SkuID: "A", Success: true},
			{SkuID: "B", Error: "connection reset"},
		},
	}
	id := f.openSession(t)
	fillBuyer(t, f, id)

	w := f.do(t, http.MethodPost, "/v1/booking/sessions/"+id+"/submit", types.SubmitRequest{
		Skus: []types.Sku{{SkuID: "A", Qty: 1, Price: 100}, {SkuID: "B", Qty: 1, Price: 50}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/v1/booking/sessions/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitOverridesWin(t *testing.T) {
	f := newFixture(t, &fakeSchemaProvider{schema: handlerSchema(t)})
	id := f.openSession(t)
	fillBuyer(t, f, id)

	w := f.do(t, http.MethodPost, "/v1/booking/sessions/"+id+"/submit", types.SubmitRequest{
		Skus:      []types.Sku{{SkuID: "A", Qty: 1, Price: 100}},
		Overrides: map[string]interface{}{"buyer_name": "Wang"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Wang", f.submitter.payload["buyer_name"])
}
