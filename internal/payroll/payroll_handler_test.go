package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CodifyCanvas/Foodya-sub001/internal/payroll"
	payrollerrors "github.com/CodifyCanvas/Foodya-sub001/internal/payroll/errors"
	"github.com/CodifyCanvas/Foodya-sub001/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakePayrollService struct {
	refreshFn             func(ctx context.Context, period string) (payroll.RefreshPayrollsResponse, error)
	getEmployeePayrollsFn func(ctx context.Context, employeeID int64) (payroll.EmployeePayrollsResponse, error)
	markUnpaidAsPaidFn    func(ctx context.Context, employeeID int64, actorID string, payrollIDs []int64) (payroll.SettlePayrollsResponse, error)
	adjustFn              func(ctx context.Context, payrollID int64, req payroll.AdjustPayrollRequest) (payroll.PayrollResponse, error)
}

func (f *fakePayrollService) Refresh(ctx context.Context, period string) (payroll.RefreshPayrollsResponse, error) {
	return f.refreshFn(ctx, period)
}

func (f *fakePayrollService) GetEmployeePayrolls(ctx context.Context, employeeID int64) (payroll.EmployeePayrollsResponse, error) {
	return f.getEmployeePayrollsFn(ctx, employeeID)
}

func (f *fakePayrollService) MarkUnpaidAsPaid(ctx context.Context, employeeID int64, actorID string, payrollIDs []int64) (payroll.SettlePayrollsResponse, error) {
	return f.markUnpaidAsPaidFn(ctx, employeeID, actorID, payrollIDs)
}

func (f *fakePayrollService) Adjust(ctx context.Context, payrollID int64, req payroll.AdjustPayrollRequest) (payroll.PayrollResponse, error) {
	return f.adjustFn(ctx, payrollID, req)
}

func TestPayrollHandler_Refresh(t *testing.T) {
	svc := &fakePayrollService{
		refreshFn: func(ctx context.Context, period string) (payroll.RefreshPayrollsResponse, error) {
			assert.Equal(t, "2025-08", period)
			return payroll.RefreshPayrollsResponse{Period: period, Created: 3, Skipped: 1, FailedEmployeeIDs: []int64{}}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/refresh", strings.NewReader(`{"period":"2025-08"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Refresh(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var resp payroll.RefreshPayrollsResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 3, resp.Created)
	assert.Equal(t, 1, resp.Skipped)
}

func TestPayrollHandler_Refresh_EmptyBodyDefaultsPeriod(t *testing.T) {
	svc := &fakePayrollService{
		refreshFn: func(ctx context.Context, period string) (payroll.RefreshPayrollsResponse, error) {
			assert.Equal(t, "", period)
			return payroll.RefreshPayrollsResponse{Period: "2025-08", FailedEmployeeIDs: []int64{}}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/refresh", nil)

	h.Refresh(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPayrollHandler_Settle(t *testing.T) {
	svc := &fakePayrollService{
		markUnpaidAsPaidFn: func(ctx context.Context, employeeID int64, actorID string, payrollIDs []int64) (payroll.SettlePayrollsResponse, error) {
			assert.Equal(t, int64(42), employeeID)
			assert.Equal(t, "7", actorID)
			assert.Equal(t, []int64{10, 11}, payrollIDs)
			return payroll.SettlePayrollsResponse{Message: "Payroll records marked as paid", RowsUpdated: 2}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/employee/42", strings.NewReader(`{"payroll_ids":[10,11]}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	c.Set("user_id", "7")

	h.Settle(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayrollHandler_Settle_Conflict(t *testing.T) {
	svc := &fakePayrollService{
		markUnpaidAsPaidFn: func(ctx context.Context, employeeID int64, actorID string, payrollIDs []int64) (payroll.SettlePayrollsResponse, error) {
			return payroll.SettlePayrollsResponse{}, payrollerrors.ErrSettlementConflict
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/employee/42", strings.NewReader(`{"payroll_ids":[10]}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	h.Settle(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	if assert.NotNil(t, env.Error) {
		assert.Equal(t, apperror.CodeConflict, env.Error.Code)
	}
}

func TestPayrollHandler_Settle_InvalidEmployeeID(t *testing.T) {
	h := payroll.NewHandler(&fakePayrollService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/employee/abc", strings.NewReader(`{"payroll_ids":[10]}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Settle(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayrollHandler_Adjust(t *testing.T) {
	svc := &fakePayrollService{
		adjustFn: func(ctx context.Context, payrollID int64, req payroll.AdjustPayrollRequest) (payroll.PayrollResponse, error) {
			assert.Equal(t, int64(10), payrollID)
			assert.Equal(t, "1000", req.Bonus)
			assert.Equal(t, "250", req.Penalty)
			return payroll.PayrollResponse{ID: payrollID, TotalPay: "50750.00"}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPatch, "/payrolls/records/10/adjust", strings.NewReader(`{"bonus":"1000","penalty":"250"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "10"}}

	h.Adjust(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var resp payroll.PayrollResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "50750.00", resp.TotalPay)
}

func TestPayrollHandler_Adjust_PaidRecord(t *testing.T) {
	svc := &fakePayrollService{
		adjustFn: func(ctx context.Context, payrollID int64, req payroll.AdjustPayrollRequest) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{}, payrollerrors.ErrAdjustPaidPayroll
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPatch, "/payrolls/records/10/adjust", strings.NewReader(`{"bonus":"1000","penalty":"0"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "10"}}

	h.Adjust(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	if assert.NotNil(t, env.Error) {
		assert.Equal(t, apperror.CodeInvalidState, env.Error.Code)
	}
}

func TestPayrollHandler_GetEmployeePayrolls_InvalidID(t *testing.T) {
	h := payroll.NewHandler(&fakePayrollService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/payrolls/employee/-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "-1"}}

	h.GetEmployeePayrolls(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
}
