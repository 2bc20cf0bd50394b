package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/api/v1/payments", "200", 0.2)
	RecordHTTPRequest("POST", "/api/v1/payments", "200", 0.1)
	RecordHTTPRequest("POST", "/api/v1/payments", "400", 0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/payments", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/payments", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordPaymentAction(t *testing.T) {
	PaymentActionsTotal.Reset()

	RecordPaymentAction("withdrawal", "success")
	RecordPaymentAction("withdrawal", "rejected")
	RecordPaymentAction("withdrawal", "success")

	assert.Equal(t, float64(2), testutil.ToFloat64(PaymentActionsTotal.WithLabelValues("withdrawal", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(PaymentActionsTotal.WithLabelValues("withdrawal", "rejected")))
}

func TestRecordCouponIssuedAndGateway(t *testing.T) {
	CouponsIssuedTotal.Reset()
	GatewayRequestDuration.Reset()

	RecordCouponIssued("created")
	RecordCouponIssued("reused")
	ObserveGatewayRequest("create_order", 0.3)

	assert.Equal(t, float64(1), testutil.ToFloat64(CouponsIssuedTotal.WithLabelValues("created")))
	assert.Equal(t, 1, testutil.CollectAndCount(GatewayRequestDuration))
}
