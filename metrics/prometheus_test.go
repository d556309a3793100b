package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cosmossdk.io/math"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestToFloat(t *testing.T) {
	require.Equal(t, 0.0, ToFloat(math.Int{}))
	require.Equal(t, 1500.0, ToFloat(math.NewInt(1500)))
	require.InDelta(t, 1.1e18, ToFloat(math.NewIntWithDecimal(11, 17)), 1e3)
}

func TestRecordPayout(t *testing.T) {
	c := GetCollector()
	require.Same(t, c, GetCollector())

	before := promtestutil.ToFloat64(c.ReserveShortfall.WithLabelValues("payout-test"))
	c.RecordPayout("payout-test", math.NewInt(70), math.NewInt(30))
	c.RecordPayout("payout-test", math.NewInt(10), math.ZeroInt())

	require.Equal(t, 80.0, promtestutil.ToFloat64(c.RewardsPaid.WithLabelValues("payout-test")))
	require.Equal(t, before+30, promtestutil.ToFloat64(c.ReserveShortfall.WithLabelValues("payout-test")))
}

func TestHandlerServesGauges(t *testing.T) {
	c := GetCollector()
	c.RecordVault(math.NewInt(10), math.NewInt(11), math.NewIntWithDecimal(11, 17))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.True(t, strings.Contains(body, "vault_total_shares"), "vault gauge missing from scrape")
}
