package metrics

import (
	"math/big"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Farmchain Metrics Collector

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all farmchain metrics
type Collector struct {
	// Distributor metrics
	StakeActionsTotal *prometheus.CounterVec
	StakeVolume       *prometheus.CounterVec
	DepositFees       *prometheus.CounterVec
	RewardsMinted     *prometheus.CounterVec
	RewardsPaid       *prometheus.CounterVec
	ReserveShortfall  *prometheus.CounterVec
	RewarderFailures  *prometheus.CounterVec

	// Pool metrics
	PoolWeight            *prometheus.GaugeVec
	PoolTotalStaked       *prometheus.GaugeVec
	PoolAccRewardPerShare *prometheus.GaugeVec
	EmissionRate          prometheus.Gauge
	ReserveBalance        prometheus.Gauge

	// Vault metrics
	VaultActionsTotal  *prometheus.CounterVec
	VaultTotalShares   prometheus.Gauge
	VaultUnderlying    prometheus.Gauge
	VaultPricePerShare prometheus.Gauge
	VaultHarvested     prometheus.Counter

	// System metrics
	EndBlockLatency *prometheus.HistogramVec
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	c.StakeActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmchain",
			Subsystem: "farm",
			Name:      "stake_actions_total",
			Help:      "Deposits, withdrawals and emergency withdrawals per pool",
		},
		[]string{"pool_id", "action"},
	)

	c.StakeVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmchain",
			Subsystem: "farm",
			Name:      "stake_volume",
			Help:      "Stake moved in or out of each pool",
		},
		[]string{"pool_id", "action"},
	)

	c.DepositFees = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmchain",
			Subsystem: "farm",
			Name:      "deposit_fees",
			Help:      "Deposit fees routed to the fee sink",
		},
		[]string{"pool_id"},
	)

	c.RewardsMinted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmchain",
			Subsystem: "farm",
			Name:      "rewards_minted",
			Help:      "Reward tokens minted per recipient",
		},
		[]string{"recipient"},
	)

	c.RewardsPaid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmchain",
			Subsystem: "farm",
			Name:      "rewards_paid",
			Help:      "Rewards paid out of the reserve per pool",
		},
		[]string{"pool_id"},
	)

	c.ReserveShortfall = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmchain",
			Subsystem: "farm",
			Name:      "reserve_shortfall",
			Help:      "Pending rewards forfeited because the reserve ran short",
		},
		[]string{"pool_id"},
	)

	c.RewarderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmchain",
			Subsystem: "farm",
			Name:      "rewarder_failures_total",
			Help:      "Tolerated rewarder hook failures",
		},
		[]string{"rewarder"},
	)

	c.PoolWeight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "farmchain",
			Subsystem: "pool",
			Name:      "weight",
			Help:      "Allocation weight of each pool",
		},
		[]string{"pool_id", "denom"},
	)

	c.PoolTotalStaked = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "farmchain",
			Subsystem: "pool",
			Name:      "total_staked",
			Help:      "Total stake recorded in each pool",
		},
		[]string{"pool_id", "denom"},
	)

	c.PoolAccRewardPerShare = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "farmchain",
			Subsystem: "pool",
			Name:      "acc_reward_per_share",
			Help:      "Reward accumulator of each pool (scaled by 1e12)",
		},
		[]string{"pool_id"},
	)

	c.EmissionRate = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "farmchain",
			Subsystem: "farm",
			Name:      "emission_rate",
			Help:      "Reward tokens emitted per second",
		},
	)

	c.ReserveBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "farmchain",
			Subsystem: "farm",
			Name:      "reserve_balance",
			Help:      "Reward tokens held by the reserve",
		},
	)

	c.VaultActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmchain",
			Subsystem: "vault",
			Name:      "actions_total",
			Help:      "Lock vault deposits, withdrawals and harvests",
		},
		[]string{"action"},
	)

	c.VaultTotalShares = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "farmchain",
			Subsystem: "vault",
			Name:      "total_shares",
			Help:      "Outstanding lock vault shares",
		},
	)

	c.VaultUnderlying = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "farmchain",
			Subsystem: "vault",
			Name:      "underlying",
			Help:      "Idle plus staked balance of the lock vault",
		},
	)

	c.VaultPricePerShare = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "farmchain",
			Subsystem: "vault",
			Name:      "price_per_share",
			Help:      "Underlying per share (scaled by 1e18)",
		},
	)

	c.VaultHarvested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "farmchain",
			Subsystem: "vault",
			Name:      "harvested",
			Help:      "Rewards harvested and compounded by the lock vault",
		},
	)

	c.EndBlockLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "farmchain",
			Subsystem: "system",
			Name:      "end_block_latency_ms",
			Help:      "EndBlocker latency in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100},
		},
		[]string{"module"},
	)

	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	// Distributor metrics
	prometheus.MustRegister(c.StakeActionsTotal)
	prometheus.MustRegister(c.StakeVolume)
	prometheus.MustRegister(c.DepositFees)
	prometheus.MustRegister(c.RewardsMinted)
	prometheus.MustRegister(c.RewardsPaid)
	prometheus.MustRegister(c.ReserveShortfall)
	prometheus.MustRegister(c.RewarderFailures)

	// Pool metrics
	prometheus.MustRegister(c.PoolWeight)
	prometheus.MustRegister(c.PoolTotalStaked)
	prometheus.MustRegister(c.PoolAccRewardPerShare)
	prometheus.MustRegister(c.EmissionRate)
	prometheus.MustRegister(c.ReserveBalance)

	// Vault metrics
	prometheus.MustRegister(c.VaultActionsTotal)
	prometheus.MustRegister(c.VaultTotalShares)
	prometheus.MustRegister(c.VaultUnderlying)
	prometheus.MustRegister(c.VaultPricePerShare)
	prometheus.MustRegister(c.VaultHarvested)

	prometheus.MustRegister(c.EndBlockLatency)
}

// ============ Recording Helpers ============

// RecordStakeAction records a deposit, withdrawal or emergency withdrawal
func (c *Collector) RecordStakeAction(poolID, action string, amount math.Int) {
	c.StakeActionsTotal.WithLabelValues(poolID, action).Inc()
	c.StakeVolume.WithLabelValues(poolID, action).Add(ToFloat(amount))
}

// RecordDepositFee records a deposit fee
func (c *Collector) RecordDepositFee(poolID string, fee math.Int) {
	c.DepositFees.WithLabelValues(poolID).Add(ToFloat(fee))
}

// RecordMint records reward tokens minted for a recipient
func (c *Collector) RecordMint(recipient string, amount math.Int) {
	c.RewardsMinted.WithLabelValues(recipient).Add(ToFloat(amount))
}

// RecordPayout records a reserve payout and any shortfall
func (c *Collector) RecordPayout(poolID string, paid, shortfall math.Int) {
	c.RewardsPaid.WithLabelValues(poolID).Add(ToFloat(paid))
	if shortfall.IsPositive() {
		c.ReserveShortfall.WithLabelValues(poolID).Add(ToFloat(shortfall))
	}
}

// RecordRewarderFailure records a tolerated rewarder failure
func (c *Collector) RecordRewarderFailure(rewarder string) {
	c.RewarderFailures.WithLabelValues(rewarder).Inc()
}

// RecordPool records the state of a pool
func (c *Collector) RecordPool(poolID, denom string, weight uint64, totalStaked, acc math.Int) {
	c.PoolWeight.WithLabelValues(poolID, denom).Set(float64(weight))
	c.PoolTotalStaked.WithLabelValues(poolID, denom).Set(ToFloat(totalStaked))
	c.PoolAccRewardPerShare.WithLabelValues(poolID).Set(ToFloat(acc))
}

// RecordEmission records the emission rate and reserve balance
func (c *Collector) RecordEmission(rate, reserve math.Int) {
	c.EmissionRate.Set(ToFloat(rate))
	c.ReserveBalance.Set(ToFloat(reserve))
}

// RecordVaultAction records a lock vault action
func (c *Collector) RecordVaultAction(action string) {
	c.VaultActionsTotal.WithLabelValues(action).Inc()
}

// RecordVaultHarvest records compounded rewards
func (c *Collector) RecordVaultHarvest(amount math.Int) {
	c.VaultHarvested.Add(ToFloat(amount))
}

// RecordVault records the lock vault share state
func (c *Collector) RecordVault(totalShares, underlying, pricePerShare math.Int) {
	c.VaultTotalShares.Set(ToFloat(totalShares))
	c.VaultUnderlying.Set(ToFloat(underlying))
	c.VaultPricePerShare.Set(ToFloat(pricePerShare))
}

// RecordEndBlock records EndBlocker latency
func (c *Collector) RecordEndBlock(module string, latencyMs float64) {
	c.EndBlockLatency.WithLabelValues(module).Observe(latencyMs)
}

// ToFloat converts an integer amount for export. Precision loss is fine here.
func ToFloat(v math.Int) float64 {
	if v.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
