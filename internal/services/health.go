package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/teapick/internal/catalog"
)

const (
	HealthStatusHealthy   = "healthy"
	HealthStatusDegraded  = "degraded"
	HealthStatusUnhealthy = "unhealthy"
)

type HealthService struct {
	logger      *logrus.Logger
	catalog     *catalog.Catalog
	redisClient *redis.Client
	limiter     RateLimiter

	healthCheckStatus *prometheus.GaugeVec
	lastHealthCheck   *prometheus.GaugeVec
}

type HealthStatus struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]string      `json:"services"`
	Critical    []string               `json:"critical_failures,omitempty"`
	NonCritical []string               `json:"non_critical_failures,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// NewHealthService reports on the catalog and, when configured, Redis.
// redisClient and limiter may be nil.
func NewHealthService(
	logger *logrus.Logger,
	c *catalog.Catalog,
	redisClient *redis.Client,
	limiter RateLimiter,
	reg prometheus.Registerer,
) *HealthService {
	factory := promauto.With(reg)

	return &HealthService{
		logger:      logger,
		catalog:     c,
		redisClient: redisClient,
		limiter:     limiter,
		healthCheckStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "health_check_status",
			Help: "Health check status (1 = healthy, 0 = unhealthy)",
		}, []string{"service"}),
		lastHealthCheck: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "health_check_timestamp",
			Help: "Timestamp of last health check",
		}, []string{"service"}),
	}
}

func (s *HealthService) CheckHealth(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Timestamp: time.Now(),
		Services:  make(map[string]string),
		Details: map[string]interface{}{
			"catalog_items": s.catalog.Len(),
		},
	}
	if s.limiter != nil {
		status.Details["rate_limit_backend"] = s.limiter.Backend()
	}

	critical := map[string]func(context.Context) error{
		"catalog": s.checkCatalog,
	}
	nonCritical := map[string]func(context.Context) error{}
	if s.redisClient != nil {
		nonCritical["redis"] = s.checkRedis
	}

	allCriticalHealthy := true
	for _, name := range sortedKeys(critical) {
		if err := critical[name](ctx); err != nil {
			status.Services[name] = HealthStatusUnhealthy
			status.Critical = append(status.Critical, name)
			allCriticalHealthy = false
			s.logger.WithError(err).Errorf("Critical service %s is unhealthy", name)
			s.UpdateHealthMetrics(name, false)
		} else {
			status.Services[name] = HealthStatusHealthy
			s.UpdateHealthMetrics(name, true)
		}
	}

	for _, name := range sortedKeys(nonCritical) {
		if err := nonCritical[name](ctx); err != nil {
			status.Services[name] = HealthStatusUnhealthy
			status.NonCritical = append(status.NonCritical, name)
			s.logger.WithError(err).Warnf("Non-critical service %s is unhealthy", name)
			s.UpdateHealthMetrics(name, false)
		} else {
			status.Services[name] = HealthStatusHealthy
			s.UpdateHealthMetrics(name, true)
		}
	}

	switch {
	case !allCriticalHealthy:
		status.Status = HealthStatusUnhealthy
	case len(status.NonCritical) > 0:
		status.Status = HealthStatusDegraded
	default:
		status.Status = HealthStatusHealthy
	}

	return status
}

func (s *HealthService) checkCatalog(context.Context) error {
	if s.catalog.Len() == 0 {
		return ErrEmptyCatalog
	}
	return nil
}

func (s *HealthService) checkRedis(ctx context.Context) error {
	if s.redisClient == nil {
		return errors.New("redis client not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return s.redisClient.Ping(ctx).Err()
}

// UpdateHealthMetrics updates health check metrics
func (s *HealthService) UpdateHealthMetrics(serviceName string, healthy bool) {
	if healthy {
		s.healthCheckStatus.WithLabelValues(serviceName).Set(1)
	} else {
		s.healthCheckStatus.WithLabelValues(serviceName).Set(0)
	}
	s.lastHealthCheck.WithLabelValues(serviceName).Set(float64(time.Now().Unix()))
}

func sortedKeys(m map[string]func(context.Context) error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
