package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zulandar/pressyard/internal/gate"
)

// Metrics are the API's Prometheus collectors.
type Metrics struct {
	Requests        *prometheus.CounterVec
	Classifications *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "press_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "press_classified_elements_total",
			Help: "Elements classified by station pair and outcome.",
		}, []string{"from", "to", "outcome"}),
	}
	for _, c := range []prometheus.Collector{m.Requests, m.Classifications} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveClassification counts the elements of a classification. It has
// the gate.Observer signature.
func (m *Metrics) ObserveClassification(q gate.Query, r gate.Result) {
	from, to := q.From.String(), q.To.String()
	m.Classifications.WithLabelValues(from, to, gate.StandBy.String()).Add(float64(len(r.StandByElements())))
	m.Classifications.WithLabelValues(from, to, gate.Converted.String()).Add(float64(len(r.ConvertedElements())))
}

func (m *Metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
