package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// backendRequests counts calls against the remote backend by path
// template and response code ("error" for transport failures).
var backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cafedaily_backend_requests_total",
	Help: "Requests issued to the remote backend.",
}, []string{"path", "code"})
