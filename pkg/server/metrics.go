package server

import (
	"net/http"

	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_http_requests_total",
		Help: "Catalog api requests by handler",
	}, []string{"handler"})
	requestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_http_errors_total",
		Help: "Catalog api requests that returned an error, by handler",
	}, []string{"handler"})
	noLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_load_errors_total",
		Help: "The total number of failed catalog loads",
	})
)

func counted(name string, fn common.JsonHandlerFunc) http.HandlerFunc {
	handlerRequests := requests.WithLabelValues(name)
	handlerErrors := requestErrors.WithLabelValues(name)
	return common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		handlerRequests.Inc()
		err := fn(w, r, enc)
		if err != nil {
			handlerErrors.Inc()
		}
		return err
	})
}
