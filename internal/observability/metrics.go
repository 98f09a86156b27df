package observability

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coolpc/internal/model"
)

var (
	CategoriesParsed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coolpc_categories_parsed_total",
			Help: "Total de categorias extraídas",
		},
	)

	ProductsParsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coolpc_products_parsed_total",
			Help: "Total de produtos extraídos por categoria",
		},
		[]string{"category"},
	)

	FetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coolpc_fetch_failures_total",
			Help: "Falhas ao baixar a página de cotação, por causa",
		},
		[]string{"cause"},
	)

	DocumentsFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coolpc_documents_fetched_total",
			Help: "Documentos obtidos, por origem (network ou cache)",
		},
		[]string{"source"},
	)
)

// RecordParse counts one parse run.
func RecordParse(categories []model.Category) {
	CategoriesParsed.Add(float64(len(categories)))
	for _, c := range categories {
		ProductsParsed.WithLabelValues(c.Name).Add(float64(c.ProductCount()))
	}
}

func Start(port string) {
	prometheus.MustRegister(CategoriesParsed, ProductsParsed, FetchFailures, DocumentsFetched)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			log.Printf("[Metrics] server stopped: %v", err)
		}
	}()
}
