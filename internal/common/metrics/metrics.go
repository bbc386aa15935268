package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DealLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hud_deal_lookups_total",
			Help: "Total number of deal lookups by outcome",
		},
		[]string{"outcome"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "hud_store_query_duration_seconds",
			Help: "Duration of record store queries in seconds",
		},
		[]string{"entity"},
	)

	SchemaFieldsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hud_schema_fields_dropped_total",
			Help: "Fields dropped by the schema-tolerant query retry loop",
		},
		[]string{"entity"},
	)

	AddressMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hud_address_matches_total",
			Help: "Payment reference address match attempts by result",
		},
		[]string{"result"},
	)

	DocumentsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hud_documents_rendered_total",
			Help: "Settlement statements rendered by output format",
		},
		[]string{"format"},
	)
)
