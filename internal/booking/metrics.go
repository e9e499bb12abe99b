package booking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_cycles_total",
		Help: "Booking+save cycles run, by outcome.",
	}, []string{"outcome"})

	schemaCacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_schema_cache_lookups_total",
		Help: "Field schema cache lookups, by result.",
	}, []string{"result"})
)
