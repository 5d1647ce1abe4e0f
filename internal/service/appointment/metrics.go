package appointment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var bookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "scheduling_bookings_total",
	Help: "Booking attempts by outcome",
}, []string{"outcome"})

func observeBooking(outcome string) {
	bookingsTotal.WithLabelValues(outcome).Inc()
}
