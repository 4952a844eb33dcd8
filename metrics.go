package httpreplay

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts recorder activity. Collectors are instance-scoped; create
// one Metrics per Recorder and registry.
type Metrics struct {
	recordings     prometheus.Counter
	playbackHits   prometheus.Counter
	playbackMisses prometheus.Counter
}

// NewMetrics creates the recorder counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recordings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "httpreplay",
			Name:      "recordings_total",
			Help:      "Total responses persisted in record mode",
		}),
		playbackHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "httpreplay",
			Name:      "playback_hits_total",
			Help:      "Total playback requests answered from a recorded entry",
		}),
		playbackMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "httpreplay",
			Name:      "playback_misses_total",
			Help:      "Total playback requests with no recorded entry",
		}),
	}
	reg.MustRegister(m.recordings, m.playbackHits, m.playbackMisses)
	return m
}
