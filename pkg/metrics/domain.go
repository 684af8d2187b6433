package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ListingTransitions counts approval workflow transitions by target state.
	// Idempotent repeats are not counted.
	ListingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgpathfinder_listing_transitions_total",
			Help: "Listing status transitions by target status",
		},
		[]string{"to"},
	)

	ImageUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgpathfinder_image_uploads_total",
			Help: "Listing image uploads by result",
		},
		[]string{"result"},
	)

	ContactDisclosures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgpathfinder_contact_disclosures_total",
			Help: "Contact lookups by result (disclosed, withheld, unauthenticated)",
		},
		[]string{"result"},
	)

	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgpathfinder_job_runs_total",
			Help: "Background job runs by job name and result",
		},
		[]string{"job", "result"},
	)
)
