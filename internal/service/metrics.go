package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts storage-side effects of the onboarding flow.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	foldersCreated *prometheus.CounterVec
	filesUploaded  *prometheus.CounterVec
	resolutions    *prometheus.CounterVec
}

// NewMetrics registers the service collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		foldersCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_folders_created_total",
				Help: "Folders created by the folder resolver, by level.",
			},
			[]string{"level"},
		),
		filesUploaded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_files_uploaded_total",
				Help: "Upload attempts by outcome.",
			},
			[]string{"status"},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_folder_resolutions_total",
				Help: "Company folder resolutions by outcome (found, subfolder_created, created, error).",
			},
			[]string{"outcome"},
		),
	}
	for _, c := range []prometheus.Collector{m.foldersCreated, m.filesUploaded, m.resolutions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) folderCreated(level string) {
	if m == nil {
		return
	}
	m.foldersCreated.WithLabelValues(level).Inc()
}

func (m *Metrics) fileUploaded(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.filesUploaded.WithLabelValues(status).Inc()
}

func (m *Metrics) resolved(outcome string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(outcome).Inc()
}
