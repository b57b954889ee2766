// Package responses defines JSON response types used by the docsite HTTP handlers.
package responses

import "time"

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// ReadinessResponse represents the readiness probe response.
type ReadinessResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Pages     int       `json:"pages"`
}

// NavigationResponse is the payload of /api/navigation.
type NavigationResponse struct {
	Sections    []NavigationSection `json:"sections"`
	Breadcrumbs []Crumb             `json:"breadcrumbs,omitempty"`
}

// NavigationSection is one sidebar section.
type NavigationSection struct {
	Title  string           `json:"title"`
	Path   string           `json:"path"`
	Active bool             `json:"active,omitempty"`
	Pages  []NavigationPage `json:"pages"`
}

// NavigationPage is one navigation entry.
type NavigationPage struct {
	Title  string `json:"title"`
	Path   string `json:"path"`
	URL    string `json:"url"`
	Active bool   `json:"active,omitempty"`
}

// Crumb is one breadcrumb of the requested path.
type Crumb struct {
	Title   string `json:"title"`
	Path    string `json:"path"`
	Current bool   `json:"current,omitempty"`
}
