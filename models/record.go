package models

// Specialty is the value of the "specialty" task.
type Specialty struct {
	// Description is the product blurb on the home page.
	Description string `json:"description"`

	// HelpOverview is the overview section of the help centre,
	// one paragraph per line.
	HelpOverview string `json:"help_overview"`
}

// LinkStatus reports whether one catalog URL was reachable.
type LinkStatus struct {
	URL string `json:"url"`

	// Status is "valid" or "invalid".
	Status string `json:"status"`

	// StatusCode is set when the server answered with a 2xx status.
	StatusCode int `json:"status_code,omitempty"`

	// ErrorMessage is set when the link is invalid.
	ErrorMessage string `json:"error_message,omitempty"`
}

// Link status values.
const (
	LinkValid   = "valid"
	LinkInvalid = "invalid"
)

// ServerStatus is the value of the "server_status" task.
type ServerStatus struct {
	// URL is the site being checked.
	URL string `json:"url"`

	// FirstChecked is the local time the check started ("2006-01-02 15:04:05").
	FirstChecked string `json:"first_checked"`

	// Status is the message shown by the status widget.
	Status string `json:"status"`

	// Up is true when the "up" widget matched.
	Up bool `json:"up"`

	// ResponseTime is the seconds between submitting the form and the
	// status widget appearing, rounded to milliseconds.
	ResponseTime float64 `json:"response_time"`

	// LastChecked is the local time the check finished.
	LastChecked string `json:"last_checked"`

	// Error repeats Status when the widget reports an error, and is
	// null otherwise.
	Error *string `json:"error"`
}
