package lifecycle

import (
	"github.com/go-playground/validator/v10"
)

// Action selects the lifecycle sequence to run.
type Action string

const (
	ActionInstall   Action = "install"
	ActionUpgrade   Action = "upgrade"
	ActionUninstall Action = "uninstall"
)

// Mode selects how credentials are obtained during install.
type Mode string

const (
	// ModeDefault uses the fixed fallback credential without prompting.
	ModeDefault Mode = "default"

	// ModeManual prompts the operator for a non-empty credential.
	ModeManual Mode = "manual"
)

// Database kinds. Two-way switch; anything else reaching the controller is
// a programming-contract violation.
const (
	DatabaseMySQL    = "mysql"
	DatabasePostgres = "pgsql"
)

// Web server kinds.
const (
	WebServerApache = "apache"
	WebServerNginx  = "nginx"
)

// DefaultDBPassword is the fixed fallback credential used in default mode.
// It is a documented weak default, not a secret-management mechanism.
const DefaultDBPassword = "zabbix"

// Request is the validated, immutable description of one deployment run.
type Request struct {
	Action    Action `validate:"required,oneof=install upgrade uninstall"`
	Mode      Mode   `validate:"omitempty,oneof=default manual"`
	Version   string `validate:"required_unless=Action uninstall,omitempty,oneof=5.0 6.0 6.4"`
	Database  string `validate:"required_unless=Action uninstall,omitempty,oneof=mysql pgsql"`
	WebServer string `validate:"required_unless=Action uninstall,omitempty,oneof=apache nginx"`

	// DBPassword is filled during preparation: the fixed fallback in
	// default mode, an interactively supplied value in manual mode.
	DBPassword string `validate:"-"`

	// NonInteractive answers the intent confirmation positively and
	// suppresses the uninstall database-drop offer.
	NonInteractive bool `validate:"-"`

	// DropDatabase pre-answers the uninstall database-drop offer, for
	// non-interactive runs.
	DropDatabase bool `validate:"-"`
}

// Validate checks the request before any external command executes.
func (r *Request) Validate() error {
	if r.Mode == "" {
		r.Mode = ModeDefault
	}
	if err := validator.New().Struct(r); err != nil {
		return NewValidationError("invalid deployment request", err)
	}
	return nil
}

// Progress tracks step counters for observability. It is never consulted
// for control-flow decisions and resets only at process start.
type Progress struct {
	Current int
	Total   int
}
