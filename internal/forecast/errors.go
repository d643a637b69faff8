package forecast

import (
	"errors"
	"fmt"

	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
)

// ErrInsufficientHorizon is returned when an order-capacity solve is
// attempted over fewer forecast periods than the solve needs.
var ErrInsufficientHorizon = errors.New("insufficient forecast horizon")

// ErrNoActualData is returned when a simulation is started without a known
// ending-inventory position to project from.
var ErrNoActualData = errors.New("no actual data to forecast from")

// InvalidAssumptionsError rejects a forecast request before any simulation
// state is created.
type InvalidAssumptionsError struct {
	Reason string
}

func (e *InvalidAssumptionsError) Error() string {
	return fmt.Sprintf("invalid forecast assumptions: %s", e.Reason)
}

// Gap records a forecast period that was skipped because its prior-year
// same-month sales figure is missing. A gap is a recoverable data condition:
// the run continues and the caller surfaces the shorter result list.
type Gap struct {
	Period    domain.Period `json:"period"`
	PriorYear domain.Period `json:"prior_year"`
}

func (g Gap) String() string {
	return fmt.Sprintf("no prior-year sales for %s (missing %s)", g.Period, g.PriorYear)
}
