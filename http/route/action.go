package route

import (
	"fmt"

	"github.com/xy-planning-network/switchback"
)

// An Action is one of the conventional REST actions a resource's routes map to.
type Action string

const (
	ActionShow    Action = "show"
	ActionNew     Action = "new"
	ActionIndex   Action = "index"
	ActionCreate  Action = "create"
	ActionEdit    Action = "edit"
	ActionUpdate  Action = "update"
	ActionDestroy Action = "destroy"
)

var _ switchback.Enumerable = ActionShow

// Actions lists every conventional Action in declaration order.
var Actions = []Action{
	ActionShow,
	ActionNew,
	ActionIndex,
	ActionCreate,
	ActionEdit,
	ActionUpdate,
	ActionDestroy,
}

// String stringifies the Action.
//
// String implements fmt.Stringer.
func (a Action) String() string { return string(a) }

func (a Action) Valid() error {
	switch a {
	case ActionShow, ActionNew, ActionIndex, ActionCreate, ActionEdit, ActionUpdate, ActionDestroy:
		return nil
	default:
		return fmt.Errorf("%w: unknown action %q", switchback.ErrNotValid, string(a))
	}
}

// Plural asserts whether the Action acts on a collection of records
// rather than a single one.
func (a Action) Plural() bool { return a == ActionIndex }

// delegateDefaults returns the conventional delegate method name
// and parameter names for the Action.
func (a Action) delegateDefaults() (string, []string) {
	switch a {
	case ActionShow, ActionEdit:
		return "FindByID", []string{"id"}
	case ActionIndex:
		return "All", nil
	case ActionNew:
		return "New", nil
	case ActionCreate:
		return "Create", []string{"params"}
	case ActionUpdate:
		return "Update", []string{"id", "params"}
	case ActionDestroy:
		return "Delete", []string{"id"}
	default:
		return "", nil
	}
}
