package domain

// PageScope is the coarse page-level partition of the lead list.
type PageScope string

const (
	ScopeNone    PageScope = ""
	ScopeFresh   PageScope = "fresh"
	ScopeCold    PageScope = "cold"
	ScopeMine    PageScope = "mine"
	ScopeRotated PageScope = "rotated"
)

// AllValue is the sentinel clients send for "no constraint on this dimension".
const AllValue = "All"

// FilterCriteria is the immutable filter value object. Every field is
// optional; a zero value or AllValue leaves that dimension unconstrained.
// Numeric and date bounds arrive as strings and are ignored when unparsable.
type FilterCriteria struct {
	PageScope        PageScope
	Search           string
	Type             string
	Priority         string
	AssignedTo       string
	CommunicationWay string
	BudgetMin        string
	BudgetMax        string
	CreatedFrom      string
	CreatedTo        string
	Status           string
	ActiveTab        string
}

// constrains reports whether the value restricts its dimension.
func constrains(value string) bool {
	return value != "" && value != AllValue
}

// HasType reports whether the type dimension is constrained.
func (c FilterCriteria) HasType() bool { return constrains(c.Type) }

// HasPriority reports whether the priority dimension is constrained.
func (c FilterCriteria) HasPriority() bool { return constrains(c.Priority) }

// HasAssignedTo reports whether the assignee dimension is constrained.
func (c FilterCriteria) HasAssignedTo() bool { return constrains(c.AssignedTo) }

// HasCommunicationWay reports whether the communication dimension is constrained.
func (c FilterCriteria) HasCommunicationWay() bool { return constrains(c.CommunicationWay) }

// HasStatus reports whether an explicit status filter is set.
func (c FilterCriteria) HasStatus() bool { return constrains(c.Status) }

// HasActiveTab reports whether a status tab is selected.
func (c FilterCriteria) HasActiveTab() bool { return constrains(c.ActiveTab) }
