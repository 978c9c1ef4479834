package models

import "errors"

var (
	ErrInvalidFilterStatus   = errors.New("invalid default filter status")
	ErrInvalidFilterPriority = errors.New("invalid default filter priority")
	ErrInvalidSortOption     = errors.New("invalid default sort option")
)

// FilterStatus is the completion filter a user's list opens with.
type FilterStatus string

const (
	FilterStatusAll        FilterStatus = "all"
	FilterStatusCompleted  FilterStatus = "completed"
	FilterStatusIncomplete FilterStatus = "incomplete"
)

func (s FilterStatus) Valid() bool {
	switch s {
	case FilterStatusAll, FilterStatusCompleted, FilterStatusIncomplete:
		return true
	}
	return false
}

// FilterPriority is either "all" or one of the Priority values.
type FilterPriority string

const FilterPriorityAll FilterPriority = "all"

func (p FilterPriority) Valid() bool {
	return p == FilterPriorityAll || Priority(p).Valid()
}

// SortOption names one of the listing orders understood by the to-do endpoints.
type SortOption string

const (
	SortCreatedAtDesc SortOption = "createdAtDesc"
	SortCreatedAtAsc  SortOption = "createdAtAsc"
	SortPriorityDesc  SortOption = "priorityDesc"
	SortPriorityAsc   SortOption = "priorityAsc"
	SortCompletedDesc SortOption = "completedDesc"
	SortCompletedAsc  SortOption = "completedAsc"
)

// ParseSortOption maps raw query input to a SortOption, falling back to newest first.
func ParseSortOption(raw string) SortOption {
	opt := SortOption(raw)
	if opt.Valid() {
		return opt
	}
	return SortCreatedAtDesc
}

func (o SortOption) Valid() bool {
	switch o {
	case SortCreatedAtDesc, SortCreatedAtAsc, SortPriorityDesc, SortPriorityAsc, SortCompletedDesc, SortCompletedAsc:
		return true
	}
	return false
}

// ByPriority reports whether the order has to be applied in memory using PriorityRank.
func (o SortOption) ByPriority() bool {
	return o == SortPriorityDesc || o == SortPriorityAsc
}

// Preferences holds the default listing parameters a user applies to their to-do list.
type Preferences struct {
	DefaultFilterStatus   FilterStatus   `bson:"defaultFilterStatus"`
	DefaultFilterPriority FilterPriority `bson:"defaultFilterPriority"`
	DefaultSortOption     SortOption     `bson:"defaultSortOption"`
}

// DefaultPreferences returns the preference triple assigned at signup.
func DefaultPreferences() Preferences {
	return Preferences{
		DefaultFilterStatus:   FilterStatusAll,
		DefaultFilterPriority: FilterPriorityAll,
		DefaultSortOption:     SortCreatedAtDesc,
	}
}

// PreferencesUpdate is a partial preference triple; nil fields are left untouched.
type PreferencesUpdate struct {
	DefaultFilterStatus   *FilterStatus
	DefaultFilterPriority *FilterPriority
	DefaultSortOption     *SortOption
}

func (u PreferencesUpdate) Empty() bool {
	return u.DefaultFilterStatus == nil && u.DefaultFilterPriority == nil && u.DefaultSortOption == nil
}

// Validate checks every present field against its allowed values.
func (u PreferencesUpdate) Validate() error {
	if u.DefaultFilterStatus != nil && !u.DefaultFilterStatus.Valid() {
		return ErrInvalidFilterStatus
	}
	if u.DefaultFilterPriority != nil && !u.DefaultFilterPriority.Valid() {
		return ErrInvalidFilterPriority
	}
	if u.DefaultSortOption != nil && !u.DefaultSortOption.Valid() {
		return ErrInvalidSortOption
	}
	return nil
}

// Apply writes the present fields onto p.
func (u PreferencesUpdate) Apply(p *Preferences) {
	if u.DefaultFilterStatus != nil {
		p.DefaultFilterStatus = *u.DefaultFilterStatus
	}
	if u.DefaultFilterPriority != nil {
		p.DefaultFilterPriority = *u.DefaultFilterPriority
	}
	if u.DefaultSortOption != nil {
		p.DefaultSortOption = *u.DefaultSortOption
	}
}
