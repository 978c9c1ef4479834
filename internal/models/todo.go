package models

import (
	"sort"
	"time"
)

// Priority is the importance level of a to-do item.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var priorityRank = map[Priority]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Rank orders priorities High > Medium > Low. Unknown values rank lowest.
func (p Priority) Rank() int {
	return priorityRank[p]
}

// Todo is a single item on a user's list.
type Todo struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Completed   bool      `bson:"completed"`
	Priority    Priority  `bson:"priority"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// TodoFilter narrows a listing of one user's items.
type TodoFilter struct {
	Completed *bool
	Priority  Priority
	Sort      SortOption
}

// SortTodos orders items in place. Priority orders are stable, so items of equal rank keep
// whatever order they arrived in.
func SortTodos(items []Todo, opt SortOption) {
	switch opt {
	case SortPriorityDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Priority.Rank() > items[j].Priority.Rank()
		})
	case SortPriorityAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Priority.Rank() < items[j].Priority.Rank()
		})
	case SortCreatedAtAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		})
	case SortCompletedDesc, SortCompletedAsc:
		completedFirst := opt == SortCompletedDesc
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Completed != items[j].Completed {
				return items[i].Completed == completedFirst
			}
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	}
}
