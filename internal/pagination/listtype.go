package pagination

// ListType selects the business predicate of a listing. The set of variants is
// closed; Compose switches over all of them.
type ListType interface {
	listType() string
}

// All lists active items.
type All struct{}

// Mine lists the owner's items regardless of activity. Answered narrows to
// answered or unanswered items when set (cards only).
type Mine struct {
	OwnerID  int64
	Answered *bool
}

// Inactive lists deactivated items for moderation review.
type Inactive struct{}

// Search lists active items containing Keyword in any search column, case-insensitively.
type Search struct {
	Keyword string
}

// ByTagSet lists active items among IDs, the result of a tag-superset precursor query.
type ByTagSet struct {
	IDs []int64
}

func (All) listType() string      { return "all" }
func (Mine) listType() string     { return "mine" }
func (Inactive) listType() string { return "inactive" }
func (Search) listType() string   { return "search" }
func (ByTagSet) listType() string { return "by-tag-set" }

// Name is the wire name of a list type.
func Name(lt ListType) string {
	if lt == nil {
		return ""
	}
	return lt.listType()
}
