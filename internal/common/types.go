package common

import (
	"errors"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Toggled flips between user and admin.
func (r Role) Toggled() Role {
	if r == RoleAdmin {
		return RoleUser
	}
	return RoleAdmin
}

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID    int64
	Name      string
	Role      Role
	TokenKind TokenKind
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// ErrCounterUnderflow means the stored counter and the reaction rows have drifted apart.
var ErrCounterUnderflow = errors.New("reaction counter would go negative")

// ReactionCounts is the per-kind reaction tally stored on a thanks note.
// Operations return a new map and leave the receiver untouched.
type ReactionCounts map[ReactionType]int

// NewReactionCounts returns a tally with every kind present at zero.
func NewReactionCounts() ReactionCounts {
	counts := make(ReactionCounts, len(ReactionTypes))
	for _, rt := range ReactionTypes {
		counts[rt] = 0
	}
	return counts
}

func (c ReactionCounts) Clone() ReactionCounts {
	out := NewReactionCounts()
	for k, v := range c {
		out[k] = v
	}
	return out
}

func (c ReactionCounts) Increment(rt ReactionType) ReactionCounts {
	out := c.Clone()
	out[rt]++
	return out
}

func (c ReactionCounts) Decrement(rt ReactionType) (ReactionCounts, error) {
	if c[rt] <= 0 {
		return nil, ErrCounterUnderflow
	}
	out := c.Clone()
	out[rt]--
	return out, nil
}

// Move takes one from `from` and gives it to `to` as a single write.
func (c ReactionCounts) Move(from, to ReactionType) (ReactionCounts, error) {
	out, err := c.Decrement(from)
	if err != nil {
		return nil, err
	}
	out[to]++
	return out, nil
}
