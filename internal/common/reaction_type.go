package common

import "strings"

// ReactionType is the kind of a reaction on a thanks note
type ReactionType string

const (
	ReactionHeart    ReactionType = "heart"
	ReactionThumbsUp ReactionType = "thumbsup"
	ReactionClap     ReactionType = "clap"
	ReactionSmile    ReactionType = "smile"
	ReactionParty    ReactionType = "party"
)

// ReactionTypes lists every kind in display order.
var ReactionTypes = []ReactionType{
	ReactionHeart,
	ReactionThumbsUp,
	ReactionClap,
	ReactionSmile,
	ReactionParty,
}

// String returns the string representation
func (rt ReactionType) String() string {
	return string(rt)
}

// IsValid checks if the reaction type is one of the known kinds
func (rt ReactionType) IsValid() bool {
	for _, known := range ReactionTypes {
		if rt == known {
			return true
		}
	}
	return false
}

// ParseReactionType accepts any casing and surrounding whitespace.
func ParseReactionType(raw string) (ReactionType, error) {
	rt := ReactionType(strings.ToLower(strings.TrimSpace(raw)))
	if !rt.IsValid() {
		return "", BadRequest("unknown reaction type: " + raw)
	}
	return rt, nil
}
