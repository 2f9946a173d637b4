package dynamodb

import (
	"strings"
	"time"
)

// Partition-key prefixes per entity type. Profile and user-experience rows
// use the raw user id as pk with no prefix — a legacy asymmetry other
// tooling depends on, preserved deliberately.
const (
	ExperiencePrefix = "EXPERIENCE#"
	GroupPrefix      = "GROUP#"
	VenuePrefix      = "VENUE#"
)

// Physical attribute names. These are a contract: external tooling reads
// the same table.
const (
	attrPK         = "pk"
	attrSK         = "sk"
	attrEntityType = "entityType"
	attrRelatedID  = "relatedId"
	attrGeohash    = "geohash_prefix"
	attrCreatorID  = "creatorId"
	attrMembers    = "members"
)

// ExperienceKey returns the canonical pk for an experience id. Ids arrive
// from different callers with or without the prefix; encoding is idempotent.
func ExperienceKey(id string) string {
	return ExperiencePrefix + StripPrefix(id, ExperiencePrefix)
}

// GroupKey returns the canonical pk for a group id.
func GroupKey(id string) string {
	return GroupPrefix + StripPrefix(id, GroupPrefix)
}

// VenueKey returns the canonical pk for a venue id.
func VenueKey(id string) string {
	return VenuePrefix + StripPrefix(id, VenuePrefix)
}

// StripPrefix removes the entity prefix from an id. Stripping an already
// bare id is a no-op.
func StripPrefix(id, prefix string) string {
	return strings.TrimPrefix(id, prefix)
}

// sortKeyLayout keeps every sort key the same width. DynamoDB compares sk
// as a string, so the fractional seconds must never be trimmed: with
// variable-width keys "10:00:00Z" would sort after "10:00:00.5Z".
const sortKeyLayout = "2006-01-02T15:04:05.000000000Z"

// NewSortKey encodes a write instant as the sort key. The sort key doubles
// as a version marker: "find latest" is a descending query taking the first
// row.
func NewSortKey(t time.Time) string {
	return t.UTC().Format(sortKeyLayout)
}

// IDVariants returns the id forms historically produced by different write
// paths: the canonical prefixed form first, the bare form second.
func IDVariants(id, prefix string) []string {
	bare := StripPrefix(id, prefix)
	if bare == "" {
		return nil
	}
	return []string{prefix + bare, bare}
}
