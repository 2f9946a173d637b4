package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupMembership(t *testing.T) {
	g := Group{OwnerID: "owner", Members: []string{"owner", "m1"}}

	assert.True(t, g.HasMember("m1"))
	assert.False(t, g.HasMember("stranger"))
	assert.True(t, g.CanMutate("owner"))
	assert.True(t, g.CanMutate("m1"))
	assert.False(t, g.CanMutate("stranger"))
}

func TestAddMembersSkipsDuplicatesAndEmpty(t *testing.T) {
	g := Group{Members: []string{"m1"}}

	g.AddMembers([]string{"m1", "m2", "", "m2"})

	assert.Equal(t, []string{"m1", "m2"}, g.Members)
}

func TestRemoveMembersRefusesToEmptyGroup(t *testing.T) {
	g := Group{Members: []string{"m1", "m2"}}

	err := g.RemoveMembers([]string{"m1", "m2"})

	assert.ErrorIs(t, err, ErrLastMember)
	assert.Equal(t, []string{"m1", "m2"}, g.Members, "member list unchanged on refusal")
}

func TestRemoveMembers(t *testing.T) {
	g := Group{Members: []string{"m1", "m2", "m3"}}

	err := g.RemoveMembers([]string{"m2", "not-a-member"})

	assert.NoError(t, err)
	assert.Equal(t, []string{"m1", "m3"}, g.Members)
}

func TestGroupMergeNeverTouchesMembership(t *testing.T) {
	g := Group{OwnerID: "owner", Members: []string{"owner"}, Name: "Old"}

	g.Merge(Group{Name: "New", OwnerID: "intruder", Members: []string{"intruder"}})

	assert.Equal(t, "New", g.Name)
	assert.Equal(t, "owner", g.OwnerID)
	assert.Equal(t, []string{"owner"}, g.Members)
}
