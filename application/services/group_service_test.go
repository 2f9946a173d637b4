package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gatherly-backend/domain/entities"
	apperrors "gatherly-backend/pkg/errors"
)

func newGroupFixture() (*GroupService, *fakeGroupRepo, *fakeLinkRepo, *fakeExperienceRepo, *fakeBus) {
	groups := newFakeGroupRepo()
	links := newFakeLinkRepo()
	experiences := newFakeExperienceRepo()
	bus := &fakeBus{}
	svc := NewGroupService(groups, links, experiences, bus, zap.NewNop())
	return svc, groups, links, experiences, bus
}

func TestSaveGroupCreateCallerJoinsAndOwns(t *testing.T) {
	svc, _, _, _, bus := newGroupFixture()

	g, err := svc.SaveGroup(context.Background(), "alice", entities.Group{Name: "Hikers"})

	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "alice", g.OwnerID)
	assert.Equal(t, []string{"alice"}, g.Members)
	assert.Equal(t, entities.StatusActive, g.Status)
	assert.Len(t, bus.published, 1)
}

func TestSaveGroupCreateWithExplicitMembers(t *testing.T) {
	svc, _, _, _, _ := newGroupFixture()

	g, err := svc.SaveGroup(context.Background(), "alice", entities.Group{
		Name:    "Hikers",
		Members: []string{"bob"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "alice"}, g.Members, "caller is appended")
	assert.Equal(t, "bob", g.OwnerID, "first member owns when none supplied")
}

func TestSaveGroupUpdateByStrangerForbidden(t *testing.T) {
	svc, _, _, _, _ := newGroupFixture()
	ctx := context.Background()
	g, err := svc.SaveGroup(ctx, "alice", entities.Group{Name: "Hikers"})
	require.NoError(t, err)

	_, err = svc.SaveGroup(ctx, "mallory", entities.Group{ID: g.ID, Name: "Taken over"})

	assert.True(t, apperrors.IsForbidden(err))
}

func TestSaveGroupUpdateNeverTouchesMembership(t *testing.T) {
	svc, _, _, _, _ := newGroupFixture()
	ctx := context.Background()
	g, err := svc.SaveGroup(ctx, "alice", entities.Group{Name: "Hikers"})
	require.NoError(t, err)

	updated, err := svc.SaveGroup(ctx, "alice", entities.Group{
		ID:      g.ID,
		Name:    "Trail Hikers",
		Members: []string{"mallory"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Trail Hikers", updated.Name)
	assert.Equal(t, []string{"alice"}, updated.Members)
}

func TestRemoveGroupMembersLastMemberRejected(t *testing.T) {
	svc, _, _, _, _ := newGroupFixture()
	ctx := context.Background()
	g, err := svc.SaveGroup(ctx, "alice", entities.Group{Name: "Hikers"})
	require.NoError(t, err)

	_, err = svc.RemoveGroupMembers(ctx, "alice", g.ID, []string{"alice"})

	assert.True(t, apperrors.IsValidation(err))

	kept, err := svc.FindGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, kept.Members)
}

func TestAddAndRemoveGroupMembers(t *testing.T) {
	svc, _, _, _, _ := newGroupFixture()
	ctx := context.Background()
	g, err := svc.SaveGroup(ctx, "alice", entities.Group{Name: "Hikers"})
	require.NoError(t, err)

	g, err = svc.AddGroupMembers(ctx, "alice", g.ID, []string{"bob", "carol"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, g.Members)

	g, err = svc.RemoveGroupMembers(ctx, "bob", g.ID, []string{"carol"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, g.Members)
}

func TestDeleteGroupSoftHidesGroup(t *testing.T) {
	svc, groups, _, _, _ := newGroupFixture()
	ctx := context.Background()
	g, err := svc.SaveGroup(ctx, "alice", entities.Group{Name: "Hikers"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGroup(ctx, "alice", g.ID, false))

	_, err = svc.FindGroup(ctx, g.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, groups.hardDeleted)
}

func TestDeleteGroupHardRemovesRows(t *testing.T) {
	svc, groups, _, _, _ := newGroupFixture()
	ctx := context.Background()
	g, err := svc.SaveGroup(ctx, "alice", entities.Group{Name: "Hikers"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGroup(ctx, "alice", g.ID, true))

	assert.Equal(t, []string{g.ID}, groups.hardDeleted)
}

func TestDeleteGroupOwnerOnly(t *testing.T) {
	svc, _, _, _, _ := newGroupFixture()
	ctx := context.Background()
	g, err := svc.SaveGroup(ctx, "alice", entities.Group{Name: "Hikers"})
	require.NoError(t, err)
	_, err = svc.AddGroupMembers(ctx, "alice", g.ID, []string{"bob"})
	require.NoError(t, err)

	err = svc.DeleteGroup(ctx, "bob", g.ID, false)

	assert.True(t, apperrors.IsForbidden(err), "members who are not the owner cannot delete")
}

func TestLinkGroupExperienceRequiresLiveExperience(t *testing.T) {
	svc, _, _, experiences, _ := newGroupFixture()
	ctx := context.Background()
	g, err := svc.SaveGroup(ctx, "alice", entities.Group{Name: "Hikers"})
	require.NoError(t, err)

	err = svc.LinkGroupExperience(ctx, "alice", g.ID, "missing")
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, experiences.Save(ctx, &entities.Experience{ID: "gone", Status: entities.ExperienceDeleted}))
	err = svc.LinkGroupExperience(ctx, "alice", g.ID, "gone")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLinkAndResolveGroupExperiences(t *testing.T) {
	svc, _, _, experiences, _ := newGroupFixture()
	ctx := context.Background()
	g, err := svc.SaveGroup(ctx, "alice", entities.Group{Name: "Hikers"})
	require.NoError(t, err)
	require.NoError(t, experiences.Save(ctx, &entities.Experience{ID: "e1", Title: "Summit day", Status: entities.ExperiencePublished}))

	require.NoError(t, svc.LinkGroupExperience(ctx, "alice", g.ID, "e1"))
	// Linking twice keeps a single row.
	require.NoError(t, svc.LinkGroupExperience(ctx, "alice", g.ID, "e1"))

	linked, err := svc.FindGroupExperiences(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "e1", linked[0].ID)

	owners, err := svc.FindExperienceGroups(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, g.ID, owners[0].ID)
}

func TestUnlinkGroupExperience(t *testing.T) {
	svc, _, _, experiences, _ := newGroupFixture()
	ctx := context.Background()
	g, err := svc.SaveGroup(ctx, "alice", entities.Group{Name: "Hikers"})
	require.NoError(t, err)
	require.NoError(t, experiences.Save(ctx, &entities.Experience{ID: "e1", Status: entities.ExperiencePublished}))
	require.NoError(t, svc.LinkGroupExperience(ctx, "alice", g.ID, "e1"))

	require.NoError(t, svc.UnlinkGroupExperience(ctx, "alice", g.ID, "e1"))

	err = svc.UnlinkGroupExperience(ctx, "alice", g.ID, "e1")
	assert.True(t, apperrors.IsNotFound(err), "second unlink finds nothing")
}

func TestFindGroupExperiencesSkipsBrokenLinks(t *testing.T) {
	svc, _, links, experiences, _ := newGroupFixture()
	ctx := context.Background()
	g, err := svc.SaveGroup(ctx, "alice", entities.Group{Name: "Hikers"})
	require.NoError(t, err)

	require.NoError(t, experiences.Save(ctx, &entities.Experience{ID: "live", Status: entities.ExperiencePublished}))
	require.NoError(t, experiences.Save(ctx, &entities.Experience{ID: "deleted", Status: entities.ExperienceDeleted}))
	for _, id := range []string{"live", "deleted", "ghost"} {
		require.NoError(t, links.Link(ctx, &entities.GroupExperienceLink{GroupID: g.ID, ExperienceID: id, AddedBy: "alice"}))
	}

	linked, err := svc.FindGroupExperiences(ctx, g.ID)

	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "live", linked[0].ID)
}
