package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gatherly-backend/application/ports"
	"gatherly-backend/domain/entities"
	"gatherly-backend/domain/events"
	apperrors "gatherly-backend/pkg/errors"
)

// GroupService manages groups and their experience links. Mutation is
// restricted to the owner and current members; deletion to the owner.
type GroupService struct {
	groups      ports.GroupRepository
	links       ports.GroupExperienceRepository
	experiences ports.ExperienceRepository
	bus         ports.EventBus
	logger      *zap.Logger
}

// NewGroupService creates a group service.
func NewGroupService(
	groups ports.GroupRepository,
	links ports.GroupExperienceRepository,
	experiences ports.ExperienceRepository,
	bus ports.EventBus,
	logger *zap.Logger,
) *GroupService {
	return &GroupService{
		groups:      groups,
		links:       links,
		experiences: experiences,
		bus:         bus,
		logger:      logger,
	}
}

// SaveGroup creates or partially updates a group. On creation the caller
// joins automatically and becomes the owner unless one was supplied; the
// first member is the implicit owner otherwise. Updates never touch
// membership; AddGroupMembers and RemoveGroupMembers do.
func (s *GroupService) SaveGroup(ctx context.Context, callerID string, in entities.Group) (*entities.Group, error) {
	var current *entities.Group

	if in.ID == "" {
		in.ID = uuid.NewString()
		if len(in.Members) == 0 {
			in.Members = []string{callerID}
		} else if !in.HasMember(callerID) {
			in.AddMembers([]string{callerID})
		}
		if in.OwnerID == "" {
			in.OwnerID = in.Members[0]
		}
		if in.Status == "" {
			in.Status = entities.StatusActive
		}
		current = &in
	} else {
		existing, err := s.findLive(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if !existing.CanMutate(callerID) {
			return nil, apperrors.NewForbiddenError("groups can only be modified by their members")
		}
		existing.Merge(in)
		current = existing
	}

	if err := s.groups.Save(ctx, current); err != nil {
		return nil, err
	}

	publish(ctx, s.bus, s.logger, events.New(events.TypeGroupSaved, current.ID, callerID))
	return current, nil
}

// FindGroup returns a group by id. Soft-deleted groups are not found.
func (s *GroupService) FindGroup(ctx context.Context, id string) (*entities.Group, error) {
	return s.findLive(ctx, id)
}

// FindGroupsByMember returns the live groups a user belongs to.
func (s *GroupService) FindGroupsByMember(ctx context.Context, userID string) ([]*entities.Group, error) {
	all, err := s.groups.FindByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Group, 0, len(all))
	for _, g := range all {
		if g.IsDeleted() {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// AddGroupMembers adds users to a group. Already-present ids are skipped.
func (s *GroupService) AddGroupMembers(ctx context.Context, callerID, groupID string, userIDs []string) (*entities.Group, error) {
	g, err := s.findLive(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.CanMutate(callerID) {
		return nil, apperrors.NewForbiddenError("groups can only be modified by their members")
	}

	g.AddMembers(userIDs)
	if err := s.groups.Save(ctx, g); err != nil {
		return nil, err
	}

	publish(ctx, s.bus, s.logger, events.New(events.TypeGroupSaved, g.ID, callerID))
	return g, nil
}

// RemoveGroupMembers removes users from a group. A removal that would empty
// the group is rejected against the freshly read member list.
func (s *GroupService) RemoveGroupMembers(ctx context.Context, callerID, groupID string, userIDs []string) (*entities.Group, error) {
	g, err := s.findLive(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.CanMutate(callerID) {
		return nil, apperrors.NewForbiddenError("groups can only be modified by their members")
	}

	if err := g.RemoveMembers(userIDs); err != nil {
		if errors.Is(err, entities.ErrLastMember) {
			return nil, apperrors.NewValidationError("a group must retain at least one member")
		}
		return nil, apperrors.NewInternalError("failed to remove members", err)
	}

	if err := s.groups.Save(ctx, g); err != nil {
		return nil, err
	}

	publish(ctx, s.bus, s.logger, events.New(events.TypeGroupSaved, g.ID, callerID))
	return g, nil
}

// DeleteGroup deletes a group. Owner only. Soft by default; hard removes
// every row in the group's partition including its experience links.
func (s *GroupService) DeleteGroup(ctx context.Context, callerID, groupID string, hard bool) error {
	g, err := s.findLive(ctx, groupID)
	if err != nil {
		return err
	}
	if g.OwnerID != callerID {
		return apperrors.NewForbiddenError("groups can only be deleted by their owner")
	}

	if hard {
		if err := s.groups.HardDelete(ctx, groupID); err != nil {
			return err
		}
	} else {
		g.Status = entities.StatusDeleted
		if err := s.groups.Save(ctx, g); err != nil {
			return err
		}
	}

	publish(ctx, s.bus, s.logger, events.New(events.TypeGroupDeleted, groupID, callerID))
	return nil
}

// LinkGroupExperience attaches an experience to a group. Idempotent: linking
// an already-linked pair leaves one row.
func (s *GroupService) LinkGroupExperience(ctx context.Context, callerID, groupID, experienceID string) error {
	g, err := s.findLive(ctx, groupID)
	if err != nil {
		return err
	}
	if !g.CanMutate(callerID) {
		return apperrors.NewForbiddenError("groups can only be modified by their members")
	}

	e, err := s.experiences.FindByID(ctx, experienceID)
	if err != nil {
		return err
	}
	if e.IsDeleted() {
		return apperrors.NewNotFoundError("experience not found")
	}

	if err := s.links.Link(ctx, &entities.GroupExperienceLink{
		GroupID:      groupID,
		ExperienceID: experienceID,
		AddedBy:      callerID,
	}); err != nil {
		return err
	}

	publish(ctx, s.bus, s.logger, events.New(events.TypeGroupLinked, groupID, callerID))
	return nil
}

// UnlinkGroupExperience detaches an experience from a group. Unlinking a
// pair that was never linked is not found.
func (s *GroupService) UnlinkGroupExperience(ctx context.Context, callerID, groupID, experienceID string) error {
	g, err := s.findLive(ctx, groupID)
	if err != nil {
		return err
	}
	if !g.CanMutate(callerID) {
		return apperrors.NewForbiddenError("groups can only be modified by their members")
	}

	if err := s.links.Unlink(ctx, groupID, experienceID); err != nil {
		return err
	}

	publish(ctx, s.bus, s.logger, events.New(events.TypeGroupUnlinked, groupID, callerID))
	return nil
}

// FindGroupExperiences resolves the experiences linked to a group. Links
// pointing at missing or deleted experiences are skipped and logged.
func (s *GroupService) FindGroupExperiences(ctx context.Context, groupID string) ([]*entities.Experience, error) {
	if _, err := s.findLive(ctx, groupID); err != nil {
		return nil, err
	}

	links, err := s.links.FindByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Experience, 0, len(links))
	for _, link := range links {
		if link.ExperienceID == "" {
			s.logger.Warn("Group link has no experience id", zap.String("groupId", groupID))
			continue
		}
		e, err := s.experiences.FindByID(ctx, link.ExperienceID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				s.logger.Warn("Group link points at missing experience",
					zap.String("groupId", groupID),
					zap.String("experienceId", link.ExperienceID),
				)
				continue
			}
			return nil, err
		}
		if e.IsDeleted() {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// FindExperienceGroups resolves the groups an experience is linked into.
// Links pointing at missing or deleted groups are skipped and logged.
func (s *GroupService) FindExperienceGroups(ctx context.Context, experienceID string) ([]*entities.Group, error) {
	links, err := s.links.FindByExperience(ctx, experienceID)
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Group, 0, len(links))
	for _, link := range links {
		g, err := s.groups.FindByID(ctx, link.GroupID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				s.logger.Warn("Experience link points at missing group",
					zap.String("groupId", link.GroupID),
					zap.String("experienceId", experienceID),
				)
				continue
			}
			return nil, err
		}
		if g.IsDeleted() {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// findLive loads a group and hides soft-deleted ones.
func (s *GroupService) findLive(ctx context.Context, id string) (*entities.Group, error) {
	g, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.IsDeleted() {
		return nil, apperrors.NewNotFoundError("group not found")
	}
	return g, nil
}
