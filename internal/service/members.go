package service

import (
	"context"
	"errors"
	"strings"

	"alumni-api/internal/apperr"
	"alumni-api/internal/attachment"
	"alumni-api/internal/models"
	"alumni-api/internal/storage"
	"alumni-api/internal/utils"

	"go.uber.org/zap"
)

// CreateMember validates in, uploads the optional photo and inserts the
// record. The insert is the last step; if it fails the uploaded photo is
// removed again.
func (s *RecordService) CreateMember(ctx context.Context, in models.NewMember, upload *attachment.Upload) (created *models.Member, err error) {
	defer func() { s.metrics.MemberMutations.WithLabelValues("create", outcome(err)).Inc() }()

	member := models.Member{
		ID:         utils.GenerateUUID(),
		Name:       strings.TrimSpace(in.Name),
		Batch:      strings.TrimSpace(in.Batch),
		LinkedInID: strings.TrimSpace(in.LinkedInID),
		Field:      strings.TrimSpace(in.Field),
	}
	if err := validateNewMember(member); err != nil {
		return nil, err
	}

	// Fast path only; the unique index settles races below.
	_, err = s.members.FindByLinkedInID(ctx, member.LinkedInID)
	if err == nil {
		return nil, apperr.Conflict("User already exists")
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Wrap(err, apperr.KindInternal, "Server error")
	}

	photo, err := s.storePhoto(ctx, upload)
	if err != nil {
		return nil, err
	}
	member.Photo = photo

	created, err = s.members.Insert(ctx, &member)
	if err != nil {
		s.discardPhoto(ctx, photo)
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, apperr.Wrap(err, apperr.KindInternal, "Server error")
	}

	s.invalidate(ctx)
	s.logger.Info("member created", zap.String("member_id", created.ID), zap.String("linkedin_id", created.LinkedInID))
	return created, nil
}

// EditMember applies patch to member id. Fields absent from patch keep
// their values; a new photo replaces the old one.
func (s *RecordService) EditMember(ctx context.Context, id string, patch models.MemberPatch, upload *attachment.Upload) (updated *models.Member, err error) {
	defer func() { s.metrics.MemberMutations.WithLabelValues("edit", outcome(err)).Inc() }()

	patch, err = normalizePatch(patch)
	if err != nil {
		return nil, err
	}

	existing, err := s.members.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "Server error")
	}

	if patch.IsEmpty() && upload == nil {
		return existing, nil
	}

	photo, err := s.storePhoto(ctx, upload)
	if err != nil {
		return nil, err
	}
	patch.Photo = photo

	updated, err = s.members.UpdateByID(ctx, id, patch)
	if err != nil {
		s.discardPhoto(ctx, photo)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, apperr.NotFound("User not found")
		case errors.Is(err, storage.ErrDuplicate):
			return nil, apperr.Conflict("User already exists")
		default:
			return nil, apperr.Wrap(err, apperr.KindInternal, "Server error")
		}
	}

	if photo != nil && existing.Photo != nil && *existing.Photo != *photo {
		s.discardPhoto(ctx, existing.Photo)
	}

	s.invalidate(ctx)
	s.logger.Info("member updated", zap.String("member_id", id))
	return updated, nil
}

// DeleteMember removes member id permanently. Deleting a missing id is a
// NotFound error, so repeated deletes do not succeed.
func (s *RecordService) DeleteMember(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.MemberMutations.WithLabelValues("delete", outcome(err)).Inc() }()

	existing, err := s.members.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return apperr.Wrap(err, apperr.KindInternal, "Server error")
	}

	err = s.members.DeleteByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return apperr.Wrap(err, apperr.KindInternal, "Server error")
	}

	s.discardPhoto(ctx, existing.Photo)
	s.invalidate(ctx)
	s.logger.Info("member deleted", zap.String("member_id", id))
	return nil
}

// ListMembers returns every member, newest first. An empty directory is not
// an error.
func (s *RecordService) ListMembers(ctx context.Context) ([]models.Member, error) {
	return s.listCached(ctx, "", func() ([]models.Member, error) {
		return s.members.ListAll(ctx)
	})
}

func (s *RecordService) ListMembersByBatch(ctx context.Context, batch string) ([]models.Member, error) {
	batch = strings.TrimSpace(batch)
	if batch == "" {
		return nil, apperr.NotFound("No users found for this batch")
	}

	members, err := s.listCached(ctx, batch, func() ([]models.Member, error) {
		return s.members.ListByBatch(ctx, batch)
	})
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, apperr.NotFound("No users found for this batch")
	}
	return members, nil
}

func (s *RecordService) listCached(ctx context.Context, batch string, load func() ([]models.Member, error)) ([]models.Member, error) {
	if s.cache != nil {
		members, ok, err := s.cache.Get(ctx, batch)
		if err != nil {
			s.logger.Warn("member cache read failed", zap.String("batch", batch), zap.Error(err))
		} else if ok {
			return members, nil
		}
	}

	members, err := load()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "Server error")
	}

	if s.cache != nil && len(members) > 0 {
		if err := s.cache.Set(ctx, batch, members); err != nil {
			s.logger.Warn("member cache write failed", zap.String("batch", batch), zap.Error(err))
		}
	}
	return members, nil
}

func (s *RecordService) storePhoto(ctx context.Context, upload *attachment.Upload) (*string, error) {
	if upload == nil {
		return nil, nil
	}
	ref, err := s.photos.Put(ctx, upload)
	if err != nil {
		s.metrics.PhotoUploads.WithLabelValues("failure").Inc()
		return nil, apperr.Wrap(err, apperr.KindUploadFailed, "Photo upload failed")
	}
	s.metrics.PhotoUploads.WithLabelValues("success").Inc()
	return &ref, nil
}

// discardPhoto makes one attempt to delete ref. A failure leaves an orphaned
// object, which is logged.
func (s *RecordService) discardPhoto(ctx context.Context, ref *string) {
	if ref == nil || s.photos == nil {
		return
	}
	cctx, cancel := detached(ctx)
	defer cancel()
	if err := s.photos.Remove(cctx, *ref); err != nil {
		s.logger.Warn("orphaned photo left in storage", zap.String("ref", *ref), zap.Error(err))
	}
}

func (s *RecordService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("member cache invalidation failed", zap.Error(err))
	}
}

func validateNewMember(m models.Member) error {
	var missing []string
	if m.Name == "" {
		missing = append(missing, "name")
	}
	if m.Batch == "" {
		missing = append(missing, "batch")
	}
	if m.LinkedInID == "" {
		missing = append(missing, "linkedinId")
	}
	if m.Field == "" {
		missing = append(missing, "field")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

func normalizePatch(p models.MemberPatch) (models.MemberPatch, error) {
	fields := []struct {
		name  string
		value **string
	}{
		{"name", &p.Name},
		{"batch", &p.Batch},
		{"linkedinId", &p.LinkedInID},
		{"field", &p.Field},
	}
	for _, f := range fields {
		if *f.value == nil {
			continue
		}
		trimmed := strings.TrimSpace(**f.value)
		if trimmed == "" {
			return p, apperr.Validation(f.name + " cannot be empty")
		}
		*f.value = &trimmed
	}
	// Photos only change through an upload.
	p.Photo = nil
	return p, nil
}
