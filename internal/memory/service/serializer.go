package service

import (
	"context"
	"errors"
	"fmt"

	"Mnemo/internal/models"
)

// ErrMissingMetadata rejects import documents without metadata.
var ErrMissingMetadata = errors.New("import document is missing metadata")

// Export reads every item from all five collections into one transportable
// document stamped with export time, schema version, and store name.
func (s *MemoryService) Export(ctx context.Context) (*models.ExportDocument, error) {
	doc := &models.ExportDocument{
		Metadata: &models.ExportMetadata{
			ExportTime: s.now(),
			Version:    models.SchemaVersion,
			DBName:     s.storeName,
		},
	}

	var err error
	if doc.Facts, err = s.colls.Facts.GetAll(ctx); err != nil {
		s.logger.WithError(err).Error("export failed reading facts")
		return nil, fmt.Errorf("export failed reading facts: %w", err)
	}
	if doc.Conversations, err = s.colls.Conversations.GetAll(ctx); err != nil {
		s.logger.WithError(err).Error("export failed reading conversations")
		return nil, fmt.Errorf("export failed reading conversations: %w", err)
	}
	if doc.Topics, err = s.colls.Topics.GetAll(ctx); err != nil {
		s.logger.WithError(err).Error("export failed reading topics")
		return nil, fmt.Errorf("export failed reading topics: %w", err)
	}
	if doc.Preferences, err = s.colls.Preferences.GetAll(ctx); err != nil {
		s.logger.WithError(err).Error("export failed reading preferences")
		return nil, fmt.Errorf("export failed reading preferences: %w", err)
	}
	if doc.Relationships, err = s.colls.Relationships.GetAll(ctx); err != nil {
		s.logger.WithError(err).Error("export failed reading relationships")
		return nil, fmt.Errorf("export failed reading relationships: %w", err)
	}

	return doc, nil
}

// Import merges an export document into the store: every item present in
// the document is upserted by its natural key; items absent from the
// document are left untouched. A document without metadata is rejected
// outright, but upserts applied before a mid-import failure are not
// rolled back. All caches are cleared afterward.
func (s *MemoryService) Import(ctx context.Context, doc *models.ExportDocument) error {
	if doc == nil || doc.Metadata == nil {
		return ErrMissingMetadata
	}

	for _, f := range doc.Facts {
		if err := s.colls.Facts.Put(ctx, f.Key, f); err != nil {
			s.logger.WithError(err).Error("import failed upserting fact")
			return fmt.Errorf("import failed upserting fact %q: %w", f.Key, err)
		}
	}
	for _, r := range doc.Conversations {
		if err := s.colls.Conversations.Put(ctx, r.ID, r); err != nil {
			s.logger.WithError(err).Error("import failed upserting conversation")
			return fmt.Errorf("import failed upserting conversation %q: %w", r.ID, err)
		}
	}
	for _, t := range doc.Topics {
		if err := s.colls.Topics.Put(ctx, t.Name, t); err != nil {
			s.logger.WithError(err).Error("import failed upserting topic")
			return fmt.Errorf("import failed upserting topic %q: %w", t.Name, err)
		}
	}
	for _, p := range doc.Preferences {
		if err := s.colls.Preferences.Put(ctx, p.Key, p); err != nil {
			s.logger.WithError(err).Error("import failed upserting preference")
			return fmt.Errorf("import failed upserting preference %q: %w", p.Key, err)
		}
	}
	for _, r := range doc.Relationships {
		if err := s.colls.Relationships.Put(ctx, r.Name, r); err != nil {
			s.logger.WithError(err).Error("import failed upserting relationship")
			return fmt.Errorf("import failed upserting relationship %q: %w", r.Name, err)
		}
	}

	s.caches.Clear()
	s.logger.Info("memory import completed")
	return nil
}
