package complaint

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode"

	apperrors "citizenhub/internal/errors"
)

// Repository persists complaint records.
//
// Get returns *errors.NotFoundError when the identifier is absent.
type Repository interface {
	Create(ctx context.Context, rec Record) error
	Get(ctx context.Context, id int64) (Record, error)
	Update(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
}

// ImageStore writes attachments to the upload side-channel and returns the
// location recorded in the Image column. Delete removes an attachment by
// that location.
type ImageStore interface {
	Save(ctx context.Context, id int64, filename string, data io.Reader) (string, error)
	Delete(ctx context.Context, location string) error
}

// Notifier is told about lifecycle events. Implementations must not block.
type Notifier interface {
	ComplaintSubmitted(rec Record)
	ComplaintResolved(rec Record)
}

// Translator renders a description in English for classification.
type Translator interface {
	ToEnglish(ctx context.Context, text string) (string, error)
}

// maxIDAttempts bounds identifier re-rolls on collision.
const maxIDAttempts = 5

// Options configures the optional collaborators of a Service.
type Options struct {
	Images     ImageStore
	Notifier   Notifier
	Translator Translator
	Labels     LabelSet
	NewID      IDGenerator
}

// Service implements complaint intake, tracking and resolution.
//
// Flow of Submit:
//  1. Validate name and description
//  2. Assign an identifier unique in the repository
//  3. Route category to department
//  4. Classify priority and sentiment from the (translated) description
//  5. Write the optional image, then create the record
//  6. Notify asynchronously
type Service struct {
	repo       Repository
	images     ImageStore
	notifier   Notifier
	translator Translator
	labels     LabelSet
	newID      IDGenerator
}

// NewService creates a complaint service over repo.
func NewService(repo Repository, opts Options) *Service {
	newID := opts.NewID
	if newID == nil {
		newID = TimeID()
	}
	return &Service{
		repo:       repo,
		images:     opts.Images,
		notifier:   opts.Notifier,
		translator: opts.Translator,
		labels:     opts.Labels,
		newID:      newID,
	}
}

// Submit validates and stores a new complaint.
//
// Returns *errors.ValidationError when name or description is blank; in
// that case nothing is written.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (Record, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" {
		return Record{}, apperrors.NewValidationError("name", "is required")
	}
	if description == "" {
		return Record{}, apperrors.NewValidationError("description", "is required")
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = CategoryOther
	}

	id, err := s.assignID(ctx)
	if err != nil {
		return Record{}, err
	}

	text := s.classificationText(ctx, description)

	rec := Record{
		ID:          id,
		Name:        name,
		Category:    category,
		Department:  DepartmentFor(category),
		Priority:    ClassifyPriority(text),
		Status:      StatusPending,
		Description: description,
		Sentiment:   ClassifySentiment(text, s.labels),
	}

	if req.Image != nil && req.Image.Data != nil && req.Image.Filename != "" {
		if s.images == nil {
			log.Printf("  ⚠️  Image %q dropped for complaint %d: no upload store configured", req.Image.Filename, id)
		} else {
			location, err := s.images.Save(ctx, id, req.Image.Filename, req.Image.Data)
			if apperrors.IsValidation(err) {
				return Record{}, err
			}
			if err != nil {
				return Record{}, apperrors.NewStorageError("save image", err)
			}
			rec.Image = location
		}
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if rec.Image != "" {
			if delErr := s.images.Delete(ctx, rec.Image); delErr != nil {
				log.Printf("  ⚠️  Orphaned attachment %s for complaint %d: %v", rec.Image, rec.ID, delErr)
			}
		}
		return Record{}, err
	}

	log.Printf("✓ Complaint %d filed: %s → %s (%s, %s)", rec.ID, rec.Category, rec.Department, rec.Priority, rec.Sentiment)

	if s.notifier != nil {
		s.notifier.ComplaintSubmitted(rec)
	}
	return rec, nil
}

// Track returns the complaint with the given identifier.
func (s *Service) Track(ctx context.Context, id int64) (Record, error) {
	return s.repo.Get(ctx, id)
}

// Resolve marks a complaint as Resolved.
//
// Resolving an already resolved complaint succeeds without writing.
func (s *Service) Resolve(ctx context.Context, id int64) (Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.IsResolved() {
		return rec, nil
	}

	rec.Status = StatusResolved
	if err := s.repo.Update(ctx, rec); err != nil {
		return Record{}, err
	}

	log.Printf("✅ Complaint %d resolved", rec.ID)

	if s.notifier != nil {
		s.notifier.ComplaintResolved(rec)
	}
	return rec, nil
}

// List returns complaints in store order, optionally filtered by status.
// An empty status returns everything.
func (s *Service) List(ctx context.Context, status Status) ([]Record, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}
	filtered := make([]Record, 0, len(all))
	for _, rec := range all {
		if rec.Status == status {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// Stats counts complaints by status, priority and department.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		Total:        len(all),
		ByStatus:     map[Status]int{StatusPending: 0, StatusResolved: 0},
		ByPriority:   map[Priority]int{PriorityLow: 0, PriorityMedium: 0, PriorityHigh: 0},
		ByDepartment: make(map[string]int),
	}
	for _, rec := range all {
		st.ByStatus[rec.Status]++
		st.ByPriority[rec.Priority]++
		st.ByDepartment[rec.Department]++
	}
	return st, nil
}

// assignID draws identifiers until one is free in the repository.
func (s *Service) assignID(ctx context.Context) (int64, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		_, err := s.repo.Get(ctx, id)
		if apperrors.IsNotFound(err) {
			return id, nil
		}
		if err != nil {
			return 0, err
		}
	}
	return 0, fmt.Errorf("could not assign a free complaint id after %d attempts", maxIDAttempts)
}

// classificationText returns the text fed to the classifiers. Descriptions
// containing non-Latin letters are translated when a translator is set.
func (s *Service) classificationText(ctx context.Context, description string) string {
	if s.translator == nil || !hasNonLatinLetters(description) {
		return description
	}
	translated, err := s.translator.ToEnglish(ctx, description)
	if err != nil {
		log.Printf("  ⚠️  Translation failed, classifying original text: %v", err)
		return description
	}
	if strings.TrimSpace(translated) == "" {
		return description
	}
	return translated
}

func hasNonLatinLetters(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.In(r, unicode.Latin) {
			return true
		}
	}
	return false
}
