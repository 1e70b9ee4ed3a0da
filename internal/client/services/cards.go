package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/namecard/internal/client/blob"
	"github.com/dmitrijs2005/namecard/internal/client/client"
	"github.com/dmitrijs2005/namecard/internal/client/models"
	"github.com/dmitrijs2005/namecard/internal/client/value"
	"github.com/dmitrijs2005/namecard/internal/common"
	"github.com/dmitrijs2005/namecard/internal/logging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const DefaultGalleryLimit = 50

var (
	ErrNoAudio  = errors.New("a pronunciation recording is required")
	ErrNotOwner = errors.New("card belongs to another user")
)

// CardService creates, lists, shares and deletes name cards.
type CardService interface {
	Create(ctx context.Context, in models.CardInput, audio []byte) (*models.NameCard, error)
	Gallery(ctx context.Context, limit int) ([]models.NameCard, error)
	Mine(ctx context.Context) ([]models.NameCard, error)
	ByShareID(ctx context.Context, shareID string) (*models.NameCard, error)
	Delete(ctx context.Context, card models.NameCard) error
	ShareURL(card models.NameCard) string
}

type cardService struct {
	client    client.Client
	blobs     blob.Store
	shareBase string
	log       logging.Logger
	now       func() time.Time
	newID     func() string
}

// NewCardService builds a CardService. A nil blobs stores audio through the
// hosted service via c.
func NewCardService(c client.Client, blobs blob.Store, shareBaseURL string, log logging.Logger) CardService {
	if blobs == nil {
		blobs = blob.NewHosted(c)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &cardService{
		client:    c,
		blobs:     blobs,
		shareBase: strings.TrimRight(shareBaseURL, "/"),
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// audioExtension picks the file extension for a recording from its content.
func audioExtension(audio []byte) string {
	mt := mimetype.Detect(audio)
	if ext := mt.Extension(); ext != "" && ext != ".txt" {
		return ext
	}
	return ".wav"
}

// Create uploads the recording and stores the card. When storing the card
// fails the uploaded recording is removed again.
func (s *cardService) Create(ctx context.Context, in models.CardInput, audio []byte) (*models.NameCard, error) {
	u, ok := s.client.CurrentUser()
	if !ok {
		return nil, fmt.Errorf("create card: %w", client.ErrAuth)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, ErrNoAudio
	}

	now := s.now().UTC()
	path := fmt.Sprintf("audio/%s/%d%s", u.UID, now.UnixMilli(), audioExtension(audio))

	audioURL, err := s.blobs.Upload(ctx, path, audio)
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	card := models.NameCard{
		FullName:         strings.TrimSpace(in.FullName),
		PhoneticSpelling: strings.TrimSpace(in.PhoneticSpelling),
		Pronouns:         strings.TrimSpace(in.Pronouns),
		Description:      strings.TrimSpace(in.Description),
		Languages:        in.Languages,
		Theme:            in.Theme,
		AudioURL:         audioURL,
		AudioPath:        path,
		UserID:           u.UID,
		UserName:         u.Name(),
		UserPhoto:        u.PhotoURL,
		CreatedAt:        now,
		ShareID:          s.newID(),
	}
	if card.Theme == "" {
		card.Theme = "default"
	}

	id, err := s.client.AddDocument(ctx, common.CollectionNameCards, card.Fields())
	if err != nil {
		if derr := s.blobs.Delete(ctx, path); derr != nil {
			s.log.Warn(ctx, "orphaned audio left behind", "path", path, "error", derr)
		}
		return nil, fmt.Errorf("save card: %w", err)
	}
	card.ID = id

	s.log.Info(ctx, "card created", "id", id, "share_id", card.ShareID)
	return &card, nil
}

// Gallery returns the newest cards; limit <= 0 means DefaultGalleryLimit.
func (s *cardService) Gallery(ctx context.Context, limit int) ([]models.NameCard, error) {
	if limit <= 0 {
		limit = DefaultGalleryLimit
	}
	docs, err := s.client.ListDocuments(ctx, common.CollectionNameCards, client.ListOptions{
		OrderBy: "createdAt",
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	return models.NameCardsFromDocuments(docs), nil
}

func (s *cardService) Mine(ctx context.Context) ([]models.NameCard, error) {
	u, ok := s.client.CurrentUser()
	if !ok {
		return nil, fmt.Errorf("list cards: %w", client.ErrAuth)
	}
	docs, err := s.client.QueryDocuments(ctx, common.CollectionNameCards, "userId", "EQUAL", value.String(u.UID))
	if err != nil {
		return nil, err
	}
	return models.NameCardsFromDocuments(docs), nil
}

func (s *cardService) ByShareID(ctx context.Context, shareID string) (*models.NameCard, error) {
	docs, err := s.client.QueryDocuments(ctx, common.CollectionNameCards, "shareId", "EQUAL", value.String(shareID))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("card %s: %w", shareID, client.ErrNotFound)
	}
	card := models.NameCardFromDocument(docs[0])
	return &card, nil
}

// Delete removes the card's recording (if any) and then the card.
func (s *cardService) Delete(ctx context.Context, card models.NameCard) error {
	u, ok := s.client.CurrentUser()
	if !ok {
		return fmt.Errorf("delete card: %w", client.ErrAuth)
	}
	if card.UserID != "" && card.UserID != u.UID {
		return ErrNotOwner
	}

	if card.AudioPath != "" {
		if err := s.blobs.Delete(ctx, card.AudioPath); err != nil {
			return fmt.Errorf("delete audio: %w", err)
		}
	}
	if err := s.client.DeleteDocument(ctx, common.CollectionNameCards, card.ID); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return nil
}

func (s *cardService) ShareURL(card models.NameCard) string {
	return s.shareBase + "/share/" + card.ShareID
}
