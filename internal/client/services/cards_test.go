package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/namecard/internal/client/client"
	"github.com/dmitrijs2005/namecard/internal/client/models"
	"github.com/dmitrijs2005/namecard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wavHeader = append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 32)...)

func newCardService(fc *fakeClient) *cardService {
	svc := NewCardService(fc, nil, "https://names.example.com/", nil).(*cardService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("share-%d", n)
	}
	return svc
}

func TestCardService_Create(t *testing.T) {
	fc := newFakeClient()
	fc.signIn("u1")
	svc := newCardService(fc)

	card, err := svc.Create(context.Background(), models.CardInput{
		FullName:         " Aoife ",
		PhoneticSpelling: "EE-fa",
		Languages:        []string{"ga"},
	}, wavHeader)
	require.NoError(t, err)

	assert.Equal(t, "doc-1", card.ID)
	assert.Equal(t, "Aoife", card.FullName)
	assert.Equal(t, "audio/u1/1700000000000.wav", card.AudioPath)
	assert.Equal(t, "https://files.example.com/audio/u1/1700000000000.wav", card.AudioURL)
	assert.Equal(t, "share-1", card.ShareID)
	assert.Equal(t, "u1@example.com", card.UserName)
	assert.Equal(t, "default", card.Theme)
	assert.Contains(t, fc.files, card.AudioPath)

	stored := models.NameCardFromDocument(client.Document{ID: "doc-1", Fields: fc.docs[common.CollectionNameCards]["doc-1"]})
	assert.Equal(t, *card, stored)
}

func TestCardService_CreateValidation(t *testing.T) {
	fc := newFakeClient()
	svc := newCardService(fc)
	ctx := context.Background()
	in := models.CardInput{FullName: "A", PhoneticSpelling: "ay"}

	_, err := svc.Create(ctx, in, wavHeader)
	require.ErrorIs(t, err, client.ErrAuth)

	fc.signIn("u1")
	_, err = svc.Create(ctx, models.CardInput{FullName: "A"}, wavHeader)
	require.ErrorIs(t, err, models.ErrMissingField)

	_, err = svc.Create(ctx, in, nil)
	require.ErrorIs(t, err, ErrNoAudio)
	assert.Empty(t, fc.files)
}

func TestCardService_CreateRemovesAudioWhenSaveFails(t *testing.T) {
	fc := newFakeClient()
	fc.signIn("u1")
	fc.addErr = &client.APIError{Op: "add document", Status: 500, Err: client.ErrRequest}
	svc := newCardService(fc)

	_, err := svc.Create(context.Background(), models.CardInput{FullName: "A", PhoneticSpelling: "ay"}, wavHeader)
	require.ErrorIs(t, err, client.ErrRequest)
	assert.Empty(t, fc.files)
	assert.Equal(t, []string{"audio/u1/1700000000000.wav"}, fc.deletedFiles)
}

func TestCardService_CreateUploadFails(t *testing.T) {
	fc := newFakeClient()
	fc.signIn("u1")
	fc.uploadErr = &client.APIError{Op: "upload file", Err: client.ErrStorage}
	svc := newCardService(fc)

	_, err := svc.Create(context.Background(), models.CardInput{FullName: "A", PhoneticSpelling: "ay"}, wavHeader)
	require.ErrorIs(t, err, client.ErrStorage)
	assert.Empty(t, fc.docs[common.CollectionNameCards])
}

func TestAudioExtension(t *testing.T) {
	assert.Equal(t, ".wav", audioExtension(wavHeader))
	assert.Equal(t, ".wav", audioExtension([]byte("plain text")))
	assert.Equal(t, ".mp3", audioExtension(append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 32)...)))
}

func TestCardService_GalleryMineAndShare(t *testing.T) {
	fc := newFakeClient()
	svc := newCardService(fc)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, owner := range []string{"u1", "u2", "u1"} {
		c := models.NameCard{
			FullName:  fmt.Sprintf("card-%d", i),
			UserID:    owner,
			ShareID:   fmt.Sprintf("s-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		fc.put(common.CollectionNameCards, fmt.Sprintf("c%d", i), c.Fields())
	}

	gallery, err := svc.Gallery(ctx, 2)
	require.NoError(t, err)
	require.Len(t, gallery, 2)
	assert.Equal(t, "card-2", gallery[0].FullName)
	assert.Equal(t, "card-1", gallery[1].FullName)

	all, err := svc.Gallery(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.Mine(ctx)
	require.ErrorIs(t, err, client.ErrAuth)

	fc.signIn("u1")
	mine, err := svc.Mine(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	shared, err := svc.ByShareID(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "card-1", shared.FullName)
	assert.Equal(t, "https://names.example.com/share/s-1", svc.ShareURL(*shared))

	_, err = svc.ByShareID(ctx, "nope")
	require.ErrorIs(t, err, client.ErrNotFound)
}

func TestCardService_Delete(t *testing.T) {
	fc := newFakeClient()
	fc.signIn("u1")
	svc := newCardService(fc)
	ctx := context.Background()

	card, err := svc.Create(ctx, models.CardInput{FullName: "A", PhoneticSpelling: "ay"}, wavHeader)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, *card))
	assert.Empty(t, fc.files)
	assert.Empty(t, fc.docs[common.CollectionNameCards])
	assert.Equal(t, []string{"nameCards/" + card.ID}, fc.deletedDocs)
}

func TestCardService_DeleteErrors(t *testing.T) {
	fc := newFakeClient()
	svc := newCardService(fc)
	ctx := context.Background()
	card := models.NameCard{ID: "c1", UserID: "u1", AudioPath: "audio/u1/1.wav"}

	require.ErrorIs(t, svc.Delete(ctx, card), client.ErrAuth)

	fc.signIn("u2")
	require.ErrorIs(t, svc.Delete(ctx, card), ErrNotOwner)

	fc.signIn("u1")
	fc.deleteFileErr = errors.New("storage down")
	require.ErrorContains(t, svc.Delete(ctx, card), "storage down")
	assert.Empty(t, fc.deletedDocs, "card is kept when its audio cannot be removed")

	fc.deleteFileErr = nil
	require.ErrorIs(t, svc.Delete(ctx, card), client.ErrNotFound)
}
