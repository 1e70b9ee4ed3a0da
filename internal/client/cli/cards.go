package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/namecard/internal/client/client"
	"github.com/dmitrijs2005/namecard/internal/client/models"
	"github.com/dmitrijs2005/namecard/internal/client/services"
	"github.com/dmitrijs2005/namecard/internal/filex"
)

// readFile is a test seam for loading the recording from disk.
var readFile = filex.ReadFileLimited

// Create prompts for the card fields and a recording file, then creates
// the card and prints its share link.
func (a *App) Create(ctx context.Context) error {
	var in models.CardInput
	var err error

	if in.FullName, err = getSimpleText(a.reader, "Full name", a.out); err != nil {
		return err
	}
	if in.PhoneticSpelling, err = getSimpleText(a.reader, "Phonetic spelling (e.g. JAY-son)", a.out); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if in.Pronouns, err = getSimpleText(a.reader, "Pronouns (optional)", a.out); err != nil {
		return err
	}
	if in.Description, err = GetMultiline(a.reader, "Description (optional)", a.out); err != nil {
		return err
	}
	if in.Languages, err = GetList(a.reader, "Languages, e.g. en, es", a.out); err != nil {
		return err
	}
	if in.Theme, err = getSimpleText(a.reader, "Theme (empty for default)", a.out); err != nil {
		return err
	}

	path, err := getSimpleText(a.reader, "Path to the pronunciation recording", a.out)
	if err != nil {
		return err
	}
	if path == "" {
		return services.ErrNoAudio
	}
	audio, err := readFile(path, maxAudioBytes)
	if err != nil {
		return err
	}

	card, err := a.cardService.Create(ctx, in, audio)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Card %s created\n", card.ID)
	fmt.Fprintln(a.out, "Share link:", a.cardService.ShareURL(*card))
	return nil
}

// Gallery lists the newest cards. Words in args form a search term; an
// argument of the form lang:<code> filters by language.
func (a *App) Gallery(ctx context.Context, args []string) error {
	var terms []string
	language := ""
	for _, arg := range args {
		if code, ok := strings.CutPrefix(arg, "lang:"); ok {
			language = code
			continue
		}
		terms = append(terms, arg)
	}

	cards, err := a.cardService.Gallery(ctx, services.DefaultGalleryLimit)
	if err != nil {
		return err
	}
	all := cards
	cards = models.FilterCards(cards, strings.Join(terms, " "), language)

	if len(cards) == 0 {
		fmt.Fprintln(a.out, "No cards found")
		return nil
	}
	a.printCards(cards)
	if langs := models.Languages(all); len(langs) > 0 {
		fmt.Fprintln(a.out, "Languages:", strings.Join(langs, ", "))
	}
	return nil
}

func (a *App) Mine(ctx context.Context) error {
	cards, err := a.cardService.Mine(ctx)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Fprintln(a.out, "You have no cards yet, use 'create'")
		return nil
	}
	a.printCards(cards)
	return nil
}

// Share shows the card behind a share id, as a visitor of its link would
// see it.
func (a *App) Share(ctx context.Context, shareID string) error {
	card, err := a.cardService.ByShareID(ctx, shareID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%s)\n", card.FullName, card.PhoneticSpelling)
	if card.Pronouns != "" {
		fmt.Fprintln(a.out, "Pronouns:", card.Pronouns)
	}
	if card.Description != "" {
		fmt.Fprintln(a.out, card.Description)
	}
	if len(card.Languages) > 0 {
		fmt.Fprintln(a.out, "Languages:", strings.Join(card.Languages, ", "))
	}
	fmt.Fprintln(a.out, "By:", card.UserName)
	fmt.Fprintln(a.out, "Listen:", card.AudioURL)
	fmt.Fprintln(a.out, "Link:", a.cardService.ShareURL(*card))
	return nil
}

// Delete removes one of the user's own cards by document id.
func (a *App) Delete(ctx context.Context, cardID string) error {
	cards, err := a.cardService.Mine(ctx)
	if err != nil {
		return err
	}

	for _, c := range cards {
		if c.ID != cardID {
			continue
		}
		if err := a.cardService.Delete(ctx, c); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Card %s deleted\n", cardID)
		return nil
	}
	return fmt.Errorf("card %s: %w", cardID, client.ErrNotFound)
}

func (a *App) printCards(cards []models.NameCard) {
	for _, c := range cards {
		fmt.Fprintf(a.out, "%-22s %-24s %-20s %s\n",
			c.ID, c.FullName, c.PhoneticSpelling, c.CreatedAt.Local().Format("2006-01-02"))
		fmt.Fprintf(a.out, "%-22s share: %s\n", "", c.ShareID)
	}
}
