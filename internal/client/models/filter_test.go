package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterCards(t *testing.T) {
	cards := []NameCard{
		{ID: "1", FullName: "Nguyễn Văn An", PhoneticSpelling: "nwin van an", Languages: []string{"vi"}},
		{ID: "2", FullName: "Joaquín", PhoneticSpelling: "wah-KEEN", Description: "Spanish name", Languages: []string{"es", "en"}},
		{ID: "3", FullName: "Aoife", PhoneticSpelling: "EE-fa", UserName: "aoife.k", Languages: []string{"ga"}},
	}

	ids := func(cs []NameCard) []string {
		out := []string{}
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(FilterCards(cards, "", "")))
	assert.Equal(t, []string{"2"}, ids(FilterCards(cards, "keen", "")))
	assert.Equal(t, []string{"2"}, ids(FilterCards(cards, "SPANISH", "")))
	assert.Equal(t, []string{"3"}, ids(FilterCards(cards, "aoife.K", "")))
	assert.Equal(t, []string{"2"}, ids(FilterCards(cards, "", "en")))
	assert.Equal(t, []string{}, ids(FilterCards(cards, "aoife", "en")))
	assert.Equal(t, []string{"1"}, ids(FilterCards(cards, " văn ", "vi")))
}

func TestLanguages(t *testing.T) {
	cards := []NameCard{
		{Languages: []string{"vi", "en"}},
		{Languages: []string{"en", "es"}},
		{},
	}
	assert.Equal(t, []string{"en", "es", "vi"}, Languages(cards))
	assert.Empty(t, Languages(nil))
}
