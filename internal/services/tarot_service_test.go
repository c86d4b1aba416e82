package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroflux/astroflux/backend/internal/models"
)

func seedTestDeck(t *testing.T, svc *TarotService, n int) []*models.TarotCard {
	t.Helper()
	cards := make([]*models.TarotCard, 0, n)
	names := []string{"The Fool", "The Magician", "The High Priestess", "The Empress", "The Emperor"}
	for i := 0; i < n; i++ {
		card := &models.TarotCard{
			Name:           names[i%len(names)],
			CardType:       "major",
			Number:         i,
			MeaningUpright: "meaning",
			CreatedBy:      1,
		}
		require.NoError(t, svc.Create(card))
		cards = append(cards, card)
	}
	return cards
}

func TestTarotCreateDefaultsSuit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTarotService(db)

	card := &models.TarotCard{Name: "The Fool", CardType: "major", CreatedBy: 1}
	require.NoError(t, svc.Create(card))
	assert.Equal(t, "none", card.Suit)
	assert.True(t, card.IsActive)
}

func TestTarotRandomDrawsDistinctCards(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTarotService(db)
	seedTestDeck(t, svc, 5)

	cards, err := svc.Random(3)
	require.NoError(t, err)
	assert.Len(t, cards, 3)

	seen := map[uint]bool{}
	for _, card := range cards {
		assert.False(t, seen[card.ID], "card %d drawn twice", card.ID)
		seen[card.ID] = true
	}
}

func TestTarotRandomClampsCount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTarotService(db)
	seedTestDeck(t, svc, 5)

	cards, err := svc.Random(0)
	require.NoError(t, err)
	assert.Len(t, cards, 1)

	// Requests above the cap draw at most MaxTarotDraw; the deck only has
	// five cards, so five come back.
	cards, err = svc.Random(50)
	require.NoError(t, err)
	assert.Len(t, cards, 5)
}

func TestTarotRandomEmptyDeck(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTarotService(db)

	_, err := svc.Random(1)
	assert.ErrorIs(t, err, ErrNoTarotCards)
}

func TestTarotRandomSkipsInactiveCards(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTarotService(db)
	cards := seedTestDeck(t, svc, 3)

	require.NoError(t, svc.SetActive(cards[0].ID, false))
	require.NoError(t, svc.SetActive(cards[1].ID, false))

	drawn, err := svc.Random(5)
	require.NoError(t, err)
	require.Len(t, drawn, 1)
	assert.Equal(t, cards[2].ID, drawn[0].ID)
}

func TestTarotAllActiveOrdered(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTarotService(db)
	cards := seedTestDeck(t, svc, 4)
	require.NoError(t, svc.SetActive(cards[3].ID, false))

	active, err := svc.AllActive()
	require.NoError(t, err)
	require.Len(t, active, 3)
	for i := 1; i < len(active); i++ {
		assert.LessOrEqual(t, active[i-1].Number, active[i].Number)
	}
}

func TestTarotDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTarotService(db)
	cards := seedTestDeck(t, svc, 1)

	require.NoError(t, svc.Delete(cards[0].ID))
	assert.ErrorIs(t, svc.Delete(cards[0].ID), ErrTarotCardNotFound)
	assert.ErrorIs(t, svc.SetActive(cards[0].ID, true), ErrTarotCardNotFound)
}
