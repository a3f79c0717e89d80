// internal/service/character_service_test.go
package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filipiknow_backend/internal/model"
	"filipiknow_backend/internal/repository"
)

func newCharacterService(t *testing.T) CharacterService {
	t.Helper()
	db := setupTestDB(t)
	return NewCharacterService(db, repository.NewGormCharacterRepository())
}

func TestCharacterService_CreateCharacter(t *testing.T) {
	svc := newCharacterService(t)

	character, err := svc.CreateCharacter(testCtx, &model.CreateCharacterRequest{
		Novel:       model.NovelNoliMeTangere,
		Name:        "Maria Clara",
		Description: "Ibarra's betrothed.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria Clara", character.Name)

	// Same name within the same novel: refused.
	_, err = svc.CreateCharacter(testCtx, &model.CreateCharacterRequest{
		Novel: model.NovelNoliMeTangere,
		Name:  "Maria Clara",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConflict)

	// The same name in the other novel is a different character.
	_, err = svc.CreateCharacter(testCtx, &model.CreateCharacterRequest{
		Novel: model.NovelElFilibusterismo,
		Name:  "Maria Clara",
	})
	require.NoError(t, err)
}

func TestCharacterService_ListCharacters(t *testing.T) {
	svc := newCharacterService(t)

	for _, name := range []string{"Padre Damaso", "Elias", "Crisostomo Ibarra"} {
		_, err := svc.CreateCharacter(testCtx, &model.CreateCharacterRequest{
			Novel: model.NovelNoliMeTangere,
			Name:  name,
		})
		require.NoError(t, err)
	}
	_, err := svc.CreateCharacter(testCtx, &model.CreateCharacterRequest{
		Novel: model.NovelElFilibusterismo,
		Name:  "Simoun",
	})
	require.NoError(t, err)

	characters, err := svc.ListCharacters(testCtx, model.NovelNoliMeTangere)
	require.NoError(t, err)
	require.Len(t, characters, 3)
	assert.Equal(t, "Crisostomo Ibarra", characters[0].Name, "characters come back alphabetically")

	_, err = svc.ListCharacters(testCtx, model.Novel("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestCharacterService_UpdateAndDelete(t *testing.T) {
	svc := newCharacterService(t)

	character, err := svc.CreateCharacter(testCtx, &model.CreateCharacterRequest{
		Novel: model.NovelNoliMeTangere,
		Name:  "Sisa",
	})
	require.NoError(t, err)

	desc := "Mother of Basilio and Crispin."
	updated, err := svc.UpdateCharacter(testCtx, character.CharacterID, &model.UpdateCharacterRequest{
		Description: &desc,
	})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, "Sisa", updated.Name)

	require.NoError(t, svc.DeleteCharacter(testCtx, character.CharacterID))

	_, err = svc.GetCharacter(testCtx, character.CharacterID)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = svc.DeleteCharacter(testCtx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
