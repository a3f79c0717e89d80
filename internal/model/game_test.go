// internal/model/game_test.go
package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMultipleChoiceSpec() *MultipleChoiceSpec {
	return &MultipleChoiceSpec{
		Question: "Sino ang may-akda ng Noli Me Tangere?",
		Options: []ChoiceOption{
			{Text: "Jose Rizal", Correct: true},
			{Text: "Andres Bonifacio"},
		},
	}
}

func TestCreateGameRequest_Spec(t *testing.T) {
	tests := []struct {
		name     string
		req      *CreateGameRequest
		wantErr  error
		wantType GameType
	}{
		{
			name: "single matching variant",
			req: &CreateGameRequest{
				GameType:       GameMultipleChoice,
				MultipleChoice: validMultipleChoiceSpec(),
			},
			wantType: GameMultipleChoice,
		},
		{
			name: "no variant provided",
			req: &CreateGameRequest{
				GameType: GameMultipleChoice,
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "two variants provided",
			req: &CreateGameRequest{
				GameType:       GameMultipleChoice,
				MultipleChoice: validMultipleChoiceSpec(),
				Identification: &IdentificationSpec{Prompt: "p", Answer: "a"},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "variant does not match declared type",
			req: &CreateGameRequest{
				GameType:       GameJigsawPuzzle,
				MultipleChoice: validMultipleChoiceSpec(),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown game type",
			req: &CreateGameRequest{
				GameType:       GameType("crossword"),
				MultipleChoice: validMultipleChoiceSpec(),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "variant fails its own validation",
			req: &CreateGameRequest{
				GameType: GameMultipleChoice,
				MultipleChoice: &MultipleChoiceSpec{
					Question: "q",
					Options: []ChoiceOption{
						{Text: "a", Correct: true},
						{Text: "b", Correct: true},
					},
				},
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := tt.req.Spec()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, spec)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, spec)
			assert.Equal(t, tt.wantType, spec.GameType())
		})
	}
}

func TestUpdateGameRequest_Spec(t *testing.T) {
	t.Run("no variant means no payload change", func(t *testing.T) {
		req := &UpdateGameRequest{}
		spec, err := req.Spec(GameMultipleChoice)
		require.NoError(t, err)
		assert.Nil(t, spec)
	})

	t.Run("replacement must match the game's type", func(t *testing.T) {
		req := &UpdateGameRequest{
			Identification: &IdentificationSpec{Prompt: "p", Answer: "a"},
		}
		_, err := req.Spec(GameMultipleChoice)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("matching replacement is accepted", func(t *testing.T) {
		req := &UpdateGameRequest{
			MultipleChoice: validMultipleChoiceSpec(),
		}
		spec, err := req.Spec(GameMultipleChoice)
		require.NoError(t, err)
		require.NotNil(t, spec)
		assert.Equal(t, GameMultipleChoice, spec.GameType())
	})
}

func TestGameSpec_validateSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    GameSpec
		wantErr bool
	}{
		{
			name: "four pics needs exactly four images",
			spec: FourPicsOneWordSpec{
				Images: []string{"a.png", "b.png", "c.png"},
				Answer: "ibarra",
			},
			wantErr: true,
		},
		{
			name: "four pics valid",
			spec: FourPicsOneWordSpec{
				Images: []string{"a.png", "b.png", "c.png", "d.png"},
				Answer: "ibarra",
			},
		},
		{
			name:    "jigsaw grid below 2x2",
			spec:    JigsawPuzzleSpec{Image: "x.png", Rows: 1, Cols: 3},
			wantErr: true,
		},
		{
			name: "jigsaw valid",
			spec: JigsawPuzzleSpec{Image: "x.png", Rows: 3, Cols: 3},
		},
		{
			name: "who said it needs one correct choice",
			spec: WhoSaidItSpec{
				Quote: "q",
				Choices: []QuoteChoice{
					{CharacterName: "Elias"},
					{CharacterName: "Ibarra"},
				},
			},
			wantErr: true,
		},
		{
			name: "who said it valid",
			spec: WhoSaidItSpec{
				Quote: "q",
				Choices: []QuoteChoice{
					{CharacterName: "Elias", Correct: true},
					{CharacterName: "Ibarra"},
				},
			},
		},
		{
			name:    "identification needs an answer",
			spec:    IdentificationSpec{Prompt: "p"},
			wantErr: true,
		},
		{
			name: "identification valid",
			spec: IdentificationSpec{Prompt: "p", Answer: "a", AltAnswers: []string{"b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.validateSpec()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGamePayload_RoundTrip(t *testing.T) {
	original := GamePayload{Spec: WhoSaidItSpec{
		Quote: "Walang anuman iyon!",
		Choices: []QuoteChoice{
			{CharacterName: "Padre Damaso", Correct: true},
			{CharacterName: "Kapitan Tiago"},
		},
	}}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"game_type":"who_said_it"`)

	var decoded GamePayload
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Spec)
	assert.Equal(t, GameWhoSaidIt, decoded.Spec.GameType())
	assert.Equal(t, original.Spec, decoded.Spec)
}

func TestGamePayload_ScanRejectsUnknownType(t *testing.T) {
	var p GamePayload
	err := p.Scan([]byte(`{"game_type":"crossword","spec":{}}`))
	require.Error(t, err)
}

func TestGamePayload_MarshalNilSpec(t *testing.T) {
	_, err := json.Marshal(GamePayload{})
	require.Error(t, err)
}

func TestGame_ValidateSpec(t *testing.T) {
	game := &Game{
		GameID:   uuid.New(),
		GameType: GameMultipleChoice,
		Payload:  GamePayload{Spec: *validMultipleChoiceSpec()},
	}
	require.NoError(t, game.ValidateSpec())

	game.GameType = GameIdentification
	err := game.ValidateSpec()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	game.Payload = GamePayload{}
	err = game.ValidateSpec()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
