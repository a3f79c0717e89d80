// internal/model/game.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GameType discriminates the five playable game variants.
type GameType string

const (
	GameFourPicsOneWord GameType = "four_pics_one_word"
	GameMultipleChoice  GameType = "multiple_choice"
	GameJigsawPuzzle    GameType = "jigsaw_puzzle"
	GameWhoSaidIt       GameType = "who_said_it"
	GameIdentification  GameType = "identification"
)

func (t GameType) Valid() bool {
	switch t {
	case GameFourPicsOneWord, GameMultipleChoice, GameJigsawPuzzle, GameWhoSaidIt, GameIdentification:
		return true
	}
	return false
}

// GameSpec is the variant payload of a game. Exactly one implementation
// exists per GameType; a Game always carries exactly one spec, matching its
// declared type. The unexported method seals the set of implementations.
type GameSpec interface {
	GameType() GameType
	validateSpec() error
}

// FourPicsOneWordSpec shows four images hinting at a single answer word.
type FourPicsOneWordSpec struct {
	Images []string `json:"images"`
	Answer string   `json:"answer"`
	Clue   string   `json:"clue,omitempty"`
}

func (FourPicsOneWordSpec) GameType() GameType { return GameFourPicsOneWord }

func (s FourPicsOneWordSpec) validateSpec() error {
	if len(s.Images) != 4 {
		return NewAppError("INVALID_GAME_SPEC", "four pics one word requires exactly 4 images", "images", ErrInvalidInput)
	}
	if s.Answer == "" {
		return NewAppError("INVALID_GAME_SPEC", "answer is required", "answer", ErrInvalidInput)
	}
	return nil
}

// ChoiceOption is one selectable answer; correctness is carried per option.
type ChoiceOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// MultipleChoiceSpec is a single question with 2+ options, exactly one correct.
type MultipleChoiceSpec struct {
	Question string         `json:"question"`
	Options  []ChoiceOption `json:"options"`
}

func (MultipleChoiceSpec) GameType() GameType { return GameMultipleChoice }

func (s MultipleChoiceSpec) validateSpec() error {
	if s.Question == "" {
		return NewAppError("INVALID_GAME_SPEC", "question is required", "question", ErrInvalidInput)
	}
	if len(s.Options) < 2 {
		return NewAppError("INVALID_GAME_SPEC", "at least two options are required", "options", ErrInvalidInput)
	}
	correct := 0
	for _, o := range s.Options {
		if o.Correct {
			correct++
		}
	}
	if correct != 1 {
		return NewAppError("INVALID_GAME_SPEC", "exactly one option must be marked correct", "options", ErrInvalidInput)
	}
	return nil
}

// JigsawPuzzleSpec scrambles one image into a rows x cols grid.
type JigsawPuzzleSpec struct {
	Image   string `json:"image"`
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`
	Caption string `json:"caption,omitempty"`
}

func (JigsawPuzzleSpec) GameType() GameType { return GameJigsawPuzzle }

func (s JigsawPuzzleSpec) validateSpec() error {
	if s.Image == "" {
		return NewAppError("INVALID_GAME_SPEC", "puzzle image is required", "image", ErrInvalidInput)
	}
	if s.Rows < 2 || s.Cols < 2 {
		return NewAppError("INVALID_GAME_SPEC", "puzzle grid must be at least 2x2", "rows,cols", ErrInvalidInput)
	}
	return nil
}

// QuoteChoice is one candidate speaker for a who-said-it quote.
type QuoteChoice struct {
	CharacterName string `json:"character_name"`
	Correct       bool   `json:"correct"`
}

// WhoSaidItSpec asks which character spoke a quote.
type WhoSaidItSpec struct {
	Quote   string        `json:"quote"`
	Choices []QuoteChoice `json:"choices"`
}

func (WhoSaidItSpec) GameType() GameType { return GameWhoSaidIt }

func (s WhoSaidItSpec) validateSpec() error {
	if s.Quote == "" {
		return NewAppError("INVALID_GAME_SPEC", "quote is required", "quote", ErrInvalidInput)
	}
	if len(s.Choices) < 2 {
		return NewAppError("INVALID_GAME_SPEC", "at least two character choices are required", "choices", ErrInvalidInput)
	}
	correct := 0
	for _, c := range s.Choices {
		if c.Correct {
			correct++
		}
	}
	if correct != 1 {
		return NewAppError("INVALID_GAME_SPEC", "exactly one choice must be marked correct", "choices", ErrInvalidInput)
	}
	return nil
}

// IdentificationSpec is a free-text answer prompt.
type IdentificationSpec struct {
	Prompt     string   `json:"prompt"`
	Answer     string   `json:"answer"`
	AltAnswers []string `json:"alt_answers,omitempty"`
}

func (IdentificationSpec) GameType() GameType { return GameIdentification }

func (s IdentificationSpec) validateSpec() error {
	if s.Prompt == "" {
		return NewAppError("INVALID_GAME_SPEC", "prompt is required", "prompt", ErrInvalidInput)
	}
	if s.Answer == "" {
		return NewAppError("INVALID_GAME_SPEC", "answer is required", "answer", ErrInvalidInput)
	}
	return nil
}

// GamePayload persists a GameSpec as a single JSON envelope column, keeping
// the sum type intact across the database round trip.
type GamePayload struct {
	Spec GameSpec
}

type gamePayloadEnvelope struct {
	GameType GameType        `json:"game_type"`
	Spec     json.RawMessage `json:"spec"`
}

func (p GamePayload) MarshalJSON() ([]byte, error) {
	if p.Spec == nil {
		return nil, fmt.Errorf("game payload: spec is nil")
	}
	raw, err := json.Marshal(p.Spec)
	if err != nil {
		return nil, err
	}
	return json.Marshal(gamePayloadEnvelope{GameType: p.Spec.GameType(), Spec: raw})
}

func (p *GamePayload) UnmarshalJSON(data []byte) error {
	var env gamePayloadEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	spec, err := decodeGameSpec(env.GameType, env.Spec)
	if err != nil {
		return err
	}
	p.Spec = spec
	return nil
}

func decodeGameSpec(t GameType, raw json.RawMessage) (GameSpec, error) {
	switch t {
	case GameFourPicsOneWord:
		var s FourPicsOneWordSpec
		return s, json.Unmarshal(raw, &s)
	case GameMultipleChoice:
		var s MultipleChoiceSpec
		return s, json.Unmarshal(raw, &s)
	case GameJigsawPuzzle:
		var s JigsawPuzzleSpec
		return s, json.Unmarshal(raw, &s)
	case GameWhoSaidIt:
		var s WhoSaidItSpec
		return s, json.Unmarshal(raw, &s)
	case GameIdentification:
		var s IdentificationSpec
		return s, json.Unmarshal(raw, &s)
	default:
		return nil, fmt.Errorf("game payload: unknown game type %q", t)
	}
}

func (p GamePayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *GamePayload) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("game payload: unsupported column type %T", value)
	}
	return json.Unmarshal(data, p)
}

// Game is a single playable activity belonging to one level of one chapter,
// authored by a teacher for a section. The chapter link is denormalized so
// score submission resolves chapter context in one hop.
type Game struct {
	GameID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"game_id"`
	LevelID          uuid.UUID   `gorm:"type:uuid;not null;index" json:"level_id"`
	ChapterID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"chapter_id"`
	Novel            Novel       `gorm:"not null" json:"novel"`
	SectionID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"section_id"`
	TeacherID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"teacher_id"`
	GameType         GameType    `gorm:"not null" json:"game_type"`
	Instruction      string      `gorm:"type:text" json:"instruction"`
	Points           int         `gorm:"not null" json:"points"`
	TimeLimitSeconds *int        `json:"time_limit_seconds,omitempty"`
	Payload          GamePayload `gorm:"type:jsonb" json:"payload"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	Level   *Level   `gorm:"foreignKey:LevelID;references:LevelID" json:"-"`
	Chapter *Chapter `gorm:"foreignKey:ChapterID;references:ChapterID" json:"-"`
}

func (Game) TableName() string {
	return "games"
}

// ValidateSpec checks that the stored payload exists, matches the declared
// game type, and is internally consistent.
func (g *Game) ValidateSpec() error {
	if g.Payload.Spec == nil {
		return NewAppError("INVALID_GAME_SPEC", "game has no payload", "payload", ErrInvalidInput)
	}
	if g.Payload.Spec.GameType() != g.GameType {
		return NewAppError("INVALID_GAME_SPEC", "payload does not match declared game type", "game_type", ErrInvalidInput)
	}
	return g.Payload.Spec.validateSpec()
}

// CreateGameRequest mirrors the authoring form: five optional variant fields
// of which exactly one must be populated, matching GameType. Spec() collapses
// them into the sum type before anything is persisted.
type CreateGameRequest struct {
	LevelID          uuid.UUID `json:"level_id" validate:"required"`
	SectionID        uuid.UUID `json:"section_id" validate:"required"`
	GameType         GameType  `json:"game_type" validate:"required"`
	Instruction      string    `json:"instruction"`
	Points           int       `json:"points" validate:"required,gte=1"`
	TimeLimitSeconds *int      `json:"time_limit_seconds,omitempty" validate:"omitempty,gte=10"`

	FourPicsOneWord *FourPicsOneWordSpec `json:"four_pics_one_word,omitempty"`
	MultipleChoice  *MultipleChoiceSpec  `json:"multiple_choice,omitempty"`
	JigsawPuzzle    *JigsawPuzzleSpec    `json:"jigsaw_puzzle,omitempty"`
	WhoSaidIt       *WhoSaidItSpec       `json:"who_said_it,omitempty"`
	Identification  *IdentificationSpec  `json:"identification,omitempty"`
}

// Spec returns the single populated variant payload. It fails when no
// variant, more than one variant, or a variant not matching GameType is set.
func (r *CreateGameRequest) Spec() (GameSpec, error) {
	if !r.GameType.Valid() {
		return nil, NewAppError("INVALID_GAME_TYPE", "unknown game type", "game_type", ErrInvalidInput)
	}
	var specs []GameSpec
	if r.FourPicsOneWord != nil {
		specs = append(specs, *r.FourPicsOneWord)
	}
	if r.MultipleChoice != nil {
		specs = append(specs, *r.MultipleChoice)
	}
	if r.JigsawPuzzle != nil {
		specs = append(specs, *r.JigsawPuzzle)
	}
	if r.WhoSaidIt != nil {
		specs = append(specs, *r.WhoSaidIt)
	}
	if r.Identification != nil {
		specs = append(specs, *r.Identification)
	}
	if len(specs) != 1 {
		return nil, NewAppError("INVALID_GAME_SPEC", "exactly one variant payload must be provided", "payload", ErrInvalidInput)
	}
	spec := specs[0]
	if spec.GameType() != r.GameType {
		return nil, NewAppError("INVALID_GAME_SPEC", "variant payload does not match game_type", "game_type", ErrInvalidInput)
	}
	if err := spec.validateSpec(); err != nil {
		return nil, err
	}
	return spec, nil
}

// UpdateGameRequest allows editing metadata and replacing the payload.
type UpdateGameRequest struct {
	Instruction      *string `json:"instruction,omitempty"`
	Points           *int    `json:"points,omitempty" validate:"omitempty,gte=1"`
	TimeLimitSeconds *int    `json:"time_limit_seconds,omitempty" validate:"omitempty,gte=10"`

	FourPicsOneWord *FourPicsOneWordSpec `json:"four_pics_one_word,omitempty"`
	MultipleChoice  *MultipleChoiceSpec  `json:"multiple_choice,omitempty"`
	JigsawPuzzle    *JigsawPuzzleSpec    `json:"jigsaw_puzzle,omitempty"`
	WhoSaidIt       *WhoSaidItSpec       `json:"who_said_it,omitempty"`
	Identification  *IdentificationSpec  `json:"identification,omitempty"`
}

// Spec returns the replacement payload, or nil when the update does not touch
// the payload. At most one variant may be set and it must match gameType.
func (r *UpdateGameRequest) Spec(gameType GameType) (GameSpec, error) {
	var specs []GameSpec
	if r.FourPicsOneWord != nil {
		specs = append(specs, *r.FourPicsOneWord)
	}
	if r.MultipleChoice != nil {
		specs = append(specs, *r.MultipleChoice)
	}
	if r.JigsawPuzzle != nil {
		specs = append(specs, *r.JigsawPuzzle)
	}
	if r.WhoSaidIt != nil {
		specs = append(specs, *r.WhoSaidIt)
	}
	if r.Identification != nil {
		specs = append(specs, *r.Identification)
	}
	if len(specs) == 0 {
		return nil, nil
	}
	if len(specs) > 1 {
		return nil, NewAppError("INVALID_GAME_SPEC", "at most one variant payload may be provided", "payload", ErrInvalidInput)
	}
	spec := specs[0]
	if spec.GameType() != gameType {
		return nil, NewAppError("INVALID_GAME_SPEC", "variant payload does not match the game's type", "game_type", ErrInvalidInput)
	}
	if err := spec.validateSpec(); err != nil {
		return nil, err
	}
	return spec, nil
}
