// internal/model/novel.go
package model

// Novel identifies one of the two supported novels. It is the enum games,
// chapters and progress records are keyed on; display titles are derived from
// it, never matched against.
type Novel string

const (
	NovelNoliMeTangere    Novel = "noli_me_tangere"
	NovelElFilibusterismo Novel = "el_filibusterismo"
)

// AssessmentLevel is the last level of every chapter. Completing it rolls the
// level counter over and, when room remains, advances the chapter.
const AssessmentLevel = 10

// GradeLevelNoli is the grade assigned to the first novel; every other grade
// level starts on the sequel.
const GradeLevelNoli = "Grade 9"

const (
	noliChapterLimit   = 64
	elFiliChapterLimit = 39
)

func (n Novel) Valid() bool {
	return n == NovelNoliMeTangere || n == NovelElFilibusterismo
}

// Title returns the display title of the novel.
func (n Novel) Title() string {
	switch n {
	case NovelNoliMeTangere:
		return "Noli Me Tangere"
	case NovelElFilibusterismo:
		return "El Filibusterismo"
	default:
		return string(n)
	}
}

// ChapterLimit is the number of chapters the novel has; progression never
// advances past it.
func (n Novel) ChapterLimit() int {
	switch n {
	case NovelNoliMeTangere:
		return noliChapterLimit
	case NovelElFilibusterismo:
		return elFiliChapterLimit
	default:
		return 0
	}
}

// NovelForGradeLevel maps a student's grade level to their assigned novel.
func NovelForGradeLevel(gradeLevel string) Novel {
	if gradeLevel == GradeLevelNoli {
		return NovelNoliMeTangere
	}
	return NovelElFilibusterismo
}
