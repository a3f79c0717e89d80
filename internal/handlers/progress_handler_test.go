// internal/handlers/progress_handler_test.go
package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filipiknow_backend/internal/model"
)

type studentInfoAndProgressBody struct {
	Success  bool                    `json:"success"`
	Message  string                  `json:"message"`
	Student  *model.StudentResponse  `json:"student"`
	Progress *model.ProgressResponse `json:"progress"`
}

func TestGetStudentInfoAndProgress(t *testing.T) {
	clearTables(t)
	teacher := seedUser(t, model.RoleTeacher)
	section := seedSection(t, teacher.UserID, "Grade 9")
	student := seedStudent(t, section.SectionID, "Grade 9")
	progress := seedProgress(t, student.StudentID, model.NovelNoliMeTangere, 3, 5, 240)

	body := map[string]interface{}{"userId": student.UserID}
	rr := executeRequest(createRequest(t, http.MethodPost, "/getStudentInfoAndProgress", body, nil))
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())

	var resp studentInfoAndProgressBody
	decodeBody(t, rr, &resp)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Message)
	require.NotNil(t, resp.Student)
	require.NotNil(t, resp.Progress)
	assert.Equal(t, student.StudentID, resp.Student.StudentID)
	assert.Equal(t, "Test Student", resp.Student.FullName)
	assert.Equal(t, progress.ProgressID, resp.Progress.ProgressID)
	assert.Equal(t, model.NovelNoliMeTangere, resp.Progress.Novel)
	assert.Equal(t, 3, resp.Progress.CurrentChapter)
	assert.Equal(t, 5, resp.Progress.CurrentLevel)
	assert.Equal(t, 240, resp.Progress.TotalPoints)
	require.NotZero(t, resp.Progress.UpdatedAt)

	// A fresh cache token short-circuits to the message-only envelope.
	body["cachedUpdatedAt"] = resp.Progress.UpdatedAt
	rr = executeRequest(createRequest(t, http.MethodPost, "/getStudentInfoAndProgress", body, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var cached studentInfoAndProgressBody
	decodeBody(t, rr, &cached)
	assert.True(t, cached.Success)
	assert.Equal(t, "No updates available", cached.Message)
	assert.Nil(t, cached.Student)
	assert.Nil(t, cached.Progress)

	// A stale token gets the full payload again.
	body["cachedUpdatedAt"] = resp.Progress.UpdatedAt - 1
	rr = executeRequest(createRequest(t, http.MethodPost, "/getStudentInfoAndProgress", body, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var stale studentInfoAndProgressBody
	decodeBody(t, rr, &stale)
	assert.Empty(t, stale.Message)
	require.NotNil(t, stale.Progress)
	assert.Equal(t, resp.Progress.UpdatedAt, stale.Progress.UpdatedAt)
}

func TestGetStudentInfoAndProgress_Failures(t *testing.T) {
	clearTables(t)
	teacher := seedUser(t, model.RoleTeacher)
	section := seedSection(t, teacher.UserID, "Grade 9")
	student := seedStudent(t, section.SectionID, "Grade 9")

	t.Run("unknown user", func(t *testing.T) {
		body := map[string]interface{}{"userId": uuid.New()}
		rr := executeRequest(createRequest(t, http.MethodPost, "/getStudentInfoAndProgress", body, nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("student without progress", func(t *testing.T) {
		body := map[string]interface{}{"userId": student.UserID}
		rr := executeRequest(createRequest(t, http.MethodPost, "/getStudentInfoAndProgress", body, nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing userId", func(t *testing.T) {
		rr := executeRequest(createRequest(t, http.MethodPost, "/getStudentInfoAndProgress", map[string]interface{}{}, nil))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestPostProgress(t *testing.T) {
	clearTables(t)
	teacher := seedUser(t, model.RoleTeacher)
	section := seedSection(t, teacher.UserID, "Grade 9")
	student := seedStudent(t, section.SectionID, "Grade 9")

	req := createRequest(t, http.MethodPost, "/api/v1/progress", nil, &student.UserID)
	rr := executeRequest(req)
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())

	var first model.ProgressResponse
	decodeBody(t, rr, &first)
	assert.Equal(t, student.StudentID, first.StudentID)
	assert.Equal(t, model.NovelNoliMeTangere, first.Novel, "Grade 9 starts on Noli")
	assert.Equal(t, 1, first.CurrentChapter)
	assert.Equal(t, 1, first.CurrentLevel)
	assert.Equal(t, 0, first.TotalPoints)

	// Calling again returns the same record instead of a second journey.
	rr = executeRequest(createRequest(t, http.MethodPost, "/api/v1/progress", nil, &student.UserID))
	require.Equal(t, http.StatusOK, rr.Code)

	var second model.ProgressResponse
	decodeBody(t, rr, &second)
	assert.Equal(t, first.ProgressID, second.ProgressID)

	var count int64
	require.NoError(t, testDB.Model(&model.Progress{}).Where("student_id = ?", student.StudentID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPostProgress_AuthRequired(t *testing.T) {
	clearTables(t)

	// No X-User-ID header in dev mode means no identity.
	rr := executeRequest(createRequest(t, http.MethodPost, "/api/v1/progress", nil, nil))
	require.Equal(t, http.StatusForbidden, rr.Code)

	// A user without a student record cannot start a journey.
	user := seedUser(t, model.RoleStudent)
	rr = executeRequest(createRequest(t, http.MethodPost, "/api/v1/progress", nil, &user.UserID))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetProgressByID(t *testing.T) {
	clearTables(t)
	teacher := seedUser(t, model.RoleTeacher)
	section := seedSection(t, teacher.UserID, "Grade 9")
	student := seedStudent(t, section.SectionID, "Grade 9")
	progress := seedProgress(t, student.StudentID, model.NovelNoliMeTangere, 2, 4, 150)

	rr := executeRequest(createRequest(t, http.MethodGet, "/api/v1/progress/"+progress.ProgressID.String(), nil, &teacher.UserID))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp model.ProgressResponse
	decodeBody(t, rr, &resp)
	assert.Equal(t, progress.ProgressID, resp.ProgressID)
	assert.Equal(t, 2, resp.CurrentChapter)

	t.Run("unknown id", func(t *testing.T) {
		rr := executeRequest(createRequest(t, http.MethodGet, "/api/v1/progress/"+uuid.NewString(), nil, &teacher.UserID))
		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rr := executeRequest(createRequest(t, http.MethodGet, "/api/v1/progress/not-a-uuid", nil, &teacher.UserID))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
