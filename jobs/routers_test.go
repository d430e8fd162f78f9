package jobs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/eersee/mail-generator/common"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := common.Init(filepath.Join(t.TempDir(), "test.db"))
	common.AutoMigrateJobs(db)

	r := gin.New()
	RegisterRoutes(r.Group("/api/jobs"))
	return r
}

func seedJob(t *testing.T, id string, createdAt time.Time) {
	t.Helper()
	job := common.GenerationJob{
		ID:           id,
		Reference:    "letter-template",
		Status:       common.JobStatusCompleted,
		TemplateName: "letter.docx",
		CSVName:      "recipients.csv",
		TotalRows:    3,
		SuccessCount: 2,
		FailCount:    1,
		Errors:       `[{"row":2,"message":"render blew up"}]`,
		CreatedAt:    createdAt,
	}
	assert.NoError(t, common.GetDB().Create(&job).Error)
}

func TestListJobs(t *testing.T) {
	r := newRouter(t)
	seedJob(t, "job-old", time.Now().Add(-time.Hour))
	seedJob(t, "job-new", time.Now())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Jobs []JobResponse `json:"jobs"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Len(t, payload.Jobs, 2)
	assert.Equal(t, "job-new", payload.Jobs[0].JobID, "newest first")
}

func TestListJobs_Empty(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Jobs []JobResponse `json:"jobs"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Empty(t, payload.Jobs)
}

func TestGetJob(t *testing.T) {
	r := newRouter(t)
	seedJob(t, "job-1", time.Now())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var job JobResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, "job-1", job.JobID)
	assert.Equal(t, 2, job.SuccessCount)
	assert.Len(t, job.Errors, 1)
	assert.Equal(t, 2, job.Errors[0].Row)
	assert.Equal(t, "render blew up", job.Errors[0].Message)
}

func TestGetJob_NotFound(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
