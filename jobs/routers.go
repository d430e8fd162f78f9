// Package jobs exposes the generation job history recorded by the generate
// endpoint.
package jobs

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eersee/mail-generator/common"
)

// listLimit caps how many recent jobs the listing returns.
const listLimit = 50

// JobResponse is the API shape for one generation run.
type JobResponse struct {
	JobID        string            `json:"job_id"`
	Reference    string            `json:"reference"`
	Status       string            `json:"status"`
	TemplateName string            `json:"template_name"`
	CSVName      string            `json:"csv_name"`
	TotalRows    int               `json:"total_rows"`
	SuccessCount int               `json:"success_count"`
	FailCount    int               `json:"fail_count"`
	Errors       []common.RowError `json:"errors,omitempty"`
	CreatedAt    string            `json:"created_at"`
	CompletedAt  *string           `json:"completed_at,omitempty"`
}

// RegisterRoutes wires the job history endpoints into the given group.
func RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", ListJobs)
	rg.GET("/:job_id", GetJob)
}

// ListJobs returns the most recent generation runs, newest first.
func ListJobs(c *gin.Context) {
	var records []common.GenerationJob
	if err := common.GetDB().Order("created_at DESC").Limit(listLimit).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}

	responses := make([]JobResponse, 0, len(records))
	for _, job := range records {
		responses = append(responses, toResponse(job))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": responses})
}

// GetJob returns one generation run with its per-row errors.
func GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	var job common.GenerationJob
	if err := common.GetDB().Where("id = ?", jobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, toResponse(job))
}

func toResponse(job common.GenerationJob) JobResponse {
	response := JobResponse{
		JobID:        job.ID,
		Reference:    job.Reference,
		Status:       job.Status,
		TemplateName: job.TemplateName,
		CSVName:      job.CSVName,
		TotalRows:    job.TotalRows,
		SuccessCount: job.SuccessCount,
		FailCount:    job.FailCount,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339),
	}

	if job.CompletedAt != nil {
		completed := job.CompletedAt.Format(time.RFC3339)
		response.CompletedAt = &completed
	}

	if job.Errors != "" {
		var rowErrors []common.RowError
		if err := json.Unmarshal([]byte(job.Errors), &rowErrors); err == nil {
			response.Errors = rowErrors
		}
	}

	return response
}
