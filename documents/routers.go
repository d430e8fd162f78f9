// Package documents exposes the mail merge HTTP endpoints: template
// preview, CSV preview and document generation.
package documents

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/eersee/mail-generator/common"
	"github.com/eersee/mail-generator/generator"
	"github.com/eersee/mail-generator/parsers"
	"github.com/eersee/mail-generator/templates"
)

// Multipart field names the client uploads under.
const (
	templateField = "template"
	csvField      = "csv"
)

// previewRows is how many rows the CSV preview returns.
const previewRows = 3

// RegisterRoutes wires the merge endpoints into the given group.
func RegisterRoutes(rg *gin.RouterGroup, cfg *common.Config) {
	rg.POST("/preview-template", PreviewTemplate(cfg))
	rg.POST("/preview-csv", PreviewCSV(cfg))
	rg.POST("/generate", Generate(cfg))
}

// PreviewTemplate returns the placeholder names a DOCX template references.
func PreviewTemplate(cfg *common.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, ok := requireUpload(c, templateField, cfg)
		if !ok {
			return
		}

		wa, err := common.NewWorkArea(cfg.ScratchDir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to allocate scratch space"})
			return
		}
		defer wa.Cleanup()

		path, err := saveUpload(c, header, wa)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save upload"})
			return
		}

		tpl, err := templates.Open(path)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to read template: %v", err)})
			return
		}
		defer tpl.Close()

		variables := tpl.Placeholders()
		if variables == nil {
			variables = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "variables": variables})
	}
}

// PreviewCSV returns the column list, the first few rows and the total row
// count of an uploaded CSV.
func PreviewCSV(cfg *common.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, ok := requireUpload(c, csvField, cfg)
		if !ok {
			return
		}

		wa, err := common.NewWorkArea(cfg.ScratchDir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to allocate scratch space"})
			return
		}
		defer wa.Cleanup()

		path, err := saveUpload(c, header, wa)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save upload"})
			return
		}

		ds, err := parsers.LoadCSV(path)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to read CSV: %v", err)})
			return
		}

		preview, rowCount := ds.Preview(previewRows)
		c.Set("rows_processed", rowCount)
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"columns":  ds.Columns,
			"preview":  preview,
			"rowCount": rowCount,
		})
	}
}

// Generate renders one document per CSV row and streams back a ZIP archive
// of everything produced.
func Generate(cfg *common.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tplHeader, ok := requireUpload(c, templateField, cfg)
		if !ok {
			return
		}
		csvHeader, ok := requireUpload(c, csvField, cfg)
		if !ok {
			return
		}

		mapping := parseMapping(c.PostForm("mapping"))

		wa, err := common.NewWorkArea(cfg.ScratchDir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to allocate scratch space"})
			return
		}
		defer wa.Cleanup()

		tplPath, err := saveUpload(c, tplHeader, wa)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save upload"})
			return
		}
		csvPath, err := saveUpload(c, csvHeader, wa)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save upload"})
			return
		}

		job := startJob(tplHeader.Filename, csvHeader.Filename)

		ds, err := parsers.LoadCSV(csvPath)
		if err != nil {
			finishJob(job, nil, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to read CSV: %v", err)})
			return
		}
		job.TotalRows = len(ds.Records)

		conv := generator.NewLibreOffice(cfg.SofficePath, cfg.SofficeTimeout)
		result, err := generator.Generate(c.Request.Context(), tplPath, ds, mapping, wa, conv)
		if err != nil {
			finishJob(job, result, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		archive, err := generator.BuildArchive(wa.OutputDir)
		if err != nil {
			finishJob(job, result, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build archive"})
			return
		}

		finishJob(job, result, nil)
		c.Set("rows_processed", result.SuccessCount)

		filename := fmt.Sprintf("documents_%s.zip", time.Now().Format("20060102_150405"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Data(http.StatusOK, "application/zip", archive.Bytes())
	}
}

// requireUpload validates one multipart file slot before anything touches
// the filesystem: the field must be present, carry a non-empty filename and
// an accepted extension.
func requireUpload(c *gin.Context, field string, cfg *common.Config) (*multipart.FileHeader, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		// Clients that omit or understate Content-Length only trip the
		// size cap here, while the form is being read.
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("request body exceeds the %d MB limit", cfg.MaxUploadBytes>>20),
			})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s file is required", field)})
		return nil, false
	}
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s filename is empty", field)})
		return nil, false
	}
	if !common.AllowedFile(header.Filename, cfg.AllowedExts) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s has an unsupported file type", field)})
		return nil, false
	}
	return header, true
}

// saveUpload persists an upload into the work area under a sanitized name.
func saveUpload(c *gin.Context, header *multipart.FileHeader, wa *common.WorkArea) (string, error) {
	name := common.SanitizeFilename(filepath.Base(header.Filename))
	path := filepath.Join(wa.Root, name)
	if err := c.SaveUploadedFile(header, path); err != nil {
		return "", err
	}
	return path, nil
}

// parseMapping decodes the optional placeholder-to-column mapping. A
// missing or malformed value falls back to an empty mapping rather than
// failing the request.
func parseMapping(raw string) map[string]string {
	mapping := map[string]string{}
	if raw == "" {
		return mapping
	}
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return map[string]string{}
	}
	return mapping
}

// startJob records a new generation run in the job history.
func startJob(templateName, csvName string) *common.GenerationJob {
	job := &common.GenerationJob{
		ID:           uuid.New().String(),
		Reference:    slug.Make(strings.TrimSuffix(templateName, filepath.Ext(templateName))),
		Status:       common.JobStatusProcessing,
		TemplateName: templateName,
		CSVName:      csvName,
		CreatedAt:    time.Now(),
	}
	if db := common.GetDB(); db != nil {
		db.Create(job)
	}
	return job
}

// finishJob closes out a generation run with its final counts and errors.
func finishJob(job *common.GenerationJob, result *generator.Result, runErr error) {
	now := time.Now()
	job.CompletedAt = &now

	if result != nil {
		job.SuccessCount = result.SuccessCount
		job.FailCount = len(result.Errors)
		if len(result.Errors) > 0 {
			data, _ := json.Marshal(result.Errors)
			job.Errors = string(data)
		}
	}

	if runErr != nil {
		job.Status = common.JobStatusFailed
		if job.Errors == "" {
			job.Errors = fmt.Sprintf(`[{"row":0,"message":%q}]`, runErr.Error())
		}
	} else {
		job.Status = common.JobStatusCompleted
	}

	if db := common.GetDB(); db != nil {
		db.Save(job)
	}
}
