package handlers

import (
	"net/http"

	"github.com/akolanti/TraceGraph/internal/adapter"
	"github.com/akolanti/TraceGraph/internal/adapter/utils"
	"github.com/akolanti/TraceGraph/internal/api"
	"github.com/akolanti/TraceGraph/internal/config"
	"github.com/akolanti/TraceGraph/internal/domain/jobModel"
	"github.com/akolanti/TraceGraph/internal/domain/resultModel"
	"github.com/akolanti/TraceGraph/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id             string
	traceId        string
	isPolicyIngest bool
	documentName   string
	documentPath   string
	useMock        bool
	standardRef    string
}

// GetHandler godoc
// @Summary      Health check
// @Description  Reports liveness plus the availability of each optional collaborator. Components are config-derived, so an unset key shows as unconfigured rather than failing the check.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse  "Service is up"
// @Router       /health [get]
func GetHandler(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{
		"extraction": "ready",
		"redaction":  "local",
		"search":     "unconfigured",
		"testgen":    "unconfigured",
	}

	if config.RedactionEndpoint() != "" {
		components["redaction"] = "remote"
	}
	if config.GeminiApiKey() != "" {
		components["search"] = "ready"
	}
	switch config.TestGenProvider() {
	case "openai":
		if config.OpenAIApiKey() != "" {
			components["testgen"] = "ready"
		}
	case "none":
		components["testgen"] = "fallback"
	default:
		if config.GeminiApiKey() != "" {
			components["testgen"] = "ready"
		}
	}

	writeJsonResponse(w, http.StatusOK, api.HealthResponse{
		Status:     "ok",
		Components: components,
	})
}

// PostPipelineHandler handles the uploading of a requirements document.
// @Summary      Upload a requirements document for processing
// @Description  Receives a PDF or DOCX via multipart/form-data, queues the full pipeline (extraction, masking, detection, test generation, graph build) and returns a job ID to poll.
// @Tags         Pipeline
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true   "The display name of the document"
// @Param        document       formData  file    false  "The PDF or DOCX file to upload (optional when use_mock is true)"
// @Param        use_mock       formData  string  false  "Set to true to run against the canned sample document"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id and status URL"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /pipeline [post]
func PostPipelineHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		docName, useMock, ok := parsePipelineForm(w, r)
		if !ok {
			return
		}

		tempFilePath := ""
		if !useMock {
			var saved bool
			tempFilePath, saved = saveUploadedFile(w, r, docName)
			if !saved {
				return
			}
		}

		queueJob(r, w, newJobData{
			id:           utils.GetNewUUID(),
			traceId:      r.Context().Value(config.TRACE_ID_KEY).(string),
			documentName: docName,
			documentPath: tempFilePath,
			useMock:      useMock,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// PostPolicyHandler handles the uploading of policy corpus documents.
// @Summary      Upload a policy document for corpus ingestion
// @Description  Receives a policy file via multipart/form-data and queues an ingestion job that embeds its passages into the vector store.
// @Tags         Policies
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true   "The display name of the policy document"
// @Param        document       formData  file    true   "The policy file to upload"
// @Param        standard_ref   formData  string  false  "Canonical standard id the document belongs to, e.g. GDPR:2016/679"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id and status URL"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /policies [post]
func PostPolicyHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		docName, _, ok := parsePipelineForm(w, r)
		if !ok {
			return
		}

		tempFilePath, saved := saveUploadedFile(w, r, docName)
		if !saved {
			return
		}

		queueJob(r, w, newJobData{
			id:             utils.GetNewUUID(),
			traceId:        r.Context().Value(config.TRACE_ID_KEY).(string),
			documentName:   docName,
			documentPath:   tempFilePath,
			isPolicyIngest: true,
			standardRef:    r.FormValue("standard_ref"),
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a job. Completed pipeline jobs include the full result: chunks, test cases, graph, coverage and dashboard.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		traceId := r.Context().Value(config.TRACE_ID_KEY).(string)
		result, isFound := validateId(idString, traceId)

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		var pipeline = pipelineResultFor(result, traceId)
		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result, pipeline))
	}
}

// GetRunsHandler godoc
// @Summary      List recent pipeline runs
// @Description  Returns the job ids of recently persisted pipeline results, newest first.
// @Tags         Job Status
// @Produce      json
// @Success      200  {object}  api.RecentRunsResponse "Recent run ids"
// @Router       /runs [get]
func GetRunsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		traceId := r.Context().Value(config.TRACE_ID_KEY).(string)
		runIds, err := GetRecentRunIds(traceId, config.RecentRunsCount)
		if err != nil {
			logRH.Error("Recent runs lookup failed ", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Unable to list recent runs")
			return
		}
		//store keeps them oldest first, callers want the latest on top
		writeJsonResponse(w, http.StatusOK, api.RecentRunsResponse{JobIds: utils.ReverseStringArray(runIds)})
	}
}

func pipelineResultFor(job jobModel.Job, traceId string) *resultModel.PipelineResult {
	if job.Status != jobModel.JobStatusComplete || job.JobType != jobModel.JobTypePipeline {
		return nil
	}
	stored, found := GetJobResult(job.Id, traceId)
	if !found {
		return nil
	}
	return &stored
}
