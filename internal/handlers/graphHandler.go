package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/TraceGraph/internal/api"
	"github.com/akolanti/TraceGraph/internal/config"
	"github.com/akolanti/TraceGraph/internal/domain/docModel"
	"github.com/akolanti/TraceGraph/internal/domain/graphModel"
	"github.com/akolanti/TraceGraph/internal/graph"
	"github.com/akolanti/TraceGraph/internal/graph/trace"
	"github.com/akolanti/TraceGraph/internal/metrics"
)

// BuildGraphHandler godoc
// @Summary      Build a knowledge graph synchronously
// @Description  Takes annotated chunks and test cases and returns the built traceability graph with metadata. No job is queued.
// @Tags         Graph
// @Accept       json
// @Produce      json
// @Param        request  body      api.GraphRequest   true  "Annotated chunks and generated test cases"
// @Success      200      {object}  api.GraphResponse  "The built graph"
// @Failure      400      {object}  api.JobResponse    "Invalid request data"
// @Router       /graph [post]
func BuildGraphHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		var requestData api.GraphRequest
		if !decodeJsonBody(w, r, &requestData) {
			return
		}
		if len(requestData.Chunks) == 0 {
			WriteErrorResponse(w, http.StatusBadRequest, "", "chunks are required")
			return
		}

		start := time.Now()
		builtGraph := graph.Build(requestData.Chunks, requestData.TestCases)
		metrics.CaptureExecutionMetrics("graph_build", time.Since(start))
		metrics.RecordGraphSize(builtGraph.Metadata.TotalNodes, builtGraph.Metadata.TotalEdges)

		writeJsonResponse(w, http.StatusOK, api.GraphResponse{
			Status: "success",
			Graph:  builtGraph,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// TraceHandler godoc
// @Summary      Resolve a traceability chain
// @Description  Resolves the chain requirement, test cases and compliance standards for exactly one of requirement_id or test_case_id. The graph is taken inline from the request or loaded from a stored pipeline run by job_id.
// @Tags         Graph
// @Accept       json
// @Produce      json
// @Param        request  body      api.TraceRequest   true  "Trace query plus an inline graph or a job_id"
// @Success      200      {object}  api.TraceResponse  "The resolved trace"
// @Failure      400      {object}  api.JobResponse    "Exactly one of requirement_id or test_case_id must be set"
// @Failure      404      {object}  api.JobResponse    "Anchor not found in the graph"
// @Router       /trace [post]
func TraceHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		var requestData api.TraceRequest
		if !decodeJsonBody(w, r, &requestData) {
			return
		}

		traceId := r.Context().Value(config.TRACE_ID_KEY).(string)
		targetGraph, testCases, ok := resolveGraphSource(w, requestData, traceId)
		if !ok {
			return
		}

		query := graphModel.TraceQuery{
			RequirementId: requestData.RequirementId,
			TestCaseId:    requestData.TestCaseId,
		}

		start := time.Now()
		result, err := trace.Resolve(query, targetGraph, testCases)
		metrics.CaptureExecutionMetrics("trace_resolution", time.Since(start))

		if err != nil {
			writeTraceError(w, err)
			return
		}

		writeJsonResponse(w, http.StatusOK, api.TraceResponse{
			Status: "success",
			Trace:  result,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

func resolveGraphSource(w http.ResponseWriter, requestData api.TraceRequest, traceId string) (*graphModel.Graph, []docModel.TestCase, bool) {
	if requestData.Graph != nil {
		return requestData.Graph, requestData.TestCases, true
	}
	if requestData.JobId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "either graph or job_id is required")
		return nil, nil, false
	}

	stored, found := GetJobResult(requestData.JobId, traceId)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, requestData.JobId, "No stored result for job")
		return nil, nil, false
	}
	return &stored.Graph, stored.TestCases, true
}

func writeTraceError(w http.ResponseWriter, err error) {
	var notFound *trace.NotFoundError
	switch {
	case errors.Is(err, trace.ErrBadQuery):
		WriteErrorResponse(w, http.StatusBadRequest, "", err.Error())
	case errors.As(err, &notFound):
		WriteErrorResponse(w, http.StatusNotFound, notFound.Id, err.Error())
	default:
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Internal Server Error")
	}
}
