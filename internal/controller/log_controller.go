package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"splitledger-backend/internal/dto"
	"splitledger-backend/internal/fetcher"
	"splitledger-backend/internal/model"
	"splitledger-backend/internal/parser"
	"splitledger-backend/internal/repository"
	"splitledger-backend/internal/service"
	"splitledger-backend/internal/store"
	"splitledger-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	reasonWorkerCount   = "Parallel Processing Count out of expected bounds"
	reasonNoSources     = "No log files provided in request"
	reasonFetchFailed   = "Failed to fetch log files"
	reasonMalformedLine = "Malformed log line"
	reasonInvalidBody   = "Invalid request body"
	reasonNotFound      = "Not Found"
)

type LogController struct {
	logReportService service.LogReportService
	reports          store.ReportStore
	buckets          repository.BucketSearchRepository
	logger           zerolog.Logger
}

// NewLogController accepts a nil bucket repository; bucket search then
// answers 503.
func NewLogController(
	logReportService service.LogReportService,
	reports store.ReportStore,
	buckets repository.BucketSearchRepository,
	logger zerolog.Logger,
) *LogController {
	return &LogController{
		logReportService: logReportService,
		reports:          reports,
		buckets:          buckets,
		logger:           logger.With().Str("component", "log_controller").Logger(),
	}
}

func RegisterLogRoutes(router *gin.Engine, controller *LogController) {
	v1 := router.Group("/api/v1/logs")
	{
		v1.POST("/process", controller.ProcessLogs)
		v1.GET("/reports", controller.ListReports)
		v1.GET("/reports/:id", controller.GetReport)
		v1.GET("/buckets", controller.SearchBuckets)
	}
}

// ProcessLogs godoc
// @Summary      Aggregate exception counts from log files
// @Description  Fetches every log file with a bounded number of parallel workers, parses each line as "<id> <epochMillis> <exception>" and counts exceptions per UTC quarter-hour bucket.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        request  body      dto.LogProcessRequest   true  "Log files and worker count (1-30)"
// @Success      200      {object}  dto.LogProcessResponse  "Buckets ascending, exceptions ascending within a bucket"
// @Failure      400      {object}  model.Response          "Invalid worker count or no log files"
// @Failure      422      {object}  model.Response          "Malformed log line (fail parse policy only)"
// @Failure      502      {object}  model.Response          "A log file could not be fetched"
// @Failure      500      {object}  model.Response          "Internal server error"
// @Router       /api/v1/logs/process [post]
func (c *LogController) ProcessLogs(ctx *gin.Context) {
	var req dto.LogProcessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(reasonInvalidBody, nil))
		return
	}

	report, err := c.logReportService.ProcessLogs(ctx.Request.Context(), req)
	if err != nil {
		status, reason := c.classifyProcessError(err)
		ctx.JSON(status, model.NewResponse(reason, nil))
		return
	}

	ctx.JSON(http.StatusOK, dto.LogProcessResponse{Response: report.Response})
}

func (c *LogController) classifyProcessError(err error) (int, string) {
	switch {
	case errors.Is(err, fetcher.ErrWorkerCountOutOfBounds):
		return http.StatusBadRequest, reasonWorkerCount
	case errors.Is(err, fetcher.ErrNoSources):
		return http.StatusBadRequest, reasonNoSources
	case errors.Is(err, fetcher.ErrFetch):
		c.logger.Warn().Err(err).Msg("Log fetch failed")
		return http.StatusBadGateway, reasonFetchFailed
	case errors.Is(err, parser.ErrMalformedLine):
		c.logger.Warn().Err(err).Msg("Rejected malformed log line")
		return http.StatusUnprocessableEntity, reasonMalformedLine
	default:
		c.logger.Error().Err(err).Msg("Error processing logs")
		return http.StatusInternalServerError, "Failed to process logs"
	}
}

// ListReports godoc
// @Summary      List stored reports
// @Description  Summaries of the retained reports, newest first.
// @Tags         logs
// @Produce      json
// @Success      200  {object}  dto.ReportListResponse
// @Failure      500  {object}  model.Response  "Internal server error"
// @Router       /api/v1/logs/reports [get]
func (c *LogController) ListReports(ctx *gin.Context) {
	reports, err := c.reports.List(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Error listing reports")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to list reports", nil))
		return
	}

	summaries := make([]dto.ReportSummary, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, dto.ReportSummary{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Sources:   len(r.Sources),
			Buckets:   len(r.Response),
			Events:    r.Response.Total(),
		})
	}
	ctx.JSON(http.StatusOK, dto.ReportListResponse{Reports: summaries})
}

// GetReport godoc
// @Summary      Get a stored report
// @Tags         logs
// @Produce      json
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  dto.StoredReport
// @Failure      404  {object}  model.Response  "Unknown report"
// @Router       /api/v1/logs/reports/{id} [get]
func (c *LogController) GetReport(ctx *gin.Context) {
	report, err := c.reports.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			ctx.JSON(http.StatusNotFound, model.NewResponse(reasonNotFound, nil))
			return
		}
		c.logger.Error().Err(err).Msg("Error loading report")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to load report", nil))
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// SearchBuckets godoc
// @Summary      Search indexed bucket counts
// @Description  Searches the (bucket, exception) documents indexed in Elasticsearch. Supports pagination.
// @Tags         logs
// @Produce      json
// @Param        reportId   query     string  false  "Restrict to one report"
// @Param        exception  query     string  false  "Restrict to one exception key"
// @Param        since      query     string  false  "Only documents indexed at or after this time (ISO 8601 or epoch milliseconds)"
// @Param        page       query     int     false  "Page number (default: 1)" minimum(1)
// @Param        size       query     int     false  "Documents per page (default: 50, max: 1000)" minimum(1) maximum(1000)
// @Success      200        {object}  dto.BucketSearchResponse
// @Failure      400        {object}  model.Response  "Invalid since parameter"
// @Failure      503        {object}  model.Response  "Bucket search is not configured"
// @Failure      500        {object}  model.Response  "Internal server error"
// @Router       /api/v1/logs/buckets [get]
func (c *LogController) SearchBuckets(ctx *gin.Context) {
	if c.buckets == nil {
		ctx.JSON(http.StatusServiceUnavailable, model.NewResponse("Bucket search is not configured", nil))
		return
	}

	var since time.Time
	if sinceStr := ctx.Query("since"); sinceStr != "" {
		t, err := util.ParseTimeFlexible(sinceStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid since format. Use ISO 8601 or epoch milliseconds.", nil))
			return
		}
		since = t
	}

	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(ctx.DefaultQuery("size", "50"))
	if err != nil || size <= 0 || size > 1000 {
		size = 50
	}

	result, err := c.buckets.Search(ctx.Request.Context(), dto.BucketSearchRequest{
		ReportID:  ctx.Query("reportId"),
		Exception: ctx.Query("exception"),
		Since:     since,
		Page:      page,
		Size:      size,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Error searching buckets")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to search buckets", nil))
		return
	}
	ctx.JSON(http.StatusOK, result)
}
