package api

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dartpulse/internal/domain/dto"
	"github.com/guttosm/dartpulse/internal/middleware"
	"github.com/guttosm/dartpulse/internal/service"
)

var corpCodePattern = regexp.MustCompile(`^\d{8}$`)

// Handler provides HTTP handlers for the stored DART registry and statements.
//
// Responsibilities:
//   - Validate incoming path and query parameters
//   - Call the lookup service with the request context
//   - Translate service results into response DTOs
//
// Error responses go through middleware.AbortWithError so that store
// failures reach middleware.ErrorHandler's log with the request id.
type Handler struct {
	svc service.LookupService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.LookupService) *Handler {
	return &Handler{svc: svc}
}

// FindCorps handles GET /api/v1/corps requests.
//
// FindCorps godoc
// @Summary      Find companies by exact name
// @Description  Returns every registry entry whose corp_name equals the given name
// @Tags         corps
// @Produce      json
// @Param        name  query     string  true  "Company name" example(삼성전자)
// @Success      200   {object}  dto.CorpListResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse     "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse     "Not Found"
// @Failure      500   {object}  dto.ErrorResponse     "Internal Error"
// @Router       /api/v1/corps [get]
func (h *Handler) FindCorps(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "name is required", nil)
		return
	}

	records, err := h.svc.FindByName(c.Request.Context(), name)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to query registry", err)
		return
	}
	if len(records) == 0 {
		middleware.AbortWithError(c, http.StatusNotFound, "no company found", nil)
		return
	}
	c.JSON(http.StatusOK, dto.NewCorpListResponse(records))
}

// GetCorp handles GET /api/v1/corps/{corp_code} requests.
//
// GetCorp godoc
// @Summary      Get a company by corp code
// @Tags         corps
// @Produce      json
// @Param        corp_code  path      string  true  "8-digit DART corp code" example(00126380)
// @Success      200        {object}  dto.CorpResponse   "Success"
// @Failure      400        {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404        {object}  dto.ErrorResponse  "Not Found"
// @Failure      500        {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/corps/{corp_code} [get]
func (h *Handler) GetCorp(c *gin.Context) {
	code := c.Param("corp_code")
	if !corpCodePattern.MatchString(code) {
		middleware.AbortWithError(c, http.StatusBadRequest, "corp_code must be 8 digits", nil)
		return
	}

	rec, err := h.svc.GetCorp(c.Request.Context(), code)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to query registry", err)
		return
	}
	if rec == nil {
		middleware.AbortWithError(c, http.StatusNotFound, "no company found", nil)
		return
	}
	c.JSON(http.StatusOK, dto.NewCorpResponse(*rec))
}

// GetFinancials handles GET /api/v1/financials/{corp_code} requests.
//
// Query Parameters:
//   - start_year (int, required): first business year.
//   - end_year (int, optional): last business year, defaults to start_year.
//
// Both years must lie in [service.MinYear, next year] with start_year <= end_year.
//
// GetFinancials godoc
// @Summary      Get stored annual statements
// @Description  Returns the stored consolidated line items of a company over an inclusive year range
// @Tags         financials
// @Produce      json
// @Param        corp_code   path      string  true   "8-digit DART corp code" example(00126380)
// @Param        start_year  query     int     true   "First business year" example(2021)
// @Param        end_year    query     int     false  "Last business year" example(2023)
// @Success      200         {object}  dto.FinancialsResponse  "Success"
// @Failure      400         {object}  dto.ErrorResponse       "Bad Request"
// @Failure      500         {object}  dto.ErrorResponse       "Internal Error"
// @Router       /api/v1/financials/{corp_code} [get]
func (h *Handler) GetFinancials(c *gin.Context) {
	code := c.Param("corp_code")
	if !corpCodePattern.MatchString(code) {
		middleware.AbortWithError(c, http.StatusBadRequest, "corp_code must be 8 digits", nil)
		return
	}

	start, err := parseYear(c.Query("start_year"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid start_year, expected YYYY", err)
		return
	}
	end := start
	if s := c.Query("end_year"); s != "" {
		if end, err = parseYear(s); err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid end_year, expected YYYY", err)
			return
		}
	}
	if err := service.ValidateYearRange(start, end, time.Now()); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid year range", err)
		return
	}

	out, err := h.svc.GetFinancials(c.Request.Context(), code, start, end)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to query financials", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewFinancialsResponse(out.CorpCode, out.StartYear, out.EndYear, out.Items, out.MissingYears))
}

func parseYear(s string) (int, error) {
	if len(s) != 4 || strings.Trim(s, "0123456789") != "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s)
}
