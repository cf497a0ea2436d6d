package v1

import (
	"net/http"
	"strconv"
	"strings"

	"ats-backend/internal/delivery/http/response"
	"ats-backend/internal/domain"
	"ats-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

// NewCandidateHandler registers candidate routes on r.
func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	candidates := r.Group("/candidates")
	{
		candidates.POST("", handler.CreateCandidate)
		candidates.GET("", handler.GetAllCandidates)
		candidates.GET("/search/skills", handler.SearchBySkills)
		candidates.GET("/search/experience", handler.SearchByExperience)
		candidates.GET("/export", handler.ExportCandidates)
		candidates.GET("/:id", handler.GetCandidateByID)
		candidates.PUT("/:id", handler.UpdateCandidate)
		candidates.DELETE("/:id", handler.DeleteCandidate)
		candidates.PATCH("/:id/activate", handler.ActivateCandidate)
		candidates.PATCH("/:id/deactivate", handler.DeactivateCandidate)
	}
}

// CreateCandidate godoc
// @Summary      Create candidate
// @Description  Registers a new candidate. Email must be unique.
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CreateCandidateRequest  true  "Candidate data"
// @Success      201      {object}  response.Response{data=domain.CandidateResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /candidates [post]
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var req domain.CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	candidate, err := h.candidateUC.CreateCandidate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Candidate created successfully", candidate)
}

// GetAllCandidates godoc
// @Summary      List candidates
// @Description  Returns a page of candidates, newest first, narrowed by the optional filters
// @Tags         candidates
// @Produce      json
// @Param        page           query     int     false  "Page number (default: 1)"
// @Param        limit          query     int     false  "Items per page (default: 10, max: 100)"
// @Param        search         query     string  false  "Substring of first name, last name or email"
// @Param        skills         query     string  false  "Comma-separated skills, any match"
// @Param        minExperience  query     int     false  "Minimum years of experience"
// @Param        maxExperience  query     int     false  "Maximum years of experience"
// @Param        location       query     string  false  "Substring of location"
// @Param        status         query     string  false  "ACTIVE, INACTIVE or BLACKLISTED"
// @Success      200            {object}  response.Response{data=domain.CandidateListResponse}
// @Failure      400            {object}  response.Response
// @Router       /candidates [get]
func (h *CandidateHandler) GetAllCandidates(c *gin.Context) {
	query, err := parseCandidateQuery(c)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.candidateUC.GetAllCandidates(c.Request.Context(), query)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidates retrieved successfully", result)
}

// GetCandidateByID godoc
// @Summary      Get candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.CandidateResponse}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
func (h *CandidateHandler) GetCandidateByID(c *gin.Context) {
	candidate, err := h.candidateUC.GetCandidateByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate retrieved successfully", candidate)
}

// UpdateCandidate godoc
// @Summary      Update candidate
// @Description  Partial update. Absent fields are left untouched; skills, when present, replace the list.
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Candidate ID"
// @Param        request  body      domain.UpdateCandidateRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=domain.CandidateResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /candidates/{id} [put]
func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	var req domain.UpdateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	candidate, err := h.candidateUC.UpdateCandidate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate updated successfully", candidate)
}

// DeleteCandidate godoc
// @Summary      Delete candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [delete]
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	if err := h.candidateUC.DeleteCandidate(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate deleted successfully", nil)
}

// ActivateCandidate godoc
// @Summary      Activate candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.CandidateResponse}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id}/activate [patch]
func (h *CandidateHandler) ActivateCandidate(c *gin.Context) {
	candidate, err := h.candidateUC.ActivateCandidate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate activated successfully", candidate)
}

// DeactivateCandidate godoc
// @Summary      Deactivate candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.CandidateResponse}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id}/deactivate [patch]
func (h *CandidateHandler) DeactivateCandidate(c *gin.Context) {
	candidate, err := h.candidateUC.DeactivateCandidate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate deactivated successfully", candidate)
}

// SearchBySkills godoc
// @Summary      Search candidates by skills
// @Description  Candidates holding at least one of the given skills
// @Tags         candidates
// @Produce      json
// @Param        skills  query     string  true  "Comma-separated skills"
// @Success      200     {object}  response.Response{data=[]domain.CandidateResponse}
// @Failure      400     {object}  response.Response
// @Router       /candidates/search/skills [get]
func (h *CandidateHandler) SearchBySkills(c *gin.Context) {
	skills := splitList(c.QueryArray("skills"))
	if len(skills) == 0 {
		c.Error(apperror.BadRequest("Skills parameter is required"))
		return
	}

	candidates, err := h.candidateUC.SearchCandidatesBySkills(c.Request.Context(), skills)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidates retrieved successfully", candidates)
}

// SearchByExperience godoc
// @Summary      Search candidates by experience
// @Description  Candidates whose years of experience fall in [minYears, maxYears]
// @Tags         candidates
// @Produce      json
// @Param        minYears  query     int  true  "Minimum years"
// @Param        maxYears  query     int  true  "Maximum years"
// @Success      200       {object}  response.Response{data=[]domain.CandidateResponse}
// @Failure      400       {object}  response.Response
// @Router       /candidates/search/experience [get]
func (h *CandidateHandler) SearchByExperience(c *gin.Context) {
	minStr, maxStr := c.Query("minYears"), c.Query("maxYears")
	if minStr == "" || maxStr == "" {
		c.Error(apperror.BadRequest("Both minYears and maxYears parameters are required"))
		return
	}

	minYears, errMin := strconv.Atoi(strings.TrimSpace(minStr))
	maxYears, errMax := strconv.Atoi(strings.TrimSpace(maxStr))
	if errMin != nil || errMax != nil {
		c.Error(apperror.BadRequest("Invalid experience range values"))
		return
	}

	candidates, err := h.candidateUC.SearchCandidatesByExperience(c.Request.Context(), minYears, maxYears)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidates retrieved successfully", candidates)
}

// ExportCandidates godoc
// @Summary      Export candidates
// @Description  Downloads every candidate matching the list filters as xlsx or csv
// @Tags         candidates
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        format  query  string  false  "xlsx (default) or csv"
// @Param        search  query  string  false  "Substring of first name, last name or email"
// @Param        skills  query  string  false  "Comma-separated skills, any match"
// @Param        status  query  string  false  "ACTIVE, INACTIVE or BLACKLISTED"
// @Success      200
// @Failure      400     {object}  response.Response
// @Router       /candidates/export [get]
func (h *CandidateHandler) ExportCandidates(c *gin.Context) {
	query, err := parseCandidateQuery(c)
	if err != nil {
		c.Error(err)
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "xlsx"))
	data, filename, err := h.candidateUC.ExportCandidates(c.Request.Context(), domain.CandidateExportRequest{
		Query:  query,
		Format: format,
	})
	if err != nil {
		c.Error(err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if format == "csv" {
		contentType = "text/csv"
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

// parseCandidateQuery reads the list filters from the query string. Paging
// defaults are left to the use-case.
func parseCandidateQuery(c *gin.Context) (domain.CandidateQuery, error) {
	query := domain.CandidateQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		Skills:   splitList(c.QueryArray("skills")),
		Location: strings.TrimSpace(c.Query("location")),
		Status:   strings.TrimSpace(c.Query("status")),
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{"minExperience", &query.MinExperience},
		{"maxExperience", &query.MaxExperience},
	}
	for _, p := range ints {
		v, err := queryInt(c, p.name)
		if err != nil {
			return query, err
		}
		*p.dst = v
	}

	// Zero means "use the default" downstream, so explicit values below
	// one are rejected here.
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"page", &query.Page},
		{"limit", &query.Limit},
	} {
		v, err := queryInt(c, p.name)
		if err != nil {
			return query, err
		}
		if v == nil {
			continue
		}
		if *v < 1 {
			msg := p.name + " must be at least 1"
			return query, apperror.Validation(msg, map[string]string{p.name: msg}, nil)
		}
		*p.dst = *v
	}

	return query, nil
}

// queryInt returns nil when the parameter is absent and a 400 when it is
// not an integer.
func queryInt(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		msg := name + " must be an integer"
		return nil, apperror.Validation(msg, map[string]string{name: msg}, err)
	}
	return &v, nil
}

// splitList flattens repeated and comma-separated values, dropping blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
