package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mihir-gonsalves/CashCanvas/internal/analytics"
	"github.com/mihir-gonsalves/CashCanvas/internal/filter"
	"github.com/mihir-gonsalves/CashCanvas/internal/importer"
	"github.com/mihir-gonsalves/CashCanvas/internal/loader"
	"github.com/mihir-gonsalves/CashCanvas/internal/model"
	"github.com/mihir-gonsalves/CashCanvas/internal/normalize"
	"github.com/mihir-gonsalves/CashCanvas/internal/store"
)

const (
	maxDescriptionLen = 200
	maxNotesLen       = 200
	maxAccountLen     = 50
	maxNameLen        = 50
)

type createRequest struct {
	Date               string   `json:"date" binding:"required"`
	Description        string   `json:"description" binding:"required"`
	Amount             float64  `json:"amount"`
	Account            string   `json:"account" binding:"required"`
	CostCenterName     string   `json:"cost_center_name"`
	SpendCategoryNames []string `json:"spend_category_names"`
	Notes              string   `json:"notes"`
}

type updateRequest struct {
	Date               *string   `json:"date"`
	Description        *string   `json:"description"`
	Amount             *float64  `json:"amount"`
	Account            *string   `json:"account"`
	CostCenterName     *string   `json:"cost_center_name"`
	SpendCategoryNames *[]string `json:"spend_category_names"`
	Notes              *string   `json:"notes"`
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid date %q", req.Date)})
		return
	}

	cand := model.Candidate{
		Date:            date.UTC(),
		Description:     strings.TrimSpace(req.Description),
		Amount:          decimal.NewFromFloat(req.Amount),
		Account:         strings.TrimSpace(req.Account),
		CostCenter:      strings.TrimSpace(req.CostCenterName),
		SpendCategories: req.SpendCategoryNames,
		Notes:           strings.TrimSpace(req.Notes),
	}
	if msg := validateCandidate(cand); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	txn, err := s.store.Create(cand)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.persist()

	c.JSON(http.StatusOK, toCompact(txn))
}

func (s *Server) handleList(c *gin.Context) {
	txns := s.store.Transactions()
	out := make([]compactTxn, 0, len(txns))
	for _, t := range txns {
		out = append(out, toCompact(t))
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out, "count": len(out)})
}

func (s *Server) handleUpdate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params, msg := updateParams(req)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	txn, affected, ok, err := s.store.Update(id, params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	// Orphan sweep runs after the mutation commits and never rolls it back.
	if removed := s.store.CleanupOrphans(affected); removed > 0 {
		s.logger.Info("cleaned up orphaned metadata", "removed", removed)
	}
	s.persist()

	c.JSON(http.StatusOK, toCompact(txn))
}

func (s *Server) handleDelete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	affected, ok, err := s.store.Delete(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	if removed := s.store.CleanupOrphans(affected); removed > 0 {
		s.logger.Info("cleaned up orphaned metadata", "removed", removed)
	}
	s.persist()

	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted", "id": id})
}

func (s *Server) handleFilter(c *gin.Context) {
	spec, err := specFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, pageSize, err := s.pagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matched := filter.Apply(s.store.Transactions(), spec)
	result, err := filter.Paginate(matched, page, pageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := make([]compactTxn, 0, len(result.Transactions))
	for _, t := range result.Transactions {
		out = append(out, toCompact(t))
	}
	c.JSON(http.StatusOK, paginatedResponse{
		Transactions:    out,
		CostCenters:     s.costCenterDTOs(),
		SpendCategories: s.spendCategoryDTOs(),
		Page:            result.Page,
		PageSize:        result.PageSize,
		Total:           result.Total,
		TotalPages:      result.TotalPages,
	})
}

func (s *Server) handleAnalytics(c *gin.Context) {
	spec, err := specFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matched := filter.Apply(s.store.Transactions(), spec)
	report := analytics.Compute(matched, s.store.CostCenterNames(), s.store.SpendCategoryNames())
	c.JSON(http.StatusOK, toAnalyticsResponse(report))
}

func (s *Server) handleCostCenters(c *gin.Context) {
	ccs := s.costCenterDTOs()
	c.JSON(http.StatusOK, gin.H{"cost_centers": ccs, "count": len(ccs)})
}

func (s *Server) handleSpendCategories(c *gin.Context) {
	cats := s.spendCategoryDTOs()
	c.JSON(http.StatusOK, gin.H{"spend_categories": cats, "count": len(cats)})
}

func (s *Server) handleAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Accounts())
}

func (s *Server) handleUpload(c *gin.Context) {
	institution := c.PostForm("institution")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be a CSV"})
		return
	}
	if fileHeader.Size > s.cfg.Limits.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file too large, maximum size is %dMB", s.cfg.Limits.MaxUploadBytes/(1024*1024)),
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}

	count, err := s.importCSV(institution, data)
	if err != nil {
		status := http.StatusBadRequest
		var storageErr *store.StorageError
		if errors.As(err, &storageErr) {
			status = http.StatusInternalServerError
		}
		s.logger.Warn("csv import rejected", "institution", institution, "err", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	s.logger.Info("csv imported", "institution", institution, "count", count)
	s.persist()

	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("successfully loaded %d transactions", count),
		"count":       count,
		"institution": institution,
	})
}

// importCSV runs the parse → normalize → load pipeline. Validation failures
// surface verbatim; nothing commits unless every row is valid.
func (s *Server) importCSV(institution string, data []byte) (int, error) {
	batch, err := importer.Parse(institution, data)
	if err != nil {
		return 0, err
	}
	candidates, err := normalize.Normalize(batch)
	if err != nil {
		return 0, err
	}
	return loader.Load(s.store.Begin(), candidates, batch.Institution.ReplacesStore)
}

func (s *Server) handleExport(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="cashcanvas-export.csv"`)
	if err := exportStore(c.Writer, s.store); err != nil {
		s.logger.Error("writing export", "err", err)
	}
}

func exportStore(w io.Writer, st *store.Store) error {
	return importer.WriteCashCanvas(w, st.Transactions(), st.CostCenterNames(), st.SpendCategoryNames())
}

// pagination reads page/page_size, applying the configured default and cap.
// filter.Paginate still enforces its own hard bounds afterwards.
func (s *Server) pagination(c *gin.Context) (page, pageSize int, err error) {
	page = 1
	if v := c.Query("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid page %q", v)
		}
	}
	pageSize = s.cfg.Limits.DefaultPageSize
	if v := c.Query("page_size"); v != "" {
		pageSize, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid page_size %q", v)
		}
	}
	if max := s.cfg.Limits.MaxPageSize; max > 0 && pageSize > max {
		return 0, 0, &filter.PaginationError{
			Reason: fmt.Sprintf("page_size must be between 1 and %d, got %d", max, pageSize),
		}
	}
	return page, pageSize, nil
}

// validateCandidate enforces the manual-entry field constraints, mirroring
// the import-side validation. Limits count characters, not bytes.
func validateCandidate(cand model.Candidate) string {
	switch {
	case cand.Description == "":
		return "description cannot be empty"
	case utf8.RuneCountInString(cand.Description) > maxDescriptionLen:
		return fmt.Sprintf("description exceeds %d characters", maxDescriptionLen)
	case cand.Account == "":
		return "account cannot be empty"
	case utf8.RuneCountInString(cand.Account) > maxAccountLen:
		return fmt.Sprintf("account exceeds %d characters", maxAccountLen)
	case utf8.RuneCountInString(cand.Notes) > maxNotesLen:
		return fmt.Sprintf("notes exceed %d characters", maxNotesLen)
	case utf8.RuneCountInString(cand.CostCenter) > maxNameLen:
		return fmt.Sprintf("cost center name exceeds %d characters", maxNameLen)
	}
	for _, name := range cand.SpendCategories {
		if utf8.RuneCountInString(strings.TrimSpace(name)) > maxNameLen {
			return fmt.Sprintf("spend category name %q exceeds %d characters", name, maxNameLen)
		}
	}
	return ""
}

func updateParams(req updateRequest) (store.UpdateParams, string) {
	var params store.UpdateParams

	if req.Date != nil {
		d, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return params, fmt.Sprintf("invalid date %q", *req.Date)
		}
		d = d.UTC()
		params.Date = &d
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc == "" {
			return params, "description cannot be empty"
		}
		if utf8.RuneCountInString(desc) > maxDescriptionLen {
			return params, fmt.Sprintf("description exceeds %d characters", maxDescriptionLen)
		}
		params.Description = &desc
	}
	if req.Amount != nil {
		amount := decimal.NewFromFloat(*req.Amount)
		params.Amount = &amount
	}
	if req.Account != nil {
		acct := strings.TrimSpace(*req.Account)
		if acct == "" {
			return params, "account cannot be empty"
		}
		if utf8.RuneCountInString(acct) > maxAccountLen {
			return params, fmt.Sprintf("account exceeds %d characters", maxAccountLen)
		}
		params.Account = &acct
	}
	if req.CostCenterName != nil {
		name := strings.TrimSpace(*req.CostCenterName)
		if name == "" {
			name = model.UncategorizedName
		}
		if utf8.RuneCountInString(name) > maxNameLen {
			return params, fmt.Sprintf("cost center name exceeds %d characters", maxNameLen)
		}
		params.CostCenter = &name
	}
	if req.SpendCategoryNames != nil {
		names := make([]string, 0, len(*req.SpendCategoryNames))
		for _, n := range *req.SpendCategoryNames {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			if utf8.RuneCountInString(n) > maxNameLen {
				return params, fmt.Sprintf("spend category name %q exceeds %d characters", n, maxNameLen)
			}
			names = append(names, n)
		}
		params.SpendCategories = &names
	}
	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		if utf8.RuneCountInString(notes) > maxNotesLen {
			return params, fmt.Sprintf("notes exceed %d characters", maxNotesLen)
		}
		params.Notes = &notes
	}

	return params, ""
}
