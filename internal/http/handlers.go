package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type transactionJSON struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Date        int64  `json:"date"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

type addTransactionRequest struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Date        int64  `json:"date"`
}

type summaryJSON struct {
	TotalIncome  string `json:"totalIncome"`
	TotalExpense string `json:"totalExpense"`
	TotalSavings string `json:"totalSavings"`
	Balance      string `json:"balance"`
}

// identify reads the forwarded identity headers and makes sure the user
// row exists. Every ledger endpoint goes through here first.
func (s *Server) identify(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	ident, err := auth.FromRequest(r)
	if err != nil {
		writeError(r, w, err)
		return auth.Identity{}, false
	}
	if err := s.svc.EnsureUser(r.Context(), ident.User()); err != nil {
		writeError(r, w, err)
		return auth.Identity{}, false
	}
	return ident, true
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleAddTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ident, ok := s.identify(w, r)
	if !ok {
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	txs, err := s.svc.List(r.Context(), ident.ID, filter)
	if err != nil {
		writeError(r, w, err)
		return
	}

	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionJSON(t))
	}
	writeSuccess(w, http.StatusOK, out)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	ident, ok := s.identify(w, r)
	if !ok {
		return
	}

	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "malformed request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(r, w, err)
		return
	}

	tx, err := s.svc.Add(r.Context(), ident.ID, core.Transaction{
		Type:        core.TransactionType(req.Type),
		Amount:      core.Money{Cents: cents},
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Date:        req.Date,
	})
	if err != nil {
		writeError(r, w, err)
		return
	}

	s.summaryCache.Delete(ident.ID)
	s.logger.InfoContext(r.Context(), "Transaction recorded",
		applog.FieldUserID, ident.ID,
		applog.FieldTransactionID, tx.ID,
		applog.FieldType, string(tx.Type),
		applog.FieldAmountCents, tx.Amount.Cents)
	writeSuccess(w, http.StatusCreated, map[string]string{"id": tx.ID})
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ident, ok := s.identify(w, r)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(r, w, core.ErrTransactionNotFound)
		return
	}

	if err := s.svc.Delete(r.Context(), ident.ID, id); err != nil {
		writeError(r, w, err)
		return
	}

	s.summaryCache.Delete(ident.ID)
	s.logger.InfoContext(r.Context(), "Transaction deleted",
		applog.FieldUserID, ident.ID,
		applog.FieldTransactionID, id)
	writeSuccess(w, http.StatusOK, nil)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ident, ok := s.identify(w, r)
	if !ok {
		return
	}

	if cached, found := s.summaryCache.Get(ident.ID); found {
		writeSuccess(w, http.StatusOK, toSummaryJSON(cached))
		return
	}

	summary, err := s.svc.MonthlySummary(r.Context(), ident.ID)
	if err != nil {
		writeError(r, w, err)
		return
	}
	s.summaryCache.SetWithTTL(ident.ID, summary, summaryCacheTTL(time.Now(), s.svc.Location()))
	writeSuccess(w, http.StatusOK, toSummaryJSON(summary))
}

// summaryCacheTTL caps the cache lifetime at the end of the current
// calendar month so a cached summary is never served past the rollover.
func summaryCacheTTL(now time.Time, loc *time.Location) time.Duration {
	const base = 5 * time.Minute
	now = now.In(loc)
	monthEnd := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	if until := monthEnd.Sub(now); until < base {
		return until
	}
	return base
}

// parseFilter reads the listing criteria from the query string:
// types and categories repeat, dates are "start-end" epoch-ms pairs.
func parseFilter(r *http.Request) (core.Filter, error) {
	q := r.URL.Query()
	var f core.Filter

	for _, v := range q["types"] {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		f.Types = append(f.Types, core.TransactionType(v))
	}
	for _, v := range q["categories"] {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		f.Categories = append(f.Categories, v)
	}
	for _, v := range q["dates"] {
		rng, err := parseDateRange(v)
		if err != nil {
			return core.Filter{}, err
		}
		f.Dates = append(f.Dates, rng)
	}
	return f, nil
}

func parseDateRange(v string) (core.DateRange, error) {
	startStr, endStr, ok := strings.Cut(strings.TrimSpace(v), "-")
	if !ok {
		return core.DateRange{}, errInvalidDateRange(v)
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return core.DateRange{}, errInvalidDateRange(v)
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return core.DateRange{}, errInvalidDateRange(v)
	}
	return core.DateRange{Start: start, End: end}, nil
}

type invalidDateRangeError string

func errInvalidDateRange(v string) error { return invalidDateRangeError(v) }

func (e invalidDateRangeError) Error() string {
	return "invalid date range " + strconv.Quote(string(e)) + ": want \"start-end\" epoch milliseconds"
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	out := transactionJSON{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount.Decimal(),
		Category:    t.Category,
		Description: t.Description,
		Location:    t.Location,
		Date:        t.Date,
	}
	if !t.CreatedAt.IsZero() {
		out.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func toSummaryJSON(s core.MonthlySummary) summaryJSON {
	return summaryJSON{
		TotalIncome:  s.TotalIncome.Decimal(),
		TotalExpense: s.TotalExpense.Decimal(),
		TotalSavings: s.TotalSavings.Decimal(),
		Balance:      s.Balance.Decimal(),
	}
}
