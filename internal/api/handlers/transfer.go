package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/bengeek06/pm-users-api/internal/api/dto"
	"github.com/bengeek06/pm-users-api/internal/auth"
	"github.com/bengeek06/pm-users-api/internal/database/models"
	"github.com/bengeek06/pm-users-api/internal/metrics"
	"github.com/bengeek06/pm-users-api/internal/users"
)

// csvColumns is the fixed column order of the CSV export. Imports accept
// the same columns plus an optional "password" column for new records.
var csvColumns = []string{
	"id", "email", "firstname", "lastname", "phone_number", "avatar_url",
	"is_active", "is_verified", "language", "company_id", "role_id",
}

// TransferHandler implements bulk import and export of user records.
type TransferHandler struct {
	store     *users.Store
	validator *users.Validator
	collector *metrics.Collector
	logger    *slog.Logger
}

func NewTransferHandler(store *users.Store, validator *users.Validator, collector *metrics.Collector, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{store: store, validator: validator, collector: collector, logger: logger}
}

// ExportCSV handles GET /export/csv
func (h *TransferHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.GetAll(r.Context())
	if err != nil {
		h.logger.Error("failed to export users", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to export users"})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=export.csv")

	cw := csv.NewWriter(w)
	_ = cw.Write(csvColumns)
	for _, u := range all {
		_ = cw.Write([]string{
			u.ID,
			u.Email,
			u.Firstname,
			u.Lastname,
			u.PhoneNumber,
			u.AvatarURL,
			strconv.FormatBool(u.IsActive),
			strconv.FormatBool(u.IsVerified),
			u.Language,
			u.CompanyID,
			strconv.Itoa(u.RoleID),
		})
	}
	cw.Flush()
}

// ImportJSON handles POST /import/json. The uploaded file must contain
// a JSON array of user objects.
func (h *TransferHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	file, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	var records []users.Input
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		h.logger.Error("JSON parsing error", "error", err)
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid JSON file: " + err.Error()})
		return
	}

	h.importRecords(r.Context(), w, records)
}

// ImportCSV handles POST /import/csv. The uploaded file must carry a
// header row naming the export columns.
func (h *TransferHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	file, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		h.logger.Error("CSV parsing error", "error", err)
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid CSV file: " + err.Error()})
		return
	}

	h.importRecords(r.Context(), w, records)
}

func (h *TransferHandler) openUpload(w http.ResponseWriter, r *http.Request) (io.ReadCloser, bool) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "No file part in the request"})
		return nil, false
	}
	return file, true
}

// importRecords processes records strictly in order. A failing record
// is reported by index and never aborts the rest of the batch; there is
// no all-or-nothing guarantee across the batch.
func (h *TransferHandler) importRecords(ctx context.Context, w http.ResponseWriter, records []users.Input) {
	imported := 0
	var importErrs []dto.ImportError

	for idx, in := range records {
		normalizeInput(&in)
		if err := h.importOne(ctx, in); err != nil {
			importErrs = append(importErrs, dto.ImportError{Index: idx, Error: err.Error()})
			continue
		}
		imported++
	}

	if h.collector != nil {
		h.collector.RecordImported(imported)
	}

	result := dto.ImportResult{
		Message:  fmt.Sprintf("%d records imported successfully", imported),
		Imported: imported,
		Errors:   importErrs,
	}

	switch {
	case len(importErrs) == 0:
		writeJSON(w, http.StatusOK, result)
	case imported == 0:
		result.Message = fmt.Sprintf("%d records imported, %d errors", imported, len(importErrs))
		writeJSON(w, http.StatusBadRequest, result)
	default:
		result.Message = fmt.Sprintf("%d records imported, %d errors", imported, len(importErrs))
		writeJSON(w, http.StatusMultiStatus, result)
	}
}

// importOne matches an existing user by id then by email, updates it if
// found, and creates it otherwise.
func (h *TransferHandler) importOne(ctx context.Context, in users.Input) error {
	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		in.HashedPassword = hash
	}

	existing := h.matchExisting(ctx, in)
	if existing != nil {
		fieldErrs, err := h.validator.Validate(ctx, in, existing.ID, users.ModePartial)
		if err != nil {
			return err
		}
		if len(fieldErrs) > 0 {
			return errors.New(flattenFieldErrors(fieldErrs))
		}
		return h.store.Update(ctx, existing, in)
	}

	fieldErrs, err := h.validator.Validate(ctx, in, "", users.ModeCreate)
	if err != nil {
		return err
	}
	if len(fieldErrs) > 0 {
		return errors.New(flattenFieldErrors(fieldErrs))
	}
	_, err = h.store.Create(ctx, in)
	return err
}

func (h *TransferHandler) matchExisting(ctx context.Context, in users.Input) *models.User {
	if in.ID != nil {
		if user, err := h.store.GetByID(ctx, *in.ID); err == nil {
			return user
		}
	}
	if in.Email != nil {
		if user, err := h.store.GetByEmail(ctx, *in.Email); err == nil {
			return user
		}
	}
	return nil
}

// normalizeInput drops empty-string fields so they read as absent, the
// same way a null does in JSON.
func normalizeInput(in *users.Input) {
	clear := func(p **string) {
		if *p != nil && **p == "" {
			*p = nil
		}
	}
	clear(&in.ID)
	clear(&in.Email)
	clear(&in.Password)
	clear(&in.Firstname)
	clear(&in.Lastname)
	clear(&in.PhoneNumber)
	clear(&in.AvatarURL)
	clear(&in.Language)
	clear(&in.CompanyID)
	clear(&in.LastLoginAt)
}

func flattenFieldErrors(fieldErrs map[string]string) string {
	fields := make([]string, 0, len(fieldErrs))
	for f := range fieldErrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + fieldErrs[f]
	}
	return strings.Join(parts, "; ")
}

func parseCSV(r io.Reader) ([]users.Input, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []users.Input
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		in, err := rowToInput(header, row)
		if err != nil {
			return nil, err
		}
		records = append(records, in)
	}
	return records, nil
}

func rowToInput(header, row []string) (users.Input, error) {
	var in users.Input
	for i, col := range header {
		if i >= len(row) {
			break
		}
		value := strings.TrimSpace(row[i])
		if value == "" {
			continue
		}
		v := value

		switch col {
		case "id":
			in.ID = &v
		case "email":
			in.Email = &v
		case "password":
			in.Password = &v
		case "firstname":
			in.Firstname = &v
		case "lastname":
			in.Lastname = &v
		case "phone_number":
			in.PhoneNumber = &v
		case "avatar_url":
			in.AvatarURL = &v
		case "language":
			in.Language = &v
		case "company_id":
			in.CompanyID = &v
		case "last_login_at":
			in.LastLoginAt = &v
		case "is_active":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return in, fmt.Errorf("invalid is_active value %q", value)
			}
			in.IsActive = &b
		case "is_verified":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return in, fmt.Errorf("invalid is_verified value %q", value)
			}
			in.IsVerified = &b
		case "role_id":
			n, err := strconv.Atoi(value)
			if err != nil {
				return in, fmt.Errorf("invalid role_id value %q", value)
			}
			in.RoleID = &n
		}
	}
	return in, nil
}
