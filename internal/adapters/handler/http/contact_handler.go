package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ostryk/contactio/internal/core/domain"
	"github.com/ostryk/contactio/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100

	defaultBirthdayDays = 7
	maxBirthdayDays     = 364
)

type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

type contactRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Birthday  string `json:"birthday"` // YYYY-MM-DD, optional
}

func (req *contactRequest) toInput() (ports.ContactInput, error) {
	input := ports.ContactInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if req.Birthday != "" {
		birthday, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			return input, err
		}
		input.Birthday = &birthday
	}
	return input, nil
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "birthday must be formatted as YYYY-MM-DD")
		return
	}

	contact, err := h.service.Create(r.Context(), input, user)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := contactID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	contact, err := h.service.Get(r.Context(), id, user)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := contactID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "birthday must be formatted as YYYY-MM-DD")
		return
	}

	contact, err := h.service.Update(r.Context(), id, input, user)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := contactID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	contact, err := h.service.Remove(r.Context(), id, user)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	skip, limit, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contacts, err := h.service.List(r.Context(), skip, limit, user)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeContacts(w, contacts)
}

func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	skip, limit, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := ports.SearchFilter{
		FirstName: r.URL.Query().Get("first_name"),
		LastName:  r.URL.Query().Get("last_name"),
		Email:     r.URL.Query().Get("email"),
	}

	contacts, err := h.service.Search(r.Context(), filter, skip, limit, user)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeContacts(w, contacts)
}

func (h *ContactHandler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	skip, limit, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	days, err := queryInt(r, "days", defaultBirthdayDays)
	if err != nil || days < 1 || days > maxBirthdayDays {
		writeError(w, http.StatusBadRequest, "days must be between 1 and 364")
		return
	}

	contacts, err := h.service.UpcomingBirthdays(r.Context(), days, skip, limit, user)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeContacts(w, contacts)
}

func contactID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// pagination reads and bounds the skip/limit query parameters: skip >= 0,
// limit within 1-100.
func pagination(r *http.Request) (skip, limit int, err error) {
	skip, err = queryInt(r, "skip", 0)
	if err != nil || skip < 0 {
		return 0, 0, errInvalidSkip
	}
	limit, err = queryInt(r, "limit", defaultPageLimit)
	if err != nil || limit < 1 || limit > maxPageLimit {
		return 0, 0, errInvalidLimit
	}
	return skip, limit, nil
}

var (
	errInvalidSkip  = errors.New("skip must be >= 0")
	errInvalidLimit = errors.New("limit must be between 1 and 100")
)

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// writeContacts always emits a JSON array, never null.
func writeContacts(w http.ResponseWriter, contacts []*domain.Contact) {
	if contacts == nil {
		contacts = []*domain.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}
