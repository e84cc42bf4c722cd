package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/joinboard/backend/api/transport"
	"github.com/joinboard/backend/pkg/httpcontext"
	contactUC "github.com/joinboard/backend/usecase/contact"
)

type ContactHandler struct {
	baseHandler
	uc *contactUC.UseCase
}

func NewContactHandler(uc *contactUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List contacts
// @Tags contacts
// @Router /api/contacts [get]
func (h *ContactHandler) GetContacts(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	contacts, err := h.uc.ListContacts(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	resp := make([]transport.ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		resp = append(resp, transport.NewContactResponse(contact))
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}

// @Summary Get a single contact
// @Tags contacts
// @Router /api/contacts/{id} [get]
func (h *ContactHandler) GetContact(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	contact, err := h.uc.GetContact(stdCtx, userID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewContactResponse(*contact))
}

// @Summary Create one or more contacts
// @Tags contacts
// @Router /api/contacts [post]
func (h *ContactHandler) CreateContacts(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	body := ctx.PostBody()
	var reqs []transport.ContactRequest
	if isListBody(body) {
		if err := json.Unmarshal(body, &reqs); err != nil {
			h.respondInvalidPayload(ctx)
			return
		}
	} else {
		var req transport.ContactRequest
		if err := json.Unmarshal(body, &req); err != nil {
			h.respondInvalidPayload(ctx)
			return
		}
		reqs = append(reqs, req)
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created := make([]transport.ContactResponse, 0, len(reqs))
	for _, req := range reqs {
		contact, err := h.uc.CreateContact(stdCtx, userID, contactUC.CreateInput{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
			Color: req.Color,
		})
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		created = append(created, transport.NewContactResponse(*contact))
	}

	if !isListBody(body) {
		h.respondSuccess(ctx, http.StatusCreated, created[0])
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update a contact
// @Tags contacts
// @Router /api/contacts/{id} [put]
func (h *ContactHandler) UpdateContact(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.ContactUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalidPayload(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	contact, err := h.uc.UpdateContact(stdCtx, userID, id, contactUC.UpdateInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Color: req.Color,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewContactResponse(*contact))
}

// @Summary Delete a contact
// @Tags contacts
// @Router /api/contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteContact(stdCtx, userID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
