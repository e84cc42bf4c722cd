package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/joinboard/backend/api/transport"
	"github.com/joinboard/backend/domain"
	"github.com/joinboard/backend/pkg/httpcontext"
	"github.com/joinboard/backend/repository"
	taskUC "github.com/joinboard/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.TaskFilter{
		UserID:   userID,
		Category: string(ctx.QueryArgs().Peek("category")),
		Limit:    parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:   parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	resp := make([]transport.TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, transport.NewTaskResponse(&tasks[i]))
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}

// @Summary Get a single task
// @Tags tasks
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, userID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskResponse(task))
}

// @Summary Create one or more tasks
// @Tags tasks
// @Router /api/tasks [post]
func (h *TaskHandler) CreateTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	body := ctx.PostBody()
	var reqs []transport.TaskRequest
	if isListBody(body) {
		if err := json.Unmarshal(body, &reqs); err != nil {
			h.respondInvalidPayload(ctx)
			return
		}
	} else {
		var req transport.TaskRequest
		if err := json.Unmarshal(body, &req); err != nil {
			h.respondInvalidPayload(ctx)
			return
		}
		reqs = append(reqs, req)
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	results := make([]transport.TaskWriteResponse, 0, len(reqs))
	for _, req := range reqs {
		in, ok := h.createInput(ctx, req)
		if !ok {
			return
		}
		result, err := h.uc.CreateTask(stdCtx, userID, in)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		results = append(results, transport.TaskWriteResponse{
			TaskID:          result.Task.ID,
			MissingContacts: result.MissingContacts,
		})
	}

	if !isListBody(body) {
		h.respondSuccess(ctx, http.StatusCreated, results[0])
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, results)
}

// @Summary Update a task
// @Tags tasks
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalidPayload(ctx)
		return
	}

	in := taskUC.UpdateInput{
		Title:           req.Title,
		Description:     req.Description,
		CurrentProgress: req.CurrentProgress,
	}
	if req.DueDate != nil {
		due, err := time.Parse(transport.DateLayout, *req.DueDate)
		if err != nil {
			h.respondError(ctx, domain.NewValidationError(map[string]string{"dueDate": "Invalid date format"}))
			return
		}
		in.DueDate = &due
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		in.Priority = &p
	}
	if req.Category != nil {
		c := domain.Category(*req.Category)
		in.Category = &c
	}
	if req.AssignedTo != nil {
		refs := contactIDs(*req.AssignedTo)
		in.AssignedTo = &refs
	}
	if req.Subtasks != nil {
		specs := subtaskSpecs(*req.Subtasks)
		in.Subtasks = &specs
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.UpdateTask(stdCtx, userID, id, in)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	resp := transport.NewTaskResponse(result.Task)
	if len(result.MissingContacts) > 0 {
		h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(resp, map[string]interface{}{
			"missingContacts": result.MissingContacts,
		}))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}

// @Summary Delete a task
// @Tags tasks
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, userID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *TaskHandler) createInput(ctx *fasthttp.RequestCtx, req transport.TaskRequest) (taskUC.CreateInput, bool) {
	in := taskUC.CreateInput{
		Title:           req.Title,
		Description:     req.Description,
		Priority:        domain.Priority(req.Priority),
		Category:        domain.Category(req.Category),
		CurrentProgress: req.CurrentProgress,
		AssignedTo:      contactIDs(req.AssignedTo),
		Subtasks:        subtaskSpecs(req.Subtasks),
	}
	if req.DueDate != "" {
		due, err := time.Parse(transport.DateLayout, req.DueDate)
		if err != nil {
			h.respondError(ctx, domain.NewValidationError(map[string]string{"dueDate": "Invalid date format"}))
			return in, false
		}
		in.DueDate = due
	}
	return in, true
}

func contactIDs(refs []transport.ContactRef) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ContactID)
	}
	return ids
}

func subtaskSpecs(specs []transport.SubtaskSpec) []taskUC.SubtaskSpec {
	out := make([]taskUC.SubtaskSpec, 0, len(specs))
	for _, spec := range specs {
		out = append(out, taskUC.SubtaskSpec{Name: spec.SubTaskName, Done: spec.Done})
	}
	return out
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
