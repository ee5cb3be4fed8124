package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/api/transport"
	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/pkg/httpcontext"
	"github.com/fastygo/tasklist/usecase"
	taskUC "github.com/fastygo/tasklist/usecase/task"
)

// TaskHandler exposes the task store over HTTP. Every store call goes through
// the dispatcher, which serializes access to the store.
type TaskHandler struct {
	baseHandler
	dispatcher *usecase.Dispatcher
}

func NewTaskHandler(dispatcher *usecase.Dispatcher, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		dispatcher:  dispatcher,
	}
}

// GetTasks renders the current view. filter and search query parameters
// narrow this response only; the shared view state changes through PUT /api/v1/view.
// @Summary Current view
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	params := taskUC.ViewCommand{}
	if args.Has("filter") {
		filter, err := domain.ParseFilter(string(args.Peek("filter")))
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		params.Filter = &filter
	}
	if args.Has("search") {
		search := string(args.Peek("search"))
		params.Search = &search
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	out, err := h.dispatcher.ExecuteQuery(stdCtx, taskUC.QueryProject, params)
	if err != nil {
		h.log(stdCtx).Error("task query failed", zap.Error(err))
		h.respondError(ctx, err)
		return
	}
	view, _ := out.(domain.View)
	h.respondSuccess(ctx, http.StatusOK, transport.NewViewResponse(view), nil)
}

// @Summary Set view filter and search
// @Tags view
// @Router /api/v1/view [put]
func (h *TaskHandler) SetView(ctx *fasthttp.RequestCtx) {
	var req transport.ViewRequest
	if !h.decodeBody(ctx, &req) {
		return
	}

	cmd := taskUC.ViewCommand{Search: req.Search}
	if req.Filter != nil {
		filter, err := domain.ParseFilter(*req.Filter)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		cmd.Filter = &filter
	}

	res, ok := h.execute(ctx, taskUC.CommandSetView, cmd)
	if !ok {
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewViewResponse(res.View), nil)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var req transport.TaskRequest
	if !h.decodeBody(ctx, &req) {
		return
	}

	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	due, err := domain.ParseOptionalDate(req.DueDate)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	res, ok := h.execute(ctx, taskUC.CommandAdd, taskUC.Draft{Text: req.Text, Priority: priority, DueDate: due})
	if !ok {
		return
	}
	if !res.Applied {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(
			string(domain.ErrCodeInvalid),
			domain.ErrEmptyText.Error(),
			transport.MutationMeta{Applied: false},
		))
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewViewResponse(res.View), transport.MutationMeta{
		Applied: true,
		TaskID:  res.Task.ID,
	})
}

// @Summary Edit task text and description
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.EditRequest
	if !h.decodeBody(ctx, &req) {
		return
	}

	cmd := taskUC.EditCommand{ID: id, EditRequest: taskUC.EditRequest{Text: req.Text, Description: req.Description}}
	h.mutate(ctx, taskUC.CommandEdit, cmd, id)
}

// @Summary Toggle completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	h.mutate(ctx, taskUC.CommandToggle, taskUC.IDCommand{ID: id}, id)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	h.mutate(ctx, taskUC.CommandDelete, taskUC.IDCommand{ID: id}, id)
}

// @Summary Remove all completed tasks
// @Tags tasks
// @Router /api/v1/clear-completed [post]
func (h *TaskHandler) ClearCompleted(ctx *fasthttp.RequestCtx) {
	res, ok := h.execute(ctx, taskUC.CommandClearCompleted, nil)
	if !ok {
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewViewResponse(res.View), transport.MutationMeta{
		Applied: res.Applied,
		Removed: res.Removed,
	})
}

func (h *TaskHandler) mutate(ctx *fasthttp.RequestCtx, command string, payload any, id int64) {
	res, ok := h.execute(ctx, command, payload)
	if !ok {
		return
	}
	meta := transport.MutationMeta{Applied: res.Applied}
	if res.Applied {
		meta.TaskID = id
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewViewResponse(res.View), meta)
}

func (h *TaskHandler) execute(ctx *fasthttp.RequestCtx, command string, payload any) (taskUC.Result, bool) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	out, err := h.dispatcher.ExecuteCommand(stdCtx, command, payload)
	if err != nil {
		h.log(stdCtx).Error("task command failed", zap.String("command", command), zap.Error(err))
		h.respondError(ctx, err)
		return taskUC.Result{}, false
	}
	res, ok := out.(taskUC.Result)
	if !ok {
		h.respondError(ctx, domain.NewError(domain.ErrCodeInternal, "unexpected command result"))
		return taskUC.Result{}, false
	}
	if !res.Applied {
		h.log(stdCtx).Debug("task command not applied", zap.String("command", command))
	}
	return res, true
}
