package handlers

import (
	"io"
	"net/http"

	dom "Tracker/internal/domain"
	"Tracker/internal/dto"
	"Tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TodoHandler struct {
	svc *service.TodoService
	log logrus.FieldLogger
}

// NewTodoHandler creates a TodoHandler. A nil log discards handler logs.
func NewTodoHandler(svc *service.TodoService, log logrus.FieldLogger) *TodoHandler {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &TodoHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrors(c, http.StatusBadRequest, bindingMessages(err)...)
		return
	}

	t, err := h.svc.Create(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, todoToResponse(t))
}

// List godoc
// @Summary      List and search todos
// @Tags         todos
// @Produce      json
// @Param        search       query     string  false  "Title substring (case-insensitive)"
// @Param        title        query     string  false  "Title substring (case-insensitive), overrides search"
// @Param        description  query     string  false  "Description substring (case-insensitive)"
// @Param        completed    query     string  false  "true or false"
// @Success      200  {array}   dto.TodoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	var q dto.ListTodosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithErrors(c, http.StatusBadRequest, bindingMessages(err)...)
		return
	}
	filter, msgs := filterFromQuery(c, q)
	if len(msgs) > 0 {
		abortWithErrors(c, http.StatusBadRequest, msgs...)
		return
	}

	list, err := h.svc.Find(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, todosToResponses(list))
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Update godoc
// @Summary      Update a todo
// @Description  Completed todos are frozen and reject every update.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Partial update"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todos/{id} [patch]
func (h *TodoHandler) Update(c *gin.Context) {
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithErrors(c, http.StatusBadRequest, bindingMessages(err)...)
		return
	}

	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), dom.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Param        id   path  string  true  "Todo ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail maps a service error to a status code. Internal details only go to the log.
func (h *TodoHandler) fail(c *gin.Context, err error) {
	kind := dom.KindOf(err)
	switch kind {
	case dom.KindValidation, dom.KindImmutable:
		h.log.WithField("kind", kind.String()).Debug(err.Error())
		abortWithErrors(c, http.StatusBadRequest, err.Error())
	case dom.KindNotFound:
		h.log.WithField("kind", kind.String()).Debug(err.Error())
		abortWithErrors(c, http.StatusNotFound, err.Error())
	default:
		h.log.WithError(err).
			WithField("method", c.Request.Method).
			WithField("path", c.FullPath()).
			Error("todo request failed")
		abortWithErrors(c, http.StatusInternalServerError, msgInternal)
	}
}

func filterFromQuery(c *gin.Context, q dto.ListTodosQuery) (dom.TodoFilter, []string) {
	var f dom.TodoFilter
	switch {
	case q.Title != "":
		f.Title = dom.StringPtr(q.Title)
	case q.Search != "":
		f.Title = dom.StringPtr(q.Search)
	}
	if q.Description != "" {
		f.Description = dom.StringPtr(q.Description)
	}
	if _, present := c.GetQuery("completed"); present {
		switch q.Completed {
		case "true":
			f.Completed = dom.BoolPtr(true)
		case "false":
			f.Completed = dom.BoolPtr(false)
		default:
			return f, []string{msgCompletedQuery}
		}
	}
	return f, nil
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}
