package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/hackrx/llm-atlas/api/http/presenter"
	"github.com/hackrx/llm-atlas/pkg/ingest"
	"github.com/hackrx/llm-atlas/pkg/query"
)

type RunHandler struct {
	uc query.UseCase
}

func NewRunHandler(uc query.UseCase) *RunHandler { return &RunHandler{uc: uc} }

type runRequest struct {
	// URL to a single PDF or DOCX document.
	Documents string `json:"documents"`
	// List of questions to answer against the document.
	Questions []string `json:"questions"`
}

// Run indexes the submitted document (if not already indexed) and answers the
// questions against it.
// @Summary Submit a document and questions, receive answers
// @Description Downloads the document at the given URL, indexes it into the Atlas vector collection on first sight, and answers all questions in one batched LLM call.
// @Tags    run
// @Accept  json
// @Produce json
// @Param   input body runRequest true "document URL + questions"
// @Security BearerAuth
// @Success 200 {object} presenter.AnswersResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /api/v1/hackrx/run [post]
func (h *RunHandler) Run(c *fiber.Ctx) error {
	var req runRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Documents) == "" {
		return presenter.Error(c, http.StatusBadRequest, "documents is required and must be a document URL")
	}
	questions := make([]string, 0, len(req.Questions))
	for _, q := range req.Questions {
		if s := strings.TrimSpace(q); s != "" {
			questions = append(questions, s)
		}
	}
	if len(questions) == 0 {
		return presenter.Error(c, http.StatusBadRequest, "questions must contain at least one non-empty entry")
	}

	answers, err := h.uc.Run(c.Context(), req.Documents, questions)
	if err != nil {
		if errors.Is(err, ingest.ErrBadDocument) {
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		}
		logrus.WithError(err).Error("run submission failed")
		return presenter.Error(c, http.StatusInternalServerError, "an internal error occurred: "+err.Error())
	}
	return presenter.JSON(c, http.StatusOK, presenter.AnswersResponse{Answers: answers})
}
