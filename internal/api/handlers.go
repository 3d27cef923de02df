// Package api exposes the HTTP surface: live interview lifecycle, report
// and roadmap synthesis, preparation tooling, and user accounts.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/analytics"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/ats"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/auth"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/evaluate"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/interview"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/models"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/plan"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/report"
)

// Handler wires HTTP routes to the domain services.
type Handler struct {
	interviews *interview.Service
	reports    *report.Synthesizer
	plans      *plan.Generator
	evaluator  *evaluate.Evaluator
	atsScorer  *ats.Scorer
	analytics  *analytics.Service
	auth       *auth.Service
	logger     *zap.Logger
}

func NewHandler(
	interviews *interview.Service,
	reports *report.Synthesizer,
	plans *plan.Generator,
	evaluator *evaluate.Evaluator,
	atsScorer *ats.Scorer,
	analyticsService *analytics.Service,
	authService *auth.Service,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		interviews: interviews,
		reports:    reports,
		plans:      plans,
		evaluator:  evaluator,
		atsScorer:  atsScorer,
		analytics:  analyticsService,
		auth:       authService,
		logger:     logger,
	}
}

// RegisterRoutes attaches all HTTP routes to the router. Live interview
// routes accept anonymous callers; analytics routes require a token.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/users/register", h.registerUser)
	api.POST("/users/login", h.loginUser)
	api.POST("/users/logout", h.auth.Required(), h.logoutUser)

	live := api.Group("/interviews/live")
	live.Use(h.auth.Optional())
	live.POST("/start", h.startInterview)
	live.POST("/:id/submit", h.submitAnswer)
	live.POST("/:id/end", h.endInterview)
	live.GET("/:id/turns", h.getTurns)

	reports := api.Group("/reports")
	reports.Use(h.auth.Optional())
	reports.GET("/:id", h.getReport)
	reports.GET("/:id/roadmap", h.getRoadmap)

	api.POST("/interviews/plan/generate", h.generatePlan)
	api.POST("/answers/evaluate", h.evaluateAnswer)
	api.POST("/ats/score", h.scoreResume)

	analyticsRoutes := api.Group("/analytics")
	analyticsRoutes.Use(h.auth.Required())
	analyticsRoutes.GET("/history", h.getHistory)
	analyticsRoutes.GET("/skill-progress", h.getSkillProgress)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) registerUser(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"created_at": user.CreatedAt,
	})
}

func (h *Handler) loginUser(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"auth_token": token,
	})
}

func (h *Handler) logoutUser(c *gin.Context) {
	if token, ok := auth.AuthTokenFromContext(c); ok {
		if err := h.auth.RevokeToken(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.Status(http.StatusNoContent)
}

type startInterviewRequest struct {
	ResumeText      string `json:"resume_text"`
	TargetRole      string `json:"target_role"`
	Difficulty      string `json:"difficulty"`
	PersonalityMode string `json:"personality_mode"`
	MaxQuestions    int    `json:"max_questions"`
}

func (h *Handler) startInterview(c *gin.Context) {
	var req startInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var userID *int64
	if id, ok := auth.UserIDFromContext(c); ok && id > 0 {
		userID = &id
	}

	result, err := h.interviews.Start(c.Request.Context(), userID, interview.StartRequest{
		ResumeText:      req.ResumeText,
		TargetRole:      req.TargetRole,
		Difficulty:      models.Difficulty(req.Difficulty),
		PersonalityMode: models.PersonalityMode(req.PersonalityMode),
		MaxQuestions:    req.MaxQuestions,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"interview_id":   result.Session.ID,
		"question":       result.FirstQuestion,
		"question_index": result.QuestionIndex,
		"status":         result.Session.Status,
	})
}

type submitAnswerRequest struct {
	Answer string `json:"answer"`
}

func (h *Handler) submitAnswer(c *gin.Context) {
	sessionID, ok := h.pathSessionID(c)
	if !ok {
		return
	}
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	callerID, _ := auth.UserIDFromContext(c)
	result, err := h.interviews.Submit(c.Request.Context(), callerID, sessionID, req.Answer)
	if err != nil {
		h.interviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"interview_id":   result.SessionID,
		"question":       result.NextQuestion,
		"question_index": result.QuestionIndex,
		"is_follow_up":   result.IsFollowUp,
	})
}

func (h *Handler) endInterview(c *gin.Context) {
	sessionID, ok := h.pathSessionID(c)
	if !ok {
		return
	}
	callerID, _ := auth.UserIDFromContext(c)
	result, err := h.interviews.End(c.Request.Context(), callerID, sessionID)
	if err != nil {
		h.interviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"interview_id": result.SessionID,
		"status":       result.Status,
		"total_turns":  result.TotalTurns,
		"ended_at":     result.EndedAt,
	})
}

func (h *Handler) getTurns(c *gin.Context) {
	sessionID, ok := h.pathSessionID(c)
	if !ok {
		return
	}
	callerID, _ := auth.UserIDFromContext(c)
	session, turns, err := h.interviews.Transcript(c.Request.Context(), callerID, sessionID)
	if err != nil {
		h.interviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"interview_id":   session.ID,
		"status":         session.Status,
		"question_index": session.QuestionIndex,
		"turns":          turns,
	})
}

func (h *Handler) getReport(c *gin.Context) {
	session, turns, ok := h.loadTranscript(c)
	if !ok {
		return
	}
	rep := h.reports.GenerateReport(c.Request.Context(), session, turns)
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) getRoadmap(c *gin.Context) {
	session, turns, ok := h.loadTranscript(c)
	if !ok {
		return
	}
	rep := h.reports.GenerateReport(c.Request.Context(), session, turns)
	roadmap := h.reports.GenerateRoadmap(c.Request.Context(), rep)
	c.JSON(http.StatusOK, roadmap)
}

type generatePlanRequest struct {
	TargetRole string `json:"target_role"`
	Difficulty string `json:"difficulty"`
}

func (h *Handler) generatePlan(c *gin.Context) {
	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.TargetRole = strings.TrimSpace(req.TargetRole)
	if req.TargetRole == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_role is required"})
		return
	}
	difficulty := models.Difficulty(req.Difficulty)
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}
	if !models.ValidDifficulty(difficulty) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid difficulty"})
		return
	}
	c.JSON(http.StatusOK, h.plans.Generate(c.Request.Context(), req.TargetRole, difficulty))
}

type evaluateAnswerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (h *Handler) evaluateAnswer(c *gin.Context) {
	var req evaluateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question and answer are required"})
		return
	}
	c.JSON(http.StatusOK, h.evaluator.Evaluate(c.Request.Context(), req.Question, req.Answer))
}

type scoreResumeRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

func (h *Handler) scoreResume(c *gin.Context) {
	var req scoreResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobDescription) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resume_text and job_description are required"})
		return
	}
	c.JSON(http.StatusOK, h.atsScorer.Score(c.Request.Context(), req.ResumeText, req.JobDescription))
}

func (h *Handler) getHistory(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok || userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	items, err := h.analytics.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if items == nil {
		items = []analytics.HistoryItem{}
	}
	c.JSON(http.StatusOK, gin.H{"history": items})
}

func (h *Handler) getSkillProgress(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok || userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	summary, err := h.analytics.SkillProgress(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// loadTranscript resolves the path id and ownership for report endpoints.
func (h *Handler) loadTranscript(c *gin.Context) (*models.InterviewSession, []models.Turn, bool) {
	sessionID, ok := h.pathSessionID(c)
	if !ok {
		return nil, nil, false
	}
	callerID, _ := auth.UserIDFromContext(c)
	session, turns, err := h.interviews.Transcript(c.Request.Context(), callerID, sessionID)
	if err != nil {
		h.interviewError(c, err)
		return nil, nil, false
	}
	return session, turns, true
}

func (h *Handler) pathSessionID(c *gin.Context) (int64, bool) {
	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || sessionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interview id"})
		return 0, false
	}
	return sessionID, true
}

// interviewError maps service errors onto HTTP statuses.
func (h *Handler) interviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "interview not found"})
	case errors.Is(err, interview.ErrSessionEnded):
		c.JSON(http.StatusBadRequest, gin.H{"error": "interview already ended"})
	case errors.Is(err, interview.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your interview"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
