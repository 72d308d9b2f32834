package handlers

import (
	"net/http"
	"strconv"

	"github.com/xoqon2003/bot/internal/services"

	"github.com/gin-gonic/gin"
)

// ContestHandler exposes read-only contest state for ops dashboards.
type ContestHandler struct {
	contest *services.ContestService
}

func NewContestHandler(contest *services.ContestService) *ContestHandler {
	return &ContestHandler{contest: contest}
}

func chatID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid chat id"})
		return 0, false
	}
	return id, true
}

func (h *ContestHandler) GetContest(c *gin.Context) {
	id, ok := chatID(c)
	if !ok {
		return
	}
	rec, _ := h.contest.Status(id)
	c.JSON(http.StatusOK, rec)
}

func (h *ContestHandler) GetLeaderboard(c *gin.Context) {
	id, ok := chatID(c)
	if !ok {
		return
	}
	rec, text := h.contest.Status(id)
	c.JSON(http.StatusOK, gin.H{
		"active": rec.Active,
		"end_ts": rec.EndTS,
		"text":   text,
	})
}
