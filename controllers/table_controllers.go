package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/clubsantiago/sistema-billar/models"
	"github.com/clubsantiago/sistema-billar/services"
	"github.com/clubsantiago/sistema-billar/utils"
)

type TableController struct {
	Service *services.TableService
}

func NewTableController(svc *services.TableService) *TableController {
	return &TableController{Service: svc}
}

// CreateTable -> POST /tables/
func (tc *TableController) CreateTable(c *gin.Context) {
	var req models.TableCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, bindError(err))
		return
	}

	table, err := tc.Service.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, table)
}

// GetAllTables -> GET /tables/?skip=&limit=&status=
func (tc *TableController) GetAllTables(c *gin.Context) {
	skip, err := queryInt(c, "skip")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidQuery)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidQuery)
		return
	}

	tables, err := tc.Service.List(c.Request.Context(), services.ListParams{
		Skip:   skip,
		Limit:  limit,
		Status: c.Query("status"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// GetTableByID -> GET /tables/:id
func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := tableID(c)
	if !ok {
		return
	}
	table, err := tc.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// UpdateTable -> PATCH /tables/:id with any subset of name, type, status
// and current_session_id. An explicit null clears the session id.
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, ok := tableID(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var req models.TableUpdate
	if err := binding.JSON.BindBody(body, &req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, bindError(err))
		return
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		if v, present := fields["current_session_id"]; present && string(v) == "null" {
			req.ClearSession = true
		}
	}

	table, err := tc.Service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// DeleteTable -> DELETE /tables/:id
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := tableID(c)
	if !ok {
		return
	}
	if err := tc.Service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": id})
}

// GetTableStats -> GET /tables/stats
func (tc *TableController) GetTableStats(c *gin.Context) {
	stats, err := tc.Service.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func tableID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

// queryInt returns 0 for an absent parameter.
func queryInt(c *gin.Context, key string) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
