// records.go - Activity record CRUD, scoped like the journal

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-journal-backend/middleware"
	"go-journal-backend/models"
	"go-journal-backend/mqtt"
)

// RecordInput has no required fields; an empty record is accepted.
type RecordInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	Date        string      `json:"date"`
	Tags        models.Tags `json:"tags"`
}

func (h *Handler) addRecord(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	var input RecordInput
	if err := bindJSON(c, &input, ""); err != nil {
		h.fail(c, err, "")
		return
	}

	rec, err := h.records.Create(c.Request.Context(), userID, models.ActivityRecord{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Date:        input.Date,
		Tags:        input.Tags,
	})
	if err != nil {
		h.fail(c, err, "Error saving record")
		return
	}

	h.publish(c, mqtt.KindRecord, mqtt.ActionCreated, userID, rec.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Record saved successfully!", "record": rec})
}

func (h *Handler) listRecords(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	recs, err := h.records.List(c.Request.Context(), userID, models.Tags(c.QueryArray("tag")))
	if err != nil {
		h.fail(c, err, "Error fetching records")
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) getRecord(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	rec, err := h.records.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Error fetching record")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) updateRecord(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	var patch models.RecordPatch
	if err := bindJSON(c, &patch, ""); err != nil {
		h.fail(c, err, "")
		return
	}

	rec, err := h.records.Update(c.Request.Context(), userID, c.Param("id"), patch)
	if err != nil {
		h.fail(c, err, "Error updating record")
		return
	}

	h.publish(c, mqtt.KindRecord, mqtt.ActionUpdated, userID, rec.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Record updated successfully", "record": rec})
}

func (h *Handler) deleteRecord(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	id := c.Param("id")
	if err := h.records.Delete(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err, "Error deleting record")
		return
	}

	h.publish(c, mqtt.KindRecord, mqtt.ActionDeleted, userID, id)
	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}
